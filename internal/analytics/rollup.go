package analytics

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Period is a date window applied to the date-series view of a summary.
// The zero value means "all time".
type Period struct {
	Days int
}

// All is the unbounded period.
var All = Period{}

// ParsePeriod interprets a period parameter: "7d", "30d", "90d", "all", or
// a bare day count. Anything unrecognized is treated as "all"; the read
// path stays permissive.
func ParsePeriod(s string) Period {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return All
	case "7d":
		return Period{Days: 7}
	case "30d":
		return Period{Days: 30}
	case "90d":
		return Period{Days: 90}
	}

	if days, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(s), "d")); err == nil && days > 0 {
		return Period{Days: days}
	}

	return All
}

// BreakdownEntry is one row of a top-N breakdown view.
type BreakdownEntry struct {
	Key    string `json:"key"`
	Clicks int    `json:"clicks"`
}

// Options controls a roll-up: the period filter, the size of each top-N
// view, and the link count for the per-link average (0 to omit it).
type Options struct {
	Period Period

	// AsOf anchors "today" for the period filter; zero means time.Now.
	AsOf time.Time

	TopBrowsers  int
	TopCountries int
	TopCities    int
	TopReferrers int

	LinkCount int
}

// Summary is the merged, derived view over one or more records.
type Summary struct {
	TotalClicks          int     `json:"totalClicks"`
	UniqueVisitors       int     `json:"uniqueVisitors"`
	ClickGrowth          float64 `json:"clickGrowth"`
	AverageClicksPerDay  float64 `json:"averageClicksPerDay"`
	AverageClicksPerLink float64 `json:"averageClicksPerLink,omitempty"`

	ClicksByDate []DatePoint `json:"clicksByDate"`
	ClicksByHour [24]int     `json:"clicksByHour"`
	ClicksByDay  [7]int      `json:"clicksByDay"`

	Devices      DeviceBreakdown  `json:"deviceBreakdown"`
	TopBrowsers  []BreakdownEntry `json:"topBrowsers"`
	OSBreakdown  map[string]int   `json:"osBreakdown"`
	TopCountries []BreakdownEntry `json:"topCountries"`
	TopCities    []BreakdownEntry `json:"topCities"`
	TopReferrers []BreakdownEntry `json:"topReferrers"`
}

// RollUp merges records into a single summary. The merge is associative and
// commutative: the result does not depend on record order (top-N order may
// differ on true count ties, which carry no contract).
//
// The period filter narrows only the date series and the per-day average.
// Hour, weekday, device, and breakdown aggregates always cover all time.
func RollUp(records []*Record, opts Options) *Summary {
	summary := &Summary{
		OSBreakdown: make(map[string]int),
	}

	dateTotals := make(map[string]int)
	browsers := make(map[string]int)
	countries := make(map[string]int)
	cities := make(map[string]int)
	referrers := make(map[string]int)

	for _, rec := range records {
		if rec == nil {
			continue
		}

		summary.TotalClicks += rec.TotalClicks
		summary.UniqueVisitors += rec.UniqueVisitors

		for _, point := range rec.ClicksByDate {
			dateTotals[point.Date] += point.Clicks
		}

		for i, clicks := range rec.ClicksByHour {
			summary.ClicksByHour[i] += clicks
		}

		for i, clicks := range rec.ClicksByDay {
			summary.ClicksByDay[i] += clicks
		}

		summary.Devices.Mobile += rec.Devices.Mobile
		summary.Devices.Desktop += rec.Devices.Desktop
		summary.Devices.Tablet += rec.Devices.Tablet
		summary.Devices.Other += rec.Devices.Other

		addCounts(browsers, rec.Browsers)
		addCounts(summary.OSBreakdown, rec.OSes)
		addCounts(countries, rec.Countries)
		addCounts(cities, rec.Cities)
		addCounts(referrers, rec.Referrers)
	}

	series := dateSeries(dateTotals)
	series = filterSince(series, opts.Period, opts.AsOf)

	summary.ClicksByDate = series
	summary.ClickGrowth = clickGrowth(series)
	summary.AverageClicksPerDay = averagePerDay(series)

	if opts.LinkCount > 0 {
		summary.AverageClicksPerLink = float64(summary.TotalClicks) / float64(opts.LinkCount)
	}

	summary.TopBrowsers = topEntries(browsers, opts.TopBrowsers)
	summary.TopCountries = topEntries(countries, opts.TopCountries)
	summary.TopCities = topEntries(cities, opts.TopCities)
	summary.TopReferrers = topEntries(referrers, opts.TopReferrers)

	return summary
}

func addCounts(dst, src map[string]int) {
	for key, clicks := range src {
		dst[key] += clicks
	}
}

func dateSeries(totals map[string]int) []DatePoint {
	series := make([]DatePoint, 0, len(totals))
	for date, clicks := range totals {
		series = append(series, DatePoint{Date: date, Clicks: clicks})
	}

	// YYYY-MM-DD sorts chronologically as a string
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })

	return series
}

func filterSince(series []DatePoint, period Period, asOf time.Time) []DatePoint {
	if period.Days <= 0 {
		return series
	}

	if asOf.IsZero() {
		asOf = time.Now()
	}

	cutoff := asOf.UTC().AddDate(0, 0, -period.Days).Format(DateLayout)

	filtered := make([]DatePoint, 0, len(series))
	for _, point := range series {
		if point.Date >= cutoff {
			filtered = append(filtered, point)
		}
	}

	return filtered
}

// growthWindow is the number of date entries compared on each side when
// deriving click growth.
const growthWindow = 7

// clickGrowth is the percent change between the most recent seven date
// entries and the seven before that. A previous window of zero clicks
// reads as 100% growth when the recent window has any, 0 otherwise.
func clickGrowth(series []DatePoint) float64 {
	if len(series) < 2 {
		return 0
	}

	recentStart := len(series) - growthWindow
	if recentStart < 0 {
		recentStart = 0
	}

	previousStart := recentStart - growthWindow
	if previousStart < 0 {
		previousStart = 0
	}

	recent := sumClicks(series[recentStart:])
	previous := sumClicks(series[previousStart:recentStart])

	if previous == 0 {
		if recent > 0 {
			return 100
		}

		return 0
	}

	return float64(recent-previous) / float64(previous) * 100
}

func sumClicks(series []DatePoint) int {
	total := 0
	for _, point := range series {
		total += point.Clicks
	}

	return total
}

func averagePerDay(series []DatePoint) float64 {
	if len(series) == 0 {
		return 0
	}

	return float64(sumClicks(series)) / float64(len(series))
}

func topEntries(counts map[string]int, n int) []BreakdownEntry {
	entries := make([]BreakdownEntry, 0, len(counts))
	for key, clicks := range counts {
		entries = append(entries, BreakdownEntry{Key: key, Clicks: clicks})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Clicks > entries[j].Clicks })

	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}

	return entries
}
