package analytics

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/serroba/linkdeck/internal/visitor"
)

// DateLayout is the calendar-day key used by the date series.
const DateLayout = "2006-01-02"

// ReferrerDirect is the referrer bucket for visits without a Referer header.
const ReferrerDirect = "direct"

// ErrNotFound is returned when no analytics record exists for a link.
var ErrNotFound = errors.New("analytics record not found")

// DatePoint is one calendar day of the click series.
type DatePoint struct {
	Date   string `json:"date"`
	Clicks int    `json:"clicks"`
}

// DeviceBreakdown counts clicks per device category.
type DeviceBreakdown struct {
	Mobile  int `json:"mobile"`
	Desktop int `json:"desktop"`
	Tablet  int `json:"tablet"`
	Other   int `json:"other"`
}

// Record holds the running counters and rolling breakdowns for one short
// link. It is keyed by link id, created zeroed alongside the link, and
// mutated exactly once per successful redirect.
//
// Invariants, preserved by Apply:
//   - TotalClicks == sum of ClicksByDate clicks
//   - sum(ClicksByHour) == sum(ClicksByDay) == TotalClicks
//   - UniqueVisitors == len(VisitorIDs)
type Record struct {
	LinkID  string
	OwnerID string

	TotalClicks    int
	UniqueVisitors int

	ClicksByDate []DatePoint // one entry per day that ever had a click
	ClicksByHour [24]int     // hour-of-day, all time
	ClicksByDay  [7]int      // weekday, 0=Sunday

	Devices   DeviceBreakdown
	Browsers  map[string]int
	OSes      map[string]int
	Countries map[string]int
	Cities    map[string]int
	Referrers map[string]int

	// VisitorIDs is every distinct visitor token ever seen for this link.
	// Membership test only; it never shrinks.
	VisitorIDs map[string]struct{}
}

// NewRecord constructs a zeroed record for a link.
func NewRecord(linkID, ownerID string) *Record {
	return &Record{
		LinkID:     linkID,
		OwnerID:    ownerID,
		Browsers:   make(map[string]int),
		OSes:       make(map[string]int),
		Countries:  make(map[string]int),
		Cities:     make(map[string]int),
		Referrers:  make(map[string]int),
		VisitorIDs: make(map[string]struct{}),
	}
}

// Click is one classified visit, ready to be applied to a record.
type Click struct {
	VisitorID string
	At        time.Time
	Profile   visitor.Profile
	Referrer  string // hostname, or "direct"
}

// Apply folds one click into the record as a single unit: every counter
// and breakdown moves together, so the record invariants hold after
// every call.
func (r *Record) Apply(c Click) {
	if c.VisitorID != "" {
		if _, seen := r.VisitorIDs[c.VisitorID]; !seen {
			r.VisitorIDs[c.VisitorID] = struct{}{}
			r.UniqueVisitors++
		}
	}

	r.TotalClicks++

	at := c.At.UTC()
	r.upsertDate(at.Format(DateLayout))
	r.ClicksByHour[at.Hour()]++
	r.ClicksByDay[int(at.Weekday())]++

	switch c.Profile.Device {
	case visitor.DeviceMobile:
		r.Devices.Mobile++
	case visitor.DeviceTablet:
		r.Devices.Tablet++
	case visitor.DeviceDesktop:
		r.Devices.Desktop++
	default:
		r.Devices.Other++
	}

	bump(r.Browsers, c.Profile.Browser)
	bump(r.OSes, c.Profile.OS)
	bump(r.Countries, c.Profile.Country)
	bump(r.Cities, c.Profile.City)

	referrer := c.Referrer
	if referrer == "" {
		referrer = ReferrerDirect
	}

	bump(r.Referrers, referrer)
}

// upsertDate increments today's entry, appending a new one the first time a
// day sees a click. Entries stay unique by date.
func (r *Record) upsertDate(date string) {
	for i := range r.ClicksByDate {
		if r.ClicksByDate[i].Date == date {
			r.ClicksByDate[i].Clicks++
			return
		}
	}

	r.ClicksByDate = append(r.ClicksByDate, DatePoint{Date: date, Clicks: 1})
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	clone := *r
	clone.ClicksByDate = append([]DatePoint(nil), r.ClicksByDate...)
	clone.Browsers = copyCounts(r.Browsers)
	clone.OSes = copyCounts(r.OSes)
	clone.Countries = copyCounts(r.Countries)
	clone.Cities = copyCounts(r.Cities)
	clone.Referrers = copyCounts(r.Referrers)

	clone.VisitorIDs = make(map[string]struct{}, len(r.VisitorIDs))
	for id := range r.VisitorIDs {
		clone.VisitorIDs[id] = struct{}{}
	}

	return &clone
}

func bump(counts map[string]int, key string) {
	if key == "" {
		return
	}

	counts[key]++
}

func copyCounts(counts map[string]int) map[string]int {
	out := make(map[string]int, len(counts))
	for k, v := range counts {
		out[k] = v
	}

	return out
}

// ReferrerHost reduces a raw Referer header to its hostname. Absent or
// unparseable values collapse to "direct".
func ReferrerHost(referrer string) string {
	if referrer == "" {
		return ReferrerDirect
	}

	u, err := url.Parse(referrer)
	if err != nil || u.Hostname() == "" {
		return ReferrerDirect
	}

	return u.Hostname()
}

// Store defines the interface for persisting analytics records. Whole-record
// read-modify-write; no field-level update contract.
type Store interface {
	// GetOrCreate fetches the record for a link, persisting a zeroed one
	// when none exists yet.
	GetOrCreate(ctx context.Context, linkID, ownerID string) (*Record, error)

	// Get fetches the record for a link; ErrNotFound when none exists.
	Get(ctx context.Context, linkID string) (*Record, error)

	// Save persists the full record state.
	Save(ctx context.Context, record *Record) error

	// Delete removes a link's record, called when the link is deleted.
	Delete(ctx context.Context, linkID string) error

	// ListByLinkIDs returns records for the given links; links without a
	// record yet are simply absent from the result.
	ListByLinkIDs(ctx context.Context, linkIDs []string) ([]*Record, error)

	// ListByOwner returns every record for links owned by ownerID.
	ListByOwner(ctx context.Context, ownerID string) ([]*Record, error)
}
