package visitor

import (
	"strings"

	"github.com/mileusna/useragent"
)

// Device categories used by the analytics breakdowns.
const (
	DeviceMobile  = "mobile"
	DeviceDesktop = "desktop"
	DeviceTablet  = "tablet"
	DeviceOther   = "other"
)

// Unknown is the fallback value for browser, OS, country, and city.
const Unknown = "Unknown"

// Profile describes a classified visitor.
type Profile struct {
	Device  string
	Browser string
	OS      string
	Country string
	City    string
}

// Classifier turns a raw user-agent and IP address into a Profile.
// Classification is deterministic and never performs network I/O.
type Classifier struct {
	geo GeoResolver
}

// NewClassifier creates a classifier backed by the given geo resolver.
func NewClassifier(geo GeoResolver) *Classifier {
	return &Classifier{geo: geo}
}

// Classify parses the user-agent and resolves the IP to a location.
// An unparseable user-agent yields {other, Unknown, Unknown}; a geo miss
// yields Unknown country and city.
func (c *Classifier) Classify(rawUA, ip string) Profile {
	profile := Profile{
		Device:  DeviceOther,
		Browser: Unknown,
		OS:      Unknown,
		Country: Unknown,
		City:    Unknown,
	}

	ua := useragent.Parse(rawUA)
	if ua.Name != "" || ua.OS != "" || ua.Device != "" {
		profile.Device = classifyDevice(ua)

		if ua.Name != "" {
			profile.Browser = ua.Name
		}

		if ua.OS != "" {
			profile.OS = ua.OS
		}
	}

	if country, city, ok := c.geo.Lookup(ip); ok {
		if country != "" {
			profile.Country = country
		}

		if city != "" {
			profile.City = city
		}
	}

	return profile
}

// classifyDevice maps a parsed user-agent to a device category. A
// recognized but unfamiliar device string counts as desktop: real traffic
// without a mobile or tablet marker is overwhelmingly desktop browsers.
func classifyDevice(ua useragent.UserAgent) string {
	device := strings.ToLower(ua.Device)

	switch {
	case strings.Contains(device, "iphone"),
		strings.Contains(device, "android"),
		strings.Contains(device, "mobile"),
		ua.Mobile:
		return DeviceMobile
	case strings.Contains(device, "ipad"),
		strings.Contains(device, "tablet"),
		ua.Tablet:
		return DeviceTablet
	default:
		return DeviceDesktop
	}
}
