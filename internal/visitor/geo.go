package visitor

import (
	"net"

	"github.com/oschwald/geoip2-golang"
)

// GeoResolver resolves an IP address to a country and city. Lookups must be
// local and synchronous; the redirect path never waits on an external service.
type GeoResolver interface {
	// Lookup returns the country ISO code and city name for ip. ok is false
	// when the address cannot be resolved.
	Lookup(ip string) (country, city string, ok bool)
}

// MaxMindResolver resolves IPs against a local GeoLite2/GeoIP2 city database.
type MaxMindResolver struct {
	reader *geoip2.Reader
}

// OpenMaxMindResolver opens the MaxMind database at path.
func OpenMaxMindResolver(path string) (*MaxMindResolver, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}

	return &MaxMindResolver{reader: reader}, nil
}

func (r *MaxMindResolver) Lookup(ip string) (string, string, bool) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", "", false
	}

	record, err := r.reader.City(parsed)
	if err != nil {
		return "", "", false
	}

	if record.Country.IsoCode == "" {
		return "", "", false
	}

	return record.Country.IsoCode, record.City.Names["en"], true
}

// Close releases the underlying database reader.
func (r *MaxMindResolver) Close() error {
	return r.reader.Close()
}

// Shutdown implements do.Shutdownable.
func (r *MaxMindResolver) Shutdown() error {
	return r.Close()
}

// NoopResolver is used when no GeoIP database is configured; every lookup
// misses and the classifier falls back to Unknown.
type NoopResolver struct{}

// NewNoopResolver creates a resolver that never resolves.
func NewNoopResolver() *NoopResolver {
	return &NoopResolver{}
}

func (*NoopResolver) Lookup(string) (string, string, bool) {
	return "", "", false
}
