package geoip

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// Resolver wraps an offline MaxMind city database. Lookups never fail a
// request: a miss, a private address, or a closed resolver all yield ok=false.
type Resolver struct {
	db *geoip2.Reader
}

// Open loads the MaxMind database at path.
func Open(path string) (*Resolver, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	return &Resolver{db: db}, nil
}

// Lookup resolves an address to coarse geography. Country is the ISO country
// code, city the English city name; either may come back empty.
func (r *Resolver) Lookup(ip string) (country, city string, ok bool) {
	if r == nil || r.db == nil {
		return "", "", false
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", "", false
	}

	record, err := r.db.City(parsed)
	if err != nil {
		return "", "", false
	}

	country = record.Country.IsoCode
	city = record.City.Names["en"]
	return country, city, country != "" || city != ""
}

// Close releases the underlying database.
func (r *Resolver) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
