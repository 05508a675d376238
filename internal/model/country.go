// Package model defines the request-scoped data types shared across the
// viability pipeline.
package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// CountryProfile identifies a supported target market. Profiles are
// immutable and come from the fixed registry below.
type CountryProfile struct {
	Key            string `json:"key"`             // registry key, e.g. "UK"
	FullName       string `json:"full_name"`       // e.g. "United Kingdom"
	CurrencySymbol string `json:"currency_symbol"` // e.g. "£"
	GeoCode        string `json:"geo_code"`        // search geolocation code, e.g. "uk"
	TLD            string `json:"tld"`             // e.g. "co.uk"
}

// countries is the fixed enumeration of supported markets.
var countries = []CountryProfile{
	{
		Key:            "UK",
		FullName:       "United Kingdom",
		CurrencySymbol: "£",
		// Search APIs expect "uk"; the marketplace "GB" mapping lives in
		// the price collector.
		GeoCode: "uk",
		TLD:     "co.uk",
	},
	{
		Key:            "INDIA",
		FullName:       "India",
		CurrencySymbol: "₹",
		GeoCode:        "in",
		TLD:            "in",
	},
}

// Countries returns the supported country profiles in registry order.
func Countries() []CountryProfile {
	out := make([]CountryProfile, len(countries))
	copy(out, countries)
	return out
}

// CountryByKey resolves a registry key (case-insensitive) to its profile.
func CountryByKey(key string) (CountryProfile, error) {
	k := strings.ToUpper(strings.TrimSpace(key))
	for _, c := range countries {
		if c.Key == k {
			return c, nil
		}
	}
	return CountryProfile{}, eris.Errorf("model: unsupported country %q", key)
}
