// Package collect gathers the external market signals feeding a viability
// verdict: demand text, wholesale sourcing text, indirect tax rate, and
// scraped unit prices. Collectors absorb their own failures and report
// fallback usage through model.Outcome instead of raising.
package collect

import (
	"strings"

	"github.com/sells-group/viability-cli/internal/model"
)

// marketplaceRegions maps a search geolocation code to the marketplace
// country code. Amazon wants "GB" where Google wants "uk".
var marketplaceRegions = map[string]string{
	"uk": "GB",
	"gb": "GB",
	"in": "IN",
}

// MarketplaceRegion returns the marketplace country code for a profile.
func MarketplaceRegion(country model.CountryProfile) string {
	if code, ok := marketplaceRegions[strings.ToLower(country.GeoCode)]; ok {
		return code
	}
	return strings.ToUpper(country.GeoCode)
}

// shoppingGeos normalizes internal geolocation codes that differ from the
// shopping API's expectations.
var shoppingGeos = map[string]string{
	"uk": "gb",
}

// ShoppingGeo returns the shopping search geolocation code for a profile.
func ShoppingGeo(country model.CountryProfile) string {
	if code, ok := shoppingGeos[strings.ToLower(country.GeoCode)]; ok {
		return code
	}
	return strings.ToLower(country.GeoCode)
}
