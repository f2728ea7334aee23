package geo

import (
	"fmt"
	"net/url"

	"github.com/bookadzone/launch-api/internal/domain"
)

// provider pairs a lookup endpoint with a normalizer for its response shape.
// Normalizers are pure functions so each can be tested without network access.
type provider struct {
	name      string
	url       func(ip string) string
	normalize func(payload map[string]any) (domain.Location, bool)
}

func defaultProviders() []provider {
	return []provider{
		{
			name: "ipapi",
			url: func(ip string) string {
				return fmt.Sprintf("https://ipapi.co/%s/json/", url.PathEscape(ip))
			},
			normalize: normalizeIPAPI,
		},
		{
			name: "ipwhois",
			url: func(ip string) string {
				return fmt.Sprintf("https://ipwhois.app/json/%s", url.PathEscape(ip))
			},
			normalize: normalizeIPWhois,
		},
	}
}

// normalizeIPAPI maps an ipapi.co response to the canonical location record.
func normalizeIPAPI(payload map[string]any) (domain.Location, bool) {
	if payload == nil {
		return domain.Location{}, false
	}

	city := pickString(payload, "city")
	country := pickString(payload, "country_name", "country")
	if city == "" && country == "" {
		return domain.Location{}, false
	}

	loc := domain.UnknownLocation()
	setIfPresent(&loc.City, city)
	setIfPresent(&loc.Region, pickString(payload, "region", "region_name", "regionName"))
	setIfPresent(&loc.Country, country)
	setIfPresent(&loc.ISP, pickString(payload, "org", "isp"))
	loc.Lat = pickFloat(payload, "latitude", "lat")
	loc.Lon = pickFloat(payload, "longitude", "lon")
	return loc, true
}

// normalizeIPWhois maps an ipwhois.app response, which sometimes nests fields
// under a "data" object, to the canonical location record.
func normalizeIPWhois(payload map[string]any) (domain.Location, bool) {
	if payload == nil {
		return domain.Location{}, false
	}

	nested, _ := payload["data"].(map[string]any)

	city := firstNonEmpty(pickString(payload, "city"), pickString(nested, "city"))
	country := firstNonEmpty(
		pickString(payload, "country", "country_name"),
		pickString(nested, "country"),
	)
	if city == "" && country == "" {
		return domain.Location{}, false
	}

	loc := domain.UnknownLocation()
	setIfPresent(&loc.City, city)
	setIfPresent(&loc.Region, firstNonEmpty(
		pickString(payload, "region", "region_name"),
		pickString(nested, "region"),
	))
	setIfPresent(&loc.Country, country)
	setIfPresent(&loc.ISP, firstNonEmpty(
		pickString(payload, "isp", "org"),
		pickString(nested, "isp", "org"),
	))
	loc.Lat = firstFloat(pickFloat(payload, "latitude", "lat"), pickFloat(nested, "latitude", "lat"))
	loc.Lon = firstFloat(pickFloat(payload, "longitude", "lon"), pickFloat(nested, "longitude", "lon"))
	return loc, true
}

func pickString(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		if val, ok := payload[key].(string); ok && val != "" {
			return val
		}
	}
	return ""
}

func pickFloat(payload map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		switch val := payload[key].(type) {
		case float64:
			v := val
			return &v
		case int:
			v := float64(val)
			return &v
		}
	}
	return nil
}

func setIfPresent(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

func firstNonEmpty(vals ...string) string {
	for _, val := range vals {
		if val != "" {
			return val
		}
	}
	return ""
}

func firstFloat(vals ...*float64) *float64 {
	for _, val := range vals {
		if val != nil {
			return val
		}
	}
	return nil
}
