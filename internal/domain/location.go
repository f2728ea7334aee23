package domain

// LocationUnknown is the sentinel value for location fields that could not be
// resolved.
const LocationUnknown = "Unknown"

// Location describes where a signup originated, resolved from the client IP
// or supplied as a hint by the browser. It has no identity of its own; it is
// embedded in the owning Signup.
type Location struct {
	City    string   `json:"city"`
	Region  string   `json:"region"`
	Country string   `json:"country"`
	ISP     string   `json:"isp"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// UnknownLocation returns a location with every field unresolved.
func UnknownLocation() Location {
	return Location{
		City:    LocationUnknown,
		Region:  LocationUnknown,
		Country: LocationUnknown,
		ISP:     LocationUnknown,
	}
}

// LocalLocation is returned for loopback addresses without consulting any
// provider.
func LocalLocation() Location {
	return Location{
		City:    "Localhost",
		Region:  "Local",
		Country: "Local",
		ISP:     LocationUnknown,
	}
}

// HasKnownCity reports whether the location carries a usable city value.
func (l Location) HasKnownCity() bool {
	return l.City != "" && l.City != LocationUnknown
}

// Usable reports whether at least the city or country resolved.
func (l Location) Usable() bool {
	return l.HasKnownCity() || (l.Country != "" && l.Country != LocationUnknown)
}
