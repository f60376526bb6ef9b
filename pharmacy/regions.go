// Package pharmacy synthesizes nearby-pharmacy data from a ZIP code. No real
// place directory backs this: a ZIP prefix resolves to a representative
// regional centroid, and a fixed roster of chains is arranged
// deterministically around it.
package pharmacy

// Coordinates is a lat/lng pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geographic center of the continental US, used when a ZIP prefix falls
// outside every defined range.
var defaultCenter = Coordinates{Lat: 39.8283, Lng: -98.5795}

// zipRegions partitions the 00-99 prefix space into contiguous bands
// (Northeast, Southeast, Midwest, South-Central, Mountain, Pacific), each
// subdivided to a representative city centroid. This is a lookup table, not
// geocoding; tests depend on the exact breakpoints.
var zipRegions = []struct {
	lo, hi int
	center Coordinates
}{
	// Northeast 00-19
	{0, 6, Coordinates{42.3601, -71.0589}},   // Boston
	{7, 14, Coordinates{40.7128, -74.0060}},  // New York
	{15, 19, Coordinates{39.9526, -75.1652}}, // Philadelphia
	// Southeast 20-39
	{20, 26, Coordinates{38.9072, -77.0369}}, // Washington DC
	{27, 31, Coordinates{33.7490, -84.3880}}, // Atlanta
	{32, 34, Coordinates{25.7617, -80.1918}}, // Miami
	{35, 39, Coordinates{36.1627, -86.7816}}, // Nashville
	// Midwest 40-69
	{40, 49, Coordinates{39.7684, -86.1581}}, // Indianapolis
	{50, 59, Coordinates{44.9778, -93.2650}}, // Minneapolis
	{60, 62, Coordinates{41.8781, -87.6298}}, // Chicago
	{63, 69, Coordinates{38.6270, -90.1994}}, // St. Louis
	// South-Central 70-79
	{70, 72, Coordinates{29.9511, -90.0715}}, // New Orleans
	{73, 74, Coordinates{35.4676, -97.5164}}, // Oklahoma City
	{75, 79, Coordinates{32.7767, -96.7970}}, // Dallas
	// Mountain 80-89
	{80, 83, Coordinates{39.7392, -104.9903}}, // Denver
	{84, 84, Coordinates{40.7608, -111.8910}}, // Salt Lake City
	{85, 86, Coordinates{33.4484, -112.0740}}, // Phoenix
	{87, 88, Coordinates{35.0844, -106.6504}}, // Albuquerque
	{89, 89, Coordinates{36.1716, -115.1391}}, // Las Vegas
	// Pacific 90-99
	{90, 93, Coordinates{34.0522, -118.2437}}, // Los Angeles
	{94, 96, Coordinates{37.7749, -122.4194}}, // San Francisco
	{97, 97, Coordinates{45.5152, -122.6784}}, // Portland
	{98, 99, Coordinates{47.6062, -122.3321}}, // Seattle
}

// CoordinatesForZip resolves a ZIP code to its regional centroid using the
// first two digits. Malformed input (too short, non-digit prefix) returns
// the continental-US default center.
func CoordinatesForZip(zip string) Coordinates {
	if len(zip) < 2 {
		return defaultCenter
	}
	d1, d2 := zip[0], zip[1]
	if d1 < '0' || d1 > '9' || d2 < '0' || d2 > '9' {
		return defaultCenter
	}
	prefix := int(d1-'0')*10 + int(d2-'0')

	for _, region := range zipRegions {
		if prefix >= region.lo && prefix <= region.hi {
			return region.center
		}
	}
	return defaultCenter
}
