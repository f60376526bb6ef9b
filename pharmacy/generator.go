package pharmacy

import (
	"fmt"
	"math"
)

// Pharmacy is a synthesized pharmacy entry. Every field derives
// deterministically from the ZIP code and the chain index.
type Pharmacy struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Chain        string  `json:"chain"`
	Address      string  `json:"address"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Phone        string  `json:"phone"`
	Hours        string  `json:"hours"`
	HasDelivery  bool    `json:"hasDelivery"`
	HasDriveThru bool    `json:"hasDriveThru"`
}

// rosterSize pharmacies are placed evenly around a circle of ringRadius
// degrees (roughly 3-5 miles) centered on the ZIP's regional centroid.
const (
	rosterSize = 8
	ringRadius = 0.05
)

var chains = [rosterSize]string{
	"CVS Pharmacy",
	"Walgreens",
	"Walmart Pharmacy",
	"Rite Aid",
	"Kroger Pharmacy",
	"Costco Pharmacy",
	"Safeway Pharmacy",
	"Publix Pharmacy",
}

var streets = [rosterSize]string{
	"Main St",
	"Oak Ave",
	"Maple Dr",
	"Washington Blvd",
	"Park Ave",
	"Cedar Ln",
	"Elm St",
	"Market St",
}

var hoursByIndex = [rosterSize]string{
	"8am-10pm",
	"24 hours",
	"9am-9pm",
	"8am-9pm",
	"8am-10pm",
	"10am-7pm",
	"9am-8pm",
	"8am-9pm",
}

// GeneratePharmaciesForZip returns exactly rosterSize entries arranged
// around the ZIP's centroid. The function is pure: two calls with the same
// ZIP produce identical output, including per-index coordinates and feature
// flags. Delivery alternates by even index; drive-thru holds for indices
// divisible by three.
func GeneratePharmaciesForZip(zip string) []Pharmacy {
	center := CoordinatesForZip(zip)

	pharmacies := make([]Pharmacy, 0, rosterSize)
	for i := 0; i < rosterSize; i++ {
		angle := float64(i) / rosterSize * 2 * math.Pi

		pharmacies = append(pharmacies, Pharmacy{
			ID:           fmt.Sprintf("%s-%d", zip, i),
			Name:         chains[i],
			Chain:        chains[i],
			Address:      fmt.Sprintf("%d %s", (i+1)*100, streets[i]),
			Lat:          center.Lat + ringRadius*math.Cos(angle),
			Lng:          center.Lng + ringRadius*math.Sin(angle),
			Phone:        fmt.Sprintf("(555) 01%d-%04d", i, digitsOf(zip)),
			Hours:        hoursByIndex[i],
			HasDelivery:  i%2 == 0,
			HasDriveThru: i%3 == 0,
		})
	}
	return pharmacies
}

// digitsOf folds the digits of a ZIP into a stable four-digit number.
func digitsOf(zip string) int {
	n := 0
	for _, r := range zip {
		if r >= '0' && r <= '9' {
			n = (n*10 + int(r-'0')) % 10000
		}
	}
	return n
}
