package tablerank

import "github.com/tablerank/tablerank/internal/store"

// Restaurant is the external, client-facing representation of a directory
// entry. Rating is the running mean of all submitted ratings, 0 when none
// have been submitted.
type Restaurant struct {
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Cuisine string  `json:"cuisine"`
	Rating  float64 `json:"rating"`
}

// NewRestaurant describes a restaurant to be created. Rating is optional;
// when present it seeds the aggregate as a single submission.
type NewRestaurant struct {
	Name    string
	Region  string
	Cuisine string
	Rating  *float64
}

// record maps the external create shape to the internal store shape,
// applying the aggregate defaults: no rating means an empty aggregate, a
// supplied rating means a one-submission aggregate.
func (n NewRestaurant) record() store.Record {
	rec := store.Record{
		UniqueName: n.Name,
		GeoRegion:  n.Region,
		Cuisine:    n.Cuisine,
	}
	if n.Rating != nil {
		rec.Rating = *n.Rating
		rec.RatingCount = 1
	}
	return rec
}

// fromRecord maps the internal store shape to the external representation.
// The rating count is an implementation detail of the aggregate and is not
// exposed.
func fromRecord(rec store.Record) Restaurant {
	return Restaurant{
		Name:    rec.UniqueName,
		Region:  rec.GeoRegion,
		Cuisine: rec.Cuisine,
		Rating:  rec.Rating,
	}
}

func fromRecords(recs []store.Record) []Restaurant {
	out := make([]Restaurant, len(recs))
	for i, rec := range recs {
		out[i] = fromRecord(rec)
	}
	return out
}
