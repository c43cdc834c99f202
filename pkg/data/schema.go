package data

// Schema names the dataset columns the report reads. Names are matched exactly.
type Schema struct {
	Rating         string
	Votes          string
	PriceRange     string
	OnlineDelivery string
	City           string
	Cuisines       string
	CostForTwo     string
}

// DefaultSchema returns the column names of the restaurant listings export.
func DefaultSchema() Schema {
	return Schema{
		Rating:         "Aggregate rating",
		Votes:          "Votes",
		PriceRange:     "Price range",
		OnlineDelivery: "Has Online delivery",
		City:           "City",
		Cuisines:       "Cuisines",
		CostForTwo:     "Average Cost for two",
	}
}

// Merge returns s with every empty field taken from base.
func (s Schema) Merge(base Schema) Schema {
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	return Schema{
		Rating:         pick(s.Rating, base.Rating),
		Votes:          pick(s.Votes, base.Votes),
		PriceRange:     pick(s.PriceRange, base.PriceRange),
		OnlineDelivery: pick(s.OnlineDelivery, base.OnlineDelivery),
		City:           pick(s.City, base.City),
		Cuisines:       pick(s.Cuisines, base.Cuisines),
		CostForTwo:     pick(s.CostForTwo, base.CostForTwo),
	}
}
