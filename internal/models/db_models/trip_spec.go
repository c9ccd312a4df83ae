package db_models

// CabinClass is the flight service tier, ordered
// ECONOMY < PREMIUM_ECONOMY < BUSINESS < FIRST.
type CabinClass string

const (
	CabinEconomy        CabinClass = "ECONOMY"
	CabinPremiumEconomy CabinClass = "PREMIUM_ECONOMY"
	CabinBusiness       CabinClass = "BUSINESS"
	CabinFirst          CabinClass = "FIRST"
)

var cabinRank = map[CabinClass]int{
	CabinEconomy:        0,
	CabinPremiumEconomy: 1,
	CabinBusiness:       2,
	CabinFirst:          3,
}

func (c CabinClass) Rank() int {
	return cabinRank[c]
}

func (c CabinClass) Valid() bool {
	_, ok := cabinRank[c]
	return ok
}

// TripSpec is the structured output of intent parsing. It is serialized onto
// Trip.ParsedSpec and never mutated afterwards; dates are ISO YYYY-MM-DD
// strings, budgets are whole USD.
type TripSpec struct {
	Origin          *string    `json:"origin"`
	Destination     *string    `json:"destination"`
	DestinationCity *string    `json:"destination_city"`
	DepartDate      *string    `json:"depart_date"`
	ReturnDate      *string    `json:"return_date"`
	BudgetTotal     *int       `json:"budget_total"`
	NumTravelers    int        `json:"num_travelers"`
	CabinClass      CabinClass `json:"cabin_class"`
	HotelArea       *string    `json:"hotel_area"`
	Notes           *string    `json:"notes"`
}
