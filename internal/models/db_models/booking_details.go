package db_models

// BookingDetails is the tagged payload stored on Booking.Details. Exactly one
// of the sub-structs is set, matching the booking's Type; the external JSON
// shape is {"flight": {...}} / {"hotel": {...}} / {"activity": {...}}.
type BookingDetails struct {
	Flight   *FlightDetails   `json:"flight,omitempty"`
	Hotel    *HotelDetails    `json:"hotel,omitempty"`
	Activity *ActivityDetails `json:"activity,omitempty"`
}

type FlightDetails struct {
	Carrier         string     `json:"carrier"`
	FlightNumber    string     `json:"flight_number"`
	Origin          string     `json:"origin"`
	Destination     string     `json:"destination"`
	Cabin           CabinClass `json:"cabin"`
	DepartDatetime  string     `json:"depart_datetime"`
	ArriveDatetime  string     `json:"arrive_datetime,omitempty"`
	Stops           int        `json:"stops"`
	DurationMinutes int        `json:"duration_minutes,omitempty"`
	PriceUSD        float64    `json:"price_usd"`
}

type HotelDetails struct {
	HotelName        string  `json:"hotel_name"`
	CheckIn          string  `json:"check_in"`
	CheckOut         string  `json:"check_out"`
	RoomType         string  `json:"room_type"`
	PricePerNightUSD float64 `json:"price_per_night_usd"`
	PriceTotalUSD    float64 `json:"price_total_usd,omitempty"`
	Stars            int     `json:"stars,omitempty"`
	CityCode         string  `json:"city_code,omitempty"`
}

type ActivityDetails struct {
	ActivityName  string  `json:"activity_name"`
	Date          string  `json:"date"`
	DurationHours float64 `json:"duration_hours,omitempty"`
	Category      string  `json:"category,omitempty"`
	PriceUSD      float64 `json:"price_usd,omitempty"`
}
