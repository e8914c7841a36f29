package domain

import "time"

type Flight struct {
	ID             int64
	Number         string
	FromAirport    string
	ToAirport      string
	DepartureTime  time.Time
	ArrivalTime    time.Time
	TotalSeats     int
	AvailableSeats int
	PriceCents     int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type FareClass string

const (
	FareClassEconomy  FareClass = "ECONOMY"
	FareClassBusiness FareClass = "BUSINESS"
	FareClassFirst    FareClass = "FIRST"
)

// FlightSelection is a flight the user picked on the results step,
// frozen with the fare class and per-seat price at selection time.
type FlightSelection struct {
	FlightID      int64     `json:"flight_id"`
	Number        string    `json:"number"`
	FromAirport   string    `json:"from_airport"`
	ToAirport     string    `json:"to_airport"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	FareClass     FareClass `json:"fare_class"`
	PriceCents    int64     `json:"price_cents"`
}
