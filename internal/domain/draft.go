package domain

import "time"

type TripType string

const (
	TripTypeOneWay TripType = "ONE_WAY"
	TripTypeReturn TripType = "RETURN"
)

type AssistanceTier string

const (
	AssistanceTierNormal  AssistanceTier = "NORMAL"
	AssistanceTierGold    AssistanceTier = "GOLD"
	AssistanceTierPremium AssistanceTier = "PREMIUM"
)

type Search struct {
	Origin         string     `json:"origin"`
	Destination    string     `json:"destination"`
	DepartureDate  time.Time  `json:"departure_date"`
	ReturnDate     *time.Time `json:"return_date,omitempty"`
	TripType       TripType   `json:"trip_type"`
	PassengerCount int        `json:"passenger_count"`
}

// Assistance is the single booking-wide add-on; nil on the draft means none.
type Assistance struct {
	Tier       AssistanceTier `json:"tier"`
	PriceCents int64          `json:"price_cents"`
}

type Payment struct {
	CardNumber  string `json:"card_number"`
	CardHolder  string `json:"card_holder"`
	ExpiryMonth int    `json:"expiry_month"`
	ExpiryYear  int    `json:"expiry_year"`
	CVV         string `json:"cvv"`
	Valid       bool   `json:"valid"`
}

// BookingDraft is the in-progress booking for one wizard session. A single
// session owns it; every mutation goes through the session service, which
// recomputes TotalCents. TotalCents is derived only, never set directly.
type BookingDraft struct {
	SessionID      string           `json:"session_id"`
	Search         Search           `json:"search"`
	OutboundFlight *FlightSelection `json:"outbound_flight,omitempty"`
	ReturnFlight   *FlightSelection `json:"return_flight,omitempty"`
	Passengers     []Passenger      `json:"passengers"`
	Assistance     *Assistance      `json:"assistance,omitempty"`
	Payment        *Payment         `json:"payment,omitempty"`
	TotalCents     int64            `json:"total_cents"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ResetFlights drops the flight selections and everything derived from them.
// Used when the user retreats past a structural step and the search criteria
// (or flight choice) can change, invalidating downstream selections.
func (d *BookingDraft) ResetFlights() {
	d.OutboundFlight = nil
	d.ReturnFlight = nil
}

// ResetDownstream clears passengers, seats, extras and assistance. Seat and
// extras data lives on the passengers, so dropping the slice drops it all.
func (d *BookingDraft) ResetDownstream() {
	d.Passengers = nil
	d.Assistance = nil
	d.Payment = nil
}
