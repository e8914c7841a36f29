package domain

import "time"

// RecordLineItem is one billable entry frozen into a finished booking.
type RecordLineItem struct {
	Key            string `json:"key"`
	Label          string `json:"label"`
	PriceCents     int64  `json:"price_cents"`
	Scope          string `json:"scope"`
	PassengerIndex int    `json:"passenger_index"`
}

// BookingRecord is the finalized snapshot persisted on confirmation.
// Records are independent JSON documents keyed by Reference; there is no
// schema versioning.
type BookingRecord struct {
	Reference      string           `json:"reference"`
	BookedAt       time.Time        `json:"booked_at"`
	Search         Search           `json:"search"`
	OutboundFlight *FlightSelection `json:"outbound_flight,omitempty"`
	ReturnFlight   *FlightSelection `json:"return_flight,omitempty"`
	Passengers     []Passenger      `json:"passengers"`
	Assistance     *Assistance      `json:"assistance,omitempty"`
	Items          []RecordLineItem `json:"items"`
	TotalCents     int64            `json:"total_cents"`
}
