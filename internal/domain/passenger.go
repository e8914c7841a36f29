package domain

import "time"

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

type Seat struct {
	ID         string    `json:"id"`
	Class      FareClass `json:"class"`
	PriceCents int64     `json:"price_cents"`
}

type BaggageOption struct {
	Selected   bool  `json:"selected"`
	WeightKg   int   `json:"weight_kg"`
	PriceCents int64 `json:"price_cents"`
}

type ExtraOption struct {
	Selected   bool  `json:"selected"`
	PriceCents int64 `json:"price_cents"`
}

type Extras struct {
	CheckedBaggage   BaggageOption `json:"checked_baggage"`
	Meals            ExtraOption   `json:"meals"`
	BaggageInsurance ExtraOption   `json:"baggage_insurance"`
}

type Passenger struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"first_name" validate:"required"`
	LastName       string    `json:"last_name" validate:"required"`
	Email          string    `json:"email" validate:"required,email"`
	Passport       string    `json:"passport" validate:"required,passport"`
	Nationality    string    `json:"nationality" validate:"required"`
	DateOfBirth    time.Time `json:"date_of_birth" validate:"required"`
	Gender         Gender    `json:"gender" validate:"required,oneof=MALE FEMALE OTHER"`
	PassportExpiry time.Time `json:"passport_expiry" validate:"required"`
	Seat           *Seat     `json:"seat,omitempty"`
	Extras         Extras    `json:"extras"`

	// AutoFilled lists field names populated by the passport scanner.
	// The UI shows a review warning per field until the user edits it;
	// validity guards never consult this set.
	AutoFilled []string `json:"auto_filled,omitempty"`
}

func (p Passenger) FullName() string {
	return p.FirstName + " " + p.LastName
}

// MarkAutoFilled records that a field came from the passport scanner.
func (p *Passenger) MarkAutoFilled(field string) {
	for _, f := range p.AutoFilled {
		if f == field {
			return
		}
	}
	p.AutoFilled = append(p.AutoFilled, field)
}

// ClearAutoFilled removes the scanner annotation after a manual edit.
func (p *Passenger) ClearAutoFilled(field string) {
	for i, f := range p.AutoFilled {
		if f == field {
			p.AutoFilled = append(p.AutoFilled[:i], p.AutoFilled[i+1:]...)
			return
		}
	}
}
