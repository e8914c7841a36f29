package validation

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/Domenick1991/flightwizard/internal/domain"
	"github.com/go-playground/validator/v10"
)

var passportPattern = regexp.MustCompile(`^[A-Z0-9]{6,9}$`)

var passengerValidator = newPassengerValidator()

func newPassengerValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("passport", func(fl validator.FieldLevel) bool {
		return passportPattern.MatchString(fl.Field().String())
	})
	return v
}

// PassengerRules carries the configurable pieces of the passenger guard.
type PassengerRules struct {
	// Departure anchors the passport expiry window check.
	Departure time.Time
	// PassportGuardWindow is how far past departure a passport must stay valid.
	PassportGuardWindow time.Duration
	// LeadMinimumAge applies to the first passenger in the set.
	LeadMinimumAge int
	// Now is injectable for tests; zero means time.Now.
	Now time.Time
}

func (r PassengerRules) now() time.Time {
	if r.Now.IsZero() {
		return time.Now()
	}
	return r.Now
}

// ValidatePassenger checks a single passenger record. Field-level rules run
// through the validator tags on domain.Passenger; date rules are cross-field
// and checked here.
func ValidatePassenger(p domain.Passenger, idx int, rules PassengerRules) []Reason {
	var reasons []Reason

	if err := passengerValidator.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				reasons = append(reasons, forPassenger("field_"+fe.Tag(), jsonFieldName(fe.Field()), idx))
			}
		} else {
			reasons = append(reasons, forPassenger("invalid_record", "", idx))
		}
	}

	now := rules.now()
	if !p.DateOfBirth.IsZero() && !p.DateOfBirth.Before(now) {
		reasons = append(reasons, forPassenger("birth_date_in_future", "date_of_birth", idx))
	}
	if idx == 0 && rules.LeadMinimumAge > 0 && !p.DateOfBirth.IsZero() {
		if age(p.DateOfBirth, now) < rules.LeadMinimumAge {
			reasons = append(reasons, forPassenger("lead_passenger_underage", "date_of_birth", idx))
		}
	}
	if !p.PassportExpiry.IsZero() && !rules.Departure.IsZero() {
		if p.PassportExpiry.Before(rules.Departure.Add(rules.PassportGuardWindow)) {
			reasons = append(reasons, forPassenger("passport_expires_too_soon", "passport_expiry", idx))
		}
	}

	return reasons
}

// ValidatePassengers runs per-passenger checks and the cross-passenger
// duplicate rules: no two passengers may share a full name or a passport
// number.
func ValidatePassengers(passengers []domain.Passenger, rules PassengerRules) []Reason {
	var reasons []Reason

	for i, p := range passengers {
		reasons = append(reasons, ValidatePassenger(p, i, rules)...)
	}

	seenNames := make(map[string]int, len(passengers))
	seenPassports := make(map[string]int, len(passengers))
	for i, p := range passengers {
		name := strings.ToLower(strings.TrimSpace(p.FullName()))
		if name != "" {
			if _, dup := seenNames[name]; dup {
				reasons = append(reasons, forPassenger("duplicate_full_name", "", i))
			} else {
				seenNames[name] = i
			}
		}
		passport := strings.ToUpper(strings.TrimSpace(p.Passport))
		if passport != "" {
			if _, dup := seenPassports[passport]; dup {
				reasons = append(reasons, forPassenger("duplicate_passport", "", i))
			} else {
				seenPassports[passport] = i
			}
		}
	}

	return reasons
}

// ValidateSeats requires every passenger to hold a seat and no seat id to be
// assigned twice. Seats are scoped to a single cabin allocation.
func ValidateSeats(passengers []domain.Passenger) []Reason {
	var reasons []Reason
	seen := make(map[string]int, len(passengers))
	for i, p := range passengers {
		if p.Seat == nil || p.Seat.ID == "" {
			reasons = append(reasons, forPassenger("seat_required", "seat", i))
			continue
		}
		if _, dup := seen[p.Seat.ID]; dup {
			reasons = append(reasons, forPassenger("duplicate_seat", "seat", i))
		} else {
			seen[p.Seat.ID] = i
		}
	}
	return reasons
}

// ValidateExtras checks that selected add-ons carry a positive price, so a
// stale toggle never reaches the aggregator with a zero or negative amount.
func ValidateExtras(draft *domain.BookingDraft) []Reason {
	var reasons []Reason
	if draft.Assistance != nil {
		switch draft.Assistance.Tier {
		case domain.AssistanceTierNormal, domain.AssistanceTierGold, domain.AssistanceTierPremium:
		default:
			reasons = append(reasons, globalField("unknown_assistance_tier", "assistance"))
		}
		if draft.Assistance.PriceCents < 0 {
			reasons = append(reasons, globalField("negative_price", "assistance"))
		}
	}
	for i, p := range draft.Passengers {
		if p.Extras.CheckedBaggage.Selected && p.Extras.CheckedBaggage.PriceCents <= 0 {
			reasons = append(reasons, forPassenger("price_missing", "checked_baggage", i))
		}
		if p.Extras.Meals.Selected && p.Extras.Meals.PriceCents <= 0 {
			reasons = append(reasons, forPassenger("price_missing", "meals", i))
		}
		if p.Extras.BaggageInsurance.Selected && p.Extras.BaggageInsurance.PriceCents <= 0 {
			reasons = append(reasons, forPassenger("price_missing", "baggage_insurance", i))
		}
	}
	return reasons
}

func age(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}

// jsonFieldName converts the Go field name reported by the validator to the
// json name used in reasons.
func jsonFieldName(goName string) string {
	var b strings.Builder
	for i, r := range goName {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
