package wizard

import (
	"log"
	"time"

	"github.com/Domenick1991/flightwizard/internal/domain"
	"github.com/Domenick1991/flightwizard/internal/validation"
)

// Policy carries the configurable guard parameters.
type Policy struct {
	PassportGuardWindow time.Duration
	LeadMinimumAge      int
	// Now is injectable for tests; zero means time.Now.
	Now time.Time
}

// Flow is the wizard state machine: a fixed total order of steps with
// per-step guards over the booking draft and a backward-reset policy for
// structural steps. All operations are synchronous and total; guard failures
// come back as reason values, never as errors.
type Flow struct {
	current Step
	policy  Policy
}

func NewFlow(policy Policy) *Flow {
	return &Flow{current: StepSearch, policy: policy}
}

// ResumeFlow restores a flow at a persisted step. An unknown step falls back
// to SEARCH rather than propagating a corrupt session.
func ResumeFlow(step Step, policy Policy) *Flow {
	if !step.Valid() {
		log.Printf("wizard: resuming at unknown step %d, falling back to SEARCH", step)
		step = StepSearch
	}
	return &Flow{current: step, policy: policy}
}

func (f *Flow) Current() Step {
	return f.current
}

// CanAdvance reports whether the current step's guard passes for the draft.
// The switch is exhaustive over the step set; adding a step without a guard
// arm lands in the default arm and never advances.
func (f *Flow) CanAdvance(draft *domain.BookingDraft) (bool, []validation.Reason) {
	var reasons []validation.Reason

	switch f.current {
	case StepSearch:
		reasons = f.guardSearch(draft)
	case StepResults:
		reasons = f.guardResults(draft)
	case StepPassenger:
		reasons = f.guardPassenger(draft)
	case StepSeats:
		reasons = validation.ValidateSeats(draft.Passengers)
	case StepExtras:
		// Optional step: passable as long as selections carry sane prices.
		reasons = validation.ValidateExtras(draft)
	case StepPayment:
		reasons = f.guardPayment(draft)
	case StepConfirmation:
		// Terminal; no forward transition.
		reasons = []validation.Reason{{Code: "terminal_step", PassengerIndex: -1}}
	default:
		reasons = []validation.Reason{{Code: "unknown_step", PassengerIndex: -1}}
	}

	return len(reasons) == 0, reasons
}

// Advance moves to the next step when the guard passes. On guard failure the
// flow and the draft stay untouched and ok is false.
func (f *Flow) Advance(draft *domain.BookingDraft) (Step, bool) {
	ok, _ := f.CanAdvance(draft)
	if !ok {
		return f.current, false
	}
	f.current++
	if f.current == StepSeats {
		f.ensurePassengerStructure(draft)
	}
	return f.current, true
}

// Retreat moves to the previous step. Retreating out of a structural step
// clears the state the step's inputs invalidate:
//
//   - RESULTS -> SEARCH drops the flight selections and everything downstream,
//     since new search criteria invalidate every flight-dependent choice.
//   - PASSENGER -> RESULTS drops the flight selections so the user re-selects,
//     keeping the entered passenger data.
//   - SEATS, EXTRAS and PAYMENT retreats clear nothing.
//
// Retreating from SEARCH is a no-op.
func (f *Flow) Retreat(draft *domain.BookingDraft) Step {
	if f.current == StepSearch {
		return f.current
	}

	switch f.current {
	case StepResults:
		draft.ResetFlights()
		draft.ResetDownstream()
	case StepPassenger:
		draft.ResetFlights()
	}

	f.current--
	return f.current
}

// GoTo jumps directly to a known step. It exists for restoring persisted
// sessions and tab-style navigation glue; it runs no guards and no resets.
func (f *Flow) GoTo(step Step) bool {
	if !step.Valid() {
		return false
	}
	f.current = step
	return true
}

func (f *Flow) guardSearch(draft *domain.BookingDraft) []validation.Reason {
	var reasons []validation.Reason
	s := draft.Search

	if s.Origin == "" {
		reasons = append(reasons, validation.Reason{Code: "field_required", Field: "origin", PassengerIndex: -1})
	}
	if s.Destination == "" {
		reasons = append(reasons, validation.Reason{Code: "field_required", Field: "destination", PassengerIndex: -1})
	}
	if s.DepartureDate.IsZero() {
		reasons = append(reasons, validation.Reason{Code: "field_required", Field: "departure_date", PassengerIndex: -1})
	}
	if s.TripType == domain.TripTypeReturn {
		if s.ReturnDate == nil {
			reasons = append(reasons, validation.Reason{Code: "field_required", Field: "return_date", PassengerIndex: -1})
		} else if !s.DepartureDate.IsZero() && !s.ReturnDate.After(s.DepartureDate) {
			reasons = append(reasons, validation.Reason{Code: "return_before_departure", Field: "return_date", PassengerIndex: -1})
		}
	}
	if s.PassengerCount < 1 {
		reasons = append(reasons, validation.Reason{Code: "passenger_count_invalid", Field: "passenger_count", PassengerIndex: -1})
	}

	return reasons
}

func (f *Flow) guardResults(draft *domain.BookingDraft) []validation.Reason {
	var reasons []validation.Reason
	if draft.OutboundFlight == nil {
		reasons = append(reasons, validation.Reason{Code: "outbound_flight_required", PassengerIndex: -1})
	}
	if draft.Search.TripType == domain.TripTypeReturn && draft.ReturnFlight == nil {
		reasons = append(reasons, validation.Reason{Code: "return_flight_required", PassengerIndex: -1})
	}
	return reasons
}

func (f *Flow) guardPassenger(draft *domain.BookingDraft) []validation.Reason {
	if len(draft.Passengers) != draft.Search.PassengerCount {
		return []validation.Reason{{Code: "passenger_count_mismatch", PassengerIndex: -1}}
	}
	return validation.ValidatePassengers(draft.Passengers, validation.PassengerRules{
		Departure:           draft.Search.DepartureDate,
		PassportGuardWindow: f.policy.PassportGuardWindow,
		LeadMinimumAge:      f.policy.LeadMinimumAge,
		Now:                 f.policy.Now,
	})
}

func (f *Flow) guardPayment(draft *domain.BookingDraft) []validation.Reason {
	if draft.Payment == nil || !draft.Payment.Valid {
		return []validation.Reason{{Code: "payment_invalid", PassengerIndex: -1}}
	}
	return nil
}

// ensurePassengerStructure re-initializes the passenger slice when its length
// no longer matches the search. The PASSENGER guard makes this unreachable in
// normal operation; hitting it means a caller bypassed the guards, so log
// loudly and recover instead of crashing the session.
func (f *Flow) ensurePassengerStructure(draft *domain.BookingDraft) {
	if len(draft.Passengers) == draft.Search.PassengerCount {
		return
	}
	log.Printf("wizard: passenger count mismatch entering SEATS (have %d, want %d), re-initializing",
		len(draft.Passengers), draft.Search.PassengerCount)
	draft.Passengers = make([]domain.Passenger, draft.Search.PassengerCount)
}
