package wizard

// Step identifies one macro-state of the booking wizard. The order is fixed;
// the outbound/return tab switch inside RESULTS is a UI concern and not a
// step transition.
type Step int

const (
	StepSearch Step = iota
	StepResults
	StepPassenger
	StepSeats
	StepExtras
	StepPayment
	StepConfirmation
)

var stepNames = map[Step]string{
	StepSearch:       "SEARCH",
	StepResults:      "RESULTS",
	StepPassenger:    "PASSENGER",
	StepSeats:        "SEATS",
	StepExtras:       "EXTRAS",
	StepPayment:      "PAYMENT",
	StepConfirmation: "CONFIRMATION",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s Step) Valid() bool {
	_, ok := stepNames[s]
	return ok
}

// ParseStep maps a step name back to its id.
func ParseStep(name string) (Step, bool) {
	for s, n := range stepNames {
		if n == name {
			return s, true
		}
	}
	return StepSearch, false
}
