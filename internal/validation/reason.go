package validation

// Reason is a machine-readable guard or validation failure. Guards return
// reasons as values; nothing in the core surfaces failures as errors or
// panics. PassengerIndex is -1 for failures not tied to one passenger.
type Reason struct {
	Code           string `json:"code"`
	Field          string `json:"field,omitempty"`
	PassengerIndex int    `json:"passenger_index"`
}

func globalField(code, field string) Reason {
	return Reason{Code: code, Field: field, PassengerIndex: -1}
}

func forPassenger(code, field string, idx int) Reason {
	return Reason{Code: code, Field: field, PassengerIndex: idx}
}
