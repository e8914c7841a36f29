package validation

import (
	"strings"
	"time"

	"github.com/Domenick1991/flightwizard/internal/domain"
)

type CardNetwork string

const (
	CardNetworkVisa       CardNetwork = "VISA"
	CardNetworkMastercard CardNetwork = "MASTERCARD"
	CardNetworkAmex       CardNetwork = "AMEX"
	CardNetworkUnknown    CardNetwork = "UNKNOWN"
)

// DetectNetwork classifies a card number by its prefix.
func DetectNetwork(number string) CardNetwork {
	number = normalizeCardNumber(number)
	switch {
	case strings.HasPrefix(number, "4"):
		return CardNetworkVisa
	case len(number) >= 2 && number[0] == '5' && number[1] >= '1' && number[1] <= '5':
		return CardNetworkMastercard
	case strings.HasPrefix(number, "34") || strings.HasPrefix(number, "37"):
		return CardNetworkAmex
	default:
		return CardNetworkUnknown
	}
}

// ValidatePayment checks the payment form: Luhn-valid card number, CVV length
// matching the detected network, expiry in the future, holder present. The
// PAYMENT step guard only consumes the resulting boolean signal.
func ValidatePayment(p domain.Payment, now time.Time) []Reason {
	var reasons []Reason

	number := normalizeCardNumber(p.CardNumber)
	if len(number) < 12 || len(number) > 19 || !luhnValid(number) {
		reasons = append(reasons, globalField("invalid_card_number", "card_number"))
	}
	if strings.TrimSpace(p.CardHolder) == "" {
		reasons = append(reasons, globalField("field_required", "card_holder"))
	}

	network := DetectNetwork(p.CardNumber)
	cvvLen := 3
	if network == CardNetworkAmex {
		cvvLen = 4
	}
	if len(p.CVV) != cvvLen || !digitsOnly(p.CVV) {
		reasons = append(reasons, globalField("invalid_cvv", "cvv"))
	}

	if p.ExpiryMonth < 1 || p.ExpiryMonth > 12 {
		reasons = append(reasons, globalField("invalid_expiry", "expiry_month"))
	} else {
		// Card is valid through the last instant of the expiry month.
		expiry := time.Date(p.ExpiryYear, time.Month(p.ExpiryMonth)+1, 1, 0, 0, 0, 0, time.UTC)
		if !expiry.After(now) {
			reasons = append(reasons, globalField("card_expired", "expiry_year"))
		}
	}

	return reasons
}

func luhnValid(number string) bool {
	if !digitsOnly(number) {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func normalizeCardNumber(number string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(number)
}
