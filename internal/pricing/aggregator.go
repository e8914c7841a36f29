package pricing

import (
	"fmt"
	"strings"

	"github.com/Domenick1991/flightwizard/internal/domain"
)

type Scope string

const (
	ScopeGlobal    Scope = "GLOBAL"
	ScopePassenger Scope = "PASSENGER"
)

// LineItem is one billable entry of the price summary. PassengerIndex is -1
// for GLOBAL items. Key is the dotted path into the draft, so items stay
// distinguishable across passengers even when labels collide.
type LineItem struct {
	Key            string `json:"key"`
	Label          string `json:"label"`
	PriceCents     int64  `json:"price_cents"`
	Scope          Scope  `json:"scope"`
	PassengerIndex int    `json:"passenger_index"`
}

type Summary struct {
	Items      []LineItem `json:"items"`
	TotalCents int64      `json:"total_cents"`
}

type config struct {
	labels map[string]string
}

type Option func(*config)

// WithLabels overrides derived labels. Keys may be full dotted paths
// ("passengers.0.seat") or leaf keys ("seat"); the full path wins.
func WithLabels(labels map[string]string) Option {
	return func(c *config) {
		c.labels = labels
	}
}

// Summarize derives the billable line items and total from a draft snapshot.
// The traversal order is fixed: outbound flight, return flight, assistance,
// then each passenger's seat, checked baggage, meals and baggage insurance.
// Items appear only with a positive price and, for toggleable extras, an
// active selection. Flight prices are per seat and get multiplied by the
// passenger count into one aggregate line for the party. The derivation is
// pure and idempotent: the same draft always yields the same summary.
func Summarize(draft *domain.BookingDraft, opts ...Option) Summary {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	var items []LineItem

	count := int64(draft.Search.PassengerCount)
	if count < 1 {
		count = 1
	}

	if draft.OutboundFlight != nil && draft.OutboundFlight.PriceCents > 0 {
		items = append(items, LineItem{
			Key:            "outboundFlight",
			Label:          cfg.label("outboundFlight", "outboundFlight", humanize("outboundFlight")),
			PriceCents:     draft.OutboundFlight.PriceCents * count,
			Scope:          ScopeGlobal,
			PassengerIndex: -1,
		})
	}
	if draft.ReturnFlight != nil && draft.ReturnFlight.PriceCents > 0 {
		items = append(items, LineItem{
			Key:            "returnFlight",
			Label:          cfg.label("returnFlight", "returnFlight", humanize("returnFlight")),
			PriceCents:     draft.ReturnFlight.PriceCents * count,
			Scope:          ScopeGlobal,
			PassengerIndex: -1,
		})
	}
	if a := draft.Assistance; a != nil && a.PriceCents > 0 {
		items = append(items, LineItem{
			Key:            "assistance",
			Label:          cfg.label("assistance", "assistance", fmt.Sprintf("Assistance Tier: %s", a.Tier)),
			PriceCents:     a.PriceCents,
			Scope:          ScopeGlobal,
			PassengerIndex: -1,
		})
	}

	for i, p := range draft.Passengers {
		items = append(items, passengerItems(p, i, &cfg)...)
	}

	var total int64
	for _, item := range items {
		total += item.PriceCents
	}

	return Summary{Items: items, TotalCents: total}
}

func passengerItems(p domain.Passenger, idx int, cfg *config) []LineItem {
	var items []LineItem
	prefix := fmt.Sprintf("passengers.%d.", idx)

	if p.Seat != nil && p.Seat.PriceCents > 0 {
		key := prefix + "seat"
		items = append(items, LineItem{
			Key:            key,
			Label:          cfg.label(key, "seat", humanize("seat")),
			PriceCents:     p.Seat.PriceCents,
			Scope:          ScopePassenger,
			PassengerIndex: idx,
		})
	}
	if b := p.Extras.CheckedBaggage; b.Selected && b.PriceCents > 0 {
		key := prefix + "extras.checkedBaggage"
		items = append(items, LineItem{
			Key:            key,
			Label:          cfg.label(key, "checkedBaggage", fmt.Sprintf("Checked Baggage (%dkg)", b.WeightKg)),
			PriceCents:     b.PriceCents,
			Scope:          ScopePassenger,
			PassengerIndex: idx,
		})
	}
	if m := p.Extras.Meals; m.Selected && m.PriceCents > 0 {
		key := prefix + "extras.meals"
		items = append(items, LineItem{
			Key:            key,
			Label:          cfg.label(key, "meals", humanize("meals")),
			PriceCents:     m.PriceCents,
			Scope:          ScopePassenger,
			PassengerIndex: idx,
		})
	}
	if ins := p.Extras.BaggageInsurance; ins.Selected && ins.PriceCents > 0 {
		key := prefix + "extras.baggageInsurance"
		items = append(items, LineItem{
			Key:            key,
			Label:          cfg.label(key, "baggageInsurance", humanize("baggageInsurance")),
			PriceCents:     ins.PriceCents,
			Scope:          ScopePassenger,
			PassengerIndex: idx,
		})
	}

	return items
}

// label resolves a line item label: full-path override, then leaf override,
// then the structural default.
func (c *config) label(fullKey, leafKey, fallback string) string {
	if c.labels != nil {
		if l, ok := c.labels[fullKey]; ok {
			return l
		}
		if l, ok := c.labels[leafKey]; ok {
			return l
		}
	}
	return fallback
}

// humanize turns a camelCase key into Title Case: "baggageInsurance" ->
// "Baggage Insurance".
func humanize(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case i == 0:
			b.WriteRune(toUpper(r))
		case r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
