package pricing

import (
	"testing"
	"time"

	"github.com/Domenick1991/flightwizard/internal/domain"
	"github.com/stretchr/testify/assert"
)

func returnTripDraft() *domain.BookingDraft {
	departure := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	ret := departure.AddDate(0, 0, 7)
	return &domain.BookingDraft{
		Search: domain.Search{
			Origin:         "LHR",
			Destination:    "JFK",
			DepartureDate:  departure,
			ReturnDate:     &ret,
			TripType:       domain.TripTypeReturn,
			PassengerCount: 2,
		},
		OutboundFlight: &domain.FlightSelection{FlightID: 1, PriceCents: 10000},
		ReturnFlight:   &domain.FlightSelection{FlightID: 2, PriceCents: 12000},
		Passengers: []domain.Passenger{
			{
				ID:   "p1",
				Seat: &domain.Seat{ID: "12A", PriceCents: 1500},
				Extras: domain.Extras{
					CheckedBaggage: domain.BaggageOption{Selected: true, WeightKg: 20, PriceCents: 2000},
				},
			},
			{ID: "p2"},
		},
		Assistance: &domain.Assistance{Tier: domain.AssistanceTierGold, PriceCents: 900},
	}
}

func findItem(items []LineItem, key string) (LineItem, bool) {
	for _, item := range items {
		if item.Key == key {
			return item, true
		}
	}
	return LineItem{}, false
}

func TestSummarize_ReturnTripScenario(t *testing.T) {
	summary := Summarize(returnTripDraft())

	outbound, ok := findItem(summary.Items, "outboundFlight")
	assert.True(t, ok)
	assert.Contains(t, outbound.Label, "Flight")
	assert.Equal(t, int64(20000), outbound.PriceCents) // 10000 x 2 passengers
	assert.Equal(t, ScopeGlobal, outbound.Scope)
	assert.Equal(t, -1, outbound.PassengerIndex)

	ret, ok := findItem(summary.Items, "returnFlight")
	assert.True(t, ok)
	assert.Equal(t, int64(24000), ret.PriceCents)

	seat, ok := findItem(summary.Items, "passengers.0.seat")
	assert.True(t, ok)
	assert.Equal(t, int64(1500), seat.PriceCents)
	assert.Equal(t, ScopePassenger, seat.Scope)
	assert.Equal(t, 0, seat.PassengerIndex)

	baggage, ok := findItem(summary.Items, "passengers.0.extras.checkedBaggage")
	assert.True(t, ok)
	assert.Equal(t, int64(2000), baggage.PriceCents)
	assert.Equal(t, "Checked Baggage (20kg)", baggage.Label)
	assert.Equal(t, 0, baggage.PassengerIndex)

	assistance, ok := findItem(summary.Items, "assistance")
	assert.True(t, ok)
	assert.Equal(t, int64(900), assistance.PriceCents)
	assert.Equal(t, "Assistance Tier: GOLD", assistance.Label)
	assert.Equal(t, ScopeGlobal, assistance.Scope)

	assert.Equal(t, int64(48400), summary.TotalCents)
	assert.Len(t, summary.Items, 5)
}

func TestSummarize_TotalEqualsItemSum(t *testing.T) {
	summary := Summarize(returnTripDraft())

	var sum int64
	for _, item := range summary.Items {
		sum += item.PriceCents
	}
	assert.Equal(t, sum, summary.TotalCents)
}

func TestSummarize_Idempotent(t *testing.T) {
	draft := returnTripDraft()

	first := Summarize(draft)
	second := Summarize(draft)

	assert.Equal(t, first, second)
}

func TestSummarize_ZeroExtrasYieldsFlightsOnly(t *testing.T) {
	draft := returnTripDraft()
	draft.Assistance = nil
	draft.Passengers[0].Seat = nil
	draft.Passengers[0].Extras = domain.Extras{}

	summary := Summarize(draft)

	assert.Len(t, summary.Items, 2)
	assert.Equal(t, int64(44000), summary.TotalCents)
}

func TestSummarize_ToggleOffOnRestoresItem(t *testing.T) {
	draft := returnTripDraft()
	before := Summarize(draft)

	draft.Passengers[0].Extras.CheckedBaggage.Selected = false
	off := Summarize(draft)
	assert.Len(t, off.Items, len(before.Items)-1)
	assert.Equal(t, before.TotalCents-2000, off.TotalCents)

	draft.Passengers[0].Extras.CheckedBaggage.Selected = true
	on := Summarize(draft)
	assert.Equal(t, before, on)
}

func TestSummarize_UnselectedExtraWithPriceSuppressed(t *testing.T) {
	draft := returnTripDraft()
	draft.Passengers[1].Extras.Meals = domain.ExtraOption{Selected: false, PriceCents: 800}

	summary := Summarize(draft)

	_, ok := findItem(summary.Items, "passengers.1.extras.meals")
	assert.False(t, ok)
}

func TestSummarize_ZeroPriceAssistanceSuppressed(t *testing.T) {
	draft := returnTripDraft()
	draft.Assistance = &domain.Assistance{Tier: domain.AssistanceTierNormal, PriceCents: 0}

	summary := Summarize(draft)

	_, ok := findItem(summary.Items, "assistance")
	assert.False(t, ok)
}

func TestSummarize_NegativePriceSkipped(t *testing.T) {
	draft := returnTripDraft()
	draft.Passengers[0].Seat.PriceCents = -100

	summary := Summarize(draft)

	_, ok := findItem(summary.Items, "passengers.0.seat")
	assert.False(t, ok)
	for _, item := range summary.Items {
		assert.Greater(t, item.PriceCents, int64(0))
	}
}

func TestSummarize_NoPassengersNoCrash(t *testing.T) {
	draft := &domain.BookingDraft{
		Search:         domain.Search{TripType: domain.TripTypeOneWay, PassengerCount: 0},
		OutboundFlight: &domain.FlightSelection{FlightID: 1, PriceCents: 10000},
	}

	summary := Summarize(draft)

	// zero passengers still yields the flight line, priced for one seat
	assert.Len(t, summary.Items, 1)
	assert.Equal(t, int64(10000), summary.TotalCents)
}

func TestSummarize_DuplicateKeysAcrossPassengersStayDistinct(t *testing.T) {
	draft := returnTripDraft()
	draft.Passengers[1].Seat = &domain.Seat{ID: "14C", PriceCents: 1500}

	summary := Summarize(draft)

	first, ok := findItem(summary.Items, "passengers.0.seat")
	assert.True(t, ok)
	second, ok := findItem(summary.Items, "passengers.1.seat")
	assert.True(t, ok)

	assert.Equal(t, first.Label, second.Label)
	assert.NotEqual(t, first.Key, second.Key)
	assert.NotEqual(t, first.PassengerIndex, second.PassengerIndex)
}

func TestSummarize_LabelOverrides(t *testing.T) {
	draft := returnTripDraft()

	summary := Summarize(draft, WithLabels(map[string]string{
		"outboundFlight":    "Departure Flight",
		"passengers.0.seat": "Window Seat",
	}))

	outbound, _ := findItem(summary.Items, "outboundFlight")
	assert.Equal(t, "Departure Flight", outbound.Label)

	seat, _ := findItem(summary.Items, "passengers.0.seat")
	assert.Equal(t, "Window Seat", seat.Label)
}

func TestSummarize_DefaultLabelsHumanized(t *testing.T) {
	draft := returnTripDraft()
	draft.Passengers[0].Extras.Meals = domain.ExtraOption{Selected: true, PriceCents: 800}
	draft.Passengers[0].Extras.BaggageInsurance = domain.ExtraOption{Selected: true, PriceCents: 600}

	summary := Summarize(draft)

	meals, _ := findItem(summary.Items, "passengers.0.extras.meals")
	assert.Equal(t, "Meals", meals.Label)

	insurance, _ := findItem(summary.Items, "passengers.0.extras.baggageInsurance")
	assert.Equal(t, "Baggage Insurance", insurance.Label)

	ret, _ := findItem(summary.Items, "returnFlight")
	assert.Equal(t, "Return Flight", ret.Label)
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Baggage Insurance", humanize("baggageInsurance"))
	assert.Equal(t, "Seat", humanize("seat"))
	assert.Equal(t, "Outbound Flight", humanize("outboundFlight"))
}
