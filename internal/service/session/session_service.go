package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/flightwizard/internal/domain"
	"github.com/Domenick1991/flightwizard/internal/kafka"
	"github.com/Domenick1991/flightwizard/internal/pricing"
	"github.com/Domenick1991/flightwizard/internal/repository"
	"github.com/Domenick1991/flightwizard/internal/validation"
	"github.com/Domenick1991/flightwizard/internal/wizard"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrWrongStep       = errors.New("operation not allowed at current step")
	ErrUnknownLeg      = errors.New("unknown flight leg")
	ErrReturnNotOpen   = errors.New("return flight requires a return trip")
	ErrPassengerIndex  = errors.New("passenger index out of range")
	ErrPassengerCount  = errors.New("passenger list must match passenger count")
)

// Session is one wizard session: the draft plus the step the flow is on.
// It is the unit stored in the draft store.
type Session struct {
	Step  wizard.Step          `json:"step"`
	Draft *domain.BookingDraft `json:"draft"`
}

// DraftStore is the durable keyed store for in-progress sessions.
type DraftStore interface {
	SaveSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// FlightSource resolves flight candidates picked on the results step.
type FlightSource interface {
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Leg names which flight selection a results-step pick targets.
type Leg string

const (
	LegOutbound Leg = "outbound"
	LegReturn   Leg = "return"
)

type SessionUseCase interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	UpdateSearch(ctx context.Context, sessionID string, search domain.Search) (*Session, error)
	SelectFlight(ctx context.Context, sessionID string, leg Leg, flightID int64, fare domain.FareClass) (*Session, error)
	CommitPassengers(ctx context.Context, sessionID string, passengers []domain.Passenger) (*Session, error)
	ApplyPassportScan(ctx context.Context, sessionID string, index int, patch ScanPatch) (*Session, error)
	AssignSeat(ctx context.Context, sessionID string, index int, seat domain.Seat) (*Session, error)
	UpdateExtras(ctx context.Context, sessionID string, index int, extras domain.Extras) (*Session, error)
	SetAssistance(ctx context.Context, sessionID string, tier *domain.AssistanceTier) (*Session, error)
	SubmitPayment(ctx context.Context, sessionID string, payment domain.Payment) (*Session, []validation.Reason, error)
	Advance(ctx context.Context, sessionID string) (*AdvanceResult, error)
	Retreat(ctx context.Context, sessionID string) (*Session, error)
	Summary(ctx context.Context, sessionID string) (pricing.Summary, error)
}

// AdvanceResult reports one forward transition attempt. Record is non-nil
// only when the transition landed on CONFIRMATION and the booking was
// persisted.
type AdvanceResult struct {
	Session *Session              `json:"session"`
	OK      bool                  `json:"ok"`
	Reasons []validation.Reason   `json:"reasons,omitempty"`
	Record  *domain.BookingRecord `json:"record,omitempty"`
}

// ScanPatch is the partial-field payload produced by the passport scanner.
// Applied fields get the auto-filled annotation; guards never look at it.
type ScanPatch struct {
	FirstName      *string    `json:"first_name,omitempty"`
	LastName       *string    `json:"last_name,omitempty"`
	Passport       *string    `json:"passport,omitempty"`
	Nationality    *string    `json:"nationality,omitempty"`
	Gender         *string    `json:"gender,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	PassportExpiry *time.Time `json:"passport_expiry,omitempty"`
}

// fare price per seat relative to the flight's base economy price
var fareMultipliers = map[domain.FareClass]int64{
	domain.FareClassEconomy:  1,
	domain.FareClassBusiness: 2,
	domain.FareClassFirst:    3,
}

var assistancePrices = map[domain.AssistanceTier]int64{
	domain.AssistanceTierNormal:  0,
	domain.AssistanceTierGold:    900,
	domain.AssistanceTierPremium: 1900,
}

type Service struct {
	store              DraftStore
	records            repository.RecordRepository
	flights            FlightSource
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	policy             wizard.Policy
	labels             map[string]string
}

type ServiceOption func(*Service)

func WithNotificationsTopic(topic string) ServiceOption {
	return func(s *Service) {
		s.notificationsTopic = topic
	}
}

// WithLabels installs price summary label overrides.
func WithLabels(labels map[string]string) ServiceOption {
	return func(s *Service) {
		s.labels = labels
	}
}

func NewService(
	store DraftStore,
	records repository.RecordRepository,
	flights FlightSource,
	producer Producer,
	eventsTopic string,
	policy wizard.Policy,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		store:       store,
		records:     records,
		flights:     flights,
		producer:    producer,
		eventsTopic: eventsTopic,
		policy:      policy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context) (*Session, error) {
	now := time.Now()
	sess := &Session{
		Step: wizard.StepSearch,
		Draft: &domain.BookingDraft{
			SessionID: uuid.NewString(),
			Search: domain.Search{
				TripType:       domain.TripTypeOneWay,
				PassengerCount: 1,
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.store.SaveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

func (s *Service) Get(ctx context.Context, sessionID string) (*Session, error) {
	return s.store.GetSession(ctx, sessionID)
}

func (s *Service) UpdateSearch(ctx context.Context, sessionID string, search domain.Search) (*Session, error) {
	sess, err := s.load(ctx, sessionID, wizard.StepSearch)
	if err != nil {
		return nil, err
	}

	if search.TripType != domain.TripTypeReturn {
		search.TripType = domain.TripTypeOneWay
		search.ReturnDate = nil
	}
	sess.Draft.Search = search
	// A return selection may only exist on a return trip.
	if search.TripType == domain.TripTypeOneWay {
		sess.Draft.ReturnFlight = nil
	}

	s.recompute(sess.Draft)
	return sess, s.store.SaveSession(ctx, sess)
}

func (s *Service) SelectFlight(ctx context.Context, sessionID string, leg Leg, flightID int64, fare domain.FareClass) (*Session, error) {
	sess, err := s.load(ctx, sessionID, wizard.StepResults)
	if err != nil {
		return nil, err
	}

	if leg == LegReturn && sess.Draft.Search.TripType != domain.TripTypeReturn {
		return nil, ErrReturnNotOpen
	}

	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("resolve flight %d: %w", flightID, err)
	}

	mult, ok := fareMultipliers[fare]
	if !ok {
		fare = domain.FareClassEconomy
		mult = 1
	}
	selection := &domain.FlightSelection{
		FlightID:      flight.ID,
		Number:        flight.Number,
		FromAirport:   flight.FromAirport,
		ToAirport:     flight.ToAirport,
		DepartureTime: flight.DepartureTime,
		ArrivalTime:   flight.ArrivalTime,
		FareClass:     fare,
		PriceCents:    flight.PriceCents * mult,
	}

	switch leg {
	case LegOutbound:
		sess.Draft.OutboundFlight = selection
	case LegReturn:
		sess.Draft.ReturnFlight = selection
	default:
		return nil, ErrUnknownLeg
	}

	s.recompute(sess.Draft)
	return sess, s.store.SaveSession(ctx, sess)
}

func (s *Service) CommitPassengers(ctx context.Context, sessionID string, passengers []domain.Passenger) (*Session, error) {
	sess, err := s.load(ctx, sessionID, wizard.StepPassenger)
	if err != nil {
		return nil, err
	}

	if len(passengers) != sess.Draft.Search.PassengerCount {
		return nil, ErrPassengerCount
	}
	for i := range passengers {
		if passengers[i].ID == "" {
			passengers[i].ID = uuid.NewString()
		}
		// A manual commit supersedes any scanner annotations.
		passengers[i].AutoFilled = nil
	}
	sess.Draft.Passengers = passengers

	s.recompute(sess.Draft)
	return sess, s.store.SaveSession(ctx, sess)
}

func (s *Service) ApplyPassportScan(ctx context.Context, sessionID string, index int, patch ScanPatch) (*Session, error) {
	sess, err := s.load(ctx, sessionID, wizard.StepPassenger)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(sess.Draft.Passengers) {
		return nil, ErrPassengerIndex
	}

	p := &sess.Draft.Passengers[index]
	if patch.FirstName != nil {
		p.FirstName = *patch.FirstName
		p.MarkAutoFilled("first_name")
	}
	if patch.LastName != nil {
		p.LastName = *patch.LastName
		p.MarkAutoFilled("last_name")
	}
	if patch.Passport != nil {
		p.Passport = *patch.Passport
		p.MarkAutoFilled("passport")
	}
	if patch.Nationality != nil {
		p.Nationality = *patch.Nationality
		p.MarkAutoFilled("nationality")
	}
	if patch.Gender != nil {
		p.Gender = domain.Gender(*patch.Gender)
		p.MarkAutoFilled("gender")
	}
	if patch.DateOfBirth != nil {
		p.DateOfBirth = *patch.DateOfBirth
		p.MarkAutoFilled("date_of_birth")
	}
	if patch.PassportExpiry != nil {
		p.PassportExpiry = *patch.PassportExpiry
		p.MarkAutoFilled("passport_expiry")
	}

	return sess, s.store.SaveSession(ctx, sess)
}

func (s *Service) AssignSeat(ctx context.Context, sessionID string, index int, seat domain.Seat) (*Session, error) {
	sess, err := s.load(ctx, sessionID, wizard.StepSeats)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(sess.Draft.Passengers) {
		return nil, ErrPassengerIndex
	}

	sess.Draft.Passengers[index].Seat = &seat

	s.recompute(sess.Draft)
	return sess, s.store.SaveSession(ctx, sess)
}

func (s *Service) UpdateExtras(ctx context.Context, sessionID string, index int, extras domain.Extras) (*Session, error) {
	sess, err := s.load(ctx, sessionID, wizard.StepExtras)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(sess.Draft.Passengers) {
		return nil, ErrPassengerIndex
	}

	sess.Draft.Passengers[index].Extras = extras

	s.recompute(sess.Draft)
	return sess, s.store.SaveSession(ctx, sess)
}

// SetAssistance selects the booking-wide assistance tier, nil clears it. The
// price always comes from the tier table, never from the caller.
func (s *Service) SetAssistance(ctx context.Context, sessionID string, tier *domain.AssistanceTier) (*Session, error) {
	sess, err := s.load(ctx, sessionID, wizard.StepExtras)
	if err != nil {
		return nil, err
	}

	if tier == nil {
		sess.Draft.Assistance = nil
	} else {
		price, ok := assistancePrices[*tier]
		if !ok {
			return nil, fmt.Errorf("unknown assistance tier %q", *tier)
		}
		sess.Draft.Assistance = &domain.Assistance{Tier: *tier, PriceCents: price}
	}

	s.recompute(sess.Draft)
	return sess, s.store.SaveSession(ctx, sess)
}

func (s *Service) SubmitPayment(ctx context.Context, sessionID string, payment domain.Payment) (*Session, []validation.Reason, error) {
	sess, err := s.load(ctx, sessionID, wizard.StepPayment)
	if err != nil {
		return nil, nil, err
	}

	reasons := validation.ValidatePayment(payment, time.Now())
	payment.Valid = len(reasons) == 0
	sess.Draft.Payment = &payment

	if err := s.store.SaveSession(ctx, sess); err != nil {
		return nil, nil, err
	}
	return sess, reasons, nil
}

func (s *Service) Advance(ctx context.Context, sessionID string) (*AdvanceResult, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	flow := wizard.ResumeFlow(sess.Step, s.policy)
	ok, reasons := flow.CanAdvance(sess.Draft)
	if !ok {
		return &AdvanceResult{Session: sess, OK: false, Reasons: reasons}, nil
	}

	step, _ := flow.Advance(sess.Draft)
	sess.Step = step

	if step == wizard.StepConfirmation {
		record, err := s.finalize(ctx, sess)
		if err != nil {
			return nil, err
		}
		return &AdvanceResult{Session: sess, OK: true, Record: record}, nil
	}

	if err := s.store.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	return &AdvanceResult{Session: sess, OK: true}, nil
}

func (s *Service) Retreat(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	flow := wizard.ResumeFlow(sess.Step, s.policy)
	sess.Step = flow.Retreat(sess.Draft)

	s.recompute(sess.Draft)
	return sess, s.store.SaveSession(ctx, sess)
}

func (s *Service) Summary(ctx context.Context, sessionID string) (pricing.Summary, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return pricing.Summary{}, err
	}
	return s.summarize(sess.Draft), nil
}

// finalize freezes the draft into a BookingRecord, appends it to the record
// store, publishes the completion event and drops the session.
func (s *Service) finalize(ctx context.Context, sess *Session) (*domain.BookingRecord, error) {
	draft := sess.Draft
	summary := s.summarize(draft)

	items := make([]domain.RecordLineItem, 0, len(summary.Items))
	for _, item := range summary.Items {
		items = append(items, domain.RecordLineItem{
			Key:            item.Key,
			Label:          item.Label,
			PriceCents:     item.PriceCents,
			Scope:          string(item.Scope),
			PassengerIndex: item.PassengerIndex,
		})
	}

	record := &domain.BookingRecord{
		Reference:      uuid.NewString(),
		BookedAt:       time.Now(),
		Search:         draft.Search,
		OutboundFlight: draft.OutboundFlight,
		ReturnFlight:   draft.ReturnFlight,
		Passengers:     draft.Passengers,
		Assistance:     draft.Assistance,
		Items:          items,
		TotalCents:     summary.TotalCents,
	}

	if err := s.records.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("append booking record: %w", err)
	}

	if err := s.publish(ctx, record); err != nil {
		log.Printf("WARNING: failed to publish completion event for booking %s: %v", record.Reference, err)
	}

	if err := s.store.DeleteSession(ctx, draft.SessionID); err != nil {
		log.Printf("WARNING: failed to delete completed session %s: %v", draft.SessionID, err)
	}

	return record, nil
}

func (s *Service) publish(ctx context.Context, record *domain.BookingRecord) error {
	if s.producer == nil || s.eventsTopic == "" {
		return nil
	}

	email := ""
	if len(record.Passengers) > 0 {
		email = record.Passengers[0].Email
	}
	event := kafka.BookingEvent{
		Type:           "booking_completed",
		Reference:      record.Reference,
		Email:          email,
		Origin:         record.Search.Origin,
		Destination:    record.Search.Destination,
		PassengerCount: record.Search.PassengerCount,
		TotalCents:     record.TotalCents,
		BookedAt:       record.BookedAt,
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, record.Reference, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, record.Reference, event)
	}
	return nil
}

// load fetches a session and checks the mutation targets the active step.
func (s *Service) load(ctx context.Context, sessionID string, step wizard.Step) (*Session, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Step != step {
		return nil, fmt.Errorf("%w: at %s, need %s", ErrWrongStep, sess.Step, step)
	}
	return sess, nil
}

// recompute refreshes the derived total. Every pricing-relevant mutation ends
// here; nothing patches TotalCents incrementally.
func (s *Service) recompute(draft *domain.BookingDraft) {
	draft.TotalCents = s.summarize(draft).TotalCents
	draft.UpdatedAt = time.Now()
}

func (s *Service) summarize(draft *domain.BookingDraft) pricing.Summary {
	if s.labels != nil {
		return pricing.Summarize(draft, pricing.WithLabels(s.labels))
	}
	return pricing.Summarize(draft)
}

var _ SessionUseCase = (*Service)(nil)
