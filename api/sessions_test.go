package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/flightwizard/internal/domain"
	"github.com/Domenick1991/flightwizard/internal/pricing"
	"github.com/Domenick1991/flightwizard/internal/service/session"
	"github.com/Domenick1991/flightwizard/internal/validation"
	"github.com/Domenick1991/flightwizard/internal/wizard"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSessionUseCase struct {
	mock.Mock
}

func (m *MockSessionUseCase) Create(ctx context.Context) (*session.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionUseCase) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionUseCase) UpdateSearch(ctx context.Context, sessionID string, search domain.Search) (*session.Session, error) {
	args := m.Called(ctx, sessionID, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionUseCase) SelectFlight(ctx context.Context, sessionID string, leg session.Leg, flightID int64, fare domain.FareClass) (*session.Session, error) {
	args := m.Called(ctx, sessionID, leg, flightID, fare)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionUseCase) CommitPassengers(ctx context.Context, sessionID string, passengers []domain.Passenger) (*session.Session, error) {
	args := m.Called(ctx, sessionID, passengers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionUseCase) ApplyPassportScan(ctx context.Context, sessionID string, index int, patch session.ScanPatch) (*session.Session, error) {
	args := m.Called(ctx, sessionID, index, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionUseCase) AssignSeat(ctx context.Context, sessionID string, index int, seat domain.Seat) (*session.Session, error) {
	args := m.Called(ctx, sessionID, index, seat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionUseCase) UpdateExtras(ctx context.Context, sessionID string, index int, extras domain.Extras) (*session.Session, error) {
	args := m.Called(ctx, sessionID, index, extras)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionUseCase) SetAssistance(ctx context.Context, sessionID string, tier *domain.AssistanceTier) (*session.Session, error) {
	args := m.Called(ctx, sessionID, tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionUseCase) SubmitPayment(ctx context.Context, sessionID string, payment domain.Payment) (*session.Session, []validation.Reason, error) {
	args := m.Called(ctx, sessionID, payment)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var reasons []validation.Reason
	if args.Get(1) != nil {
		reasons = args.Get(1).([]validation.Reason)
	}
	return args.Get(0).(*session.Session), reasons, args.Error(2)
}

func (m *MockSessionUseCase) Advance(ctx context.Context, sessionID string) (*session.AdvanceResult, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.AdvanceResult), args.Error(1)
}

func (m *MockSessionUseCase) Retreat(ctx context.Context, sessionID string) (*session.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionUseCase) Summary(ctx context.Context, sessionID string) (pricing.Summary, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(pricing.Summary), args.Error(1)
}

func emptySession() *session.Session {
	return &session.Session{
		Step:  wizard.StepSearch,
		Draft: &domain.BookingDraft{SessionID: "s1"},
	}
}

func TestSessionHandler_create(t *testing.T) {
	mockService := &MockSessionUseCase{}
	handler := NewSessionHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/sessions", nil)

	mockService.On("Create", c.Request.Context()).Return(emptySession(), nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp sessionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, "SEARCH", resp.Step)

	mockService.AssertExpectations(t)
}

func TestSessionHandler_get_notFound(t *testing.T) {
	mockService := &MockSessionUseCase{}
	handler := NewSessionHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	c.Request = httptest.NewRequest("GET", "/sessions/missing", nil)

	mockService.On("Get", c.Request.Context(), "missing").Return(nil, session.ErrSessionNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestSessionHandler_updateSearch(t *testing.T) {
	mockService := &MockSessionUseCase{}
	handler := NewSessionHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"origin":"LHR","destination":"JFK","departure_date":"2026-06-01T00:00:00Z","trip_type":"ONE_WAY","passenger_count":2}`
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	c.Request = httptest.NewRequest("PUT", "/sessions/s1/search", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("UpdateSearch", c.Request.Context(), "s1", mock.AnythingOfType("domain.Search")).Return(emptySession(), nil)

	handler.updateSearch(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestSessionHandler_updateSearch_badPayload(t *testing.T) {
	handler := NewSessionHandler(&MockSessionUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"origin":"LHR","trip_type":"SOMEWHERE"}`
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	c.Request = httptest.NewRequest("PUT", "/sessions/s1/search", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.updateSearch(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandler_selectFlight_wrongStep(t *testing.T) {
	mockService := &MockSessionUseCase{}
	handler := NewSessionHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"flight_id":7,"fare_class":"ECONOMY"}`
	c.Params = gin.Params{{Key: "id", Value: "s1"}, {Key: "leg", Value: "outbound"}}
	c.Request = httptest.NewRequest("PUT", "/sessions/s1/flights/outbound", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("SelectFlight", c.Request.Context(), "s1", session.LegOutbound, int64(7), domain.FareClassEconomy).
		Return(nil, session.ErrWrongStep)

	handler.selectFlight(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestSessionHandler_selectFlight_badLeg(t *testing.T) {
	handler := NewSessionHandler(&MockSessionUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "s1"}, {Key: "leg", Value: "sideways"}}
	c.Request = httptest.NewRequest("PUT", "/sessions/s1/flights/sideways", bytes.NewBufferString(`{"flight_id":7}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.selectFlight(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandler_advance_reportsGuardReasons(t *testing.T) {
	mockService := &MockSessionUseCase{}
	handler := NewSessionHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	c.Request = httptest.NewRequest("POST", "/sessions/s1/advance", nil)

	result := &session.AdvanceResult{
		Session: emptySession(),
		OK:      false,
		Reasons: []validation.Reason{{Code: "field_required", Field: "origin", PassengerIndex: -1}},
	}
	mockService.On("Advance", c.Request.Context(), "s1").Return(result, nil)

	handler.advance(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["ok"])
	assert.Equal(t, "SEARCH", resp["step"])

	mockService.AssertExpectations(t)
}

func TestSessionHandler_advance_returnsRecordOnConfirmation(t *testing.T) {
	mockService := &MockSessionUseCase{}
	handler := NewSessionHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	c.Request = httptest.NewRequest("POST", "/sessions/s1/advance", nil)

	sess := emptySession()
	sess.Step = wizard.StepConfirmation
	result := &session.AdvanceResult{
		Session: sess,
		OK:      true,
		Record:  &domain.BookingRecord{Reference: "ref-1", TotalCents: 48400},
	}
	mockService.On("Advance", c.Request.Context(), "s1").Return(result, nil)

	handler.advance(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, "CONFIRMATION", resp["step"])
	assert.NotNil(t, resp["record"])

	mockService.AssertExpectations(t)
}

func TestSessionHandler_summary(t *testing.T) {
	mockService := &MockSessionUseCase{}
	handler := NewSessionHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	c.Request = httptest.NewRequest("GET", "/sessions/s1/summary", nil)

	summary := pricing.Summary{
		Items: []pricing.LineItem{
			{Key: "outboundFlight", Label: "Outbound Flight", PriceCents: 20000, Scope: pricing.ScopeGlobal, PassengerIndex: -1},
		},
		TotalCents: 20000,
	}
	mockService.On("Summary", c.Request.Context(), "s1").Return(summary, nil)

	handler.summary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
