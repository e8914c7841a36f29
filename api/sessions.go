package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/flightwizard/internal/domain"
	"github.com/Domenick1991/flightwizard/internal/service/session"
	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the wizard flow over HTTP. Each route mutates or
// inspects one session's booking draft; guard failures come back as 200
// responses carrying reasons, never as errors.
type SessionHandler struct {
	service session.SessionUseCase
}

func NewSessionHandler(service session.SessionUseCase) *SessionHandler {
	return &SessionHandler{service: service}
}

func (h *SessionHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:id", h.get)
	router.PUT("/:id/search", h.updateSearch)
	router.PUT("/:id/flights/:leg", h.selectFlight)
	router.PUT("/:id/passengers", h.commitPassengers)
	router.POST("/:id/passengers/:index/scan", h.applyScan)
	router.PUT("/:id/passengers/:index/seat", h.assignSeat)
	router.PUT("/:id/passengers/:index/extras", h.updateExtras)
	router.PUT("/:id/assistance", h.setAssistance)
	router.PUT("/:id/payment", h.submitPayment)
	router.POST("/:id/advance", h.advance)
	router.POST("/:id/retreat", h.retreat)
	router.GET("/:id/summary", h.summary)
}

type searchRequest struct {
	Origin         string     `json:"origin" binding:"required"`
	Destination    string     `json:"destination" binding:"required"`
	DepartureDate  time.Time  `json:"departure_date" binding:"required"`
	ReturnDate     *time.Time `json:"return_date"`
	TripType       string     `json:"trip_type" binding:"required,oneof=ONE_WAY RETURN"`
	PassengerCount int        `json:"passenger_count" binding:"required,min=1"`
}

type selectFlightRequest struct {
	FlightID  int64  `json:"flight_id" binding:"required"`
	FareClass string `json:"fare_class" binding:"omitempty,oneof=ECONOMY BUSINESS FIRST"`
}

type passengerRequest struct {
	FirstName      string    `json:"first_name" binding:"required"`
	LastName       string    `json:"last_name" binding:"required"`
	Email          string    `json:"email" binding:"required,email"`
	Passport       string    `json:"passport" binding:"required"`
	Nationality    string    `json:"nationality" binding:"required"`
	DateOfBirth    time.Time `json:"date_of_birth" binding:"required"`
	Gender         string    `json:"gender" binding:"required,oneof=MALE FEMALE OTHER"`
	PassportExpiry time.Time `json:"passport_expiry" binding:"required"`
}

type seatRequest struct {
	ID         string `json:"id" binding:"required"`
	Class      string `json:"class" binding:"omitempty,oneof=ECONOMY BUSINESS FIRST"`
	PriceCents int64  `json:"price_cents" binding:"min=0"`
}

type assistanceRequest struct {
	Tier *string `json:"tier" binding:"omitempty,oneof=NORMAL GOLD PREMIUM"`
}

type paymentRequest struct {
	CardNumber  string `json:"card_number" binding:"required"`
	CardHolder  string `json:"card_holder" binding:"required"`
	ExpiryMonth int    `json:"expiry_month" binding:"required,min=1,max=12"`
	ExpiryYear  int    `json:"expiry_year" binding:"required"`
	CVV         string `json:"cvv" binding:"required"`
}

type sessionResponse struct {
	SessionID string               `json:"session_id"`
	Step      string               `json:"step"`
	Draft     *domain.BookingDraft `json:"draft"`
}

func (h *SessionHandler) create(c *gin.Context) {
	sess, err := h.service.Create(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toSessionResponse(sess))
}

func (h *SessionHandler) get(c *gin.Context) {
	sess, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

func (h *SessionHandler) updateSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.service.UpdateSearch(c.Request.Context(), c.Param("id"), domain.Search{
		Origin:         req.Origin,
		Destination:    req.Destination,
		DepartureDate:  req.DepartureDate,
		ReturnDate:     req.ReturnDate,
		TripType:       domain.TripType(req.TripType),
		PassengerCount: req.PassengerCount,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

func (h *SessionHandler) selectFlight(c *gin.Context) {
	leg := session.Leg(c.Param("leg"))
	if leg != session.LegOutbound && leg != session.LegReturn {
		c.JSON(http.StatusBadRequest, gin.H{"error": "leg must be outbound or return"})
		return
	}

	var req selectFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fare := domain.FareClass(req.FareClass)
	if req.FareClass == "" {
		fare = domain.FareClassEconomy
	}

	sess, err := h.service.SelectFlight(c.Request.Context(), c.Param("id"), leg, req.FlightID, fare)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

func (h *SessionHandler) commitPassengers(c *gin.Context) {
	var reqs []passengerRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	passengers := make([]domain.Passenger, 0, len(reqs))
	for _, req := range reqs {
		passengers = append(passengers, domain.Passenger{
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			Email:          req.Email,
			Passport:       req.Passport,
			Nationality:    req.Nationality,
			DateOfBirth:    req.DateOfBirth,
			Gender:         domain.Gender(req.Gender),
			PassportExpiry: req.PassportExpiry,
		})
	}

	sess, err := h.service.CommitPassengers(c.Request.Context(), c.Param("id"), passengers)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

func (h *SessionHandler) applyScan(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid passenger index"})
		return
	}

	var patch session.ScanPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.service.ApplyPassportScan(c.Request.Context(), c.Param("id"), index, patch)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

func (h *SessionHandler) assignSeat(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid passenger index"})
		return
	}

	var req seatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.service.AssignSeat(c.Request.Context(), c.Param("id"), index, domain.Seat{
		ID:         req.ID,
		Class:      domain.FareClass(req.Class),
		PriceCents: req.PriceCents,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

func (h *SessionHandler) updateExtras(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid passenger index"})
		return
	}

	var extras domain.Extras
	if err := c.ShouldBindJSON(&extras); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.service.UpdateExtras(c.Request.Context(), c.Param("id"), index, extras)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

func (h *SessionHandler) setAssistance(c *gin.Context) {
	var req assistanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var tier *domain.AssistanceTier
	if req.Tier != nil {
		t := domain.AssistanceTier(*req.Tier)
		tier = &t
	}

	sess, err := h.service.SetAssistance(c.Request.Context(), c.Param("id"), tier)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

func (h *SessionHandler) submitPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, reasons, err := h.service.SubmitPayment(c.Request.Context(), c.Param("id"), domain.Payment{
		CardNumber:  req.CardNumber,
		CardHolder:  req.CardHolder,
		ExpiryMonth: req.ExpiryMonth,
		ExpiryYear:  req.ExpiryYear,
		CVV:         req.CVV,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session": toSessionResponse(sess),
		"valid":   len(reasons) == 0,
		"reasons": reasons,
	})
}

func (h *SessionHandler) advance(c *gin.Context) {
	result, err := h.service.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	resp := gin.H{
		"ok":      result.OK,
		"step":    result.Session.Step.String(),
		"reasons": result.Reasons,
	}
	if result.Record != nil {
		resp["record"] = result.Record
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) retreat(c *gin.Context) {
	sess, err := h.service.Retreat(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

func (h *SessionHandler) summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *SessionHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrWrongStep):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrPassengerIndex),
		errors.Is(err, session.ErrPassengerCount),
		errors.Is(err, session.ErrReturnNotOpen),
		errors.Is(err, session.ErrUnknownLeg):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func toSessionResponse(sess *session.Session) sessionResponse {
	return sessionResponse{
		SessionID: sess.Draft.SessionID,
		Step:      sess.Step.String(),
		Draft:     sess.Draft,
	}
}
