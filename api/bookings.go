package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flightwizard/internal/repository"
	"github.com/gin-gonic/gin"
)

// BookingHandler serves the persisted booking records.
type BookingHandler struct {
	records repository.RecordRepository
}

func NewBookingHandler(records repository.RecordRepository) *BookingHandler {
	return &BookingHandler{records: records}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:reference", h.get)
}

func (h *BookingHandler) list(c *gin.Context) {
	records, err := h.records.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *BookingHandler) get(c *gin.Context) {
	record, err := h.records.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}
