package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomy-lb/roomy-api/internal/dto"
	"github.com/roomy-lb/roomy-api/internal/middleware"
	"github.com/roomy-lb/roomy-api/internal/models"
	"github.com/roomy-lb/roomy-api/internal/service"
	"github.com/roomy-lb/roomy-api/pkg/response"
)

type apartmentRepoStub struct {
	config *models.ApartmentConfig
}

func (s *apartmentRepoStub) GetConfig(context.Context, string) (*models.ApartmentConfig, error) {
	if s.config == nil {
		return nil, sql.ErrNoRows
	}
	return s.config, nil
}

type reservationRepoStub struct {
	items []models.Reservation
}

func (s *reservationRepoStub) Create(_ context.Context, r *models.Reservation) error {
	s.items = append(s.items, *r)
	return nil
}

func (s *reservationRepoStub) GetByID(_ context.Context, id string) (*models.Reservation, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *reservationRepoStub) ListByApartment(context.Context, string) ([]models.Reservation, error) {
	return s.items, nil
}

func (s *reservationRepoStub) ListByUser(context.Context, string) ([]models.Reservation, error) {
	return s.items, nil
}

func (s *reservationRepoStub) UpdateStatus(_ context.Context, id, status string, _ time.Time) error {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Status = status
		}
	}
	return nil
}

func singleBedroomConfig() *models.ApartmentConfig {
	return &models.ApartmentConfig{
		ID:                             "apt-1",
		OwnerID:                        "owner-1",
		EnableFullApartmentReservation: true,
		EnableBedroomReservation:       true,
		EnableBedReservation:           true,
		Bedrooms: []models.Bedroom{
			{
				ID:          "room-1",
				ApartmentID: "apt-1",
				Beds: []models.Bed{
					{ID: "bed-1", BedroomID: "room-1", Available: true},
					{ID: "bed-2", BedroomID: "room-1", Available: true},
				},
			},
		},
	}
}

func newBookingHandler(config *models.ApartmentConfig, reservations *reservationRepoStub) *BookingHandler {
	svc := service.NewBookingService(service.BookingServiceParams{
		Apartments:   &apartmentRepoStub{config: config},
		Reservations: reservations,
	})
	return NewBookingHandler(svc)
}

func TestBookingHandlerAvailability(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newBookingHandler(singleBedroomConfig(), &reservationRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/apartments/apt-1/availability", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "apt-1"}}

	handler.Availability(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data dto.AvailabilityResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.State.ApartmentReservable)
	assert.True(t, envelope.Data.Summary.IsFullyAvailable)
	assert.Equal(t, "Fully Available", envelope.Data.Summary.StatusText)
}

func TestBookingHandlerAvailabilityUnknownApartment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newBookingHandler(nil, &reservationRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/apartments/missing/availability", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Availability(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandlerCreateRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newBookingHandler(singleBedroomConfig(), &reservationRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.CreateReservationRequest{ApartmentID: "apt-1", Level: "bed", TargetID: "bed-1"})
	req, _ := http.NewRequest(http.MethodPost, "/reservations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingHandlerCreateAndConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reservations := &reservationRepoStub{}
	handler := newBookingHandler(singleBedroomConfig(), reservations)

	place := func(targetID string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body, _ := json.Marshal(dto.CreateReservationRequest{ApartmentID: "apt-1", Level: "bed", TargetID: targetID})
		req, _ := http.NewRequest(http.MethodPost, "/reservations", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleStudent})
		handler.Create(c)
		return w
	}

	first := place("bed-1")
	require.Equal(t, http.StatusCreated, first.Code)

	// Same bed again conflicts while the first reservation is pending.
	second := place("bed-1")
	require.Equal(t, http.StatusConflict, second.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "RESERVATION_NOT_ALLOWED", envelope.Error.Code)
}
