package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roomy-lb/roomy-api/internal/models"
	appErrors "github.com/roomy-lb/roomy-api/pkg/errors"
	"github.com/roomy-lb/roomy-api/pkg/export"
	"github.com/roomy-lb/roomy-api/pkg/jobs"
	"github.com/roomy-lb/roomy-api/pkg/storage"
)

const settlementJobType = "payment.settle"

// Cards ending in this suffix are declined by the mocked gateway, which gives
// clients a deterministic way to exercise the failure path.
const declineCardSuffix = "0000"

type paymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	MarkSettled(ctx context.Context, id, receiptPath string, settledAt time.Time) error
	MarkDeclined(ctx context.Context, id, reason string, ts time.Time) error
}

type paymentReservationRepository interface {
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	UpdateStatus(ctx context.Context, id, status string, ts time.Time) error
}

type paymentApartmentRepository interface {
	GetConfig(ctx context.Context, apartmentID string) (*models.ApartmentConfig, error)
}

type paymentUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// PaymentService runs the mocked payment gateway: intents settle
// asynchronously on the jobs queue, successful settlements confirm the
// reservation and produce a PDF receipt behind a signed download link.
type PaymentService struct {
	payments     paymentRepository
	reservations paymentReservationRepository
	apartments   paymentApartmentRepository
	users        paymentUserRepository
	receipts     *export.ReceiptPDFExporter
	store        *storage.LocalStorage
	signer       *storage.SignedURLSigner
	metrics      *MetricsService
	logger       *zap.Logger
	now          func() time.Time

	settlementDelay time.Duration
	queue           *jobs.Queue
}

// PaymentServiceParams groups constructor dependencies.
type PaymentServiceParams struct {
	Payments     paymentRepository
	Reservations paymentReservationRepository
	Apartments   paymentApartmentRepository
	Users        paymentUserRepository
	Store        *storage.LocalStorage
	Signer       *storage.SignedURLSigner
	Metrics      *MetricsService
	Logger       *zap.Logger

	SettlementDelay   time.Duration
	WorkerConcurrency int
	WorkerRetries     int
}

// NewPaymentService constructs the service and its settlement queue. Call
// Start before accepting payments and Stop during shutdown.
func NewPaymentService(params PaymentServiceParams) *PaymentService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &PaymentService{
		payments:        params.Payments,
		reservations:    params.Reservations,
		apartments:      params.Apartments,
		users:           params.Users,
		receipts:        export.NewReceiptPDFExporter(),
		store:           params.Store,
		signer:          params.Signer,
		metrics:         params.Metrics,
		logger:          logger,
		now:             time.Now,
		settlementDelay: params.SettlementDelay,
	}
	s.queue = jobs.NewQueue("payment-settlement", s.handleSettlement, jobs.QueueConfig{
		Workers:    params.WorkerConcurrency,
		MaxRetries: params.WorkerRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the settlement workers.
func (s *PaymentService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the settlement workers.
func (s *PaymentService) Stop() {
	s.queue.Stop()
}

// CreateIntent records a pending payment for the user's reservation and
// queues its settlement. The caller polls GetStatus for the outcome.
func (s *PaymentService) CreateIntent(ctx context.Context, userID, reservationID string, amountUSD float64, cardNumber string) (*models.Payment, error) {
	if amountUSD <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "amount must be positive")
	}
	if len(cardNumber) < 4 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "card number is too short")
	}

	reservation, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reservation")
	}
	if reservation.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "reservation belongs to another user")
	}
	if reservation.Status != models.ReservationStatusPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("reservation is %s, only pending reservations can be paid", reservation.Status))
	}

	now := s.now().UTC()
	payment := &models.Payment{
		ID:            uuid.NewString(),
		ReservationID: reservationID,
		UserID:        userID,
		AmountUSD:     amountUSD,
		CardLast4:     cardNumber[len(cardNumber)-4:],
		Status:        models.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payment")
	}

	if err := s.queue.Enqueue(jobs.Job{
		ID:      payment.ID,
		Type:    settlementJobType,
		Payload: payment.ID,
	}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue settlement")
	}

	s.logger.Info("payment intent created",
		zap.String("payment_id", payment.ID),
		zap.String("reservation_id", reservationID),
		zap.Float64("amount_usd", amountUSD),
	)
	return payment, nil
}

// PaymentStatus is the polling view of a payment, including a signed receipt
// link once settled.
type PaymentStatus struct {
	Payment          *models.Payment `json:"payment"`
	ReceiptToken     string          `json:"receipt_token,omitempty"`
	ReceiptExpiresAt *time.Time      `json:"receipt_expires_at,omitempty"`
}

// GetStatus returns the payment state for its owner.
func (s *PaymentService) GetStatus(ctx context.Context, userID, paymentID string) (*PaymentStatus, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	if payment.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "payment belongs to another user")
	}

	status := &PaymentStatus{Payment: payment}
	if payment.Status == models.PaymentStatusSettled && payment.ReceiptPath != nil && s.signer != nil {
		token, expiresAt, err := s.signer.Generate(payment.ID, *payment.ReceiptPath)
		if err != nil {
			s.logger.Warn("failed to sign receipt link", zap.String("payment_id", payment.ID), zap.Error(err))
		} else {
			status.ReceiptToken = token
			status.ReceiptExpiresAt = &expiresAt
		}
	}
	return status, nil
}

// OpenReceipt validates a signed token and returns the receipt PDF bytes.
func (s *PaymentService) OpenReceipt(ctx context.Context, token string) ([]byte, error) {
	paymentID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrReceiptUnavailable, "invalid or expired receipt link")
	}

	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrReceiptUnavailable, "receipt not available")
	}
	if payment.ReceiptPath == nil || *payment.ReceiptPath != relPath {
		return nil, appErrors.Clone(appErrors.ErrReceiptUnavailable, "receipt not available")
	}

	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrReceiptUnavailable, "receipt file missing")
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read receipt")
	}
	return data, nil
}

// CleanupReceipts removes receipt files older than the given TTL.
func (s *PaymentService) CleanupReceipts(ttl time.Duration) {
	if s.store == nil {
		return
	}
	deleted, err := s.store.CleanupOlderThan(ttl)
	if err != nil {
		s.logger.Warn("receipt cleanup failed", zap.Error(err))
		return
	}
	if len(deleted) > 0 {
		s.logger.Info("receipt cleanup complete", zap.Int("deleted", len(deleted)))
	}
}

func (s *PaymentService) handleSettlement(ctx context.Context, job jobs.Job) error {
	paymentID := job.Payload

	// The mocked gateway "processes" for a short delay before answering.
	if s.settlementDelay > 0 {
		timer := time.NewTimer(s.settlementDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("load payment %s: %w", paymentID, err)
	}
	if payment.Status != models.PaymentStatusPending {
		return nil
	}

	now := s.now().UTC()
	if strings.HasSuffix(payment.CardLast4, declineCardSuffix) {
		if err := s.payments.MarkDeclined(ctx, payment.ID, "card declined by issuer", now); err != nil {
			return fmt.Errorf("mark payment declined: %w", err)
		}
		if s.metrics != nil {
			s.metrics.RecordPaymentSettlement("declined")
		}
		s.logger.Info("payment declined", zap.String("payment_id", payment.ID))
		return nil
	}

	relPath, err := s.renderReceipt(ctx, payment, now)
	if err != nil {
		return fmt.Errorf("render receipt for payment %s: %w", payment.ID, err)
	}

	if err := s.reservations.UpdateStatus(ctx, payment.ReservationID, models.ReservationStatusConfirmed, now); err != nil {
		return fmt.Errorf("confirm reservation %s: %w", payment.ReservationID, err)
	}
	if err := s.payments.MarkSettled(ctx, payment.ID, relPath, now); err != nil {
		return fmt.Errorf("mark payment settled: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RecordPaymentSettlement("settled")
	}

	s.logger.Info("payment settled",
		zap.String("payment_id", payment.ID),
		zap.String("reservation_id", payment.ReservationID),
		zap.String("receipt_path", relPath),
	)
	return nil
}

func (s *PaymentService) renderReceipt(ctx context.Context, payment *models.Payment, issuedAt time.Time) (string, error) {
	reservation, err := s.reservations.GetByID(ctx, payment.ReservationID)
	if err != nil {
		return "", fmt.Errorf("load reservation: %w", err)
	}

	tenantName := payment.UserID
	if user, err := s.users.FindByID(ctx, payment.UserID); err == nil {
		tenantName = user.FullName
	}

	apartmentName := reservation.ApartmentID
	targetLabel := "Entire apartment"
	if apartment, err := s.apartments.GetConfig(ctx, reservation.ApartmentID); err == nil {
		apartmentName = apartment.Name
		targetLabel = describeTarget(apartment, reservation)
	}

	receipt := export.Receipt{
		ReceiptNumber: fmt.Sprintf("RCP-%s", strings.ToUpper(payment.ID[:8])),
		IssuedAt:      issuedAt.Format("2006-01-02 15:04 MST"),
		TenantName:    tenantName,
		ApartmentName: apartmentName,
		Level:         string(reservation.Level),
		TargetLabel:   targetLabel,
		AmountUSD:     payment.AmountUSD,
		PaymentRef:    payment.ID,
	}

	pdf, err := s.receipts.Render(receipt)
	if err != nil {
		return "", err
	}

	relPath := fmt.Sprintf("%s/%s.pdf", issuedAt.Format("2006/01"), payment.ID)
	return s.store.Save(relPath, pdf)
}

func describeTarget(apartment *models.ApartmentConfig, reservation *models.Reservation) string {
	switch reservation.Level {
	case models.LevelBedroom:
		if reservation.BedroomID != nil {
			for _, bedroom := range apartment.Bedrooms {
				if bedroom.ID == *reservation.BedroomID {
					return bedroom.Name
				}
			}
		}
	case models.LevelBed:
		if reservation.BedID != nil {
			for _, bedroom := range apartment.Bedrooms {
				for _, bed := range bedroom.Beds {
					if bed.ID == *reservation.BedID {
						return fmt.Sprintf("%s / %s", bedroom.Name, bed.Label)
					}
				}
			}
		}
	}
	return "Entire apartment"
}
