package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/courseverse/course-marketplace/internal/core/domain"
	"github.com/courseverse/course-marketplace/internal/core/ports"
)

// ReplayMarker abstracts the processed-grant store (Redis). Keys identify a
// single grant (account, course and payment together), so a marked key means
// that exact grant already happened and can be confirmed without touching
// account state again.
type ReplayMarker interface {
	IsProcessed(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

// AuditSink receives purchase events for asynchronous persistence.
type AuditSink interface {
	Enqueue(event domain.PurchaseEvent)
}

// PaymentService implements order creation and the purchase validation state
// machine: signature check, replay check, account/course resolution,
// idempotent grant, confirmation.
type PaymentService struct {
	gateway     ports.PaymentGateway
	accountRepo ports.AccountRepository
	courseRepo  ports.CourseRepository
	replay      ReplayMarker
	audit       AuditSink
	log         zerolog.Logger
}

func NewPaymentService(
	gateway ports.PaymentGateway,
	accountRepo ports.AccountRepository,
	courseRepo ports.CourseRepository,
	replay ReplayMarker,
	audit AuditSink,
	log zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		gateway:     gateway,
		accountRepo: accountRepo,
		courseRepo:  courseRepo,
		replay:      replay,
		audit:       audit,
		log:         log,
	}
}

// CreateOrder registers an order with the payment processor. The processor
// owns the order's state; nothing is persisted locally.
func (s *PaymentService) CreateOrder(ctx context.Context, input ports.OrderInput) (*ports.Order, error) {
	if input.Amount <= 0 || input.Currency == "" || input.Receipt == "" {
		return nil, domain.ErrInvalidOrder
	}

	order, err := s.gateway.CreateOrder(ctx, input)
	if err != nil {
		s.log.Error().Err(err).Str("receipt", input.Receipt).Msg("order creation failed")
		return nil, err
	}

	s.log.Info().Str("order_id", order.ID).Str("currency", order.Currency).
		Int64("amount", order.Amount).Msg("order created")
	return order, nil
}

// ValidatePurchase consumes a processor confirmation. A forged signature
// never mutates state, and replaying a valid confirmation never grants the
// course twice.
func (s *PaymentService) ValidatePurchase(ctx context.Context, username string, c ports.PurchaseConfirmation) (*ports.PurchaseResult, error) {
	// 1. Signature gate. Everything below is unreachable for forged payloads.
	if !s.gateway.VerifySignature(c.OrderID, c.PaymentID, c.Signature) {
		return nil, domain.ErrForgedSignature
	}

	// 2. Replay fast path. The marker key covers caller, course and payment,
	// so a hit means this exact grant already happened; the same payment
	// replayed by another account, or against another course, misses and
	// falls through to the grant below. Marker failures are non-fatal: the
	// grant itself is idempotent, so processing anyway is safe.
	key := replayKey(username, c.CourseID, c.PaymentID)
	processed, err := s.replay.IsProcessed(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("payment_id", c.PaymentID).Msg("replay check failed, processing anyway")
	} else if processed {
		s.log.Debug().Str("username", username).Str("payment_id", c.PaymentID).Msg("replayed confirmation")
		return &ports.PurchaseResult{OrderID: c.OrderID, PaymentID: c.PaymentID, AlreadyOwned: true}, nil
	}

	// 3. Resolve caller and course, with separate not-found outcomes.
	if !isHexObjectID(c.CourseID) {
		return nil, domain.ErrInvalidCourseID
	}
	if _, err := s.accountRepo.FindByUsername(ctx, username); err != nil {
		return nil, err
	}
	course, err := s.courseRepo.FindByID(ctx, c.CourseID)
	if err != nil {
		return nil, err
	}

	// 4. Grant, add-if-absent. The repository performs the membership check
	// and append in one conditional update.
	alreadyOwned, err := s.accountRepo.GrantCourse(ctx, username, course.ID)
	if err != nil {
		return nil, fmt.Errorf("grant course: %w", err)
	}

	if err := s.replay.Mark(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("payment_id", c.PaymentID).Msg("failed to mark grant processed")
	}

	s.audit.Enqueue(domain.PurchaseEvent{
		Username:     username,
		CourseID:     course.ID,
		OrderID:      c.OrderID,
		PaymentID:    c.PaymentID,
		GrantedAt:    time.Now().UTC(),
		AlreadyOwned: alreadyOwned,
	})

	s.log.Info().Str("username", username).Str("course_id", course.ID).
		Str("payment_id", c.PaymentID).Bool("already_owned", alreadyOwned).
		Msg("purchase validated")

	return &ports.PurchaseResult{OrderID: c.OrderID, PaymentID: c.PaymentID, AlreadyOwned: alreadyOwned}, nil
}

func (s *PaymentService) PurchasedCourses(ctx context.Context, username string) ([]*domain.Course, error) {
	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(account.PurchasedCourses) == 0 {
		return []*domain.Course{}, nil
	}
	return s.courseRepo.FindByIDs(ctx, account.PurchasedCourses)
}

func (s *PaymentService) OwnsCourse(ctx context.Context, username, courseID string) (bool, error) {
	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	for _, id := range account.PurchasedCourses {
		if id == courseID {
			return true, nil
		}
	}
	return false, nil
}

// replayKey identifies one grant. The same payment replayed by a different
// account, or with a different course, must produce a different key.
func replayKey(username, courseID, paymentID string) string {
	return username + "|" + courseID + "|" + paymentID
}

// isHexObjectID reports whether s is a 24-character hex string, the document
// id format used by the courses collection.
func isHexObjectID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
