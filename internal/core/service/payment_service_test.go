package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/courseverse/course-marketplace/internal/core/domain"
	"github.com/courseverse/course-marketplace/internal/core/ports"
)

const testCourseID = "64b8f0a1c2d3e4f5a6b7c8d9"

// fakeGateway verifies signatures with the real keyed-hash scheme so tests
// can produce both legitimate and forged confirmations.
type fakeGateway struct {
	secret      string
	orderErr    error
	createCalls int
}

func (g *fakeGateway) CreateOrder(_ context.Context, input ports.OrderInput) (*ports.Order, error) {
	g.createCalls++
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	return &ports.Order{
		ID:       "order_" + uuid.New().String(),
		Amount:   input.Amount,
		Currency: input.Currency,
		Receipt:  input.Receipt,
		Status:   "created",
	}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return hmac.Equal([]byte(sign(g.secret, orderID, paymentID)), []byte(signature))
}

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

type stubCourseRepo struct {
	mu      sync.Mutex
	courses map[string]*domain.Course
	finds   int
}

func newStubCourseRepo(courses ...*domain.Course) *stubCourseRepo {
	r := &stubCourseRepo{courses: make(map[string]*domain.Course)}
	for _, c := range courses {
		r.courses[c.ID] = c
	}
	return r
}

func (r *stubCourseRepo) Create(_ context.Context, course *domain.Course) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := *course
	if created.ID == "" {
		created.ID = testCourseID
	}
	r.courses[created.ID] = &created
	return &created, nil
}

func (r *stubCourseRepo) FindByID(_ context.Context, id string) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	c, ok := r.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCourseRepo) FindAll(_ context.Context) ([]*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Course, 0, len(r.courses))
	for _, c := range r.courses {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubCourseRepo) FindByOwner(_ context.Context, owner string) ([]*domain.Course, error) {
	all, _ := r.FindAll(context.Background())
	out := make([]*domain.Course, 0)
	for _, c := range all {
		if c.Owner == owner {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubCourseRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Course, error) {
	out := make([]*domain.Course, 0, len(ids))
	for _, id := range ids {
		if c, err := r.FindByID(context.Background(), id); err == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubCourseRepo) Update(_ context.Context, course *domain.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[course.ID]; !ok {
		return domain.ErrCourseNotFound
	}
	clone := *course
	r.courses[course.ID] = &clone
	return nil
}

func (r *stubCourseRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[id]; !ok {
		return domain.ErrCourseNotFound
	}
	delete(r.courses, id)
	return nil
}

type stubReplayMarker struct {
	mu        sync.Mutex
	processed map[string]bool
	checkErr  error
}

func newStubReplayMarker() *stubReplayMarker {
	return &stubReplayMarker{processed: make(map[string]bool)}
}

func (m *stubReplayMarker) IsProcessed(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.checkErr != nil {
		return false, m.checkErr
	}
	return m.processed[key], nil
}

func (m *stubReplayMarker) Mark(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed[key] = true
	return nil
}

type stubAuditSink struct {
	mu     sync.Mutex
	events []domain.PurchaseEvent
}

func (s *stubAuditSink) Enqueue(event domain.PurchaseEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

type paymentFixture struct {
	svc      *PaymentService
	gateway  *fakeGateway
	accounts *stubAccountRepo
	courses  *stubCourseRepo
	replay   *stubReplayMarker
	audit    *stubAuditSink
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	gw := &fakeGateway{secret: "gateway-secret"}
	accounts := newStubAccountRepo()
	courses := newStubCourseRepo(&domain.Course{ID: testCourseID, Title: "Go Basics", Owner: "admin1"})
	replay := newStubReplayMarker()
	audit := &stubAuditSink{}

	if err := accounts.Create(context.Background(), &domain.Account{Username: "alice"}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	return &paymentFixture{
		svc:      NewPaymentService(gw, accounts, courses, replay, audit, zerolog.Nop()),
		gateway:  gw,
		accounts: accounts,
		courses:  courses,
		replay:   replay,
		audit:    audit,
	}
}

func (f *paymentFixture) confirmation() ports.PurchaseConfirmation {
	return ports.PurchaseConfirmation{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: sign("gateway-secret", "order_1", "pay_1"),
		CourseID:  testCourseID,
	}
}

func (f *paymentFixture) ownedCourses(t *testing.T, username string) []string {
	t.Helper()
	account, err := f.accounts.FindByUsername(context.Background(), username)
	if err != nil {
		t.Fatalf("find account: %v", err)
	}
	return account.PurchasedCourses
}

func TestPaymentService_ValidatePurchase_Grants(t *testing.T) {
	f := newPaymentFixture(t)

	result, err := f.svc.ValidatePurchase(context.Background(), "alice", f.confirmation())
	if err != nil {
		t.Fatalf("ValidatePurchase returned error: %v", err)
	}
	if result.OrderID != "order_1" || result.PaymentID != "pay_1" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.AlreadyOwned {
		t.Fatalf("first grant reported as already owned")
	}

	owned := f.ownedCourses(t, "alice")
	if len(owned) != 1 || owned[0] != testCourseID {
		t.Fatalf("unexpected owned set: %v", owned)
	}
	if len(f.audit.events) != 1 {
		t.Fatalf("expected 1 audit event, got %d", len(f.audit.events))
	}
}

func TestPaymentService_ValidatePurchase_Forged(t *testing.T) {
	f := newPaymentFixture(t)

	// Signature computed over a different payment id than the one submitted.
	c := f.confirmation()
	c.Signature = sign("gateway-secret", c.OrderID, "pay_other")

	if _, err := f.svc.ValidatePurchase(context.Background(), "alice", c); !errors.Is(err, domain.ErrForgedSignature) {
		t.Fatalf("expected ErrForgedSignature, got %v", err)
	}
	if owned := f.ownedCourses(t, "alice"); len(owned) != 0 {
		t.Fatalf("forged confirmation mutated state: %v", owned)
	}
	if len(f.audit.events) != 0 {
		t.Fatalf("forged confirmation produced audit events")
	}
}

func TestPaymentService_ValidatePurchase_InvalidCourseID(t *testing.T) {
	f := newPaymentFixture(t)

	c := f.confirmation()
	c.CourseID = "not-a-course-id"

	if _, err := f.svc.ValidatePurchase(context.Background(), "alice", c); !errors.Is(err, domain.ErrInvalidCourseID) {
		t.Fatalf("expected ErrInvalidCourseID, got %v", err)
	}
}

func TestPaymentService_ValidatePurchase_AccountNotFound(t *testing.T) {
	f := newPaymentFixture(t)

	if _, err := f.svc.ValidatePurchase(context.Background(), "ghost", f.confirmation()); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestPaymentService_ValidatePurchase_CourseNotFound(t *testing.T) {
	f := newPaymentFixture(t)

	c := f.confirmation()
	c.CourseID = "ffffffffffffffffffffffff"
	c.Signature = sign("gateway-secret", c.OrderID, c.PaymentID)

	if _, err := f.svc.ValidatePurchase(context.Background(), "alice", c); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestPaymentService_ValidatePurchase_IdempotentReplay(t *testing.T) {
	f := newPaymentFixture(t)

	if _, err := f.svc.ValidatePurchase(context.Background(), "alice", f.confirmation()); err != nil {
		t.Fatalf("first validation failed: %v", err)
	}

	result, err := f.svc.ValidatePurchase(context.Background(), "alice", f.confirmation())
	if err != nil {
		t.Fatalf("replayed validation failed: %v", err)
	}
	if !result.AlreadyOwned {
		t.Fatalf("replay not reported as already owned")
	}

	if owned := f.ownedCourses(t, "alice"); len(owned) != 1 {
		t.Fatalf("replay double-granted: %v", owned)
	}

	// The marker short-circuits before resolution, so the course lookup
	// count must not grow on replay.
	if f.courses.finds != 1 {
		t.Fatalf("expected 1 course lookup, got %d", f.courses.finds)
	}
}

func TestPaymentService_ValidatePurchase_ReplayByOtherAccount(t *testing.T) {
	f := newPaymentFixture(t)
	if err := f.accounts.Create(context.Background(), &domain.Account{Username: "bob"}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	if _, err := f.svc.ValidatePurchase(context.Background(), "alice", f.confirmation()); err != nil {
		t.Fatalf("first validation failed: %v", err)
	}

	// The same valid confirmation submitted by a different account must not
	// hit alice's marker: bob's grant has to actually run.
	result, err := f.svc.ValidatePurchase(context.Background(), "bob", f.confirmation())
	if err != nil {
		t.Fatalf("validation for second account failed: %v", err)
	}
	if result.AlreadyOwned {
		t.Fatalf("second account's first grant reported as already owned")
	}
	if owned := f.ownedCourses(t, "bob"); len(owned) != 1 || owned[0] != testCourseID {
		t.Fatalf("confirmation acknowledged without granting: %v", owned)
	}
}

func TestPaymentService_ValidatePurchase_SamePaymentOtherCourse(t *testing.T) {
	f := newPaymentFixture(t)
	const otherCourseID = "64b8f0a1c2d3e4f5a6b7c8da"
	if _, err := f.courses.Create(context.Background(), &domain.Course{ID: otherCourseID, Title: "Go Advanced", Owner: "admin1"}); err != nil {
		t.Fatalf("seed course: %v", err)
	}

	if _, err := f.svc.ValidatePurchase(context.Background(), "alice", f.confirmation()); err != nil {
		t.Fatalf("first validation failed: %v", err)
	}

	c := f.confirmation()
	c.CourseID = otherCourseID

	result, err := f.svc.ValidatePurchase(context.Background(), "alice", c)
	if err != nil {
		t.Fatalf("validation for second course failed: %v", err)
	}
	if result.AlreadyOwned {
		t.Fatalf("first grant of second course reported as already owned")
	}
	if owned := f.ownedCourses(t, "alice"); len(owned) != 2 {
		t.Fatalf("second course not granted: %v", owned)
	}
}

func TestPaymentService_ValidatePurchase_MarkerFailureIsNonFatal(t *testing.T) {
	f := newPaymentFixture(t)
	f.replay.checkErr = errors.New("redis down")

	if _, err := f.svc.ValidatePurchase(context.Background(), "alice", f.confirmation()); err != nil {
		t.Fatalf("validation should survive marker failure: %v", err)
	}
	if owned := f.ownedCourses(t, "alice"); len(owned) != 1 {
		t.Fatalf("unexpected owned set: %v", owned)
	}
}

func TestPaymentService_ValidatePurchase_ConcurrentGrantsOnce(t *testing.T) {
	f := newPaymentFixture(t)
	// Force every call down the resolution path so the conditional grant is
	// the only thing preventing a double append.
	f.replay.checkErr = errors.New("redis down")

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.ValidatePurchase(context.Background(), "alice", f.confirmation())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent validation failed: %v", err)
		}
	}
	if owned := f.ownedCourses(t, "alice"); len(owned) != 1 || owned[0] != testCourseID {
		t.Fatalf("expected exactly one grant, got %v", owned)
	}
}

func TestPaymentService_CreateOrder_Validation(t *testing.T) {
	f := newPaymentFixture(t)

	for _, input := range []ports.OrderInput{
		{Amount: 0, Currency: "INR", Receipt: "r1"},
		{Amount: 4999, Currency: "", Receipt: "r1"},
		{Amount: 4999, Currency: "INR", Receipt: ""},
	} {
		if _, err := f.svc.CreateOrder(context.Background(), input); !errors.Is(err, domain.ErrInvalidOrder) {
			t.Fatalf("input %+v: expected ErrInvalidOrder, got %v", input, err)
		}
	}
	if f.gateway.createCalls != 0 {
		t.Fatalf("invalid input reached the gateway")
	}
}

func TestPaymentService_CreateOrder_Success(t *testing.T) {
	f := newPaymentFixture(t)

	order, err := f.svc.CreateOrder(context.Background(), ports.OrderInput{Amount: 4999, Currency: "INR", Receipt: "r1"})
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if order.ID == "" || order.Amount != 4999 || order.Currency != "INR" {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func TestPaymentService_CreateOrder_GatewayError(t *testing.T) {
	f := newPaymentFixture(t)
	f.gateway.orderErr = domain.ErrGatewayUnavailable

	if _, err := f.svc.CreateOrder(context.Background(), ports.OrderInput{Amount: 1, Currency: "INR", Receipt: "r"}); !errors.Is(err, domain.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestPaymentService_PurchasedCoursesAndOwnership(t *testing.T) {
	f := newPaymentFixture(t)

	owns, err := f.svc.OwnsCourse(context.Background(), "alice", testCourseID)
	if err != nil || owns {
		t.Fatalf("expected no ownership before purchase, got owns=%v err=%v", owns, err)
	}

	if _, err := f.svc.ValidatePurchase(context.Background(), "alice", f.confirmation()); err != nil {
		t.Fatalf("validation failed: %v", err)
	}

	owns, err = f.svc.OwnsCourse(context.Background(), "alice", testCourseID)
	if err != nil || !owns {
		t.Fatalf("expected ownership after purchase, got owns=%v err=%v", owns, err)
	}

	courses, err := f.svc.PurchasedCourses(context.Background(), "alice")
	if err != nil {
		t.Fatalf("PurchasedCourses returned error: %v", err)
	}
	if len(courses) != 1 || courses[0].ID != testCourseID {
		t.Fatalf("unexpected purchased courses: %+v", courses)
	}
}
