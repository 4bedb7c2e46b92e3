//go:build unit

package commands

import (
	"context"
	"time"

	"boxcric-api/internal/domain/booking"
	"boxcric-api/internal/domain/ground"
	"boxcric-api/internal/domain/otp"
	"boxcric-api/internal/domain/user"
	"boxcric-api/internal/infra"
	"boxcric-api/internal/infra/db"
	"boxcric-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakePool satisfies db.Pool without a database. Transactions hand out a
// fakeTx; the plain query methods are never reached because the
// repositories in these tests are fakes too.
type fakePool struct {
	beginErr error
	lastTx   *fakeTx
}

func (p *fakePool) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (p *fakePool) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, nil
}

func (p *fakePool) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func (p *fakePool) Begin(context.Context) (pgx.Tx, error) {
	if p.beginErr != nil {
		return nil, p.beginErr
	}
	p.lastTx = &fakeTx{}
	return p.lastTx, nil
}

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

// fakeBookingRepo keeps bookings in memory. Reads hand out copies so a
// caller mutating its entity does not silently rewrite the "database",
// which is exactly the property the guarded update logic depends on.
type fakeBookingRepo struct {
	byID        map[uuid.UUID]*booking.Booking
	createErr   error
	updateErr   error
	forceGuard  *bool
	createCalls int
	updateCalls int
}

func newFakeBookingRepo(entities ...*booking.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{byID: make(map[uuid.UUID]*booking.Booking)}
	for _, e := range entities {
		r.byID[e.ID()] = e
	}
	return r
}

func cloneBooking(b *booking.Booking) *booking.Booking {
	cp := *b
	return &cp
}

func (r *fakeBookingRepo) Create(_ context.Context, _ db.DBTX, b *booking.Booking) error {
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[b.ID()] = cloneBooking(b)
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return cloneBooking(b), nil
}

func (r *fakeBookingRepo) FindByOrderID(_ context.Context, orderID string) (*booking.Booking, error) {
	for _, b := range r.byID {
		if b.Payment().OrderID == orderID {
			return cloneBooking(b), nil
		}
	}
	return nil, infra.WrapRepoErr("booking not found", pgx.ErrNoRows, infra.KindNotFound)
}

func (r *fakeBookingRepo) Update(_ context.Context, _ db.DBTX, b *booking.Booking, _ booking.Status) (bool, error) {
	r.updateCalls++
	if r.updateErr != nil {
		return false, r.updateErr
	}
	if r.forceGuard != nil {
		return *r.forceGuard, nil
	}
	r.byID[b.ID()] = cloneBooking(b)
	return true, nil
}

type fakeGroundRepo struct {
	byID      map[uuid.UUID]*ground.Ground
	createErr error
	updateErr error
}

func newFakeGroundRepo(entities ...*ground.Ground) *fakeGroundRepo {
	r := &fakeGroundRepo{byID: make(map[uuid.UUID]*ground.Ground)}
	for _, e := range entities {
		r.byID[e.ID()] = e
	}
	return r
}

func (r *fakeGroundRepo) Create(_ context.Context, _ db.DBTX, g *ground.Ground) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[g.ID()] = g
	return nil
}

func (r *fakeGroundRepo) FindByID(_ context.Context, id uuid.UUID) (*ground.Ground, error) {
	g, ok := r.byID[id]
	if !ok {
		return nil, infra.WrapRepoErr("ground not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return g, nil
}

func (r *fakeGroundRepo) Update(_ context.Context, _ db.DBTX, g *ground.Ground) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.byID[g.ID()] = g
	return nil
}

type queuedJob struct {
	kind    string
	topic   string
	payload []byte
	runAt   time.Time
}

type fakeNotificationRepo struct {
	jobs []queuedJob
	err  error
}

func (r *fakeNotificationRepo) CreateJob(_ context.Context, _ db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	if r.err != nil {
		return r.err
	}
	r.jobs = append(r.jobs, queuedJob{kind: kind, topic: topic, payload: payload, runAt: runAt})
	return nil
}

// fakeBookingQueries reads straight out of the fake repository so tests
// see the booking exactly as it was persisted.
type fakeBookingQueries struct {
	repo *fakeBookingRepo
}

func (q *fakeBookingQueries) GetByID(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID) (*queries.BookingView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && view.UserID != actorID {
		return nil, queries.ErrBookingAccessDenied
	}
	return view, nil
}

func (q *fakeBookingQueries) GetByIDSystem(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	b, ok := q.repo.byID[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	view := &queries.BookingView{
		ID:          b.ID(),
		Code:        b.Code(),
		UserID:      b.UserID(),
		GroundID:    b.GroundID(),
		BookedOn:    b.BookedOn(),
		TimeSlot:    b.TimeSlot(),
		Duration:    int32(b.Duration()),
		PlayerCount: int32(b.PlayerCount()),
		Amount:      b.Amount(),
		Notes:       b.Notes(),
		Status:      b.Status().String(),
		Payment: queries.BookingPaymentView{
			OrderID:       b.Payment().OrderID,
			SessionID:     b.Payment().SessionID,
			Status:        b.Payment().Status.String(),
			TransactionID: b.Payment().TransactionID,
			PaidAt:        b.Payment().PaidAt,
			FailureReason: b.Payment().FailureReason,
		},
		CreatedAt: b.CreatedAt(),
		UpdatedAt: b.UpdatedAt(),
	}
	if c := b.Confirmation(); c != nil {
		view.Confirmation = &queries.BookingConfirmationView{Code: c.Code, ConfirmedAt: c.ConfirmedAt, ConfirmedBy: c.By}
	}
	if c := b.Cancellation(); c != nil {
		view.Cancellation = &queries.BookingCancellationView{Reason: c.Reason, CancelledAt: c.CancelledAt, CancelledBy: c.By}
	}
	return view, nil
}

func (q *fakeBookingQueries) ListByUser(context.Context, uuid.UUID, int, int) ([]*queries.BookingListItem, error) {
	return nil, nil
}

func (q *fakeBookingQueries) ListAll(context.Context, queries.AdminBookingFilter, int, int) ([]*queries.AdminBookingListItem, error) {
	return nil, nil
}

type fakeGateway struct {
	createResp *GatewayOrder
	createErr  error
	getResp    *GatewayOrder
	getErr     error
	lastCreate CreateOrderParams
}

func (g *fakeGateway) CreateOrder(_ context.Context, p CreateOrderParams) (*GatewayOrder, error) {
	g.lastCreate = p
	if g.createErr != nil {
		return nil, g.createErr
	}
	return g.createResp, nil
}

func (g *fakeGateway) GetOrder(context.Context, string) (*GatewayOrder, error) {
	if g.getErr != nil {
		return nil, g.getErr
	}
	return g.getResp, nil
}

type fakeCustomers struct {
	view *queries.AuthorizedUserView
	err  error
}

func (f *fakeCustomers) FindByID(context.Context, uuid.UUID) (*queries.AuthorizedUserView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.view, nil
}

type fakeUserRepo struct {
	exists        bool
	existsErr     error
	phoneExists   bool
	phoneErr      error
	createErr     error
	created       *user.User
	incremented   []uuid.UUID
	incrementErr  error
	loggedIn      []uuid.UUID
	recordLoginAt time.Time
	loginErr      error
}

func (r *fakeUserRepo) Create(_ context.Context, _ db.DBTX, u *user.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = u
	return nil
}

func (r *fakeUserRepo) ExistsByEmail(context.Context, string) (bool, error) {
	return r.exists, r.existsErr
}

func (r *fakeUserRepo) ExistsByPhone(context.Context, string) (bool, error) {
	return r.phoneExists, r.phoneErr
}

func (r *fakeUserRepo) IncrementBookings(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	if r.incrementErr != nil {
		return r.incrementErr
	}
	r.incremented = append(r.incremented, id)
	return nil
}

func (r *fakeUserRepo) RecordLogin(_ context.Context, _ db.DBTX, id uuid.UUID, at time.Time) error {
	if r.loginErr != nil {
		return r.loginErr
	}
	r.loggedIn = append(r.loggedIn, id)
	r.recordLoginAt = at
	return nil
}

type fakeOTPRepo struct {
	stored *otp.OTP
	marked []uuid.UUID
}

func (r *fakeOTPRepo) Create(_ context.Context, _ db.DBTX, o *otp.OTP) error {
	r.stored = o
	return nil
}

func (r *fakeOTPRepo) FindLatest(_ context.Context, email string, purpose otp.Purpose) (*otp.OTP, error) {
	if r.stored == nil || r.stored.Email() != email || r.stored.Purpose() != purpose {
		return nil, infra.WrapRepoErr("otp not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return r.stored, nil
}

func (r *fakeOTPRepo) MarkUsed(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	r.marked = append(r.marked, id)
	return nil
}

type sentMail struct {
	email string
	code  string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendOTP(_ context.Context, email, code string, _ time.Duration) error {
	m.sent = append(m.sent, sentMail{email: email, code: code})
	return m.err
}

type fakeUserStore struct {
	view *queries.AuthorizedUserView
	hash string
	err  error
}

func (s *fakeUserStore) FindByID(context.Context, uuid.UUID) (*queries.AuthorizedUserView, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.view, nil
}

func (s *fakeUserStore) FindByEmail(context.Context, string) (*queries.AuthorizedUserView, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return s.view, s.hash, nil
}
