package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/dwikikusuma/distributor-portal/internal/order/domain"
	"github.com/dwikikusuma/distributor-portal/pkg/logger"
)

const instrumentationName = "github.com/dwikikusuma/distributor-portal/internal/order"

type Config struct {
	AccountID    string
	AuthTimeout  time.Duration
	OrderTimeout time.Duration
}

// Status is the externally visible state of the workflow. Busy drives the
// client's loading indicator.
type Status struct {
	State     domain.State
	Busy      bool
	AttemptID string
	Receipt   *domain.Receipt
	Error     *domain.SubmitError
	UpdatedAt time.Time
}

// Workflow places the cart as an order: authenticate, submit, and clear the
// cart only when the backend accepts. One attempt runs at a time.
type Workflow struct {
	tokens  TokenSource
	gateway OrderGateway
	cart    CartStore
	cfg     Config
	log     *slog.Logger
	now     func() time.Time

	tracer      trace.Tracer
	submissions metric.Int64Counter

	mu     sync.Mutex
	status Status
}

func NewWorkflow(tokens TokenSource, gateway OrderGateway, cart CartStore, cfg Config, log *slog.Logger) *Workflow {
	if cfg.AuthTimeout <= 0 {
		cfg.AuthTimeout = 10 * time.Second
	}
	if cfg.OrderTimeout <= 0 {
		cfg.OrderTimeout = 10 * time.Second
	}

	log = logger.OrDefault(log)
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"portal.order.submissions",
		metric.WithDescription("Order submission attempts by outcome"),
	)
	if err != nil {
		log.Warn("order submission counter unavailable", slog.Any("err", err))
	}

	return &Workflow{
		tokens:      tokens,
		gateway:     gateway,
		cart:        cart,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
		tracer:      otel.Tracer(instrumentationName),
		submissions: counter,
		status:      Status{State: domain.Idle},
	}
}

func (w *Workflow) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := w.status
	st.Busy = st.State.Busy()
	return st
}

// Submit runs one attempt. The cart is cleared only on success; every failure
// leaves it exactly as it was.
func (w *Workflow) Submit(ctx context.Context) (domain.Receipt, error) {
	attemptID := uuid.NewString()
	ctx, span := w.tracer.Start(ctx, "order.submit", trace.WithAttributes(
		attribute.String("order.attempt_id", attemptID),
	))
	defer span.End()

	lines, err := w.begin(ctx, attemptID)
	if err != nil {
		w.record(ctx, span, err)
		return domain.Receipt{}, err
	}
	span.SetAttributes(attribute.Int("order.lines", len(lines)))
	log := w.log.With(slog.String("attempt_id", attemptID))

	token, err := w.authenticate(ctx)
	if err != nil {
		return domain.Receipt{}, w.fail(ctx, span, log, domain.NewAuthError(err))
	}

	if err := w.transition(domain.Submitting); err != nil {
		return domain.Receipt{}, w.fail(ctx, span, log, domain.NewRequestError(err))
	}
	span.AddEvent("submitting")
	log.Info("order submitting", slog.Int("lines", len(lines)))

	receipt, err := w.submit(ctx, token, domain.BuildPayload(w.cfg.AccountID, lines))
	if err != nil {
		return domain.Receipt{}, w.fail(ctx, span, log, classify(err))
	}

	// The order exists on the backend now; clear even if the caller went away.
	if err := w.cart.Clear(context.WithoutCancel(ctx)); err != nil {
		log.Warn("order placed but cart clear failed", slog.String("order_number", receipt.OrderNumber), slog.Any("err", err))
	}

	w.mu.Lock()
	w.setLocked(domain.Succeeded)
	w.status.Receipt = &receipt
	w.status.Error = nil
	w.mu.Unlock()

	span.SetAttributes(
		attribute.String("order.number", receipt.OrderNumber),
		attribute.String("order.contract_number", receipt.ContractNumber),
	)
	w.count(ctx, "succeeded")
	log.Info("order placed",
		slog.String("order_number", receipt.OrderNumber),
		slog.String("contract_number", receipt.ContractNumber),
	)
	return receipt, nil
}

// begin claims the workflow for a new attempt. It rejects a concurrent attempt
// and an empty cart without leaving the current state.
func (w *Workflow) begin(ctx context.Context, attemptID string) ([]domain.Line, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.status.State.Busy() {
		return nil, domain.NewBusyError()
	}

	lines, err := w.cart.Lines(ctx)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, domain.NewEmptyCartError()
	}

	if !w.status.State.CanTransition(domain.Authenticating) {
		return nil, &domain.TransitionError{From: w.status.State, To: domain.Authenticating}
	}
	w.setLocked(domain.Authenticating)
	w.status.AttemptID = attemptID
	w.status.Receipt = nil
	w.status.Error = nil
	return lines, nil
}

func (w *Workflow) authenticate(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.AuthTimeout)
	defer cancel()

	token, err := w.tokens.Token(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(token) == "" {
		return "", errors.New("empty access token")
	}
	return token, nil
}

func (w *Workflow) submit(ctx context.Context, token string, p domain.Payload) (domain.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.OrderTimeout)
	defer cancel()
	return w.gateway.CreateOrder(ctx, token, p)
}

func (w *Workflow) fail(ctx context.Context, span trace.Span, log *slog.Logger, se *domain.SubmitError) error {
	w.mu.Lock()
	w.setLocked(domain.Failed)
	w.status.Error = se
	w.mu.Unlock()

	w.record(ctx, span, se)
	log.Warn("order failed",
		slog.String("kind", se.Kind.String()),
		slog.Int("status", se.StatusCode),
		slog.Any("err", se),
	)
	return se
}

func (w *Workflow) record(ctx context.Context, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	outcome := "error"
	var se *domain.SubmitError
	if errors.As(err, &se) {
		outcome = strings.ToLower(se.Kind.String())
	}
	w.count(ctx, outcome)
}

func (w *Workflow) count(ctx context.Context, outcome string) {
	if w.submissions == nil {
		return
	}
	w.submissions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (w *Workflow) transition(to domain.State) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.status.State.CanTransition(to) {
		return &domain.TransitionError{From: w.status.State, To: to}
	}
	w.setLocked(to)
	return nil
}

func (w *Workflow) setLocked(to domain.State) {
	w.log.Debug("order state", slog.String("from", w.status.State.String()), slog.String("to", to.String()))
	w.status.State = to
	w.status.UpdatedAt = w.now()
}

// classify keeps gateway classifications and treats anything else as a
// failure to get a response.
func classify(err error) *domain.SubmitError {
	var se *domain.SubmitError
	if errors.As(err, &se) {
		return se
	}
	return domain.NewRequestError(err)
}
