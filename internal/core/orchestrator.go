package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InFlightRequest is the single outstanding classification call of an
// Orchestrator. Cancel may be called any number of times.
type InFlightRequest struct {
	ID     string
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// Cancel signals the transport to abandon the request
func (r *InFlightRequest) Cancel() {
	r.once.Do(r.cancel)
}

// Orchestrator mediates every classification submission. At most one
// request is in flight; a new Submit supersedes the previous one and the
// superseded response is dropped whenever it arrives.
type Orchestrator struct {
	classifier Classifier
	ledger     *Ledger
	validator  *Validator
	recorder   Recorder
	logger     *zap.Logger

	mu      sync.Mutex
	current *InFlightRequest
}

// NewOrchestrator creates a new request orchestrator
func NewOrchestrator(
	classifier Classifier,
	ledger *Ledger,
	validator *Validator,
	recorder Recorder,
	logger *zap.Logger,
) *Orchestrator {
	if validator == nil {
		validator = DefaultValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ledger == nil {
		ledger = NewLedger(nil, logger)
	}
	return &Orchestrator{
		classifier: classifier,
		ledger:     ledger,
		validator:  validator,
		recorder:   recorder,
		logger:     logger,
	}
}

// Submit validates input, supersedes any in-flight request and performs the
// classification. It returns a *ValidationError, a *TransportFailure or
// ErrCancelled on the non-success paths. Only a successful, still-current
// submission is appended to the ledger.
func (o *Orchestrator) Submit(ctx context.Context, input ClassificationInput) (*ClassificationResult, error) {
	start := time.Now()

	if err := o.validator.Validate(input); err != nil {
		o.observe(input.Kind, OutcomeValidation, start)
		return nil, err
	}

	req := o.dispatch(ctx)
	logger := o.logger.With(
		zap.String("request_id", req.ID),
		zap.String("kind", string(input.Kind)))
	logger.Debug("Dispatching classification request")

	result, err := o.classifier.Classify(req.ctx, input)

	o.mu.Lock()
	if o.current != req {
		o.mu.Unlock()
		logger.Debug("Dropping superseded classification response", zap.Bool("had_error", err != nil))
		o.observe(input.Kind, OutcomeCancelled, start)
		return nil, ErrCancelled
	}
	o.current = nil
	req.Cancel()

	if errors.Is(ctx.Err(), context.Canceled) {
		o.mu.Unlock()
		logger.Debug("Classification cancelled by caller")
		o.observe(input.Kind, OutcomeCancelled, start)
		return nil, ErrCancelled
	}

	if err == nil && result == nil {
		err = errors.New("empty response from classification service")
	}
	if err != nil {
		o.mu.Unlock()
		failure := asTransportFailure(err)
		logger.Warn("Classification failed",
			zap.Int("status", failure.StatusCode),
			zap.String("detail", failure.Message()),
			zap.Error(failure.Err))
		o.observe(input.Kind, OutcomeFailure, start)
		return nil, failure
	}

	// prepend under the lock, persist outside it
	entry := HistoryEntry{ClassificationResult: *result, Subject: input.Subject}
	o.ledger.Prepend(entry)
	o.mu.Unlock()
	o.ledger.Mirror(context.WithoutCancel(ctx), entry)

	logger.Info("Email classified",
		zap.String("category", string(result.Category)),
		zap.Float64("confidence", result.Confidence),
		zap.Duration("elapsed", time.Since(start)))
	o.observe(input.Kind, OutcomeSuccess, start)

	out := *result
	return &out, nil
}

// dispatch cancels the previous request, if any, and installs a fresh one
func (o *Orchestrator) dispatch(ctx context.Context) *InFlightRequest {
	reqCtx, cancel := context.WithCancel(ctx)
	req := &InFlightRequest{
		ID:     uuid.NewString(),
		ctx:    reqCtx,
		cancel: cancel,
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if prev := o.current; prev != nil {
		o.logger.Debug("Superseding in-flight request",
			zap.String("previous_id", prev.ID),
			zap.String("request_id", req.ID))
		prev.Cancel()
	}
	o.current = req
	return req
}

// Cancel abandons the in-flight request. Its Submit returns ErrCancelled.
// It reports whether there was anything to cancel.
func (o *Orchestrator) Cancel() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current == nil {
		return false
	}
	o.logger.Debug("Cancelling in-flight request", zap.String("request_id", o.current.ID))
	o.current.Cancel()
	o.current = nil
	return true
}

// InFlight returns the id of the outstanding request, if any. Callers use
// it to disable their submit trigger while busy.
func (o *Orchestrator) InFlight() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current == nil {
		return "", false
	}
	return o.current.ID, true
}

// Ledger returns the shared ledger the orchestrator appends to
func (o *Orchestrator) Ledger() *Ledger {
	return o.ledger
}

func (o *Orchestrator) observe(kind InputKind, outcome Outcome, start time.Time) {
	if o.recorder != nil {
		o.recorder.ObserveSubmission(kind, outcome, time.Since(start).Seconds())
	}
}

func asTransportFailure(err error) *TransportFailure {
	var failure *TransportFailure
	if errors.As(err, &failure) {
		return failure
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransportFailure{Detail: "classification service timed out", Err: err}
	}
	return &TransportFailure{Err: fmt.Errorf("classification request failed: %w", err)}
}
