package bandit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"workflowAdvisor/domain"
	"workflowAdvisor/pkg/logger"

	"gorm.io/datatypes"
)

// Engine is the single owner of the posterior store. Every selection and
// every reward update passes through its mutex, including the lazy creation
// of posteriors inside SelectAction, the gateway save that follows a
// mutation and the audit row of an applied reward. Updates never interleave,
// and snapshots and audit rows reach their sinks in mutation order.
type Engine struct {
	mu    sync.Mutex
	store *Store

	// set while the last Restore failed; saves are refused so the empty
	// store cannot replace the stored snapshot
	restoreFailed bool

	cfg         Config
	gateway     PersistenceGateway
	sampler     Sampler
	evaluator   OutcomeEvaluator
	eligibility EligibilityChecker
	eventLog    EventLog
	onError     func(ctx context.Context, err error)
	now         func() time.Time
}

type Option func(*Engine)

// WithSampler replaces the sampler chosen by Config.Sampler.
func WithSampler(s Sampler) Option {
	return func(e *Engine) { e.sampler = s }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithEvaluator(ev OutcomeEvaluator) Option {
	return func(e *Engine) { e.evaluator = ev }
}

func WithEligibility(c EligibilityChecker) Option {
	return func(e *Engine) { e.eligibility = c }
}

func WithEventLog(l EventLog) Option {
	return func(e *Engine) { e.eventLog = l }
}

// WithErrorHandler receives errors that do not fail the call they happened
// in: a save failure during SelectAction, or an audit log write failure.
// The handler runs after the engine lock is released and may call back into
// the engine.
func WithErrorHandler(fn func(ctx context.Context, err error)) Option {
	return func(e *Engine) { e.onError = fn }
}

// NewEngine builds an engine with an empty store. Call Restore to load the
// last saved snapshot. gateway may be nil, in which case nothing is persisted.
func NewEngine(cfg Config, gateway PersistenceGateway, opts ...Option) (*Engine, error) {
	if cfg.Sampler == "" {
		cfg.Sampler = SamplerBeta
	}
	if cfg.Rationale == "" {
		cfg.Rationale = defaultRationale
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid bandit config: %w", err)
	}

	e := &Engine{
		store:       newStore(cfg.PriorAlpha, cfg.PriorBeta, cfg.MaxPosteriors),
		cfg:         cfg,
		gateway:     gateway,
		sampler:     newSampler(cfg.Sampler, cfg.Seed),
		evaluator:   NewOutcomeEvaluator(),
		eligibility: NoopEligibilityChecker{},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Fingerprint encodes actx and returns the vector with its bucket hash.
func (e *Engine) Fingerprint(actx domain.AcquisitionContext) (FeatureVector, uint64) {
	fv := Encode(actx)
	return fv, fv.hashWithResolution(e.cfg.FingerprintResolution)
}

// ---- Selection ----

type scoredAction struct {
	action     domain.Action
	sample     float64
	confidence float64
}

// SelectAction draws one Thompson sample per candidate and returns the
// candidate with the strictly greatest sample; ties keep the earliest
// candidate. Posteriors are created from the prior on first sight.
func (e *Engine) SelectAction(
	ctx context.Context,
	actx domain.AcquisitionContext,
	candidates []domain.Action,
) (domain.ActionRecommendation, error) {

	if len(candidates) == 0 {
		BanditSelectionsTotal.WithLabelValues("no_valid_action").Inc()
		return domain.ActionRecommendation{}, ErrNoValidAction
	}

	actions := e.filterCandidates(ctx, actx, candidates)
	if len(actions) == 0 {
		BanditSelectionsTotal.WithLabelValues("no_valid_action").Inc()
		return domain.ActionRecommendation{}, ErrNoValidAction
	}

	fv, fp := e.Fingerprint(actx)
	historical := fv.Get(FeatureHistoricalSuccess, defaultFeatureValue)
	complexity := fv.Get(FeatureComplexity, defaultFeatureValue)

	scored, best, created, persistErr := e.sampleCandidates(ctx, actions, fv, fp, historical, complexity)
	if persistErr != nil {
		e.report(ctx, persistErr)
	}

	rec := domain.ActionRecommendation{
		Action:         scored[best].action,
		Confidence:     scored[best].confidence,
		Rationale:      e.cfg.Rationale,
		ThompsonSample: scored[best].sample,
		Alternatives:   make([]domain.AlternativeAction, 0, len(scored)-1),
	}
	for i, s := range scored {
		if i == best {
			continue
		}
		rec.Alternatives = append(rec.Alternatives, domain.AlternativeAction{
			Action:         s.action,
			Confidence:     s.confidence,
			ThompsonSample: s.sample,
		})
	}

	BanditSelectionsTotal.WithLabelValues("selected").Inc()
	logger.Debug("bandit_select",
		"trace_id", TraceIDFromContext(ctx),
		"fingerprint", fp,
		"action_id", rec.Action.ID,
		"sample", rec.ThompsonSample,
		"confidence", rec.Confidence,
		"candidate_count", len(actions),
		"created", created,
	)

	return rec, nil
}

func (e *Engine) sampleCandidates(
	ctx context.Context,
	actions []domain.Action,
	fv FeatureVector,
	fp uint64,
	historical, complexity float64,
) (scored []scoredAction, best, created int, persistErr error) {

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	touched := make(map[ActionIdentifier]struct{}, len(actions))
	scored = make([]scoredAction, len(actions))

	for i, a := range actions {
		id := ActionIdentifier{ActionID: a.ID, Fingerprint: fp}
		post, isNew := e.store.ensure(id, fv, now)
		if isNew {
			created++
		}
		touched[id] = struct{}{}

		theta := clamp01(e.sampler.Sample(post.SuccessCount, post.FailureCount))
		scored[i] = scoredAction{
			action:     a,
			sample:     theta,
			confidence: clamp01(theta * historical * (1 - complexity)),
		}
		if theta > scored[best].sample {
			best = i
		}
	}

	if created > 0 {
		if dropped := capPosteriors(e.store, touched); len(dropped) > 0 {
			BanditEvictionsTotal.Add(float64(len(dropped)))
		}
		BanditPosteriors.Set(float64(e.store.len()))
		persistErr = e.persistLocked(ctx)
	}
	return scored, best, created, persistErr
}

// ---- Feedback ----

// UpdateReward applies signal to the posterior of (actionID, actx). A
// posterior that was never created by SelectAction is left alone and the
// call returns nil. The in-memory update is complete before the gateway is
// called; a save failure is returned as *PersistError but is not rolled back.
func (e *Engine) UpdateReward(
	ctx context.Context,
	actionID string,
	signal RewardSignal,
	actx domain.AcquisitionContext,
) error {

	fv, fp := e.Fingerprint(actx)
	reward := signal.Total()
	id := ActionIdentifier{ActionID: actionID, Fingerprint: fp}

	applied, success, persistErr, logErr := e.applyReward(ctx, id, signal, reward, fv)
	if !applied {
		BanditRewardUpdatesTotal.WithLabelValues("ignored").Inc()
		logger.Debug("bandit_reward_ignored",
			"trace_id", TraceIDFromContext(ctx),
			"action_id", actionID,
			"fingerprint", fp,
		)
		return nil
	}

	result := "failure"
	if success {
		result = "success"
	}
	BanditRewardUpdatesTotal.WithLabelValues(result).Inc()

	logger.Debug("bandit_feedback",
		"trace_id", TraceIDFromContext(ctx),
		"action_id", actionID,
		"fingerprint", fp,
		"reward", reward,
		"success", success,
	)

	if logErr != nil {
		e.report(ctx, logErr)
	}

	return persistErr
}

// UpdateFromOutcome scores a raw outcome with the engine's OutcomeEvaluator
// and applies the resulting signal.
func (e *Engine) UpdateFromOutcome(
	ctx context.Context,
	actionID string,
	outcome domain.Outcome,
	actx domain.AcquisitionContext,
) error {
	return e.UpdateReward(ctx, actionID, e.evaluator.Evaluate(ctx, outcome), actx)
}

func (e *Engine) applyReward(
	ctx context.Context,
	id ActionIdentifier,
	signal RewardSignal,
	reward float64,
	fv FeatureVector,
) (applied, success bool, persistErr, logErr error) {

	e.mu.Lock()
	defer e.mu.Unlock()

	post, ok := e.store.get(id)
	if !ok {
		return false, false, nil, nil
	}
	success = post.applyReward(reward, e.now())
	persistErr = e.persistLocked(ctx)
	logErr = e.logEventLocked(ctx, id, signal, reward, success, fv)
	return true, success, persistErr, logErr
}

// ---- Persistence ----

// Restore replaces the store with the gateway's last snapshot. A missing
// snapshot leaves the store empty and is not an error. After a failed
// Restore every save returns ErrRestoreIncomplete until a later Restore
// succeeds, so the stored snapshot is never overwritten by a partial store.
func (e *Engine) Restore(ctx context.Context) error {
	if e.gateway == nil {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := e.gateway.Load(ctx)
	if errors.Is(err, ErrSnapshotNotFound) {
		e.restoreFailed = false
		logger.Info("bandit_restore", "entries", 0, "reason", "no snapshot")
		return nil
	}
	if err != nil {
		e.restoreFailed = true
		BanditPersistFailuresTotal.WithLabelValues("load").Inc()
		logger.Error("bandit_restore_failed", "error", err)
		return &PersistError{Op: "load", Err: err}
	}

	if snap.RewardWeightsVersion != "" && snap.RewardWeightsVersion != RewardWeightsVersion {
		logger.Warn("bandit_restore_weights_mismatch",
			"stored", snap.RewardWeightsVersion,
			"current", RewardWeightsVersion,
		)
	}

	e.restoreFailed = false
	e.store.replace(snap.Records())
	if dropped := capPosteriors(e.store, nil); len(dropped) > 0 {
		BanditEvictionsTotal.Add(float64(len(dropped)))
	}
	BanditPosteriors.Set(float64(e.store.len()))

	logger.Info("bandit_restore", "entries", e.store.len(), "saved_at", snap.SavedAt)
	return nil
}

// persistLocked hands a deep copy of the store to the gateway. Caller holds e.mu.
func (e *Engine) persistLocked(ctx context.Context) error {
	if e.gateway == nil {
		return nil
	}
	if e.restoreFailed {
		BanditPersistFailuresTotal.WithLabelValues("save").Inc()
		return &PersistError{Op: "save", Err: ErrRestoreIncomplete}
	}
	snap := newSnapshot(e.store.entriesCopy(), e.now())
	if err := e.gateway.Save(ctx, snap); err != nil {
		BanditPersistFailuresTotal.WithLabelValues("save").Inc()
		logger.Error("bandit_persist_failed",
			"trace_id", TraceIDFromContext(ctx),
			"entries", len(snap.Entries),
			"error", err,
		)
		return &PersistError{Op: "save", Err: err}
	}
	return nil
}

// logEventLocked writes the audit row of an applied reward. Caller holds e.mu.
func (e *Engine) logEventLocked(
	ctx context.Context,
	id ActionIdentifier,
	signal RewardSignal,
	reward float64,
	success bool,
	fv FeatureVector,
) error {
	if e.eventLog == nil {
		return nil
	}

	ctxMap := make(map[string]any, len(fv))
	for k, v := range fv {
		ctxMap[k] = v
	}

	event := domain.FeedbackEvent{
		TraceID:     TraceIDFromContext(ctx),
		ActionID:    id.ActionID,
		Fingerprint: strconv.FormatUint(id.Fingerprint, 16),
		Immediate:   signal.Immediate,
		Delayed:     signal.Delayed,
		Compliance:  signal.Compliance,
		Efficiency:  signal.Efficiency,
		Reward:      reward,
		Success:     success,
		Context:     datatypes.JSONMap(ctxMap),
	}
	if err := e.eventLog.SaveEvent(ctx, event); err != nil {
		return fmt.Errorf("save feedback event: %w", err)
	}
	return nil
}

func (e *Engine) report(ctx context.Context, err error) {
	if e.onError != nil {
		e.onError(ctx, err)
		return
	}
	logger.Warn("bandit_side_channel_error", "trace_id", TraceIDFromContext(ctx), "error", err)
}

// ---- Views ----

// Posterior returns a copy of the posterior for (actionID, actx).
func (e *Engine) Posterior(actionID string, actx domain.AcquisitionContext) (ContextualBandit, bool) {
	_, fp := e.Fingerprint(actx)

	e.mu.Lock()
	defer e.mu.Unlock()

	post, ok := e.store.get(ActionIdentifier{ActionID: actionID, Fingerprint: fp})
	if !ok {
		return ContextualBandit{}, false
	}
	return post.clone(), true
}

// Size returns the number of posteriors held.
func (e *Engine) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.len()
}

// Snapshot returns the current store in its persisted form.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return newSnapshot(e.store.entriesCopy(), e.now())
}
