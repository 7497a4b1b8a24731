package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vk/regiongrid/internal/ctxlog"
	"github.com/vk/regiongrid/internal/model"
)

// Builder builds a single target. *executor.Executor implements it.
type Builder interface {
	Build(ctx context.Context, t model.Target) error
}

// Engine runs targets sequentially through a Builder.
type Engine struct {
	builder Builder
	tracer  trace.Tracer
	now     func() time.Time
	newID   func() string
}

// Option customises an Engine.
type Option func(*Engine)

// WithClock replaces the clock used to stamp outcomes.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRunID replaces the run id generator.
func WithRunID(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// New creates an Engine.
func New(builder Builder, opts ...Option) *Engine {
	e := &Engine{
		builder: builder,
		tracer:  otel.Tracer("github.com/vk/regiongrid/internal/engine"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run attempts targets in order until the list is exhausted or limit targets
// have been attempted. limit <= 0 means no cap. A target failure is recorded
// and never stops the run. If ctx is cancelled between targets, Run returns
// the partial report together with ctx.Err().
func (e *Engine) Run(ctx context.Context, targets []model.Target, limit int) (*model.RunReport, error) {
	logger := ctxlog.FromContext(ctx)
	report := &model.RunReport{
		RunID:   e.newID(),
		Started: e.now(),
	}
	defer func() { report.Finished = e.now() }()

	ctx, span := e.tracer.Start(ctx, "regiongrid.run", trace.WithAttributes(
		attribute.String("run.id", report.RunID),
		attribute.Int("run.targets", len(targets)),
		attribute.Int("run.limit", limit),
	))
	defer span.End()

	logger.Info("Starting run.", "run_id", report.RunID, "targets", len(targets), "limit", limit)

	remaining := limit
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			logger.Warn("Run cancelled.", "attempted", len(report.Attempts), "error", err)
			span.SetStatus(codes.Error, "cancelled")
			return report, err
		}

		outcome := e.attempt(ctx, t)
		report.Attempts = append(report.Attempts, outcome)
		if outcome.State == model.StateSucceeded {
			report.Succeeded = append(report.Succeeded, t)
		} else {
			report.Failed = append(report.Failed, model.FailureDescription(t))
		}

		if limit > 0 {
			remaining--
			if remaining == 0 {
				logger.Info("Attempt limit reached.", "limit", limit)
				break
			}
		}
	}

	span.SetAttributes(
		attribute.Int("run.succeeded", len(report.Succeeded)),
		attribute.Int("run.failed", len(report.Failed)),
	)
	logger.Info("Run finished.", "attempted", len(report.Attempts), "succeeded", len(report.Succeeded), "failed", len(report.Failed))
	return report, nil
}

// attempt builds one target and returns its terminal outcome.
func (e *Engine) attempt(ctx context.Context, t model.Target) model.Outcome {
	ctx, logger := ctxlog.With(ctx, "target_id", t.ID, "target_name", t.Name)
	ctx, span := e.tracer.Start(ctx, "regiongrid.target", trace.WithAttributes(
		attribute.String("target.id", t.ID),
		attribute.String("target.name", t.Name),
	))
	defer span.End()

	outcome := model.Outcome{Target: t, State: model.StatePending}
	outcome.State = e.transition(ctx, outcome.State, model.StateBuilding)
	outcome.Started = e.now()
	logger.Info("Building target.")

	err := e.safeBuild(ctx, t)
	outcome.Finished = e.now()
	if err != nil {
		outcome.Err = err
		outcome.State = e.transition(ctx, outcome.State, model.StateFailed)
		logger.Error(model.FailureDescription(t), "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "build failed")
		return outcome
	}

	outcome.State = e.transition(ctx, outcome.State, model.StateSucceeded)
	logger.Info("Target built.", "duration", outcome.Duration())
	return outcome
}

func (e *Engine) transition(ctx context.Context, from, to model.TargetState) model.TargetState {
	next, err := from.Transition(to)
	if err != nil {
		// Only reachable through a programming error in attempt.
		panic(err)
	}
	ctxlog.FromContext(ctx).Debug("Target state changed.", "from", from, "to", next)
	return next
}

// safeBuild turns a panic inside one build into that target's failure.
func (e *Engine) safeBuild(ctx context.Context, t model.Target) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("build panicked: %v", r)
		}
	}()
	return e.builder.Build(ctx, t)
}
