package engine

import (
	"context"
	"fmt"
	"time"

	"eduverse-be/internal/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Faultable is implemented by pipeline states. Stage failures are recorded on
// the state instead of aborting the run; only a failed entry stage hard-fails.
type Faultable interface {
	RecordStageError(stage, reason string)
}

// StageError is one isolated stage failure inside an otherwise healthy run.
type StageError struct {
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
}

// StageErrors is embedded by every pipeline state to satisfy Faultable.
type StageErrors struct {
	Errors []StageError `json:"errors,omitempty"`
}

func (s *StageErrors) RecordStageError(stage, reason string) {
	s.Errors = append(s.Errors, StageError{Stage: stage, Reason: reason})
}

// Stage is one sequential step of a pipeline. Entry marks the stage whose
// failure aborts the whole run (input loading, typically the first).
type Stage[S Faultable] struct {
	Name  string
	Entry bool
	Run   func(ctx context.Context, state S) error
}

// Fork splices one of two branches after the named stage. Branches are plain
// stage lists, so a run can never loop back on itself.
type Fork[S Faultable] struct {
	After     string
	Condition func(state S) bool
	Then      []Stage[S]
	Else      []Stage[S]
}

// Pipeline is a named, strictly sequential stage list with at most one
// two-way fork. Memorize runs after the last stage; its failure never
// surfaces to the caller.
type Pipeline[S Faultable] struct {
	Name     string
	Stages   []Stage[S]
	Fork     *Fork[S]
	Memorize func(ctx context.Context, state S) error
}

// Engine executes pipelines with a per-run deadline and per-stage failure
// isolation.
type Engine struct {
	logger     logger.ILogger
	runTimeout time.Duration
}

func New(log logger.ILogger, runTimeout time.Duration) *Engine {
	if runTimeout <= 0 {
		runTimeout = 5 * time.Minute
	}
	return &Engine{
		logger:     log,
		runTimeout: runTimeout,
	}
}

var tracer = otel.Tracer("agent-engine")

// Run executes the pipeline against the state. It returns an error only when
// the entry stage fails; every other stage failure is recorded on the state
// and the run continues. Go methods cannot be generic, so Run takes the
// engine as an argument.
func Run[S Faultable](ctx context.Context, e *Engine, p Pipeline[S], state S) error {
	ctx, cancel := context.WithTimeout(ctx, e.runTimeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "pipeline."+p.Name)
	defer span.End()

	start := time.Now()
	e.logger.Info("engine", "Pipeline run started", map[string]interface{}{
		"pipeline": p.Name,
	})

	for _, stage := range p.Stages {
		if err := runStage(ctx, e, p.Name, stage, state); err != nil {
			if stage.Entry {
				e.logger.Error("engine", "Entry stage failed, aborting run", map[string]interface{}{
					"pipeline": p.Name,
					"stage":    stage.Name,
					"error":    err.Error(),
				})
				return fmt.Errorf("%s: entry stage %s: %w", p.Name, stage.Name, err)
			}
			state.RecordStageError(stage.Name, err.Error())
		}

		if p.Fork != nil && stage.Name == p.Fork.After {
			branch := p.Fork.Else
			if p.Fork.Condition(state) {
				branch = p.Fork.Then
			}
			for _, branchStage := range branch {
				if err := runStage(ctx, e, p.Name, branchStage, state); err != nil {
					state.RecordStageError(branchStage.Name, err.Error())
				}
			}
		}
	}

	if p.Memorize != nil {
		memorize(ctx, e, p, state)
	}

	e.logger.Info("engine", "Pipeline run finished", map[string]interface{}{
		"pipeline":    p.Name,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

func runStage[S Faultable](ctx context.Context, e *Engine, pipeline string, stage Stage[S], state S) (err error) {
	// Once the run deadline passes, remaining stages are skipped rather
	// than attempted against a dead context.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("skipped: %w", ctxErr)
	}

	stageCtx, span := tracer.Start(ctx, "stage."+stage.Name,
		trace.WithAttributes(attribute.String("pipeline", pipeline)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			e.logger.Error("engine", "Stage panicked", map[string]interface{}{
				"pipeline": pipeline,
				"stage":    stage.Name,
				"panic":    fmt.Sprintf("%v", r),
			})
		}
	}()

	if err := stage.Run(stageCtx, state); err != nil {
		e.logger.Warn("engine", "Stage failed", map[string]interface{}{
			"pipeline": pipeline,
			"stage":    stage.Name,
			"error":    err.Error(),
		})
		return err
	}
	return nil
}

// memorize persists run context after the pipeline completes. It runs on a
// detached context so a deadline hit during the stages does not lose the
// memory write, and its errors never surface to the caller.
func memorize[S Faultable](ctx context.Context, e *Engine, p Pipeline[S], state S) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("engine", "Memorize panicked", map[string]interface{}{
				"pipeline": p.Name,
				"panic":    fmt.Sprintf("%v", r),
			})
		}
	}()

	detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := p.Memorize(detached, state); err != nil {
		e.logger.Warn("engine", "Memorize failed", map[string]interface{}{
			"pipeline": p.Name,
			"error":    err.Error(),
		})
	}
}
