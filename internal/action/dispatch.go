package action

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/diagrammer/internal/focus"
	"github.com/zjrosen/diagrammer/internal/log"
	"github.com/zjrosen/diagrammer/internal/tracing"
)

// Outcome classifies how a dispatch ended.
type Outcome int

const (
	// Done means a handler ran to completion.
	Done Outcome = iota
	// NoHandler means nothing handles the action in the current context.
	NoHandler
	// Disabled means the action exists but is disabled.
	Disabled
	// Cancelled means the user dismissed a prompt.
	Cancelled
	// NeedsInput means the handler stopped at a prompt the prompter could
	// not answer yet. See ReplayPrompter.
	NeedsInput
	// Failed means the handler returned an error or panicked.
	Failed
)

var outcomeNames = map[Outcome]string{
	Done:       tracing.OutcomeDone,
	NoHandler:  tracing.OutcomeNoHandler,
	Disabled:   "disabled",
	Cancelled:  tracing.OutcomeCancelled,
	NeedsInput: tracing.OutcomePending,
	Failed:     tracing.OutcomeFailed,
}

func (o Outcome) String() string { return outcomeNames[o] }

// Request asks the dispatcher to run an action.
type Request struct {
	Name      string
	Arg       string
	Prompter  Prompter
	Presenter Presenter
}

// FocusSource reports the current focus context.
type FocusSource interface {
	Current() focus.Snapshot
}

// Dispatcher runs actions against the current focus context.
type Dispatcher struct {
	registry *Registry
	table    *Table
	focus    FocusSource
	tracer   trace.Tracer
}

// NewDispatcher creates a dispatcher. A nil tracer disables spans.
func NewDispatcher(registry *Registry, table *Table, fs FocusSource, tracer trace.Tracer) *Dispatcher {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	return &Dispatcher{registry: registry, table: table, focus: fs, tracer: tracer}
}

// Dispatch runs the handler registered for req.Name in the current focus
// context. Missing handlers, disabled actions and cancelled prompts are
// silent. Handler errors, including InvalidInputError and recovered panics,
// are returned for the caller to report. Bundles are recomputed after every
// handler run.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (outcome Outcome, err error) {
	snap := d.focus.Current()
	ctx, span := d.tracer.Start(ctx, tracing.SpanDispatch, trace.WithSpanKind(trace.SpanKindInternal))
	span.SetAttributes(
		attribute.String(tracing.AttrActionName, req.Name),
		attribute.String(tracing.AttrFocusKind, snap.Kind.String()),
	)
	if req.Arg != "" {
		span.SetAttributes(attribute.String(tracing.AttrActionArg, req.Arg))
	}
	defer func() {
		span.SetAttributes(attribute.String(tracing.AttrOutcome, outcome.String()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	if a, ok := d.registry.Action(req.Name); ok && !a.Enabled() {
		log.Debug(log.CatAction, "Dispatch of disabled action ignored", "action", req.Name)
		return Disabled, nil
	}

	h, ok := d.table.Lookup(req.Name, snap.Kind)
	span.SetAttributes(attribute.Bool(tracing.AttrHandlerFound, ok))
	if !ok {
		log.Debug(log.CatAction, "No handler", "action", req.Name, "kind", snap.Kind)
		return NoHandler, nil
	}

	inv := &Invocation{
		Context:   ctx,
		Name:      req.Name,
		Focus:     snap,
		Arg:       req.Arg,
		Prompter:  req.Prompter,
		Presenter: req.Presenter,
	}
	if inv.Prompter == nil {
		inv.Prompter = NoPrompter
	}

	runErr := run(h, inv)
	d.registry.UpdateAll()

	if pending, ok := req.Prompter.(interface{ Pending() (PromptRequest, bool) }); ok {
		if _, waiting := pending.Pending(); waiting {
			return NeedsInput, nil
		}
	}

	switch {
	case runErr == nil:
		return Done, nil
	case errors.Is(runErr, ErrCancelled):
		log.Debug(log.CatAction, "Dispatch cancelled", "action", req.Name)
		return Cancelled, nil
	default:
		log.ErrorErr(log.CatAction, "Action failed", runErr, "action", req.Name, "kind", snap.Kind)
		return Failed, runErr
	}
}

func run(h Handler, inv *Invocation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", inv.Name, r)
		}
	}()
	return h(inv)
}
