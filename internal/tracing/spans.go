package tracing

// Span names.
const (
	SpanDispatch = "action.dispatch"
	SpanMerge    = "config.merge"
	SpanBuild    = "ui.build"
	SpanPlugin   = "plugin.initialize"
)

// Span attribute keys.
const (
	AttrActionName   = "action.name"
	AttrActionArg    = "action.arg"
	AttrFocusKind    = "focus.kind"
	AttrHandlerFound = "handler.found"
	AttrOutcome      = "dispatch.outcome"

	AttrDocument  = "config.document"
	AttrFragment  = "config.fragment"
	AttrNodeCount = "config.nodes"

	AttrSection = "ui.section"

	AttrPluginName = "plugin.name"

	AttrErrorType = "error.type"
)

// Dispatch outcomes recorded on the dispatch span.
const (
	OutcomeDone      = "done"
	OutcomeNoHandler = "no_handler"
	OutcomeCancelled = "cancelled"
	OutcomePending   = "pending_input"
	OutcomeInvalid   = "invalid_input"
	OutcomeFailed    = "failed"
)
