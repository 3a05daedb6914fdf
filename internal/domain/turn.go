package domain

// InputKind distinguishes what a turn handler is being fed: raw text, a
// decoded barcode, or a speech transcript. Media is resolved before a flow
// ever sees it.
type InputKind int

const (
	// InputText is a plain text message.
	InputText InputKind = iota
	// InputBarcode is a barcode value decoded from an image.
	InputBarcode
	// InputTranscript is text transcribed from a voice message.
	InputTranscript
)

// TurnInput is the resolved input handed to a flow's Advance.
type TurnInput struct {
	Kind InputKind
	Text string
}

// TurnOutcome tags the result of processing one turn.
type TurnOutcome int

const (
	// TurnContinue keeps the session alive at a (possibly new) step.
	TurnContinue TurnOutcome = iota
	// TurnRejected leaves session and store untouched; the step is retried.
	TurnRejected
	// TurnCommitted terminates the flow after its writes succeeded.
	TurnCommitted
	// TurnCancelled terminates the flow without the pending action.
	TurnCancelled
	// TurnReplace terminates the flow and re-dispatches Redispatch as a
	// top-level command. Only the voice flow produces it.
	TurnReplace
)

// TurnResult is the tagged outcome of one turn.
//
// Step/Data/Flow are meaningful only for TurnContinue; Flow is set when a
// flow hands the session over to another state machine (the confirmation
// gate) and left empty otherwise. Redispatch is meaningful only for
// TurnReplace.
type TurnResult struct {
	Outcome    TurnOutcome
	Reply      string
	Flow       FlowKind
	Step       Step
	Data       Accumulator
	Redispatch string
}

// ContinueTurn advances the session to step with data and a prompt.
func ContinueTurn(step Step, data Accumulator, reply string) TurnResult {
	return TurnResult{Outcome: TurnContinue, Step: step, Data: data, Reply: reply}
}

// HandoverTurn moves the session to another flow's state machine.
func HandoverTurn(flow FlowKind, step Step, data Accumulator, reply string) TurnResult {
	return TurnResult{Outcome: TurnContinue, Flow: flow, Step: step, Data: data, Reply: reply}
}

// RejectTurn reports invalid input; the session stays as it was.
func RejectTurn(reason string) TurnResult {
	return TurnResult{Outcome: TurnRejected, Reply: reason}
}

// CommitTurn terminates the flow after a successful commit.
func CommitTurn(summary string) TurnResult {
	return TurnResult{Outcome: TurnCommitted, Reply: summary}
}

// CancelTurn terminates the flow without side effects.
func CancelTurn(summary string) TurnResult {
	return TurnResult{Outcome: TurnCancelled, Reply: summary}
}

// ReplaceTurn terminates the flow and routes text as a fresh command.
func ReplaceTurn(text string) TurnResult {
	return TurnResult{Outcome: TurnReplace, Redispatch: text}
}
