// Package flows holds one turn-handler state machine per dialogue flow.
//
// Every handler is total over its input: malformed turns come back as
// Rejected with a corrective prompt, collaborator failures as Rejected with
// a retry prompt, and nothing mutates the store until the turn's own
// validation has passed.
package flows

import (
	"context"

	"localledger/internal/domain"
	"localledger/internal/ports/output"
	"localledger/pkg/validator"
)

// terminator ends a flow from any step.
const terminator = "end"

const (
	msgStoreBusy      = "❌ Something went wrong on our side. Please resend that."
	msgUnknownSession = "❌ Invalid session state. Please type 'end' and start over."
)

// Handler is the contract every flow state machine satisfies. Start yields
// the initial step, accumulator and prompt; Advance processes exactly one
// resolved inbound message against the current session.
type Handler interface {
	Start() (domain.Step, domain.Accumulator, string)
	Advance(ctx context.Context, session *domain.Session, in domain.TurnInput) domain.TurnResult
}

// Deps carries the collaborators flows are allowed to touch.
type Deps struct {
	Store    output.DomainStore
	Validate validator.Validator
}

// Registry maps a session's FlowKind to its handler. Dispatch is by tag, so
// sessions never carry callables and stay serializable.
type Registry map[domain.FlowKind]Handler

// NewRegistry wires every flow against the shared dependencies.
func NewRegistry(deps Deps) Registry {
	return Registry{
		domain.FlowProductAddManual:  &ProductAddManual{deps: deps},
		domain.FlowProductAddBarcode: &ProductAddBarcode{deps: deps},
		domain.FlowPriceManual:       &PriceChangeManual{deps: deps},
		domain.FlowPriceBarcode:      &PriceChangeBarcode{deps: deps},
		domain.FlowOrderManual:       &OrderManual{deps: deps},
		domain.FlowOrderBarcode:      &OrderBarcode{deps: deps},
		domain.FlowCreditorAdd:       &CreditorAdd{deps: deps},
		domain.FlowCreditorDelete:    &CreditorDelete{deps: deps},
		domain.FlowCreditorPay:       &CreditorPay{deps: deps},
		domain.FlowCreditCheck:       &CreditCheck{deps: deps},
		domain.FlowVoiceInput:        &VoiceInput{},
		domain.FlowConfirmation:      &Confirmation{deps: deps},
	}
}
