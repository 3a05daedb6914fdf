package flows

import (
	"context"
	"fmt"
	"strings"

	"localledger/internal/domain"

	"github.com/sirupsen/logrus"
)

var (
	affirmativeAliases = map[string]bool{"yes": true, "y": true, "confirm": true}
	negativeAliases    = map[string]bool{"no": true, "n": true, "cancel": true}
)

// Confirmation is the yes/no gate in front of an irreversible action. The
// next message is interpreted only against the fixed alias sets: an
// affirmative runs the deferred action exactly once, a negative discards
// it, anything else re-prompts without consuming the pending state.
type Confirmation struct {
	deps Deps
}

// Start func - confirmations are entered by handover, never by command.
func (f *Confirmation) Start() (domain.Step, domain.Accumulator, string) {
	return domain.StepAwaitingAnswer, domain.PendingConfirmation{}, "Reply 'yes' to confirm or 'no' to cancel."
}

// Advance func
func (f *Confirmation) Advance(ctx context.Context, session *domain.Session, in domain.TurnInput) domain.TurnResult {
	pending, ok := session.Data.(domain.PendingConfirmation)
	if !ok {
		return domain.RejectTurn(msgUnknownSession)
	}

	answer := strings.ToLower(strings.TrimSpace(in.Text))
	switch {
	case affirmativeAliases[answer]:
		return f.perform(ctx, pending)
	case negativeAliases[answer]:
		return domain.CancelTurn("❌ Operation cancelled.")
	default:
		return domain.RejectTurn("❌ Invalid response. Please answer with yes/no.")
	}
}

func (f *Confirmation) perform(ctx context.Context, pending domain.PendingConfirmation) domain.TurnResult {
	switch pending.Action {
	case domain.ConfirmCommitOrder:
		return f.commitOrder(ctx, pending.Order)
	}
	logrus.Errorf("Unknown confirmation action: %s", pending.Action)
	return domain.CancelTurn(msgStoreBusy)
}

// commitOrder validates stock per line, recomputes the total from the line
// items, then writes order first and stock second: stock totals are
// re-derivable from recorded orders, so a crash between the two writes
// loses no order data.
func (f *Confirmation) commitOrder(ctx context.Context, draft domain.OrderDraft) domain.TurnResult {
	products := make(map[string]*domain.Product, len(draft.Items))
	for _, item := range draft.Items {
		product, err := f.deps.Store.FindProductByName(ctx, item.ProductName)
		if err != nil {
			return domain.RejectTurn(msgStoreBusy)
		}
		if product == nil {
			return domain.CancelTurn(fmt.Sprintf("❌ Product '%s' no longer exists. Order cancelled.", item.ProductName))
		}
		if item.Quantity > product.Quantity {
			return domain.CancelTurn(fmt.Sprintf("❌ Only %d of '%s' left in stock. Order cancelled.", product.Quantity, product.Name))
		}
		products[item.ProductName] = product
	}

	order := &domain.Order{
		CustomerName:  draft.CustomerName,
		CustomerPhone: draft.CustomerPhone,
	}
	var total float64
	for _, item := range draft.Items {
		lineTotal := item.Total()
		total += lineTotal
		order.Items = append(order.Items, domain.OrderItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       lineTotal,
		})
	}
	order.Total = total

	if _, err := f.deps.Store.RecordOrder(ctx, order); err != nil {
		return domain.RejectTurn(msgStoreBusy)
	}

	for _, item := range draft.Items {
		product := products[item.ProductName]
		product.Quantity -= item.Quantity
		if _, err := f.deps.Store.UpsertProduct(ctx, product); err != nil {
			// The order row exists; stock can be re-derived from it.
			logrus.Errorf("Stock update failed after order commit: %v", err)
		}
	}

	transaction := &domain.Transaction{
		Kind:      domain.TransactionSale,
		Phone:     draft.CustomerPhone,
		Reference: draft.CustomerName,
		Amount:    total,
	}
	if err := f.deps.Store.AppendTransaction(ctx, transaction); err != nil {
		logrus.Errorf("Ledger append failed after order commit: %v", err)
	}

	return domain.CommitTurn(fmt.Sprintf("✅ Order completed for %s.\n*Total Amount: ₹%.2f*", draft.CustomerName, total))
}
