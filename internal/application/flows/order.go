package flows

import (
	"context"
	"fmt"
	"strings"

	"localledger/internal/domain"
)

// OrderManual assembles an order across turns: customer "name -phone"
// first, then "product_name quantity" lines priced from the store. The
// terminator hands the staged order to the confirmation gate; nothing is
// written before an affirmative answer.
type OrderManual struct {
	deps Deps
}

// Start func
func (f *OrderManual) Start() (domain.Step, domain.Accumulator, string) {
	prompt := "📝 Please send customer details first:\nname -phone\n\nExample:\nRahul -9876543210"
	return domain.StepAwaitingCustomer, domain.OrderDraft{}, prompt
}

// Advance func
func (f *OrderManual) Advance(ctx context.Context, session *domain.Session, in domain.TurnInput) domain.TurnResult {
	draft, ok := session.Data.(domain.OrderDraft)
	if !ok {
		return domain.RejectTurn(msgUnknownSession)
	}

	if isTerminator(in.Text) {
		return finishOrder(draft)
	}

	switch session.Step {
	case domain.StepAwaitingCustomer:
		return advanceCustomer(f.deps, draft, in.Text, domain.StepAwaitingItems,
			"✅ Customer details saved. Now enter products one per line:\nproduct_name quantity\n\nExample:\nmilk 2\n\nType 'end' when done.")

	case domain.StepAwaitingItems:
		name, quantity, ok := parseNameQuantity(in.Text)
		if !ok {
			return domain.RejectTurn("❌ Invalid format. Please use: product_name quantity\n\nExample:\nmilk 2")
		}

		product, err := f.deps.Store.FindProductByName(ctx, name)
		if err != nil {
			return domain.RejectTurn(msgStoreBusy)
		}
		if product == nil {
			return domain.RejectTurn(fmt.Sprintf("❌ Product '%s' not found.", name))
		}
		if quantity > product.Quantity {
			return domain.RejectTurn(fmt.Sprintf("❌ Only %d of '%s' in stock.", product.Quantity, product.Name))
		}

		item := domain.OrderItemDraft{ProductName: product.Name, Quantity: quantity, Price: product.Price}
		draft.Items = append(draft.Items, item)
		reply := fmt.Sprintf("✅ Added: %s\nQuantity: %d\nPrice: ₹%.2f\nTotal: ₹%.2f\n\nType 'end' when finished.",
			product.Name, quantity, product.Price, item.Total())
		return domain.ContinueTurn(domain.StepAwaitingItems, draft, reply)
	}

	return domain.RejectTurn(msgUnknownSession)
}

// OrderBarcode assembles an order from barcode scans: customer first, then
// a scan/quantity pair per item. Commits through the same confirmation gate
// as the manual flow.
type OrderBarcode struct {
	deps Deps
}

// Start func
func (f *OrderBarcode) Start() (domain.Step, domain.Accumulator, string) {
	prompt := "📝 Please send customer details first:\nname -phone\n\nThen send barcode images one by one, followed by quantity.\nType 'end' when done."
	return domain.StepAwaitingCustomer, domain.OrderDraft{}, prompt
}

// Advance func
func (f *OrderBarcode) Advance(ctx context.Context, session *domain.Session, in domain.TurnInput) domain.TurnResult {
	draft, ok := session.Data.(domain.OrderDraft)
	if !ok {
		return domain.RejectTurn(msgUnknownSession)
	}

	if in.Kind == domain.InputText && isTerminator(in.Text) {
		return finishOrder(draft)
	}

	switch session.Step {
	case domain.StepAwaitingCustomer:
		if in.Kind != domain.InputText {
			return domain.RejectTurn("❌ Customer details first. Please use: name -phone")
		}
		return advanceCustomer(f.deps, draft, in.Text, domain.StepAwaitingBarcode,
			"✅ Customer details saved. Now send barcode images.")

	case domain.StepAwaitingBarcode:
		if in.Kind != domain.InputBarcode {
			return domain.RejectTurn("📷 Please send a barcode image, or type 'end'.")
		}

		product, err := f.deps.Store.FindProductByBarcode(ctx, in.Text)
		if err != nil {
			return domain.RejectTurn(msgStoreBusy)
		}
		if product == nil {
			return domain.RejectTurn(fmt.Sprintf("❌ No product with barcode %s. Send another barcode or type 'end'.", in.Text))
		}

		draft.Pending = &domain.OrderItemDraft{ProductName: product.Name, Price: product.Price}
		reply := fmt.Sprintf("🔍 %s (₹%.2f)\n\nSend the quantity as a number.", product.Name, product.Price)
		return domain.ContinueTurn(domain.StepAwaitingQuantity, draft, reply)

	case domain.StepAwaitingQuantity:
		if in.Kind == domain.InputBarcode {
			return domain.RejectTurn("❌ Waiting for a quantity. Send a number first.")
		}
		if draft.Pending == nil {
			return domain.RejectTurn("❌ Invalid state. Please send a barcode image first.")
		}

		quantity, ok := parseQuantity(in.Text)
		if !ok {
			return domain.RejectTurn("❌ Invalid quantity. Please use a number.")
		}

		product, err := f.deps.Store.FindProductByName(ctx, draft.Pending.ProductName)
		if err != nil {
			return domain.RejectTurn(msgStoreBusy)
		}
		if product == nil || quantity > product.Quantity {
			return domain.RejectTurn(fmt.Sprintf("❌ Not enough stock of '%s'.", draft.Pending.ProductName))
		}

		item := *draft.Pending
		item.Quantity = quantity
		draft.Items = append(draft.Items, item)
		draft.Pending = nil

		reply := fmt.Sprintf("✅ Added: %s\nQuantity: %d\nPrice: ₹%.2f\nTotal: ₹%.2f\n\nSend next barcode or type 'end'.",
			item.ProductName, quantity, item.Price, item.Total())
		return domain.ContinueTurn(domain.StepAwaitingBarcode, draft, reply)
	}

	return domain.RejectTurn(msgUnknownSession)
}

// advanceCustomer parses the "name -phone" customer turn shared by both
// order flows.
func advanceCustomer(deps Deps, draft domain.OrderDraft, text string, next domain.Step, reply string) domain.TurnResult {
	name, phone, ok := parseNamePhone(text)
	if !ok {
		return domain.RejectTurn("❌ Invalid format. Please use: name -phone")
	}
	if err := deps.Validate.ValidateVar(phone, "numeric,len=10"); err != nil {
		return domain.RejectTurn("❌ Invalid phone number.")
	}

	draft.CustomerName = name
	draft.CustomerPhone = phone
	return domain.ContinueTurn(next, draft, reply)
}

// finishOrder turns the staged draft into a confirmation gate, or cancels
// when nothing was staged.
func finishOrder(draft domain.OrderDraft) domain.TurnResult {
	if len(draft.Items) == 0 {
		return domain.CancelTurn("❌ No items in order. Session ended.")
	}
	if draft.Pending != nil {
		return domain.RejectTurn("❌ A scanned item is missing its quantity. Send the quantity first.")
	}

	pending := domain.PendingConfirmation{Action: domain.ConfirmCommitOrder, Order: draft}
	return domain.HandoverTurn(domain.FlowConfirmation, domain.StepAwaitingAnswer, pending, orderSummary(draft))
}

func orderSummary(draft domain.OrderDraft) string {
	var b strings.Builder
	b.WriteString("📋 *Order Summary*\n\n")
	fmt.Fprintf(&b, "Customer: %s\n", draft.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n\n", draft.CustomerPhone)
	for _, item := range draft.Items {
		fmt.Fprintf(&b, "• %s\n", item.ProductName)
		fmt.Fprintf(&b, "   Quantity: %d\n", item.Quantity)
		fmt.Fprintf(&b, "   Price: ₹%.2f\n", item.Price)
		fmt.Fprintf(&b, "   Total: ₹%.2f\n\n", item.Total())
	}
	fmt.Fprintf(&b, "*Total Amount: ₹%.2f*\n\n", draft.Total())
	b.WriteString("Reply 'yes' to confirm or 'no' to cancel.")
	return b.String()
}
