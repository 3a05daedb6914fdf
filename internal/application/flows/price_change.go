package flows

import (
	"context"
	"fmt"

	"localledger/internal/domain"
)

// PriceChangeManual stages "name price" lines and applies all of them in
// one pass at the terminator. Unknown products are rejected per line.
type PriceChangeManual struct {
	deps Deps
}

// Start func
func (f *PriceChangeManual) Start() (domain.Step, domain.Accumulator, string) {
	prompt := "📝 Enter product name and new price:\nname price\n\nExample:\nmilk 25.50\n\nType 'end' when done."
	return domain.StepCollectingLines, domain.PriceBatch{}, prompt
}

// Advance func
func (f *PriceChangeManual) Advance(ctx context.Context, session *domain.Session, in domain.TurnInput) domain.TurnResult {
	batch, ok := session.Data.(domain.PriceBatch)
	if !ok {
		return domain.RejectTurn(msgUnknownSession)
	}

	if isTerminator(in.Text) {
		return f.commit(ctx, batch)
	}

	name, price, ok := parseNamePrice(in.Text)
	if !ok {
		return domain.RejectTurn("❌ Invalid format. Please use: name price\n\nExample:\nmilk 25.50")
	}

	product, err := f.deps.Store.FindProductByName(ctx, name)
	if err != nil {
		return domain.RejectTurn(msgStoreBusy)
	}
	if product == nil {
		return domain.RejectTurn(fmt.Sprintf("❌ Product '%s' not found. Please add it first.", name))
	}

	batch.Changes = append(batch.Changes, domain.StagedPriceChange{Name: product.Name, Price: price})
	reply := fmt.Sprintf("✅ Price change queued for: %s\nNew price: ₹%.2f\n\nType 'end' when finished.", product.Name, price)
	return domain.ContinueTurn(domain.StepCollectingLines, batch, reply)
}

func (f *PriceChangeManual) commit(ctx context.Context, batch domain.PriceBatch) domain.TurnResult {
	if len(batch.Changes) == 0 {
		return domain.CancelTurn("❌ No price changes queued. Session ended.")
	}

	applied := 0
	for _, change := range batch.Changes {
		product, err := f.deps.Store.FindProductByName(ctx, change.Name)
		if err != nil {
			return domain.RejectTurn(msgStoreBusy)
		}
		if product == nil {
			// Product removed mid-session; nothing to update.
			continue
		}
		product.Price = change.Price
		if _, err := f.deps.Store.UpsertProduct(ctx, product); err != nil {
			return domain.RejectTurn(msgStoreBusy)
		}
		applied++
	}

	return domain.CommitTurn(fmt.Sprintf("✅ Successfully updated prices for %d products.", applied))
}

// PriceChangeBarcode updates one price per completed scan turn: barcode
// image, then the new price as a bare number, written immediately.
type PriceChangeBarcode struct {
	deps Deps
}

// Start func
func (f *PriceChangeBarcode) Start() (domain.Step, domain.Accumulator, string) {
	return domain.StepAwaitingBarcode, domain.BarcodePrice{}, "📷 Send barcode image to change price"
}

// Advance func
func (f *PriceChangeBarcode) Advance(ctx context.Context, session *domain.Session, in domain.TurnInput) domain.TurnResult {
	data, ok := session.Data.(domain.BarcodePrice)
	if !ok {
		return domain.RejectTurn(msgUnknownSession)
	}

	if in.Kind == domain.InputText && isTerminator(in.Text) {
		return domain.CancelTurn("✅ Barcode price change session ended.")
	}

	switch session.Step {
	case domain.StepAwaitingBarcode:
		if in.Kind != domain.InputBarcode {
			return domain.RejectTurn("📷 Please send the barcode image\n\nType 'end' when you're done.")
		}

		product, err := f.deps.Store.FindProductByBarcode(ctx, in.Text)
		if err != nil {
			return domain.RejectTurn(msgStoreBusy)
		}
		if product == nil {
			return domain.RejectTurn(fmt.Sprintf("❌ No product with barcode %s. Send another barcode or type 'end'.", in.Text))
		}

		data.Code = in.Text
		reply := fmt.Sprintf("🔍 %s (current price ₹%.2f)\n\nSend the new price:\nExample:\n25.50", product.Name, product.Price)
		return domain.ContinueTurn(domain.StepAwaitingPrice, data, reply)

	case domain.StepAwaitingPrice:
		if in.Kind == domain.InputBarcode {
			return domain.RejectTurn("❌ Waiting for the new price. Send a number, or type 'end'.")
		}

		price, ok := parsePrice(in.Text)
		if !ok {
			return domain.RejectTurn("❌ Invalid price. Please use a number.")
		}

		product, err := f.deps.Store.FindProductByBarcode(ctx, data.Code)
		if err != nil {
			return domain.RejectTurn(msgStoreBusy)
		}
		if product == nil {
			reply := "❌ Product disappeared before the update. Send next barcode or type 'end'."
			return domain.ContinueTurn(domain.StepAwaitingBarcode, domain.BarcodePrice{}, reply)
		}

		product.Price = price
		if _, err := f.deps.Store.UpsertProduct(ctx, product); err != nil {
			return domain.RejectTurn(msgStoreBusy)
		}

		reply := fmt.Sprintf("✅ Price updated for %s: ₹%.2f\n\nSend next barcode or type 'end'.", product.Name, price)
		return domain.ContinueTurn(domain.StepAwaitingBarcode, domain.BarcodePrice{}, reply)
	}

	return domain.RejectTurn(msgUnknownSession)
}
