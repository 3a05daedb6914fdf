package flows

import (
	"context"
	"fmt"

	"localledger/internal/domain"

	"github.com/sirupsen/logrus"
)

const defaultMinQuantity = 5

// ProductAddManual is the batch-commit manual product flow: lines of
// "name quantity price" are staged in the accumulator and persisted in one
// pass when the user types the terminator. An empty batch commits nothing.
type ProductAddManual struct {
	deps Deps
}

// Start func
func (f *ProductAddManual) Start() (domain.Step, domain.Accumulator, string) {
	prompt := "📝 Enter product details in format:\nproduct_name quantity price\n\nExample:\nmilk 10 20.50\n\nType 'end' when done."
	return domain.StepCollectingLines, domain.ProductBatch{}, prompt
}

// Advance func
func (f *ProductAddManual) Advance(ctx context.Context, session *domain.Session, in domain.TurnInput) domain.TurnResult {
	batch, ok := session.Data.(domain.ProductBatch)
	if !ok {
		return domain.RejectTurn(msgUnknownSession)
	}

	if isTerminator(in.Text) {
		return f.commit(ctx, batch)
	}

	name, quantity, price, ok := parseNameQuantityPrice(in.Text)
	if !ok {
		return domain.RejectTurn("❌ Invalid format. Please use: product_name quantity price\n\nExample:\nmilk 10 20.50\n\nType 'end' when done.")
	}

	staged := domain.StagedProduct{Name: name, Quantity: quantity, Price: price}
	if err := f.deps.Validate.ValidateStruct(staged); err != nil {
		return domain.RejectTurn("❌ Invalid quantity or price. Please use numbers.\n\nExample:\nmilk 10 20.50\n\nType 'end' when done.")
	}

	existing, err := f.deps.Store.FindProductByName(ctx, name)
	if err != nil {
		return domain.RejectTurn(msgStoreBusy)
	}
	if existing != nil {
		return domain.RejectTurn(fmt.Sprintf("⚠️ Product '%s' already exists.\n\nSend next product or type 'end' to finish.", name))
	}
	for _, p := range batch.Products {
		if p.Name == name {
			return domain.RejectTurn(fmt.Sprintf("⚠️ Product '%s' is already in this batch.\n\nSend next product or type 'end' to finish.", name))
		}
	}

	batch.Products = append(batch.Products, staged)
	reply := fmt.Sprintf("✅ Staged: %s\nQuantity: %d\nPrice: ₹%.2f\n\nSend next product or type 'end' to finish.", name, quantity, price)
	return domain.ContinueTurn(domain.StepCollectingLines, batch, reply)
}

// commit persists every staged row once. Each row's name is re-checked at
// commit time so a product created elsewhere mid-session turns the insert
// into a skip instead of a duplicate.
func (f *ProductAddManual) commit(ctx context.Context, batch domain.ProductBatch) domain.TurnResult {
	if len(batch.Products) == 0 {
		return domain.CancelTurn("❌ No products added. Session ended.")
	}

	added := 0
	for _, staged := range batch.Products {
		existing, err := f.deps.Store.FindProductByName(ctx, staged.Name)
		if err != nil {
			return domain.RejectTurn(msgStoreBusy)
		}
		if existing != nil {
			logrus.Infof("Skipping duplicate product at commit: %s", staged.Name)
			continue
		}

		product := &domain.Product{
			Name:        staged.Name,
			Price:       staged.Price,
			Quantity:    staged.Quantity,
			MinQuantity: defaultMinQuantity,
		}
		if _, err := f.deps.Store.UpsertProduct(ctx, product); err != nil {
			return domain.RejectTurn(msgStoreBusy)
		}
		added++
	}

	return domain.CommitTurn(fmt.Sprintf("✅ Session ended. Added %d products.", added))
}

// ProductAddBarcode is the incremental-commit barcode flow: each decoded
// barcode plus a "quantity-price" detail turn writes one row immediately,
// then the step cycles back to awaiting the next scan. A rescan of an
// existing barcode writes nothing.
type ProductAddBarcode struct {
	deps Deps
}

// Start func
func (f *ProductAddBarcode) Start() (domain.Step, domain.Accumulator, string) {
	return domain.StepAwaitingBarcode, domain.BarcodeAdd{}, "📷 Send barcode image to add product"
}

// Advance func
func (f *ProductAddBarcode) Advance(ctx context.Context, session *domain.Session, in domain.TurnInput) domain.TurnResult {
	data, ok := session.Data.(domain.BarcodeAdd)
	if !ok {
		return domain.RejectTurn(msgUnknownSession)
	}

	if in.Kind == domain.InputText && isTerminator(in.Text) {
		return domain.CancelTurn("✅ Barcode addition session ended.")
	}

	switch session.Step {
	case domain.StepAwaitingBarcode:
		if in.Kind != domain.InputBarcode {
			return domain.RejectTurn("📷 Please send the barcode image\n\nType 'end' when you're done adding products.")
		}
		data.Code = in.Text
		reply := fmt.Sprintf("🔍 Barcode: %s\n\nPlease send quantity and price in format:\nquantity-price\n\nExample:\n10-20.50", in.Text)
		return domain.ContinueTurn(domain.StepAwaitingDetails, data, reply)

	case domain.StepAwaitingDetails:
		if in.Kind == domain.InputBarcode {
			// A rescan replaces the pending code.
			data.Code = in.Text
			reply := fmt.Sprintf("🔍 Barcode: %s\n\nPlease send quantity and price in format:\nquantity-price\n\nExample:\n10-20.50", in.Text)
			return domain.ContinueTurn(domain.StepAwaitingDetails, data, reply)
		}

		quantity, price, ok := parseQuantityDashPrice(in.Text)
		if !ok {
			return domain.RejectTurn("❌ Invalid format. Please use: quantity-price")
		}
		if data.Code == "" {
			return domain.RejectTurn("❌ No barcode data found. Please scan barcode again.")
		}

		existing, err := f.deps.Store.FindProductByBarcode(ctx, data.Code)
		if err != nil {
			return domain.RejectTurn(msgStoreBusy)
		}
		if existing != nil {
			reply := fmt.Sprintf("⚠️ Product with barcode %s already exists.\n\nSend next barcode image or type 'end' to finish.", data.Code)
			return domain.ContinueTurn(domain.StepAwaitingBarcode, domain.BarcodeAdd{}, reply)
		}

		code := data.Code
		product := &domain.Product{
			Name:        fmt.Sprintf("Product-%s", code),
			Price:       price,
			Quantity:    quantity,
			MinQuantity: defaultMinQuantity,
			Barcode:     &code,
		}
		if _, err := f.deps.Store.UpsertProduct(ctx, product); err != nil {
			return domain.RejectTurn(msgStoreBusy)
		}

		reply := fmt.Sprintf("✅ Product added successfully!\nBarcode: %s\nPrice: ₹%.2f\nQuantity: %d\n\nSend next barcode image or type 'end' to finish.", code, price, quantity)
		return domain.ContinueTurn(domain.StepAwaitingBarcode, domain.BarcodeAdd{}, reply)
	}

	return domain.RejectTurn(msgUnknownSession)
}
