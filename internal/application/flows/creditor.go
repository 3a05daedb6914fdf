package flows

import (
	"context"
	"fmt"
	"strings"

	"localledger/internal/domain"

	"github.com/sirupsen/logrus"
)

const msgNamePhoneFormat = "❌ Invalid format. Please use: name -phone"

// CreditorAdd upserts creditors line by line: "name amount -phone". An
// existing phone gets the amount added to its balance, a new phone creates
// the creditor. Each line commits immediately; the natural-key check makes
// a resent line an update instead of a duplicate row.
type CreditorAdd struct {
	deps Deps
}

// Start func
func (f *CreditorAdd) Start() (domain.Step, domain.Accumulator, string) {
	prompt := "📝 Enter creditor details:\nname amount -phone\n\nExample:\nRahul 100 -9876543210\n\nType 'end' when finished."
	return domain.StepCollectingLines, domain.CreditorScratch{}, prompt
}

// Advance func
func (f *CreditorAdd) Advance(ctx context.Context, session *domain.Session, in domain.TurnInput) domain.TurnResult {
	if isTerminator(in.Text) {
		return domain.CancelTurn("✅ Creditor addition session ended.")
	}

	name, amount, phone, ok := parseNameAmountPhone(in.Text)
	if !ok {
		return domain.RejectTurn("❌ Invalid format. Please use: name amount -phone")
	}
	if err := f.deps.Validate.ValidateVar(phone, "numeric,len=10"); err != nil {
		return domain.RejectTurn("❌ Invalid phone number.")
	}

	creditor, err := f.deps.Store.FindCreditorByPhone(ctx, phone)
	if err != nil {
		return domain.RejectTurn(msgStoreBusy)
	}

	var reply string
	if creditor != nil {
		creditor.Amount += amount
		if _, err := f.deps.Store.UpsertCreditor(ctx, creditor); err != nil {
			return domain.RejectTurn(msgStoreBusy)
		}
		reply = fmt.Sprintf("✅ Updated credit amount for %s.\nNew total: ₹%.2f\n\nType 'end' when finished.", creditor.Name, creditor.Amount)
	} else {
		created := &domain.Creditor{Name: name, Phone: phone, Amount: amount}
		if _, err := f.deps.Store.UpsertCreditor(ctx, created); err != nil {
			return domain.RejectTurn(msgStoreBusy)
		}
		reply = fmt.Sprintf("✅ Added new creditor: %s\nAmount: ₹%.2f\n\nType 'end' when finished.", name, amount)
	}

	transaction := &domain.Transaction{
		Kind:      domain.TransactionCreditAdded,
		Phone:     phone,
		Reference: name,
		Amount:    amount,
	}
	if err := f.deps.Store.AppendTransaction(ctx, transaction); err != nil {
		// The creditor row already holds the new balance; rejecting here
		// would invite a resend that applies the amount twice.
		logrus.Errorf("Ledger append failed after creditor update: %v", err)
	}

	return domain.ContinueTurn(domain.StepCollectingLines, domain.CreditorScratch{}, reply)
}

// CreditorDelete removes creditors line by line: "name -phone".
type CreditorDelete struct {
	deps Deps
}

// Start func
func (f *CreditorDelete) Start() (domain.Step, domain.Accumulator, string) {
	prompt := "📝 Enter creditor to delete:\nname -phone\n\nType 'end' when finished."
	return domain.StepCollectingLines, domain.CreditorScratch{}, prompt
}

// Advance func
func (f *CreditorDelete) Advance(ctx context.Context, session *domain.Session, in domain.TurnInput) domain.TurnResult {
	if isTerminator(in.Text) {
		return domain.CancelTurn("✅ Creditor deletion session ended.")
	}

	name, phone, ok := parseNamePhone(in.Text)
	if !ok {
		return domain.RejectTurn(msgNamePhoneFormat)
	}

	creditor, err := f.deps.Store.FindCreditorByPhone(ctx, phone)
	if err != nil {
		return domain.RejectTurn(msgStoreBusy)
	}
	if creditor == nil {
		return domain.RejectTurn(fmt.Sprintf("❌ Creditor with phone %s not found.", phone))
	}

	if err := f.deps.Store.DeleteCreditor(ctx, phone); err != nil {
		return domain.RejectTurn(msgStoreBusy)
	}

	transaction := &domain.Transaction{
		Kind:      domain.TransactionCreditorWiped,
		Phone:     phone,
		Reference: creditor.Name,
		Amount:    creditor.Amount,
	}
	if err := f.deps.Store.AppendTransaction(ctx, transaction); err != nil {
		logrus.Errorf("Ledger append failed after creditor delete: %v", err)
	}

	reply := fmt.Sprintf("✅ Deleted creditor: %s\n\nType 'end' when finished.", name)
	return domain.ContinueTurn(domain.StepCollectingLines, domain.CreditorScratch{}, reply)
}

// CreditorPay settles one payment: "name amount -phone". A payment above
// the outstanding balance is rejected with the stored amount unchanged; a
// successful payment ends the session.
type CreditorPay struct {
	deps Deps
}

// Start func
func (f *CreditorPay) Start() (domain.Step, domain.Accumulator, string) {
	prompt := "📝 Enter payment details:\nname amount -phone\n\nExample:\nRahul 50 -9876543210"
	return domain.StepCollectingLines, domain.CreditorScratch{}, prompt
}

// Advance func
func (f *CreditorPay) Advance(ctx context.Context, session *domain.Session, in domain.TurnInput) domain.TurnResult {
	if isTerminator(in.Text) {
		return domain.CancelTurn("✅ Payment session ended.")
	}

	name, amount, phone, ok := parseNameAmountPhone(in.Text)
	if !ok {
		return domain.RejectTurn("❌ Invalid format. Please use: name amount -phone")
	}

	creditor, err := f.deps.Store.FindCreditorByPhone(ctx, phone)
	if err != nil {
		return domain.RejectTurn(msgStoreBusy)
	}
	if creditor == nil {
		return domain.RejectTurn(fmt.Sprintf("❌ Creditor with phone %s not found.", phone))
	}

	// Payment must never drive the balance negative.
	if amount > creditor.Amount {
		return domain.RejectTurn(fmt.Sprintf("❌ Payment amount (₹%.2f) exceeds credit amount (₹%.2f).", amount, creditor.Amount))
	}

	creditor.Amount -= amount
	if _, err := f.deps.Store.UpsertCreditor(ctx, creditor); err != nil {
		return domain.RejectTurn(msgStoreBusy)
	}

	transaction := &domain.Transaction{
		Kind:      domain.TransactionPayment,
		Phone:     phone,
		Reference: name,
		Amount:    -amount,
	}
	if err := f.deps.Store.AppendTransaction(ctx, transaction); err != nil {
		logrus.Errorf("Ledger append failed after payment: %v", err)
	}

	return domain.CommitTurn(fmt.Sprintf("✅ Payment of ₹%.2f recorded for %s.\nRemaining credit: ₹%.2f", amount, name, creditor.Amount))
}

// CreditCheck looks up one creditor's outstanding amount and recent ledger
// entries: "name -phone". Read-only, ends after one successful lookup.
type CreditCheck struct {
	deps Deps
}

// Start func
func (f *CreditCheck) Start() (domain.Step, domain.Accumulator, string) {
	prompt := "📝 Enter creditor:\nname -phone"
	return domain.StepCollectingLines, domain.CreditorScratch{}, prompt
}

// Advance func
func (f *CreditCheck) Advance(ctx context.Context, session *domain.Session, in domain.TurnInput) domain.TurnResult {
	if isTerminator(in.Text) {
		return domain.CancelTurn("✅ Credit amount session ended.")
	}

	name, phone, ok := parseNamePhone(in.Text)
	if !ok {
		return domain.RejectTurn(msgNamePhoneFormat)
	}

	creditor, err := f.deps.Store.FindCreditorByPhone(ctx, phone)
	if err != nil {
		return domain.RejectTurn(msgStoreBusy)
	}
	if creditor == nil {
		return domain.RejectTurn(fmt.Sprintf("❌ Creditor with phone %s not found.", phone))
	}

	transactions, err := f.deps.Store.TransactionsByPhone(ctx, phone, 5)
	if err != nil {
		return domain.RejectTurn(msgStoreBusy)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💰 *Credit Details for %s*\n\n", name)
	fmt.Fprintf(&b, "Current Credit: ₹%.2f\n", creditor.Amount)
	if len(transactions) > 0 {
		b.WriteString("\n*Recent Transactions:*\n")
		for _, t := range transactions {
			when := ""
			if t.CreatedAt != nil {
				when = t.CreatedAt.Format("2006-01-02")
			}
			fmt.Fprintf(&b, "• %s: ₹%.2f\n", when, t.Amount)
		}
	}

	return domain.CommitTurn(b.String())
}
