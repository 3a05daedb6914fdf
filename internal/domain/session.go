package domain

import "time"

// FlowKind identifies which state machine owns a session.
type FlowKind string

const (
	FlowProductAddManual  FlowKind = "product_add_manual"
	FlowProductAddBarcode FlowKind = "product_add_barcode"
	FlowPriceManual       FlowKind = "price_change_manual"
	FlowPriceBarcode      FlowKind = "price_change_barcode"
	FlowOrderManual       FlowKind = "order_manual"
	FlowOrderBarcode      FlowKind = "order_barcode"
	FlowCreditorAdd       FlowKind = "creditor_add"
	FlowCreditorDelete    FlowKind = "creditor_delete"
	FlowCreditorPay       FlowKind = "creditor_pay"
	FlowCreditCheck       FlowKind = "credit_check"
	FlowVoiceInput        FlowKind = "voice_input"
	FlowConfirmation      FlowKind = "confirmation"
)

// Step is a state local to one FlowKind.
type Step string

const (
	StepCollectingLines  Step = "collecting_lines"
	StepAwaitingBarcode  Step = "awaiting_barcode"
	StepAwaitingDetails  Step = "awaiting_details"
	StepAwaitingPrice    Step = "awaiting_price"
	StepAwaitingCustomer Step = "awaiting_customer"
	StepAwaitingItems    Step = "awaiting_items"
	StepAwaitingQuantity Step = "awaiting_quantity"
	StepAwaitingVoice    Step = "awaiting_voice"
	StepAwaitingAnswer   Step = "awaiting_answer"
)

// Accumulator is the flow-specific partial data gathered across turns.
// Each flow carries exactly one accumulator type; no dynamic maps.
type Accumulator interface {
	accumulator()
}

// Session represents one in-progress multi-turn dialogue for one user.
// At most one session exists per user at any time.
type Session struct {
	UserID         string
	Flow           FlowKind
	Step           Step
	Data           Accumulator
	CreatedAt      time.Time
	LastActivityAt time.Time
}

// NewSession creates a session positioned at a flow's initial step.
func NewSession(userID string, flow FlowKind, step Step, data Accumulator) *Session {
	now := time.Now()
	return &Session{
		UserID:         userID,
		Flow:           flow,
		Step:           step,
		Data:           data,
		CreatedAt:      now,
		LastActivityAt: now,
	}
}

// Expired checks whether the session has been idle longer than timeout.
func (s *Session) Expired(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastActivityAt) > timeout
}

// Touch records turn activity for idle-timeout bookkeeping.
func (s *Session) Touch(now time.Time) {
	s.LastActivityAt = now
}

// StagedProduct is one product line staged but not yet committed.
type StagedProduct struct {
	Name     string  `validate:"required"`
	Quantity int     `validate:"gte=0"`
	Price    float64 `validate:"gt=0"`
}

// ProductBatch accumulates manual product-add lines until the terminator.
type ProductBatch struct {
	Products []StagedProduct
}

// BarcodeAdd holds the last decoded barcode while its details are pending.
// An empty Code means the flow is waiting for the next scan.
type BarcodeAdd struct {
	Code string
}

// StagedPriceChange is one queued manual price change.
type StagedPriceChange struct {
	Name  string
	Price float64
}

// PriceBatch accumulates manual price changes until the terminator.
type PriceBatch struct {
	Changes []StagedPriceChange
}

// BarcodePrice holds the decoded barcode whose new price is pending.
type BarcodePrice struct {
	Code string
}

// OrderItemDraft is one order line staged in a session.
type OrderItemDraft struct {
	ProductName string
	Quantity    int
	Price       float64
}

// Total returns the line total.
func (i OrderItemDraft) Total() float64 {
	return float64(i.Quantity) * i.Price
}

// OrderDraft accumulates an order across turns: customer first, then items.
// Pending holds a barcode-scanned product awaiting its quantity.
type OrderDraft struct {
	CustomerName  string
	CustomerPhone string
	Items         []OrderItemDraft
	Pending       *OrderItemDraft
}

// Total returns the running order total.
func (d OrderDraft) Total() float64 {
	var total float64
	for _, item := range d.Items {
		total += item.Total()
	}
	return total
}

// CreditorScratch is the (empty) accumulator of the creditor flows; every
// creditor turn is self-contained.
type CreditorScratch struct{}

// VoiceWait is the accumulator of the voice-input flow.
type VoiceWait struct{}

// ConfirmAction tags the deferred action guarded by a confirmation gate.
// Stored as data rather than a closure so sessions stay serializable.
type ConfirmAction string

const (
	// ConfirmCommitOrder commits a staged order on an affirmative answer.
	ConfirmCommitOrder ConfirmAction = "commit_order"
)

// PendingConfirmation guards a single yes/no gate before a side-effecting
// action. It is destroyed on any affirmative or negative answer.
type PendingConfirmation struct {
	Action ConfirmAction
	Order  OrderDraft
}

func (ProductBatch) accumulator()        {}
func (BarcodeAdd) accumulator()          {}
func (PriceBatch) accumulator()          {}
func (BarcodePrice) accumulator()        {}
func (OrderDraft) accumulator()          {}
func (CreditorScratch) accumulator()     {}
func (VoiceWait) accumulator()           {}
func (PendingConfirmation) accumulator() {}
