package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"localledger/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// ReportService struct - one-shot listings and sales reports. Every method
// resolves to a display string; store failures become a retry message.
type ReportService struct {
	store output.DomainStore
}

// NewReportService func
func NewReportService(store output.DomainStore) *ReportService {
	return &ReportService{store: store}
}

// HelpMenu func - static command menu
func (s *ReportService) HelpMenu() string {
	return "📱 *LocalLedger Help Menu*\n\n" +
		"1️⃣ *Inventory Management*\n" +
		"   • l - List all products\n" +
		"   • low - Show low stock items\n" +
		"   • add new -m - Add products manually\n" +
		"   • add new -b - Add products via barcode\n" +
		"   • change price -m - Change price manually\n" +
		"   • change price -b - Change price via barcode\n\n" +
		"2️⃣ *Order Management*\n" +
		"   • order -m - Create order manually\n" +
		"   • order -b - Create order via barcode\n\n" +
		"3️⃣ *Credit Management*\n" +
		"   • creditors - List all creditors\n" +
		"   • add creditor - Add new creditor\n" +
		"   • del creditor - Delete creditor\n" +
		"   • pay - Process payment\n" +
		"   • get cred amount - Check credit amount\n" +
		"   • get total cred - Get total credit\n\n" +
		"4️⃣ *Reports*\n" +
		"   • daily - Daily sales report\n" +
		"   • weekly - Weekly sales report\n" +
		"   • t - Calculate total\n\n" +
		"5️⃣ *Voice Input*\n" +
		"   • add -v - Voice command mode\n\n" +
		"Type any command to get started!"
}

// ListProducts func
func (s *ReportService) ListProducts(ctx context.Context) string {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		logrus.Errorf("Failed to list products: %v", err)
		return "Sorry, couldn't fetch products. Please try again."
	}
	if len(products) == 0 {
		return "No products found."
	}

	var b strings.Builder
	b.WriteString("📦 *Products List:*\n\n")
	for _, p := range products {
		fmt.Fprintf(&b, "• %s:\n", p.Name)
		fmt.Fprintf(&b, "   - Price: ₹%.2f\n", p.Price)
		fmt.Fprintf(&b, "   - Stock: %d\n", p.Quantity)
		if p.Barcode != nil {
			fmt.Fprintf(&b, "   - Barcode: %s\n", *p.Barcode)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// LowStock func - products at or below their minimum-quantity threshold
func (s *ReportService) LowStock(ctx context.Context) string {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		logrus.Errorf("Failed to list low stock: %v", err)
		return "Sorry, couldn't fetch low stock items. Please try again."
	}

	var b strings.Builder
	b.WriteString("⚠️ *Low Stock Alert:*\n\n")
	found := false
	for _, p := range products {
		if p.Quantity > p.MinQuantity {
			continue
		}
		found = true
		fmt.Fprintf(&b, "• %s:\n", p.Name)
		fmt.Fprintf(&b, "   - Current Stock: %d\n", p.Quantity)
		fmt.Fprintf(&b, "   - Minimum Required: %d\n\n", p.MinQuantity)
	}
	if !found {
		return "No products with low stock."
	}
	return b.String()
}

// ListCreditors func
func (s *ReportService) ListCreditors(ctx context.Context) string {
	creditors, err := s.store.ListCreditors(ctx)
	if err != nil {
		logrus.Errorf("Failed to list creditors: %v", err)
		return "Sorry, couldn't fetch creditors. Please try again."
	}
	if len(creditors) == 0 {
		return "No creditors found."
	}

	var b strings.Builder
	b.WriteString("💳 *Creditors List:*\n\n")
	for _, c := range creditors {
		fmt.Fprintf(&b, "• %s:\n", c.Name)
		fmt.Fprintf(&b, "   - Phone: %s\n", c.Phone)
		fmt.Fprintf(&b, "   - Credit: ₹%.2f\n\n", c.Amount)
	}
	return b.String()
}

// TotalCredit func - outstanding total with per-creditor breakdown
func (s *ReportService) TotalCredit(ctx context.Context) string {
	creditors, err := s.store.ListCreditors(ctx)
	if err != nil {
		logrus.Errorf("Failed to total credit: %v", err)
		return "Sorry, couldn't fetch total credit. Please try again."
	}

	var total float64
	for _, c := range creditors {
		total += c.Amount
	}

	var b strings.Builder
	b.WriteString("💳 *Total Credit:*\n\n")
	fmt.Fprintf(&b, "Total Amount: ₹%.2f\n\n", total)
	if len(creditors) > 0 {
		b.WriteString("Breakdown:\n")
		for _, c := range creditors {
			fmt.Fprintf(&b, "• %s: ₹%.2f\n", c.Name, c.Amount)
		}
	}
	return b.String()
}

// DailyReport func - today's orders
func (s *ReportService) DailyReport(ctx context.Context) string {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	orders, err := s.store.OrdersInRange(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		logrus.Errorf("Failed to build daily report: %v", err)
		return "Sorry, couldn't fetch daily report. Please try again."
	}
	if len(orders) == 0 {
		return "No sales today."
	}

	var total float64
	for _, o := range orders {
		total += o.Total
	}

	var b strings.Builder
	b.WriteString("📊 *Daily Sales Report:*\n\n")
	fmt.Fprintf(&b, "Date: %s\n", start.Format("2006-01-02"))
	fmt.Fprintf(&b, "Total Sales: ₹%.2f\n", total)
	fmt.Fprintf(&b, "Number of Orders: %d\n\n", len(orders))
	b.WriteString("Orders:\n")
	for _, o := range orders {
		fmt.Fprintf(&b, "• %s:\n", o.CustomerName)
		fmt.Fprintf(&b, "   - Amount: ₹%.2f\n", o.Total)
		if o.CreatedAt != nil {
			fmt.Fprintf(&b, "   - Time: %s\n", o.CreatedAt.Format("15:04"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// WeeklyReport func - current week's orders with per-day breakdown
func (s *ReportService) WeeklyReport(ctx context.Context) string {
	now := time.Now()
	weekday := (int(now.Weekday()) + 6) % 7 // Monday = 0
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -weekday)
	end := start.AddDate(0, 0, 7)

	orders, err := s.store.OrdersInRange(ctx, start, end)
	if err != nil {
		logrus.Errorf("Failed to build weekly report: %v", err)
		return "Sorry, couldn't fetch weekly report. Please try again."
	}
	if len(orders) == 0 {
		return "No sales this week."
	}

	var total float64
	byDay := make(map[string][]float64)
	var dayOrder []string
	for _, o := range orders {
		total += o.Total
		if o.CreatedAt == nil {
			continue
		}
		day := o.CreatedAt.Format("2006-01-02")
		if _, seen := byDay[day]; !seen {
			dayOrder = append(dayOrder, day)
		}
		byDay[day] = append(byDay[day], o.Total)
	}

	var b strings.Builder
	b.WriteString("📊 *Weekly Sales Report:*\n\n")
	fmt.Fprintf(&b, "Period: %s to %s\n", start.Format("2006-01-02"), end.AddDate(0, 0, -1).Format("2006-01-02"))
	fmt.Fprintf(&b, "Total Sales: ₹%.2f\n", total)
	fmt.Fprintf(&b, "Number of Orders: %d\n\n", len(orders))
	b.WriteString("Daily Breakdown:\n")
	for _, day := range dayOrder {
		var dayTotal float64
		for _, amount := range byDay[day] {
			dayTotal += amount
		}
		fmt.Fprintf(&b, "• %s:\n", day)
		fmt.Fprintf(&b, "   - Sales: ₹%.2f\n", dayTotal)
		fmt.Fprintf(&b, "   - Orders: %d\n\n", len(byDay[day]))
	}
	return b.String()
}

// TotalSales func - all recorded orders
func (s *ReportService) TotalSales(ctx context.Context) string {
	orders, err := s.store.OrdersInRange(ctx, time.Time{}, time.Now().AddDate(0, 0, 1))
	if err != nil {
		logrus.Errorf("Failed to total sales: %v", err)
		return "Sorry, couldn't calculate total sales. Please try again."
	}

	var total float64
	for _, o := range orders {
		total += o.Total
	}
	return fmt.Sprintf("💰 Total sales: ₹%.2f", total)
}
