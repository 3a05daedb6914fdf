package application

import (
	"context"
	"fmt"
	"strings"

	"localledger/internal/application/flows"
	"localledger/internal/domain"
	"localledger/internal/ports/output"

	"github.com/sirupsen/logrus"
)

const msgUnknownCommand = "❌ Unknown command. Type 'help' to see available commands."

// command is one top-level entry: a fixed alias set and what running it
// does. Aliases are matched by exact case-folded membership, never by
// prefix or fuzzy match.
type command struct {
	name       string
	aliases    []string
	startsFlow domain.FlowKind
	run        func(ctx context.Context) string
}

// Router matches a normalized message against the command table and either
// starts a flow session or executes a one-shot query. It is only consulted
// when the user has no active session.
type Router struct {
	table    map[string]*command
	sessions output.SessionRegistry
	registry flows.Registry
}

// NewRouter builds the command table and rejects configuration whose alias
// sets overlap, so an ambiguous table can never silently pick a winner.
func NewRouter(sessions output.SessionRegistry, registry flows.Registry, reports *ReportService) (*Router, error) {
	commands := []*command{
		{name: "help", aliases: []string{"help"}, run: func(ctx context.Context) string { return reports.HelpMenu() }},
		{name: "list_products", aliases: []string{"l"}, run: reports.ListProducts},
		{name: "low_stock", aliases: []string{"low"}, run: reports.LowStock},
		{name: "list_creditors", aliases: []string{"creditors"}, run: reports.ListCreditors},
		{name: "total_credit", aliases: []string{"get total cred", "total credit", "all credit"}, run: reports.TotalCredit},
		{name: "daily_report", aliases: []string{"daily", "daily sales", "today sales"}, run: reports.DailyReport},
		{name: "weekly_report", aliases: []string{"weekly", "weekly sales", "week sales"}, run: reports.WeeklyReport},
		{name: "total_sales", aliases: []string{"total", "sum", "t"}, run: reports.TotalSales},

		{name: "add_product_manual", aliases: []string{"add new -m", "add manual", "add products manually"}, startsFlow: domain.FlowProductAddManual},
		{name: "add_product_barcode", aliases: []string{"add new -b", "add barcode", "add products by barcode"}, startsFlow: domain.FlowProductAddBarcode},
		{name: "voice_mode", aliases: []string{"add -v", "add voice", "add products by voice"}, startsFlow: domain.FlowVoiceInput},
		{name: "price_manual", aliases: []string{"change price -m", "update price manual", "modify price manual"}, startsFlow: domain.FlowPriceManual},
		{name: "price_barcode", aliases: []string{"change price -b", "update price barcode", "modify price barcode"}, startsFlow: domain.FlowPriceBarcode},
		{name: "order_manual", aliases: []string{"order -m", "order manual", "create order manually"}, startsFlow: domain.FlowOrderManual},
		{name: "order_barcode", aliases: []string{"order -b", "order barcode", "create order by barcode"}, startsFlow: domain.FlowOrderBarcode},
		{name: "add_creditor", aliases: []string{"add creditor", "new creditor", "create creditor"}, startsFlow: domain.FlowCreditorAdd},
		{name: "delete_creditor", aliases: []string{"del creditor", "delete creditor", "remove creditor"}, startsFlow: domain.FlowCreditorDelete},
		{name: "pay_creditor", aliases: []string{"pay", "pay creditor", "make payment"}, startsFlow: domain.FlowCreditorPay},
		{name: "credit_check", aliases: []string{"get cred amount", "check credit", "view credit"}, startsFlow: domain.FlowCreditCheck},
	}

	table, err := buildTable(commands)
	if err != nil {
		return nil, err
	}

	return &Router{table: table, sessions: sessions, registry: registry}, nil
}

func buildTable(commands []*command) (map[string]*command, error) {
	table := make(map[string]*command)
	for _, cmd := range commands {
		for _, alias := range cmd.aliases {
			key := strings.ToLower(alias)
			if existing, taken := table[key]; taken {
				return nil, fmt.Errorf("alias %q claimed by both %s and %s", alias, existing.name, cmd.name)
			}
			table[key] = cmd
		}
	}
	return table, nil
}

// Route interprets text as a top-level command for a user with no active
// session. depth > 0 marks a voice-transcript redispatch, which may not
// resolve into another voice session.
func (r *Router) Route(ctx context.Context, userID, text string, depth int) string {
	cmd, ok := r.table[strings.ToLower(strings.TrimSpace(text))]
	if !ok {
		return msgUnknownCommand
	}

	if cmd.startsFlow == "" {
		return cmd.run(ctx)
	}

	if cmd.startsFlow == domain.FlowVoiceInput && depth > 0 {
		return "❌ Voice commands can't start another voice session."
	}

	handler, ok := r.registry[cmd.startsFlow]
	if !ok {
		logrus.Errorf("No handler registered for flow %s", cmd.startsFlow)
		return msgUnknownCommand
	}

	step, data, prompt := handler.Start()
	if _, err := r.sessions.Start(userID, cmd.startsFlow, step, data); err != nil {
		// The engine checks session presence before routing here, so this
		// is a core bug, not a user condition.
		logrus.Errorf("Failed to start %s session for %s: %v", cmd.startsFlow, userID, err)
		return "❌ An error occurred. Please try again."
	}

	logrus.Infof("Started %s session for %s", cmd.startsFlow, userID)
	return prompt
}
