package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"finanzas/internal/category"
	"finanzas/internal/core"
	"finanzas/internal/report"
)

// Summary is the dashboard payload: overall and current-month totals,
// the most recent transactions and the expense breakdown by category.
type Summary struct {
	Totals      report.Totals          `json:"totals"`
	Balance     decimal.Decimal        `json:"balance"`
	MonthTotals report.Totals          `json:"month_totals"`
	Recent      []core.Transaction     `json:"recent"`
	Breakdown   []report.CategorySlice `json:"breakdown"`
}

const recentLimit = 10

// BuildSummary assembles the dashboard summary from the ledger snapshot
// and the owner's category catalog.
func BuildSummary(ctx context.Context, ledger *Ledger, catalog *category.Catalog, now time.Time) (Summary, error) {
	resolver, err := catalog.ResolverFor(ctx, ledger.Owner())
	if err != nil {
		return Summary{}, fmt.Errorf("build summary: %w", err)
	}

	txs := ledger.Transactions()
	totals := report.Sum(txs)

	recent := txs
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	return Summary{
		Totals:      totals,
		Balance:     totals.Balance(),
		MonthTotals: report.MonthTotals(txs, now),
		Recent:      recent,
		Breakdown:   report.ExpenseBreakdown(txs, resolver),
	}, nil
}
