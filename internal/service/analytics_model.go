package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is the aggregate view of a caller's transactions. The invariants
// NetBalance = TotalIncome - TotalExpense and sum(CategoryBreakdown) =
// TotalExpense hold for every computed value.
type Snapshot struct {
	TotalIncome       decimal.Decimal
	TotalExpense      decimal.Decimal
	NetBalance        decimal.Decimal
	CategoryBreakdown map[string]decimal.Decimal
}

// snapshotJSON is the cached and served encoding. Amounts are JSON numbers.
type snapshotJSON struct {
	TotalIncome       json.Number            `json:"totalIncome"`
	TotalExpense      json.Number            `json:"totalExpense"`
	NetBalance        json.Number            `json:"netBalance"`
	CategoryBreakdown map[string]json.Number `json:"categoryBreakdown"`
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	breakdown := make(map[string]json.Number, len(s.CategoryBreakdown))
	for category, amount := range s.CategoryBreakdown {
		breakdown[category] = json.Number(amount.String())
	}
	return json.Marshal(snapshotJSON{
		TotalIncome:       json.Number(s.TotalIncome.String()),
		TotalExpense:      json.Number(s.TotalExpense.String()),
		NetBalance:        json.Number(s.NetBalance.String()),
		CategoryBreakdown: breakdown,
	})
}

// UnmarshalJSON rejects entries with missing or malformed amounts.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var decoded Snapshot
	var err error
	if decoded.TotalIncome, err = decimal.NewFromString(raw.TotalIncome.String()); err != nil {
		return fmt.Errorf("totalIncome: %w", err)
	}
	if decoded.TotalExpense, err = decimal.NewFromString(raw.TotalExpense.String()); err != nil {
		return fmt.Errorf("totalExpense: %w", err)
	}
	if decoded.NetBalance, err = decimal.NewFromString(raw.NetBalance.String()); err != nil {
		return fmt.Errorf("netBalance: %w", err)
	}
	if raw.CategoryBreakdown == nil {
		return fmt.Errorf("categoryBreakdown missing")
	}
	decoded.CategoryBreakdown = make(map[string]decimal.Decimal, len(raw.CategoryBreakdown))
	for category, amount := range raw.CategoryBreakdown {
		value, err := decimal.NewFromString(amount.String())
		if err != nil {
			return fmt.Errorf("categoryBreakdown[%q]: %w", category, err)
		}
		decoded.CategoryBreakdown[category] = value
	}

	*s = decoded
	return nil
}

// MonthlyTrend is the income and expense total of one calendar month.
type MonthlyTrend struct {
	Month    string
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// DailyComparison is the income and expense total of one calendar day.
type DailyComparison struct {
	Date     time.Time
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// BreakdownPeriod selects the window of a category breakdown. Year and
// Month are ignored for PeriodWeek, Month is ignored for PeriodYear.
type BreakdownPeriod struct {
	Period string
	Year   int
	Month  int
}

const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// CategoryShare is a category total and its share of the type total, in percent.
type CategoryShare struct {
	Category   string
	Type       TransactionType
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}
