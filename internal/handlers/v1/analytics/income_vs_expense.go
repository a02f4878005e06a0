package analytics

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/handlers/v1/apitypes"
	"github.com/carson-networks/finance-tracker/internal/service"
)

const dateLayout = "2006-01-02"

type DailyComparison struct {
	Date     string          `json:"date" format:"date"`
	Income   apitypes.Amount `json:"income"`
	Expenses apitypes.Amount `json:"expenses"`
	Net      apitypes.Amount `json:"net"`
}

type IncomeVsExpenseBody struct {
	Comparison []DailyComparison `json:"comparison"`
}

type IncomeVsExpenseOutput struct {
	Body IncomeVsExpenseBody
}

type comparisonGetter interface {
	GetIncomeVsExpense(ctx context.Context, identity auth.Identity, period service.BreakdownPeriod) ([]service.DailyComparison, error)
}

// IncomeVsExpenseHandler handles GET /api/analytics/income-vs-expense.
type IncomeVsExpenseHandler struct {
	AnalyticsService comparisonGetter
	now              func() time.Time
}

func NewIncomeVsExpenseHandler(svc comparisonGetter) *IncomeVsExpenseHandler {
	return &IncomeVsExpenseHandler{AnalyticsService: svc, now: time.Now}
}

func (h *IncomeVsExpenseHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-income-vs-expense",
		Method:      http.MethodGet,
		Path:        "/api/analytics/income-vs-expense",
		Summary:     "Income vs expense",
		Description: "Daily income, expenses and net for the days of the period that have transactions.",
		Tags:        []string{"Analytics"},
		Security:    auth.Security(),
	}, h.handle)
}

func (h *IncomeVsExpenseHandler) handle(ctx context.Context, input *PeriodInput) (*IncomeVsExpenseOutput, error) {
	identity, err := apitypes.Identity(ctx)
	if err != nil {
		return nil, err
	}

	days, err := h.AnalyticsService.GetIncomeVsExpense(ctx, identity, input.breakdownPeriod(h.now()))
	if err != nil {
		return nil, translateError(ctx, err)
	}

	body := IncomeVsExpenseBody{Comparison: make([]DailyComparison, len(days))}
	for i, day := range days {
		body.Comparison[i] = DailyComparison{
			Date:     day.Date.Format(dateLayout),
			Income:   apitypes.NewAmount(day.Income),
			Expenses: apitypes.NewAmount(day.Expenses),
			Net:      apitypes.NewAmount(day.Net),
		}
	}
	return &IncomeVsExpenseOutput{Body: body}, nil
}
