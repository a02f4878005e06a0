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

type MonthlyTrend struct {
	Month    string          `json:"month" doc:"YYYY-MM"`
	Income   apitypes.Amount `json:"income"`
	Expenses apitypes.Amount `json:"expenses"`
	Net      apitypes.Amount `json:"net"`
}

type MonthlyTrendsInput struct {
	Year int `query:"year" minimum:"0" maximum:"9999" doc:"Calendar year, defaults to the current year"`
}

type MonthlyTrendsBody struct {
	Trends []MonthlyTrend `json:"trends" doc:"One entry per month, January first"`
}

type MonthlyTrendsOutput struct {
	Body MonthlyTrendsBody
}

type trendsGetter interface {
	GetMonthlyTrends(ctx context.Context, identity auth.Identity, year int) ([]service.MonthlyTrend, error)
}

// MonthlyTrendsHandler handles GET /api/analytics/monthly-trends.
type MonthlyTrendsHandler struct {
	AnalyticsService trendsGetter
	now              func() time.Time
}

func NewMonthlyTrendsHandler(svc trendsGetter) *MonthlyTrendsHandler {
	return &MonthlyTrendsHandler{AnalyticsService: svc, now: time.Now}
}

func (h *MonthlyTrendsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-monthly-trends",
		Method:      http.MethodGet,
		Path:        "/api/analytics/monthly-trends",
		Summary:     "Monthly trends",
		Description: "Income, expenses and net per month of a year.",
		Tags:        []string{"Analytics"},
		Security:    auth.Security(),
	}, h.handle)
}

func (h *MonthlyTrendsHandler) handle(ctx context.Context, input *MonthlyTrendsInput) (*MonthlyTrendsOutput, error) {
	identity, err := apitypes.Identity(ctx)
	if err != nil {
		return nil, err
	}
	year := input.Year
	if year == 0 {
		year = h.now().UTC().Year()
	}

	trends, err := h.AnalyticsService.GetMonthlyTrends(ctx, identity, year)
	if err != nil {
		return nil, translateError(ctx, err)
	}

	body := MonthlyTrendsBody{Trends: make([]MonthlyTrend, len(trends))}
	for i, trend := range trends {
		body.Trends[i] = MonthlyTrend{
			Month:    trend.Month,
			Income:   apitypes.NewAmount(trend.Income),
			Expenses: apitypes.NewAmount(trend.Expenses),
			Net:      apitypes.NewAmount(trend.Net),
		}
	}
	return &MonthlyTrendsOutput{Body: body}, nil
}
