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

type CategoryShare struct {
	Category   string          `json:"category"`
	Type       string          `json:"type" enum:"income,expense"`
	Amount     apitypes.Amount `json:"amount"`
	Percentage apitypes.Amount `json:"percentage" doc:"Share of the type total, rounded to two decimals"`
}

// PeriodInput selects the window of the period based analytics.
type PeriodInput struct {
	Period string `query:"period" enum:"week,month,year" default:"month" doc:"Window of the report"`
	Year   int    `query:"year" minimum:"0" maximum:"9999" doc:"Defaults to the current year"`
	Month  int    `query:"month" minimum:"0" maximum:"12" doc:"Defaults to the current month"`
}

type CategoryBreakdownBody struct {
	Categories []CategoryShare `json:"categories"`
}

type CategoryBreakdownOutput struct {
	Body CategoryBreakdownBody
}

type breakdownGetter interface {
	GetCategoryBreakdown(ctx context.Context, identity auth.Identity, period service.BreakdownPeriod) ([]service.CategoryShare, error)
}

// CategoryBreakdownHandler handles GET /api/analytics/category-breakdown.
type CategoryBreakdownHandler struct {
	AnalyticsService breakdownGetter
	now              func() time.Time
}

func NewCategoryBreakdownHandler(svc breakdownGetter) *CategoryBreakdownHandler {
	return &CategoryBreakdownHandler{AnalyticsService: svc, now: time.Now}
}

func (h *CategoryBreakdownHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-category-breakdown",
		Method:      http.MethodGet,
		Path:        "/api/analytics/category-breakdown",
		Summary:     "Category breakdown",
		Description: "Per-category totals and percentages for the last week, a month or a year.",
		Tags:        []string{"Analytics"},
		Security:    auth.Security(),
	}, h.handle)
}

// breakdownPeriod fills the year and month left out of the query from now.
func (i *PeriodInput) breakdownPeriod(now time.Time) service.BreakdownPeriod {
	now = now.UTC()
	period := service.BreakdownPeriod{
		Period: i.Period,
		Year:   i.Year,
		Month:  i.Month,
	}
	if period.Period == "" {
		period.Period = service.PeriodMonth
	}
	if period.Year == 0 {
		period.Year = now.Year()
	}
	if period.Month == 0 {
		period.Month = int(now.Month())
	}
	return period
}

func (h *CategoryBreakdownHandler) handle(ctx context.Context, input *PeriodInput) (*CategoryBreakdownOutput, error) {
	identity, err := apitypes.Identity(ctx)
	if err != nil {
		return nil, err
	}

	shares, err := h.AnalyticsService.GetCategoryBreakdown(ctx, identity, input.breakdownPeriod(h.now()))
	if err != nil {
		return nil, translateError(ctx, err)
	}

	body := CategoryBreakdownBody{Categories: make([]CategoryShare, len(shares))}
	for i, share := range shares {
		body.Categories[i] = CategoryShare{
			Category:   share.Category,
			Type:       string(share.Type),
			Amount:     apitypes.NewAmount(share.Amount),
			Percentage: apitypes.NewAmount(share.Percentage),
		}
	}
	return &CategoryBreakdownOutput{Body: body}, nil
}
