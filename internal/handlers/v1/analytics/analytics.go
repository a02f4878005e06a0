package analytics

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/handlers/v1/apitypes"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/service"
)

// Snapshot is the API response model for the analytics summary.
type Snapshot struct {
	TotalIncome       apitypes.Amount            `json:"totalIncome"`
	TotalExpense      apitypes.Amount            `json:"totalExpense"`
	NetBalance        apitypes.Amount            `json:"netBalance" doc:"totalIncome - totalExpense"`
	CategoryBreakdown map[string]apitypes.Amount `json:"categoryBreakdown" doc:"Expense total per category"`
}

type SnapshotOutput struct {
	Body Snapshot
}

type analyticsGetter interface {
	GetAnalytics(ctx context.Context, identity auth.Identity) (service.Snapshot, error)
}

// SnapshotHandler serves /api/analytics and its dashboard alias.
type SnapshotHandler struct {
	AnalyticsService analyticsGetter
}

func NewSnapshotHandler(svc analyticsGetter) *SnapshotHandler {
	return &SnapshotHandler{AnalyticsService: svc}
}

func (h *SnapshotHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-analytics",
		Method:      http.MethodGet,
		Path:        "/api/analytics",
		Summary:     "Analytics summary",
		Description: "Income, expense, net balance and expense per category. Admins see every user. Cached for 15 minutes.",
		Tags:        []string{"Analytics"},
		Security:    auth.Security(),
	}, h.handle)

	huma.Register(api, huma.Operation{
		OperationID: "get-analytics-dashboard",
		Method:      http.MethodGet,
		Path:        "/api/analytics/dashboard",
		Summary:     "Analytics dashboard",
		Description: "Same summary as /api/analytics.",
		Tags:        []string{"Analytics"},
		Security:    auth.Security(),
	}, h.handle)
}

func snapshotFromService(s service.Snapshot) Snapshot {
	breakdown := make(map[string]apitypes.Amount, len(s.CategoryBreakdown))
	for category, amount := range s.CategoryBreakdown {
		breakdown[category] = apitypes.NewAmount(amount)
	}
	return Snapshot{
		TotalIncome:       apitypes.NewAmount(s.TotalIncome),
		TotalExpense:      apitypes.NewAmount(s.TotalExpense),
		NetBalance:        apitypes.NewAmount(s.NetBalance),
		CategoryBreakdown: breakdown,
	}
}

func (h *SnapshotHandler) handle(ctx context.Context, _ *struct{}) (*SnapshotOutput, error) {
	identity, err := apitypes.Identity(ctx)
	if err != nil {
		return nil, err
	}

	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("analyticsMs")
	}
	snapshot, err := h.AnalyticsService.GetAnalytics(ctx, identity)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apitypes.ServerError(ctx, err)
	}

	return &SnapshotOutput{Body: snapshotFromService(snapshot)}, nil
}

func translateError(ctx context.Context, err error) error {
	if errors.Is(err, service.ErrInvalidPeriod) {
		return huma.Error400BadRequest("Invalid period", err)
	}
	return apitypes.ServerError(ctx, err)
}
