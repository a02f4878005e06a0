package transaction

import (
	"context"
	"net/http"

	"github.com/aarondl/opt/omit"
	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/handlers/v1/apitypes"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/service"
)

// UpdateTransactionBody lists the fields to change. Absent fields are kept.
type UpdateTransactionBody struct {
	Type            *string          `json:"type,omitempty" enum:"income,expense"`
	Category        *string          `json:"category,omitempty" minLength:"1" maxLength:"100"`
	Amount          *apitypes.Amount `json:"amount,omitempty"`
	Description     *string          `json:"description,omitempty" maxLength:"500"`
	TransactionDate *string          `json:"date,omitempty" format:"date"`
}

type UpdateTransactionInput struct {
	ID   string `path:"id" format:"uuid" doc:"Transaction UUID"`
	Body UpdateTransactionBody
}

type transactionUpdater interface {
	UpdateTransaction(ctx context.Context, identity auth.Identity, id uuid.UUID, patch service.TransactionPatch) (*service.Transaction, error)
}

// UpdateTransactionHandler handles PUT /api/transactions/{id}.
type UpdateTransactionHandler struct {
	TransactionService transactionUpdater
}

func NewUpdateTransactionHandler(svc transactionUpdater) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{TransactionService: svc}
}

func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPut,
		Path:        "/api/transactions/{id}",
		Summary:     "Update transaction",
		Description: "Partially updates a transaction and returns the stored result.",
		Tags:        []string{"Transactions"},
		Security:    auth.Security(auth.RoleAdmin, auth.RoleUser),
	}, h.handle)
}

func parseUpdateTransactionBody(body *UpdateTransactionBody) (service.TransactionPatch, error) {
	var patch service.TransactionPatch
	if body.Type != nil {
		patch.Type = omit.From(service.TransactionType(*body.Type))
	}
	if body.Category != nil {
		patch.Category = omit.From(*body.Category)
	}
	if body.Amount != nil {
		if err := checkAmount(*body.Amount); err != nil {
			return service.TransactionPatch{}, err
		}
		patch.Amount = omit.From(body.Amount.Decimal())
	}
	if body.Description != nil {
		patch.Description = omit.From(*body.Description)
	}
	if body.TransactionDate != nil {
		date, err := parseDate(*body.TransactionDate)
		if err != nil {
			return service.TransactionPatch{}, err
		}
		patch.TransactionDate = omit.From(date)
	}
	return patch, nil
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*TransactionOutput, error) {
	identity, err := apitypes.Identity(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseTransactionID(input.ID)
	if err != nil {
		return nil, err
	}
	patch, err := parseUpdateTransactionBody(&input.Body)
	if err != nil {
		return nil, err
	}

	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("updateTransactionMs")
		logData.AddData("transactionID", id.String())
	}
	tx, err := h.TransactionService.UpdateTransaction(ctx, identity, id, patch)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, translateError(ctx, err)
	}

	return &TransactionOutput{Body: transactionFromService(tx)}, nil
}
