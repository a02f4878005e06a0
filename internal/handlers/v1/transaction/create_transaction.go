package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/handlers/v1/apitypes"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/service"
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	Type            string          `json:"type" enum:"income,expense" doc:"Transaction type"`
	Category        string          `json:"category" minLength:"1" maxLength:"100" doc:"Free-form category"`
	Amount          apitypes.Amount `json:"amount" doc:"Non-negative decimal amount"`
	Description     string          `json:"description" maxLength:"500" doc:"Description, may be empty"`
	TransactionDate string          `json:"date" format:"date" doc:"Calendar date, YYYY-MM-DD"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

type CreateTransactionResponse struct {
	ID string `json:"id" doc:"UUID of the created transaction"`
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   CreateTransactionResponse
}

type transactionCreator interface {
	CreateTransaction(ctx context.Context, identity auth.Identity, input service.TransactionInput) (uuid.UUID, error)
}

// CreateTransactionHandler handles POST /api/transactions.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/api/transactions",
		Summary:       "Create transaction",
		Description:   "Creates a transaction owned by the caller.",
		Tags:          []string{"Transactions"},
		Security:      auth.Security(auth.RoleAdmin, auth.RoleUser),
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func parseCreateTransactionInput(input *CreateTransactionInput) (service.TransactionInput, error) {
	if err := checkAmount(input.Body.Amount); err != nil {
		return service.TransactionInput{}, err
	}
	date, err := parseDate(input.Body.TransactionDate)
	if err != nil {
		return service.TransactionInput{}, err
	}

	return service.TransactionInput{
		Type:            service.TransactionType(input.Body.Type),
		Category:        input.Body.Category,
		Amount:          input.Body.Amount.Decimal(),
		Description:     input.Body.Description,
		TransactionDate: date,
	}, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	identity, err := apitypes.Identity(ctx)
	if err != nil {
		return nil, err
	}
	txInput, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createTransactionMs")
	}
	id, err := h.TransactionService.CreateTransaction(ctx, identity, txInput)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, translateError(ctx, err)
	}

	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body:   CreateTransactionResponse{ID: id.String()},
	}, nil
}
