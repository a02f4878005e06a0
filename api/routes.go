package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/handlers/v1/analytics"
	"github.com/carson-networks/finance-tracker/internal/handlers/v1/status"
	"github.com/carson-networks/finance-tracker/internal/handlers/v1/transaction"
	"github.com/carson-networks/finance-tracker/internal/handlers/v1/user"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/service"
)

const shutdownTimeout = 10 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Service *service.Service
	Storage pinger
	Tokens  tokenVerifier
}

// NewAPI creates the huma API on mux with logging, authentication and the
// role gate installed. Operations registered afterwards inherit all three.
func NewAPI(mux *http.ServeMux, logger *logrus.Logger, tokens tokenVerifier) huma.API {
	useErrorBody()

	config := huma.DefaultConfig("Finance Tracker API", "1.0.0")
	config.CreateHooks = nil
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		auth.SecuritySchemeName: {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}

	api := humago.New(mux, config)
	api.UseMiddleware(logging.Middleware(logger))
	api.UseMiddleware(Authenticate(api, tokens))
	api.UseMiddleware(RequireRoles(api))
	return api
}

type registrar interface {
	Register(api huma.API)
}

// Handler builds the complete HTTP handler.
func (r *Rest) Handler() http.Handler {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler(r.Storage)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	api := NewAPI(mux, r.Logger, r.Tokens)
	handlers := []registrar{
		user.NewRegisterHandler(r.Service.User),
		user.NewLoginHandler(r.Service.User),
		user.NewProtectedHandler(r.Service.User),
		transaction.NewCreateTransactionHandler(r.Service.Transaction),
		transaction.NewListTransactionsHandler(r.Service.Transaction),
		transaction.NewGetTransactionHandler(r.Service.Transaction),
		transaction.NewUpdateTransactionHandler(r.Service.Transaction),
		transaction.NewDeleteTransactionHandler(r.Service.Transaction),
		analytics.NewSnapshotHandler(r.Service.Analytics),
		analytics.NewMonthlyTrendsHandler(r.Service.Analytics),
		analytics.NewCategoryBreakdownHandler(r.Service.Analytics),
		analytics.NewIncomeVsExpenseHandler(r.Service.Analytics),
	}
	for _, h := range handlers {
		h.Register(api)
	}

	return mux
}

// Serve listens until ctx is cancelled and then shuts the server down,
// waiting up to shutdownTimeout for in-flight requests.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Handler(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	r.Logger.Info("HttpServer.Serve.shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.shutdown error")
		return err
	}
	return nil
}
