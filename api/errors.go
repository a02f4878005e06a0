package api

import (
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"
)

// ErrorBody is the body of every error response.
type ErrorBody struct {
	Message string   `json:"message" doc:"Human readable error"`
	Status  int      `json:"status" doc:"HTTP status code"`
	Errors  []string `json:"errors,omitempty" doc:"Validation details"`
}

func (e *ErrorBody) Error() string {
	return e.Message
}

func (e *ErrorBody) GetStatus() int {
	return e.Status
}

func newErrorBody(status int, msg string, errs ...error) huma.StatusError {
	body := &ErrorBody{Message: msg, Status: status}
	// Server side causes stay in the log.
	if status < http.StatusInternalServerError {
		for _, err := range errs {
			if err != nil {
				body.Errors = append(body.Errors, err.Error())
			}
		}
	}
	return body
}

var useErrorBodyOnce sync.Once

// useErrorBody replaces huma's problem+json errors for the whole process.
func useErrorBody() {
	useErrorBodyOnce.Do(func() {
		huma.NewError = newErrorBody
	})
}
