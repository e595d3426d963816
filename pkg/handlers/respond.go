package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/chris/bank-ledger/pkg/auth"
	"github.com/chris/bank-ledger/pkg/ledger"
)

// response is the wire envelope shared by every operation. The status code
// inside the body is an application-level code carried in a 200 transport
// response; only store failures use a 500 transport status.
type response struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status code"`
}

// Application status codes, preserved from the original wire contract.
const (
	codeOK                   = 200
	codeUserExists           = 301
	codeWrongPassword        = 302
	codeInvalidAmountOrFunds = 304
	codeMissingOrUnknownUser = 305
	codeStoreFailure         = 500
)

func respond(w http.ResponseWriter, httpStatus int, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	if err := json.NewEncoder(w).Encode(response{Message: message, StatusCode: code}); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// respondError maps ledger and auth errors onto the envelope. The recipient
// argument distinguishes a transfer's unknown recipient from an unknown
// initiating user; it is empty for every other operation.
func respondError(w http.ResponseWriter, err error, username, recipient string) {
	var insufficient *ledger.InsufficientFundsError

	switch {
	case errors.Is(err, ledger.ErrUserExists):
		respond(w, http.StatusOK, fmt.Sprintf("User %s already exists", username), codeUserExists)
	case errors.Is(err, ledger.ErrNoSuchRecipient):
		respond(w, http.StatusOK, fmt.Sprintf("User %s does not exist", recipient), codeMissingOrUnknownUser)
	case errors.Is(err, auth.ErrNoSuchUser):
		respond(w, http.StatusOK, fmt.Sprintf("User %s does not exist", username), codeMissingOrUnknownUser)
	case errors.Is(err, auth.ErrWrongPassword):
		respond(w, http.StatusOK, fmt.Sprintf("Wrong password for user %s", username), codeWrongPassword)
	case errors.Is(err, ledger.ErrInvalidAmount):
		respond(w, http.StatusOK, "The amount of money must be greater than 0", codeInvalidAmountOrFunds)
	case errors.As(err, &insufficient):
		respond(w, http.StatusOK,
			fmt.Sprintf("Your account balance is below %d, please add or take a loan", insufficient.Required),
			codeInvalidAmountOrFunds)
	case errors.Is(err, ledger.ErrPartialFailure):
		respond(w, http.StatusInternalServerError,
			fmt.Sprintf("Operation partially applied, reconciliation required: %v", err), codeStoreFailure)
	default:
		respond(w, http.StatusInternalServerError, fmt.Sprintf("Storage failure: %v", err), codeStoreFailure)
	}
}
