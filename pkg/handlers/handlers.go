package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/chris/bank-ledger/pkg/ledger"
	"github.com/chris/bank-ledger/pkg/storage"
	"github.com/go-chi/chi/v5"
)

// Handler is the request gateway: it parses payloads into operation
// parameters and renders each result as the {message, status code} envelope.
type Handler struct {
	Ledger *ledger.Service
	Store  storage.LedgerStore
}

// New creates a new Handler.
func New(svc *ledger.Service, store storage.LedgerStore) *Handler {
	return &Handler{Ledger: svc, Store: store}
}

// Routes mounts the API on a chi router. Paths are preserved from the
// original service.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/add", h.Deposit)
	r.Post("/transfer", h.Transfer)
	r.Post("/balance", h.Balance)
	r.Post("/take_loan", h.TakeLoan)
	r.Post("/pay_loan", h.PayLoan)
	r.Get("/ledger", h.ListLedgerEntries)
}

// Request payloads use pointer fields so an absent field is distinguishable
// from a zero value; missing fields map to the 305 parameter error.

type registerRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type amountRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Amount   *int64  `json:"amount"`
}

type transferRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	To       *string `json:"to"`
	Amount   *int64  `json:"amount"`
}

// decode parses the JSON payload. A malformed body is reported on the
// parameter error code, since the operation's parameters could not be read.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond(w, http.StatusOK, fmt.Sprintf("Invalid request body: %v", err), codeMissingOrUnknownUser)
		return false
	}
	return true
}

// Register handles user sign-up.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := missingParams(
		param{"username", req.Username != nil},
		param{"password", req.Password != nil},
	); msg != "" {
		respond(w, http.StatusOK, msg, codeMissingOrUnknownUser)
		return
	}

	if err := h.Ledger.Register(r.Context(), *req.Username, *req.Password); err != nil {
		respondError(w, err, *req.Username, "")
		return
	}
	respond(w, http.StatusOK, "You have successfully signed up for the API", codeOK)
}

// Deposit handles adding money to an account.
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := missingParams(
		param{"username", req.Username != nil},
		param{"password", req.Password != nil},
		param{"amount", req.Amount != nil},
	); msg != "" {
		respond(w, http.StatusOK, msg, codeMissingOrUnknownUser)
		return
	}

	if err := h.Ledger.Deposit(r.Context(), *req.Username, *req.Password, *req.Amount); err != nil {
		respondError(w, err, *req.Username, "")
		return
	}
	respond(w, http.StatusOK, "Amount successfully added to the account", codeOK)
}

// Transfer handles moving money between two accounts.
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := missingParams(
		param{"username", req.Username != nil},
		param{"password", req.Password != nil},
		param{"to", req.To != nil},
		param{"amount", req.Amount != nil},
	); msg != "" {
		respond(w, http.StatusOK, msg, codeMissingOrUnknownUser)
		return
	}

	if err := h.Ledger.Transfer(r.Context(), *req.Username, *req.Password, *req.To, *req.Amount); err != nil {
		respondError(w, err, *req.Username, *req.To)
		return
	}
	respond(w, http.StatusOK, "Amount transferred successfully", codeOK)
}

// Balance reports an account's cash and debt.
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := missingParams(
		param{"username", req.Username != nil},
		param{"password", req.Password != nil},
	); msg != "" {
		respond(w, http.StatusOK, msg, codeMissingOrUnknownUser)
		return
	}

	cash, debt, err := h.Ledger.Balance(r.Context(), *req.Username, *req.Password)
	if err != nil {
		respondError(w, err, *req.Username, "")
		return
	}
	respond(w, http.StatusOK, fmt.Sprintf("Your balance is %d, debt is %d", cash, debt), codeOK)
}

// TakeLoan handles borrowing from the bank.
func (h *Handler) TakeLoan(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := missingParams(
		param{"username", req.Username != nil},
		param{"password", req.Password != nil},
		param{"amount", req.Amount != nil},
	); msg != "" {
		respond(w, http.StatusOK, msg, codeMissingOrUnknownUser)
		return
	}

	if err := h.Ledger.TakeLoan(r.Context(), *req.Username, *req.Password, *req.Amount); err != nil {
		respondError(w, err, *req.Username, "")
		return
	}
	respond(w, http.StatusOK, "Loan added to your account", codeOK)
}

// PayLoan handles repaying a loan.
func (h *Handler) PayLoan(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := missingParams(
		param{"username", req.Username != nil},
		param{"password", req.Password != nil},
		param{"amount", req.Amount != nil},
	); msg != "" {
		respond(w, http.StatusOK, msg, codeMissingOrUnknownUser)
		return
	}

	if err := h.Ledger.PayLoan(r.Context(), *req.Username, *req.Password, *req.Amount); err != nil {
		respondError(w, err, *req.Username, "")
		return
	}
	respond(w, http.StatusOK, "Successful loan payment", codeOK)
}

// ListLedgerEntries returns the most recent audit entries.
func (h *Handler) ListLedgerEntries(w http.ResponseWriter, r *http.Request) {
	limit := int32(20)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = int32(parsed)
	}

	entries, err := h.Store.ListLedgerEntries(r.Context(), limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve ledger entries: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
