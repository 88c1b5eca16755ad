package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/adeyinka/paydesk/internal/actions"
	"github.com/adeyinka/paydesk/internal/audit"
	"github.com/adeyinka/paydesk/internal/domain"
	"github.com/adeyinka/paydesk/internal/present"
	"github.com/adeyinka/paydesk/internal/stats"
	"github.com/adeyinka/paydesk/internal/upstream"
)

// apiResponse is the gateway's response envelope, mirroring the upstream
// convention dashboard clients already speak.
type apiResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, apiResponse{Status: false, Message: message})
}

// respondWorkflowError maps the workflow error taxonomy onto HTTP statuses.
// Not-found is a soft outcome with a neutral message; transport failures
// surface the server-supplied message when one exists.
func respondWorkflowError(w http.ResponseWriter, err error) {
	var notFound *domain.NotFoundError
	var transport *domain.TransportError
	var action *domain.ActionError

	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		respondError(w, http.StatusBadRequest, "Enter a search term before submitting")
	case errors.Is(err, domain.ErrNoResult):
		respondError(w, http.StatusConflict, "Load a result before performing this action")
	case errors.As(err, &notFound):
		respondError(w, http.StatusNotFound, "No matching record was found")
	case errors.As(err, &action):
		if action.Err != nil && domain.IsTransport(action.Err) {
			respondError(w, http.StatusBadGateway, action.Error())
		} else {
			respondError(w, http.StatusUnprocessableEntity, action.Error())
		}
	case errors.As(err, &transport):
		respondError(w, http.StatusBadGateway, transport.Error())
	default:
		respondError(w, http.StatusInternalServerError, "Something went wrong")
	}
}

// session resolves the request's workflow session and echoes its ID.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *Session {
	session := s.sessions.Get(r.Header.Get(sessionHeader))
	w.Header().Set(sessionHeader, session.ID)
	return session
}

// parseKind validates the {kind} path parameter.
func parseKind(r *http.Request) (domain.Kind, error) {
	kind := domain.Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		return "", fmt.Errorf("unknown entity kind %q", kind)
	}
	return kind, nil
}

// handleSearch handles GET /api/search/{kind}?q=. It runs one search to
// completion and returns the derived view of the single matched record.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session := s.session(w, r)
	query := r.URL.Query().Get("q")

	result, err := session.Controller(kind).Search(r.Context(), query)
	if err != nil {
		s.hub.Publish(Event{
			Type:      EventSearchResolved,
			SessionID: session.ID,
			Kind:      string(kind),
			Found:     false,
		})
		respondWorkflowError(w, err)
		return
	}

	s.hub.Publish(Event{
		Type:      EventSearchResolved,
		SessionID: session.ID,
		Kind:      string(kind),
		ResultID:  result.ID,
		Found:     true,
	})

	respondJSON(w, http.StatusOK, apiResponse{Status: true, Data: present.BuildView(result)})
}

// handleCurrentView handles GET /api/search/{kind}/view. It re-derives the view
// of the already-loaded result without refetching. Tab switches hit this.
func (s *Server) handleCurrentView(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session := s.session(w, r)
	result := session.Controller(kind).Current()
	if result == nil {
		respondError(w, http.StatusNotFound, "No result is currently loaded")
		return
	}

	respondJSON(w, http.StatusOK, apiResponse{Status: true, Data: present.BuildView(result)})
}

// handleExport handles GET /api/search/{kind}/export. It serializes the curated
// field subset of the loaded result as a downloadable JSON document.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session := s.session(w, r)
	result := session.Controller(kind).Current()
	if result == nil {
		respondError(w, http.StatusConflict, "Load a result before exporting")
		return
	}

	data, err := actions.MarshalExport(result)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to build export document")
		return
	}

	s.recordAudit(r, "export_json", result, session.ID, "success", "", map[string]any{
		"bytes": len(data),
	})

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", actions.ExportFilename(result)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handlePrintProof handles GET /api/search/{kind}/print. It renders the
// self-contained proof-of-payment document for the loaded payout.
func (s *Server) handlePrintProof(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if kind != domain.KindPayout {
		respondError(w, http.StatusBadRequest, "Proof of payment is only available for payouts")
		return
	}

	session := s.session(w, r)
	result := session.Controller(kind).Current()
	if result == nil {
		respondError(w, http.StatusConflict, "Load a payout before printing")
		return
	}

	html, err := actions.BuildProofOfPayment(result, actions.CompanyInfo{
		Name:    s.cfg.CompanyName,
		Support: s.cfg.CompanySupport,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to render proof of payment")
		return
	}

	s.recordAudit(r, "print_proof", result, session.ID, "success", "", nil)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

// handleResendWebhook handles POST /api/search/{kind}/resend-webhook. It asks
// upstream to redeliver the webhook for the loaded result.
func (s *Server) handleResendWebhook(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session := s.session(w, r)
	result := session.Controller(kind).Current()

	message, err := session.Dispatcher().ResendWebhook(r.Context(), result)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}

	s.hub.Publish(Event{
		Type:      EventActionCompleted,
		SessionID: session.ID,
		Kind:      string(kind),
		ResultID:  result.ID,
		Action:    "resend_webhook",
	})

	if message == "" {
		message = "Webhook resent"
	}
	respondJSON(w, http.StatusOK, apiResponse{Status: true, Message: message})
}

// handleHistory handles GET /api/history?kind=. It returns the session's bounded search
// history for one entity kind, most recent first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	kind := domain.Kind(r.URL.Query().Get("kind"))
	if !kind.Valid() {
		respondError(w, http.StatusBadRequest, "kind query parameter is required")
		return
	}

	session := s.session(w, r)
	entries := session.Controller(kind).History().Entries()
	respondJSON(w, http.StatusOK, apiResponse{Status: true, Data: entries})
}

// handleReplay handles GET /api/history/{entryID}/replay. It returns the exact
// original query text so the client can repopulate its input field. It never
// re-runs the search.
func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryID")
	session := s.session(w, r)

	for _, kind := range []domain.Kind{domain.KindTransfer, domain.KindPayout, domain.KindTransaction} {
		if query, ok := session.Controller(kind).History().Replay(entryID); ok {
			respondJSON(w, http.StatusOK, apiResponse{Status: true, Data: map[string]string{
				"query": query,
				"kind":  string(kind),
			}})
			return
		}
	}

	respondError(w, http.StatusNotFound, "History entry not found")
}

// parseListParams reads the pass-through list filters from the query string.
func parseListParams(r *http.Request) upstream.ListParams {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	return upstream.ListParams{
		Page:        page,
		Limit:       limit,
		Search:      q.Get("search"),
		Status:      q.Get("status"),
		PaymentMode: q.Get("payment_mode"),
		StartDate:   q.Get("start_date"),
		EndDate:     q.Get("end_date"),
	}
}

// handleWalletTransactions handles GET /api/wallet/transactions. It returns one page of
// the wallet ledger with upstream stats and the locally computed summary.
func (s *Server) handleWalletTransactions(w http.ResponseWriter, r *http.Request) {
	page, err := s.upstream.WalletTransactions(r.Context(), parseListParams(r))
	if err != nil {
		respondWorkflowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, apiResponse{Status: true, Data: map[string]any{
		"stats":      page.RawStats,
		"summary":    stats.Summarize(page.Entries),
		"table":      page.Entries,
		"pagination": page.Pagination,
	}})
}

// handleMerchantPayouts handles GET /api/merchants/{businessID}/payouts.
func (s *Server) handleMerchantPayouts(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if businessID == "" {
		respondError(w, http.StatusBadRequest, "business ID is required")
		return
	}

	page, err := s.upstream.MerchantPayouts(r.Context(), businessID, parseListParams(r))
	if err != nil {
		respondWorkflowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, apiResponse{Status: true, Data: map[string]any{
		"data":       page.Payouts,
		"pagination": page.Pagination,
	}})
}

// handleBulkExport handles POST /api/wallet/export. It forwards a bulk export
// request for a date window; the backend delivers the file by email.
func (s *Server) handleBulkExport(w http.ResponseWriter, r *http.Request) {
	var body struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.StartDate == "" || body.EndDate == "" {
		respondError(w, http.StatusBadRequest, "start_date and end_date are required")
		return
	}

	message, err := s.upstream.ExportWalletAll(r.Context(), body.StartDate, body.EndDate)
	if err != nil {
		if s.auditLog != nil {
			_ = s.auditLog.AppendBulkExport(r.Context(), body.StartDate+".."+body.EndDate, "failure", err.Error())
		}
		respondWorkflowError(w, err)
		return
	}

	if s.auditLog != nil {
		_ = s.auditLog.AppendBulkExport(r.Context(), body.StartDate+".."+body.EndDate, "success", message)
	}

	if message == "" {
		message = "Export requested; it will be delivered by email"
	}
	respondJSON(w, http.StatusOK, apiResponse{Status: true, Message: message})
}

// handleAuditRecent handles GET /api/audit/recent?limit=.
func (s *Server) handleAuditRecent(w http.ResponseWriter, r *http.Request) {
	if s.auditLog == nil {
		respondError(w, http.StatusNotFound, "Audit log is disabled")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := s.auditLog.Recent(r.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read audit log")
		respondError(w, http.StatusInternalServerError, "Failed to read audit log")
		return
	}

	respondJSON(w, http.StatusOK, apiResponse{Status: true, Data: records})
}

// recordAudit appends an audit record for handler-level actions, tolerating a
// disabled store.
func (s *Server) recordAudit(r *http.Request, action string, result *domain.Result, sessionID, outcome, message string, detail map[string]any) {
	if s.auditLog == nil {
		return
	}

	rec := audit.Record{
		Action:    action,
		SessionID: sessionID,
		Outcome:   outcome,
		Message:   message,
		Detail:    detail,
	}
	if result != nil {
		rec.Kind = string(result.Kind)
		rec.ResultID = result.ID
		rec.BusinessID = result.BusinessID
	}

	if err := s.auditLog.Append(r.Context(), rec); err != nil {
		s.log.Error().Err(err).Str("action", action).Msg("Failed to append audit record")
	}
}
