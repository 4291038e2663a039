package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/samber/lo"

	"github.com/m4r13y/hawkins-ig-sub001/internal/crmsync"
	"github.com/m4r13y/hawkins-ig-sub001/internal/lead"
	"github.com/m4r13y/hawkins-ig-sub001/internal/security"
	"github.com/m4r13y/hawkins-ig-sub001/internal/store"
)

// validStatuses are the lifecycle values a status update may set.
var validStatuses = []string{
	lead.StatusNew,
	lead.StatusContacted,
	lead.StatusQualified,
	lead.StatusConverted,
	lead.StatusClosedLost,
}

// StatusUpdateRequest moves a lead to a new lifecycle status, with an
// optional note appended to its history.
type StatusUpdateRequest struct {
	LeadID string `json:"leadId"`
	Status string `json:"status" example:"contacted"`
	Note   string `json:"note,omitempty"`
}

// StatusUpdateResponse is returned on a successful status transition.
type StatusUpdateResponse struct {
	Success bool   `json:"success" example:"true"`
	LeadID  string `json:"leadId"`
	Status  string `json:"status"`
}

// handleUpdateLeadStatus transitions a lead's lifecycle status
//
//	@Summary		Update lead status
//	@Description	Sets a lead's lifecycle status and optionally appends a note
//	@Tags			leads
//	@Accept			json
//	@Produce		json
//	@Param			request	body		StatusUpdateRequest	true	"Status update"
//	@Success		200		{object}	StatusUpdateResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/leads/status [post]
func (h *Handler) handleUpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	h.limitBody(w, r)

	var req StatusUpdateRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errCodeInvalidArgument, ErrInvalidRequestBody.Error())
		return
	}

	req.LeadID = security.SanitizeString(req.LeadID)
	req.Status = security.SanitizeString(req.Status)
	req.Note = security.SanitizeString(req.Note)

	if req.LeadID == "" {
		respondError(w, http.StatusBadRequest, errCodeInvalidArgument, ErrLeadIDRequired.Error())
		return
	}

	if !lo.Contains(validStatuses, req.Status) {
		respondError(w, http.StatusBadRequest, errCodeInvalidArgument, ErrStatusRequired.Error())
		return
	}

	actor := "system"
	if h.isAdmin(r) {
		actor = "admin"
	}

	if err := h.leads.SetStatus(r.Context(), req.LeadID, req.Status, actor); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			respondError(w, http.StatusNotFound, errCodeNotFound, ErrLeadNotFound.Error())
			return
		}

		respondInternal(w, err, "lead status update failed")

		return
	}

	if req.Note != "" {
		if err := h.leads.AppendNote(r.Context(), req.LeadID, lead.Note{
			Note:      req.Note,
			Timestamp: time.Now().UTC(),
			AddedBy:   actor,
		}); err != nil {
			respondInternal(w, err, "appending status note failed")
			return
		}
	}

	writeJSON(w, http.StatusOK, StatusUpdateResponse{
		Success: true,
		LeadID:  req.LeadID,
		Status:  req.Status,
	})
}

// RetrySyncRequest optionally narrows the retry to a single lead. An empty
// body retries a batch of pending leads.
type RetrySyncRequest struct {
	LeadID string `json:"leadId,omitempty"`
}

// SyncResult is the per-lead outcome of a retry pass.
type SyncResult struct {
	LeadID   string `json:"leadId"`
	Synced   bool   `json:"synced"`
	Skipped  bool   `json:"skipped,omitempty"`
	RecordID string `json:"recordId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// RetrySyncResponse summarizes a retry-sync pass.
type RetrySyncResponse struct {
	Success   bool         `json:"success" example:"true"`
	Processed int          `json:"processed"`
	Results   []SyncResult `json:"results"`
}

// handleRetrySync re-attempts CRM synchronization for unsynced leads
//
//	@Summary		Retry CRM sync
//	@Description	Retries AgencyBloc synchronization for a single lead or a batch of pending leads
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		RetrySyncRequest	false	"Retry target"
//	@Success		200		{object}	RetrySyncResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/leads/retry-sync [post]
func (h *Handler) handleRetrySync(w http.ResponseWriter, r *http.Request) {
	h.limitBody(w, r)

	// An empty body retries the pending batch.
	var req RetrySyncRequest
	if err := decodeJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, errCodeInvalidArgument, ErrInvalidRequestBody.Error())
		return
	}

	if h.syncer == nil {
		writeJSON(w, http.StatusOK, RetrySyncResponse{Success: true, Results: []SyncResult{}})
		return
	}

	if req.LeadID != "" {
		outcome, err := h.syncer.SyncLead(r.Context(), security.SanitizeString(req.LeadID))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
				respondError(w, http.StatusNotFound, errCodeNotFound, ErrLeadNotFound.Error())
				return
			}

			respondInternal(w, err, "single lead retry failed")

			return
		}

		processed := 0
		if !outcome.Skipped {
			processed = 1
		}

		writeJSON(w, http.StatusOK, RetrySyncResponse{
			Success:   true,
			Processed: processed,
			Results:   []SyncResult{syncResultFromOutcome(outcome)},
		})

		return
	}

	summary, err := h.syncer.RetryPending(r.Context(), crmsync.DefaultRetryBatch)
	if err != nil {
		respondInternal(w, err, "pending retry pass failed")
		return
	}

	writeJSON(w, http.StatusOK, RetrySyncResponse{
		Success:   true,
		Processed: summary.Processed,
		Results:   lo.Map(summary.Results, func(o crmsync.Outcome, _ int) SyncResult { return syncResultFromOutcome(o) }),
	})
}

func syncResultFromOutcome(o crmsync.Outcome) SyncResult {
	return SyncResult{
		LeadID:   o.LeadID,
		Synced:   o.Synced,
		Skipped:  o.Skipped,
		RecordID: o.RecordID,
		Error:    o.Error,
	}
}

// handleAnalytics reports aggregate lead activity
//
//	@Summary		Lead analytics
//	@Description	Aggregates the last 30 days of lead activity by status, source, and type
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	lead.AnalyticsReport
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/leads/analytics [get]
func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	report, err := h.leads.Analytics(r.Context(), store.AnalyticsWindowDays)
	if err != nil {
		respondInternal(w, err, "analytics aggregation failed")
		return
	}

	writeJSON(w, http.StatusOK, report)
}
