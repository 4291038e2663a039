// Package api provides HTTP handlers for the Hawkins lead-intake service.
//
//	@title			Hawkins Lead Intake API
//	@version		1.0
//	@description	Lead capture service for the Hawkins Insurance Group website: quote requests, contact forms, newsletter and waitlist signups, with AgencyBloc CRM synchronization
//
//	@contact.name	Hawkins Insurance Group
//
//	@host		localhost:8080
//	@BasePath	/api
//
//	@schemes	http https
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/m4r13y/hawkins-ig-sub001/internal/crmsync"
	"github.com/m4r13y/hawkins-ig-sub001/internal/lead"
	"github.com/m4r13y/hawkins-ig-sub001/internal/security"
)

// defaultSource is recorded on submissions that arrive without a referrer.
const defaultSource = "website"

// syncAttemptTimeout bounds the best-effort inline CRM sync after a
// submission commits.
const syncAttemptTimeout = 30 * time.Second

// LeadStore is the lead persistence surface the handlers need.
type LeadStore interface {
	InsertLead(ctx context.Context, l *lead.Lead) (string, error)
	GetLead(ctx context.Context, id string) (*lead.Lead, error)
	SetStatus(ctx context.Context, id, status, actor string) error
	AppendNote(ctx context.Context, id string, note lead.Note) error
	Analytics(ctx context.Context, windowDays int) (*lead.AnalyticsReport, error)
}

// SubscriptionStore is the newsletter/waitlist persistence surface.
type SubscriptionStore interface {
	UpsertNewsletter(ctx context.Context, email, name, source string) (string, error)
	UpsertWaitlist(ctx context.Context, email, product, name, feature string) (string, error)
}

// LeadSyncer coordinates CRM synchronization for stored leads.
type LeadSyncer interface {
	SyncLead(ctx context.Context, id string) (crmsync.Outcome, error)
	RetryPending(ctx context.Context, limit int) (crmsync.Summary, error)
}

// Handler manages API endpoints
type Handler struct {
	leads         LeadStore
	subscriptions SubscriptionStore
	syncer        LeadSyncer
	limiter       *security.RateLimiter
	adminToken    string
	maxBodySize   int64
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Service   string `json:"service" example:"leadintake"`
	Timestamp string `json:"timestamp" example:"2026-01-15T10:30:00Z"`
}

// handleHealth returns service health status
//
//	@Summary		Health check
//	@Description	Returns the health status of the lead-intake service
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   "leadintake",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// limitBody caps the request body at the configured maximum.
func (h *Handler) limitBody(w http.ResponseWriter, r *http.Request) {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}
}

// sourceFor derives the submission source from the referrer header.
func sourceFor(r *http.Request) string {
	if ref := r.Referer(); ref != "" {
		return security.SanitizeString(ref)
	}

	return defaultSource
}

// syncContext detaches the inline CRM sync from the request's cancellation
// so a client disconnect cannot abandon a half-finished attempt, while still
// bounding how long it may run.
func syncContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), syncAttemptTimeout)
}
