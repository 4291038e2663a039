package api

import (
	"net/http"

	"github.com/m4r13y/hawkins-ig-sub001/internal/security"
)

// NewsletterRequest is a newsletter signup submission.
type NewsletterRequest struct {
	Email  string `json:"email" example:"jane@example.com"`
	Name   string `json:"name,omitempty" example:"Jane Doe"`
	Source string `json:"source,omitempty" example:"footer"`
}

// SubscriptionResponse is returned on successful newsletter/waitlist signups.
type SubscriptionResponse struct {
	Success bool   `json:"success" example:"true"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// handleSubscribeNewsletter processes newsletter signups
//
//	@Summary		Subscribe to newsletter
//	@Description	Records a newsletter subscription, deduplicated by email
//	@Tags			subscriptions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		NewsletterRequest	true	"Newsletter signup"
//	@Success		200		{object}	SubscriptionResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		429		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/newsletter [post]
func (h *Handler) handleSubscribeNewsletter(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	if !h.allowRequest(ip, r.UserAgent()) {
		respondError(w, http.StatusTooManyRequests, errCodeResourceExhausted, ErrTooManyRequests.Error())
		return
	}

	h.limitBody(w, r)

	var req NewsletterRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errCodeInvalidArgument, ErrInvalidRequestBody.Error())
		return
	}

	req.Email = security.SanitizeString(req.Email)
	req.Name = security.SanitizeString(req.Name)
	req.Source = security.SanitizeString(req.Source)

	if !security.ValidateEmail(req.Email) {
		respondError(w, http.StatusBadRequest, errCodeInvalidArgument, ErrEmailRequired.Error())
		return
	}

	if req.Source == "" {
		req.Source = sourceFor(r)
	}

	id, err := h.subscriptions.UpsertNewsletter(r.Context(), req.Email, req.Name, req.Source)
	if err != nil {
		respondInternal(w, err, "newsletter upsert failed")
		return
	}

	writeJSON(w, http.StatusOK, SubscriptionResponse{
		Success: true,
		ID:      id,
		Message: "You're subscribed!",
	})
}

// WaitlistRequest is a product waitlist signup submission.
type WaitlistRequest struct {
	Email   string `json:"email" example:"jane@example.com"`
	Product string `json:"product" example:"medicare-advantage-tool"`
	Name    string `json:"name,omitempty"`
	Feature string `json:"feature,omitempty"`
}

// handleJoinWaitlist processes waitlist signups
//
//	@Summary		Join product waitlist
//	@Description	Records a waitlist entry, deduplicated by email and product
//	@Tags			subscriptions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		WaitlistRequest	true	"Waitlist signup"
//	@Success		200		{object}	SubscriptionResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		429		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/waitlist [post]
func (h *Handler) handleJoinWaitlist(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	if !h.allowRequest(ip, r.UserAgent()) {
		respondError(w, http.StatusTooManyRequests, errCodeResourceExhausted, ErrTooManyRequests.Error())
		return
	}

	h.limitBody(w, r)

	var req WaitlistRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errCodeInvalidArgument, ErrInvalidRequestBody.Error())
		return
	}

	req.Email = security.SanitizeString(req.Email)
	req.Product = security.SanitizeString(req.Product)
	req.Name = security.SanitizeString(req.Name)
	req.Feature = security.SanitizeString(req.Feature)

	if !security.ValidateEmail(req.Email) {
		respondError(w, http.StatusBadRequest, errCodeInvalidArgument, ErrEmailRequired.Error())
		return
	}

	if req.Product == "" {
		respondError(w, http.StatusBadRequest, errCodeInvalidArgument, ErrProductRequired.Error())
		return
	}

	id, err := h.subscriptions.UpsertWaitlist(r.Context(), req.Email, req.Product, req.Name, req.Feature)
	if err != nil {
		respondInternal(w, err, "waitlist upsert failed")
		return
	}

	writeJSON(w, http.StatusOK, SubscriptionResponse{
		Success: true,
		ID:      id,
		Message: "You're on the list! We'll let you know when it's ready.",
	})
}
