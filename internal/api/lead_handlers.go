package api

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/m4r13y/hawkins-ig-sub001/internal/lead"
	"github.com/m4r13y/hawkins-ig-sub001/internal/security"
)

// InsuranceLeadRequest is a full insurance quote submission.
type InsuranceLeadRequest struct {
	Name           string   `json:"name" example:"Jane Doe"`
	Email          string   `json:"email" example:"jane@example.com"`
	Phone          string   `json:"phone" example:"5125551234"`
	ZipCode        string   `json:"zipCode,omitempty" example:"78701"`
	ClientType     string   `json:"clientType,omitempty" example:"individual"`
	Age            string   `json:"age,omitempty" example:"67"`
	FamilySize     string   `json:"familySize,omitempty"`
	EmployeeCount  string   `json:"employeeCount,omitempty"`
	AgentType      string   `json:"agentType,omitempty"`
	InsuranceTypes []string `json:"insuranceTypes,omitempty" example:"dental,vision"`
	Urgency        string   `json:"urgency,omitempty" example:"immediate"`
	Company        string   `json:"company,omitempty"`
	FormSource     string   `json:"formSource,omitempty"`
}

// InsuranceLeadResponse is returned on a successful insurance submission.
type InsuranceLeadResponse struct {
	Success   bool   `json:"success" example:"true"`
	LeadID    string `json:"leadId"`
	LeadScore int    `json:"leadScore" example:"45"`
	Message   string `json:"message"`
}

// LeadResponse is returned on successful contact/fast submissions.
type LeadResponse struct {
	Success bool   `json:"success" example:"true"`
	LeadID  string `json:"leadId"`
	Message string `json:"message"`
}

// handleSubmitInsuranceLead processes insurance quote submissions
//
//	@Summary		Submit insurance lead
//	@Description	Captures an insurance quote request, scores it, and forwards it to the CRM best-effort
//	@Tags			leads
//	@Accept			json
//	@Produce		json
//	@Param			request	body		InsuranceLeadRequest	true	"Insurance lead submission"
//	@Success		200		{object}	InsuranceLeadResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		429		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/leads/insurance [post]
func (h *Handler) handleSubmitInsuranceLead(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	if !h.allowRequest(ip, r.UserAgent()) {
		respondError(w, http.StatusTooManyRequests, errCodeResourceExhausted, ErrTooManyRequests.Error())
		return
	}

	h.limitBody(w, r)

	var req InsuranceLeadRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errCodeInvalidArgument, ErrInvalidRequestBody.Error())
		return
	}

	sanitizeInsuranceRequest(&req)

	if res := security.ValidateLeadData(security.LeadData{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		ZipCode:        req.ZipCode,
		ClientType:     req.ClientType,
		InsuranceTypes: req.InsuranceTypes,
	}); !res.Valid {
		respondError(w, http.StatusBadRequest, errCodeInvalidArgument, res.ErrorString())
		return
	}

	if security.DetectSuspiciousActivity(security.Submission{
		Name:      req.Name,
		Email:     req.Email,
		IP:        ip,
		UserAgent: r.UserAgent(),
	}) {
		respondError(w, http.StatusForbidden, errCodePermissionDenied, ErrSubmissionRejected.Error())
		return
	}

	submission := lead.Submission{
		ClientType:       req.ClientType,
		Age:              req.Age,
		FamilySize:       req.FamilySize,
		EmployeeCount:    req.EmployeeCount,
		AgentType:        req.AgentType,
		InsuranceTypes:   req.InsuranceTypes,
		Urgency:          req.Urgency,
		Company:          req.Company,
		ZipCode:          req.ZipCode,
		Email:            req.Email,
		Phone:            req.Phone,
		FormSource:       req.FormSource,
		LeadStatus:       lead.StatusNew,
		FollowUpRequired: true,
		IPAddress:        ip,
		UserAgent:        security.SanitizeString(r.UserAgent()),
		SubmittedVia:     "website",
	}

	submission.LeadScore = lead.CalculateScore(submission)
	submission.LeadQuality = lead.QualityForScore(submission.LeadScore)

	id, err := h.leads.InsertLead(r.Context(), &lead.Lead{
		Name:       req.Name,
		Source:     sourceFor(r),
		Submission: submission,
	})
	if err != nil {
		respondInternal(w, err, "inserting insurance lead failed")
		return
	}

	// The submission is committed; the CRM attempt can no longer fail it.
	h.attemptSync(r, id)

	writeJSON(w, http.StatusOK, InsuranceLeadResponse{
		Success:   true,
		LeadID:    id,
		LeadScore: submission.LeadScore,
		Message:   "Thank you! We received your request and will reach out shortly.",
	})
}

// FastLeadRequest is the minimal quick-quote submission.
type FastLeadRequest struct {
	Name    string `json:"name" example:"Jane Doe"`
	Email   string `json:"email" example:"jane@example.com"`
	Phone   string `json:"phone,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// handleSubmitInsuranceLeadFast processes minimal quick-quote submissions
//
//	@Summary		Submit insurance lead (fast path)
//	@Description	Captures a minimal submission; CRM sync is deferred to the background worker
//	@Tags			leads
//	@Accept			json
//	@Produce		json
//	@Param			request	body		FastLeadRequest	true	"Minimal lead submission"
//	@Success		200		{object}	LeadResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/leads/insurance/fast [post]
func (h *Handler) handleSubmitInsuranceLeadFast(w http.ResponseWriter, r *http.Request) {
	h.limitBody(w, r)

	var req FastLeadRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errCodeInvalidArgument, ErrInvalidRequestBody.Error())
		return
	}

	req.Name = security.SanitizeString(req.Name)
	req.Email = security.SanitizeString(req.Email)
	req.Phone = security.SanitizeString(req.Phone)
	req.ZipCode = security.SanitizeString(req.ZipCode)

	if len(req.Name) < 2 {
		respondError(w, http.StatusBadRequest, errCodeInvalidArgument, ErrNameRequired.Error())
		return
	}

	if !security.ValidateEmail(req.Email) {
		respondError(w, http.StatusBadRequest, errCodeInvalidArgument, ErrEmailRequired.Error())
		return
	}

	id, err := h.leads.InsertLead(r.Context(), &lead.Lead{
		Name:   req.Name,
		Source: sourceFor(r),
		Submission: lead.Submission{
			Email:            req.Email,
			Phone:            req.Phone,
			ZipCode:          req.ZipCode,
			LeadStatus:       lead.StatusNew,
			FollowUpRequired: true,
			IPAddress:        clientIP(r),
			UserAgent:        security.SanitizeString(r.UserAgent()),
			SubmittedVia:     "website",
			NeedsProcessing:  true,
		},
	})
	if err != nil {
		respondInternal(w, err, "inserting fast lead failed")
		return
	}

	writeJSON(w, http.StatusOK, LeadResponse{
		Success: true,
		LeadID:  id,
		Message: "Thank you! We received your request and will reach out shortly.",
	})
}

// ContactLeadRequest is a general-inquiry contact submission.
type ContactLeadRequest struct {
	Name    string `json:"name" example:"Jane Doe"`
	Email   string `json:"email" example:"jane@example.com"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message" example:"I have a question about Medicare supplements."`
}

// handleSubmitContactLead processes contact form submissions
//
//	@Summary		Submit contact lead
//	@Description	Captures a general inquiry and forwards it to the CRM best-effort
//	@Tags			leads
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ContactLeadRequest	true	"Contact submission"
//	@Success		200		{object}	LeadResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		429		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/leads/contact [post]
func (h *Handler) handleSubmitContactLead(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	if !h.allowRequest(ip, r.UserAgent()) {
		respondError(w, http.StatusTooManyRequests, errCodeResourceExhausted, ErrTooManyRequests.Error())
		return
	}

	h.limitBody(w, r)

	var req ContactLeadRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errCodeInvalidArgument, ErrInvalidRequestBody.Error())
		return
	}

	req.Name = security.SanitizeString(req.Name)
	req.Email = security.SanitizeString(req.Email)
	req.Phone = security.SanitizeString(req.Phone)
	req.Message = security.SanitizeString(req.Message)

	var violations []string

	if len(req.Name) < 2 {
		violations = append(violations, ErrNameRequired.Error())
	}

	if !security.ValidateEmail(req.Email) {
		violations = append(violations, ErrEmailRequired.Error())
	}

	if req.Message == "" {
		violations = append(violations, ErrMessageRequired.Error())
	}

	if req.Phone != "" && !security.ValidatePhone(req.Phone) {
		violations = append(violations, "a valid phone number is required")
	}

	if len(violations) > 0 {
		respondError(w, http.StatusBadRequest, errCodeInvalidArgument, security.Result{Errors: violations}.ErrorString())
		return
	}

	if security.DetectSuspiciousActivity(security.Submission{
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		IP:        ip,
		UserAgent: r.UserAgent(),
	}) {
		respondError(w, http.StatusForbidden, errCodePermissionDenied, ErrSubmissionRejected.Error())
		return
	}

	id, err := h.leads.InsertLead(r.Context(), &lead.Lead{
		Name:   req.Name,
		Source: sourceFor(r),
		Submission: lead.Submission{
			ContactType:      lead.ContactTypeGeneralInquiry,
			Email:            req.Email,
			Phone:            req.Phone,
			Message:          req.Message,
			LeadStatus:       lead.StatusNew,
			FollowUpRequired: true,
			IPAddress:        ip,
			UserAgent:        security.SanitizeString(r.UserAgent()),
			SubmittedVia:     "website",
		},
	})
	if err != nil {
		respondInternal(w, err, "inserting contact lead failed")
		return
	}

	h.attemptSync(r, id)

	writeJSON(w, http.StatusOK, LeadResponse{
		Success: true,
		LeadID:  id,
		Message: "Thanks for reaching out! We'll get back to you within one business day.",
	})
}

// allowRequest applies the rate limit and logs a security event on rejection.
func (h *Handler) allowRequest(ip, userAgent string) bool {
	if h.limiter == nil || h.limiter.Allow(ip) {
		return true
	}

	log.Warn().
		Str("event", "rate_limit_exceeded").
		Str("ip", ip).
		Str("user_agent", userAgent).
		Msg("request rejected by rate limiter")

	return false
}

// attemptSync runs the best-effort inline CRM sync. Outcomes, including
// failures, live on the document; nothing here affects the response.
func (h *Handler) attemptSync(r *http.Request, id string) {
	if h.syncer == nil {
		return
	}

	ctx, cancel := syncContext(r)
	defer cancel()

	if _, err := h.syncer.SyncLead(ctx, id); err != nil {
		log.Error().Err(err).Str("lead_id", id).Msg("inline crm sync attempt errored")
	}
}

// sanitizeInsuranceRequest sanitizes every string field of the submission.
func sanitizeInsuranceRequest(req *InsuranceLeadRequest) {
	req.Name = security.SanitizeString(req.Name)
	req.Email = security.SanitizeString(req.Email)
	req.Phone = security.SanitizeString(req.Phone)
	req.ZipCode = security.SanitizeString(req.ZipCode)
	req.ClientType = security.SanitizeString(req.ClientType)
	req.Age = security.SanitizeString(req.Age)
	req.FamilySize = security.SanitizeString(req.FamilySize)
	req.EmployeeCount = security.SanitizeString(req.EmployeeCount)
	req.AgentType = security.SanitizeString(req.AgentType)
	req.InsuranceTypes = security.SanitizeSlice(req.InsuranceTypes)
	req.Urgency = security.SanitizeString(req.Urgency)
	req.Company = security.SanitizeString(req.Company)
	req.FormSource = security.SanitizeString(req.FormSource)
}
