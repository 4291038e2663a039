// Package crmsync owns CRM synchronization for stored leads. Every sync
// attempt, whether inline after a submission, via the admin retry endpoint,
// or from the background worker, goes through Syncer.SyncLead, which takes a
// document-level claim before calling out so at most one attempt per lead is
// ever in flight.
package crmsync

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/m4r13y/hawkins-ig-sub001/internal/agencybloc"
	"github.com/m4r13y/hawkins-ig-sub001/internal/lead"
	"github.com/m4r13y/hawkins-ig-sub001/internal/store"
)

// DefaultRetryBatch caps how many unsynced leads one retry pass processes.
const DefaultRetryBatch = 10

// LeadStore is the persistence surface the syncer needs.
type LeadStore interface {
	GetLead(ctx context.Context, id string) (*lead.Lead, error)
	ClaimForSync(ctx context.Context, id string) error
	SetSyncResult(ctx context.Context, id, recordID, syncErr string) error
	ListUnsynced(ctx context.Context, limit int) ([]lead.Lead, error)
	ReleaseStaleClaims(ctx context.Context, olderThan time.Duration) (int64, error)
}

// CRMClient is the AgencyBloc surface the syncer needs.
type CRMClient interface {
	CreateLeadWithNote(ctx context.Context, in agencybloc.LeadInput) agencybloc.Result
}

// Outcome describes one lead's sync attempt.
type Outcome struct {
	LeadID   string `json:"leadId"`
	Synced   bool   `json:"synced"`
	Skipped  bool   `json:"skipped,omitempty"`
	RecordID string `json:"recordId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Summary accumulates the outcomes of a retry pass.
type Summary struct {
	Processed int       `json:"processed"`
	Results   []Outcome `json:"results,omitempty"`
}

// Syncer coordinates CRM synchronization for stored leads.
type Syncer struct {
	store LeadStore
	crm   CRMClient
}

// New creates a Syncer. crm may be nil when the CRM integration is not
// configured; every sync attempt is then recorded as a failure to be retried
// once it is.
func New(st LeadStore, crm CRMClient) *Syncer {
	return &Syncer{store: st, crm: crm}
}

// SyncLead runs one claim-guarded CRM sync attempt for the lead. An
// already-synced lead or one with an active claim is skipped without any
// write. The CRM outcome, success or failure, is recorded on the document
// and never returned as an error: a failed CRM call is document state, not a
// request failure.
func (s *Syncer) SyncLead(ctx context.Context, id string) (Outcome, error) {
	out := Outcome{LeadID: id}

	if err := s.store.ClaimForSync(ctx, id); err != nil {
		if !errors.Is(err, store.ErrClaimUnavailable) {
			return out, err
		}

		// Classify why the claim was unavailable.
		doc, getErr := s.store.GetLead(ctx, id)
		if getErr != nil {
			return out, getErr
		}

		out.Skipped = true
		if doc.Submission.AgencyBlocSynced {
			out.Synced = true
			out.RecordID = doc.Submission.AgencyBlocRecordID
		} else {
			out.Error = "sync already in progress"
		}

		return out, nil
	}

	doc, err := s.store.GetLead(ctx, id)
	if err != nil {
		// Release the claim as a failed attempt so the lead stays retryable.
		_ = s.store.SetSyncResult(ctx, id, "", "lead fetch failed after claim")
		return out, err
	}

	if s.crm == nil {
		_ = s.store.SetSyncResult(ctx, id, "", "agencybloc integration not configured")
		out.Error = "agencybloc integration not configured"

		return out, nil
	}

	res := s.crm.CreateLeadWithNote(ctx, leadInputFromDoc(doc))

	if res.Success {
		if err := s.store.SetSyncResult(ctx, id, res.RecordID, ""); err != nil {
			return out, err
		}

		out.Synced = true
		out.RecordID = res.RecordID

		log.Info().Str("lead_id", id).Str("record_id", res.RecordID).Msg("lead synced to agencybloc")

		return out, nil
	}

	if err := s.store.SetSyncResult(ctx, id, "", res.Error); err != nil {
		return out, err
	}

	out.Error = res.Error

	log.Warn().Str("lead_id", id).Str("error", res.Error).Bool("duplicate", res.Duplicate).Msg("agencybloc sync failed")

	return out, nil
}

// RetryPending re-runs the CRM sync for up to limit unsynced leads,
// sequentially, accumulating per-lead outcomes.
func (s *Syncer) RetryPending(ctx context.Context, limit int) (Summary, error) {
	if limit <= 0 || limit > DefaultRetryBatch {
		limit = DefaultRetryBatch
	}

	pending, err := s.store.ListUnsynced(ctx, limit)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{}

	for i := range pending {
		id := pending[i].ID.Hex()

		out, err := s.SyncLead(ctx, id)
		if err != nil {
			out = Outcome{LeadID: id, Error: err.Error()}
		}

		summary.Processed++
		summary.Results = append(summary.Results, out)
	}

	return summary, nil
}

// leadInputFromDoc maps a stored lead document to the CRM client's input.
func leadInputFromDoc(doc *lead.Lead) agencybloc.LeadInput {
	formType := agencybloc.FormTypeInsurance
	if doc.Submission.ContactType != "" {
		formType = agencybloc.FormTypeContact
	}

	return agencybloc.LeadInput{
		Name:           doc.Name,
		Email:          doc.Submission.Email,
		Phone:          doc.Submission.Phone,
		ZipCode:        doc.Submission.ZipCode,
		Company:        doc.Submission.Company,
		Message:        doc.Submission.Message,
		ClientType:     doc.Submission.ClientType,
		Urgency:        doc.Submission.Urgency,
		InsuranceTypes: doc.Submission.InsuranceTypes,
		LeadScore:      doc.Submission.LeadScore,
		FormType:       formType,
	}
}
