// Package lead defines the persistent document models for captured leads and
// subscriptions, plus the scoring heuristic applied to insurance submissions.
package lead

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead lifecycle statuses.
const (
	StatusNew        = "new"
	StatusContacted  = "contacted"
	StatusQualified  = "qualified"
	StatusConverted  = "converted"
	StatusClosedLost = "closed-lost"
)

// Urgency values accepted on insurance submissions.
const (
	UrgencyImmediate     = "immediate"
	UrgencyWithin30Days  = "within-30-days"
	UrgencyWithin3Months = "within-3-months"
)

// Lead quality tiers derived from the score.
const (
	QualityHigh   = "high"
	QualityMedium = "medium"
	QualityLow    = "low"
)

// ContactTypeGeneralInquiry marks contact-form submissions.
const ContactTypeGeneralInquiry = "general-inquiry"

// Note is one entry in a lead's append-only note history.
type Note struct {
	Note      string    `bson:"note" json:"note"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	AddedBy   string    `bson:"addedBy" json:"addedBy"`
}

// Submission is the loosely-typed bag of form fields captured with a lead.
// Insurance and contact submissions populate different subsets; the CRM sync
// bookkeeping fields are patched in after the initial write.
type Submission struct {
	// Insurance form fields
	ClientType     string   `bson:"clientType,omitempty" json:"clientType,omitempty"`
	Age            string   `bson:"age,omitempty" json:"age,omitempty"`
	FamilySize     string   `bson:"familySize,omitempty" json:"familySize,omitempty"`
	EmployeeCount  string   `bson:"employeeCount,omitempty" json:"employeeCount,omitempty"`
	AgentType      string   `bson:"agentType,omitempty" json:"agentType,omitempty"`
	InsuranceTypes []string `bson:"insuranceTypes,omitempty" json:"insuranceTypes,omitempty"`
	Urgency        string   `bson:"urgency,omitempty" json:"urgency,omitempty"`
	Company        string   `bson:"company,omitempty" json:"company,omitempty"`
	ZipCode        string   `bson:"zipCode,omitempty" json:"zipCode,omitempty"`

	// Contact form fields
	ContactType string `bson:"contactType,omitempty" json:"contactType,omitempty"`
	Message     string `bson:"message,omitempty" json:"message,omitempty"`

	// Common fields
	Email      string `bson:"email" json:"email"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
	FormSource string `bson:"formSource,omitempty" json:"formSource,omitempty"`

	// Lead management
	LeadScore        int        `bson:"leadScore,omitempty" json:"leadScore,omitempty"`
	LeadQuality      string     `bson:"leadQuality,omitempty" json:"leadQuality,omitempty"`
	LeadStatus       string     `bson:"leadStatus" json:"leadStatus"`
	FollowUpRequired bool       `bson:"followUpRequired" json:"followUpRequired"`
	AssignedAgent    string     `bson:"assignedAgent,omitempty" json:"assignedAgent,omitempty"`
	LastContactDate  *time.Time `bson:"lastContactDate,omitempty" json:"lastContactDate,omitempty"`
	NextFollowUpDate *time.Time `bson:"nextFollowUpDate,omitempty" json:"nextFollowUpDate,omitempty"`
	Notes            []Note     `bson:"notes,omitempty" json:"notes,omitempty"`
	ConversionValue  float64    `bson:"conversionValue,omitempty" json:"conversionValue,omitempty"`
	StatusUpdatedBy  string     `bson:"statusUpdatedBy,omitempty" json:"statusUpdatedBy,omitempty"`

	// Audit
	IPAddress    string `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	UserAgent    string `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	SubmittedVia string `bson:"submittedVia,omitempty" json:"submittedVia,omitempty"`

	// CRM synchronization bookkeeping. AgencyBlocSynced is the single source
	// of truth for whether a retry is owed: false exactly when the CRM call
	// failed, true exactly on success.
	AgencyBlocRecordID  string     `bson:"agencyBlocRecordId,omitempty" json:"agencyBlocRecordId,omitempty"`
	AgencyBlocSynced    bool       `bson:"agencyBlocSynced" json:"agencyBlocSynced"`
	AgencyBlocSyncDate  *time.Time `bson:"agencyBlocSyncDate,omitempty" json:"agencyBlocSyncDate,omitempty"`
	AgencyBlocSyncError string     `bson:"agencyBlocSyncError,omitempty" json:"agencyBlocSyncError,omitempty"`
	AgencyBlocRetry     int        `bson:"agencyBlocRetryCount,omitempty" json:"agencyBlocRetryCount,omitempty"`
	LastRetryAttempt    *time.Time `bson:"lastRetryAttempt,omitempty" json:"lastRetryAttempt,omitempty"`

	// Sync claim: set while exactly one sync attempt is in flight so the
	// inline attempt, the admin retry, and the background worker never race.
	SyncInProgress bool       `bson:"syncInProgress" json:"-"`
	SyncClaimedAt  *time.Time `bson:"syncClaimedAt,omitempty" json:"-"`

	// NeedsProcessing marks fast-path submissions whose CRM sync is deferred
	// to the background worker.
	NeedsProcessing bool `bson:"needsProcessing,omitempty" json:"-"`
}

// Lead is one captured submission. Documents are never deleted; the
// lifecycle is create, then zero or more in-place updates.
type Lead struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name       string             `bson:"lead-name" json:"leadName"`
	CreatedAt  time.Time          `bson:"date-time" json:"dateTime"`
	Source     string             `bson:"source" json:"source"`
	Submission Submission         `bson:"submission" json:"submission"`
}

// NewsletterSubscription is one newsletter signup, keyed logically by email.
type NewsletterSubscription struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email        string             `bson:"email" json:"email"`
	Name         string             `bson:"name,omitempty" json:"name,omitempty"`
	Source       string             `bson:"source,omitempty" json:"source,omitempty"`
	SubscribedAt time.Time          `bson:"subscribedAt" json:"subscribedAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WaitlistEntry is one product waitlist signup, keyed logically by
// (email, product).
type WaitlistEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Feature   string             `bson:"feature,omitempty" json:"feature,omitempty"`
	Product   string             `bson:"product" json:"product"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AnalyticsReport aggregates the last N days of lead activity.
type AnalyticsReport struct {
	WindowDays       int            `json:"windowDays"`
	TotalLeads       int            `json:"totalLeads"`
	ByStatus         map[string]int `json:"byStatus"`
	BySource         map[string]int `json:"bySource"`
	ByType           map[string]int `json:"byType"`
	AverageLeadScore float64        `json:"averageLeadScore"`
	PendingSync      int            `json:"pendingSync"`
}
