package crmsync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/m4r13y/hawkins-ig-sub001/internal/agencybloc"
	"github.com/m4r13y/hawkins-ig-sub001/internal/lead"
	"github.com/m4r13y/hawkins-ig-sub001/internal/store"
)

// mockStore is an in-memory LeadStore tracking claim and result writes.
type mockStore struct {
	leads map[string]*lead.Lead

	claimCalls  int
	resultCalls int
}

func newMockStore(leads ...*lead.Lead) *mockStore {
	m := &mockStore{leads: make(map[string]*lead.Lead)}
	for _, l := range leads {
		m.leads[l.ID.Hex()] = l
	}

	return m
}

func (m *mockStore) GetLead(_ context.Context, id string) (*lead.Lead, error) {
	l, ok := m.leads[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	return l, nil
}

func (m *mockStore) ClaimForSync(_ context.Context, id string) error {
	m.claimCalls++

	l, ok := m.leads[id]
	if !ok || l.Submission.AgencyBlocSynced || l.Submission.SyncInProgress {
		return store.ErrClaimUnavailable
	}

	l.Submission.SyncInProgress = true

	return nil
}

func (m *mockStore) SetSyncResult(_ context.Context, id, recordID, syncErr string) error {
	m.resultCalls++

	l, ok := m.leads[id]
	if !ok {
		return store.ErrNotFound
	}

	l.Submission.SyncInProgress = false

	if syncErr == "" {
		l.Submission.AgencyBlocSynced = true
		l.Submission.AgencyBlocRecordID = recordID
		l.Submission.AgencyBlocSyncError = ""
	} else {
		l.Submission.AgencyBlocSynced = false
		l.Submission.AgencyBlocSyncError = syncErr
		l.Submission.AgencyBlocRetry++
	}

	return nil
}

func (m *mockStore) ListUnsynced(_ context.Context, limit int) ([]lead.Lead, error) {
	var out []lead.Lead
	for _, l := range m.leads {
		if !l.Submission.AgencyBlocSynced && !l.Submission.SyncInProgress {
			out = append(out, *l)
		}

		if len(out) == limit {
			break
		}
	}

	return out, nil
}

func (m *mockStore) ReleaseStaleClaims(_ context.Context, _ time.Duration) (int64, error) {
	return 0, nil
}

// mockCRM returns a canned result and records invocations.
type mockCRM struct {
	result agencybloc.Result
	calls  int
	inputs []agencybloc.LeadInput
}

func (m *mockCRM) CreateLeadWithNote(_ context.Context, in agencybloc.LeadInput) agencybloc.Result {
	m.calls++
	m.inputs = append(m.inputs, in)

	return m.result
}

func newLeadDoc(name string) *lead.Lead {
	return &lead.Lead{
		ID:   primitive.NewObjectID(),
		Name: name,
		Submission: lead.Submission{
			Email:      "jane@example.com",
			Phone:      "5125551234",
			LeadStatus: lead.StatusNew,
		},
	}
}

func TestSyncLead_Success(t *testing.T) {
	doc := newLeadDoc("Jane Doe")
	st := newMockStore(doc)
	crm := &mockCRM{result: agencybloc.Result{Success: true, RecordID: "AB-1"}}

	out, err := New(st, crm).SyncLead(context.Background(), doc.ID.Hex())

	require.NoError(t, err)
	assert.True(t, out.Synced)
	assert.Equal(t, "AB-1", out.RecordID)
	assert.True(t, doc.Submission.AgencyBlocSynced)
	assert.Equal(t, "AB-1", doc.Submission.AgencyBlocRecordID)
	assert.False(t, doc.Submission.SyncInProgress, "claim must be released")
}

func TestSyncLead_CRMFailureIsDocumentState(t *testing.T) {
	doc := newLeadDoc("Jane Doe")
	st := newMockStore(doc)
	crm := &mockCRM{result: agencybloc.Result{Success: false, Error: "connection refused"}}

	out, err := New(st, crm).SyncLead(context.Background(), doc.ID.Hex())

	require.NoError(t, err, "a failed CRM call is not a request failure")
	assert.False(t, out.Synced)
	assert.Equal(t, "connection refused", out.Error)
	assert.False(t, doc.Submission.AgencyBlocSynced)
	assert.Equal(t, "connection refused", doc.Submission.AgencyBlocSyncError)
	assert.Equal(t, 1, doc.Submission.AgencyBlocRetry)
}

func TestSyncLead_AlreadySyncedIsNoOp(t *testing.T) {
	doc := newLeadDoc("Jane Doe")
	doc.Submission.AgencyBlocSynced = true
	doc.Submission.AgencyBlocRecordID = "AB-9"

	st := newMockStore(doc)
	crm := &mockCRM{}

	out, err := New(st, crm).SyncLead(context.Background(), doc.ID.Hex())

	require.NoError(t, err)
	assert.True(t, out.Skipped)
	assert.True(t, out.Synced)
	assert.Equal(t, "AB-9", out.RecordID)
	assert.Zero(t, crm.calls, "no CRM call for an already-synced lead")
	assert.Zero(t, st.resultCalls, "no writes for an already-synced lead")
}

func TestSyncLead_ClaimHeldSkips(t *testing.T) {
	doc := newLeadDoc("Jane Doe")
	doc.Submission.SyncInProgress = true

	st := newMockStore(doc)
	crm := &mockCRM{result: agencybloc.Result{Success: true, RecordID: "AB-1"}}

	out, err := New(st, crm).SyncLead(context.Background(), doc.ID.Hex())

	require.NoError(t, err)
	assert.True(t, out.Skipped)
	assert.False(t, out.Synced)
	assert.Zero(t, crm.calls, "a held claim must block a second in-flight sync")
}

func TestSyncLead_UnknownLead(t *testing.T) {
	st := newMockStore()

	_, err := New(st, &mockCRM{}).SyncLead(context.Background(), primitive.NewObjectID().Hex())

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSyncLead_NoCRMConfigured(t *testing.T) {
	doc := newLeadDoc("Jane Doe")
	st := newMockStore(doc)

	out, err := New(st, nil).SyncLead(context.Background(), doc.ID.Hex())

	require.NoError(t, err)
	assert.False(t, out.Synced)
	assert.False(t, doc.Submission.AgencyBlocSynced)
	assert.NotEmpty(t, doc.Submission.AgencyBlocSyncError)
}

func TestRetryPending_ProcessesPendingLeads(t *testing.T) {
	a := newLeadDoc("A")
	b := newLeadDoc("B")
	synced := newLeadDoc("C")
	synced.Submission.AgencyBlocSynced = true

	st := newMockStore(a, b, synced)
	crm := &mockCRM{result: agencybloc.Result{Success: true, RecordID: "AB-1"}}

	summary, err := New(st, crm).RetryPending(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 2, crm.calls)
	assert.True(t, a.Submission.AgencyBlocSynced)
	assert.True(t, b.Submission.AgencyBlocSynced)
}

func TestRetryPending_CapsBatchSize(t *testing.T) {
	var docs []*lead.Lead
	for i := 0; i < 25; i++ {
		docs = append(docs, newLeadDoc("L"))
	}

	st := newMockStore(docs...)
	crm := &mockCRM{result: agencybloc.Result{Success: true, RecordID: "AB-1"}}

	summary, err := New(st, crm).RetryPending(context.Background(), 100)

	require.NoError(t, err)
	assert.Equal(t, DefaultRetryBatch, summary.Processed)
}

func TestLeadInputFromDoc_FormType(t *testing.T) {
	insurance := newLeadDoc("Jane")
	insurance.Submission.InsuranceTypes = []string{"dental"}

	contact := newLeadDoc("John")
	contact.Submission.ContactType = lead.ContactTypeGeneralInquiry
	contact.Submission.Message = "hello"

	assert.Equal(t, agencybloc.FormTypeInsurance, leadInputFromDoc(insurance).FormType)
	assert.Equal(t, agencybloc.FormTypeContact, leadInputFromDoc(contact).FormType)
	assert.Equal(t, "hello", leadInputFromDoc(contact).Message)
}
