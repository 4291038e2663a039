package agencybloc

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockAgencyBloc starts a fake AgencyBloc API. Each path handler receives
// the parsed form values.
func newMockAgencyBloc(t *testing.T, handlers map[string]func(w http.ResponseWriter, form map[string][]string)) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())

		h, ok := handlers[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		h(w, r.PostForm)
	}))
}

func envelopeJSON(status, recordID, exception string) string {
	return fmt.Sprintf(`{"Agencybloc Response": {"Status": %q, "record_id": %q, "Exception": %q}}`, status, recordID, exception)
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New("", "key")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = New("sid", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	c, err := New("sid", "key")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestSearchLeadByPhone_StripsSeparatorsAndSendsAuth(t *testing.T) {
	var gotPhone, gotSID string

	srv := newMockAgencyBloc(t, map[string]func(http.ResponseWriter, map[string][]string){
		searchPath: func(w http.ResponseWriter, form map[string][]string) {
			gotPhone = form["phone"][0]
			gotSID = form["sid"][0]
			fmt.Fprint(w, `{"Agencybloc Response": {"Status": "200", "Data": [{"record_id": "AB-1", "first_name": "Jane"}]}}`)
		},
	})
	defer srv.Close()

	c, err := New("test-sid", "test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	records := c.SearchLeadByPhone(context.Background(), "(512) 555-1234")

	require.Len(t, records, 1)
	assert.Equal(t, "AB-1", records[0].RecordID)
	assert.Equal(t, "5125551234", gotPhone)
	assert.Equal(t, "test-sid", gotSID)
}

func TestSearchLeadByPhone_FailureIsEmptyResult(t *testing.T) {
	srv := newMockAgencyBloc(t, map[string]func(http.ResponseWriter, map[string][]string){
		searchPath: func(w http.ResponseWriter, _ map[string][]string) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	})
	defer srv.Close()

	c, err := New("sid", "key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	assert.Empty(t, c.SearchLeadByPhone(context.Background(), "5125551234"))
	assert.Empty(t, c.SearchLeadByPhone(context.Background(), ""))
}

func TestCreateLead_ReturnsRecordID(t *testing.T) {
	srv := newMockAgencyBloc(t, map[string]func(http.ResponseWriter, map[string][]string){
		createPath: func(w http.ResponseWriter, form map[string][]string) {
			assert.Equal(t, "website", form["lead_source"][0])
			fmt.Fprint(w, envelopeJSON("200", "AB-42", ""))
		},
	})
	defer srv.Close()

	c, err := New("sid", "key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	id, err := c.CreateLead(context.Background(), MapLead(LeadInput{Name: "Jane Doe", Email: "jane@example.com"}))

	require.NoError(t, err)
	assert.Equal(t, "AB-42", id)
}

func TestCreateLead_RejectedStatus(t *testing.T) {
	srv := newMockAgencyBloc(t, map[string]func(http.ResponseWriter, map[string][]string){
		createPath: func(w http.ResponseWriter, _ map[string][]string) {
			fmt.Fprint(w, envelopeJSON("400", "", "missing required field"))
		},
	})
	defer srv.Close()

	c, err := New("sid", "key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = c.CreateLead(context.Background(), MapLead(LeadInput{Name: "Jane"}))

	assert.ErrorIs(t, err, ErrCreateRejected)
	assert.Contains(t, err.Error(), "missing required field")
}

func TestCreateLeadWithNote_HappyPath(t *testing.T) {
	var noteRecordID string

	srv := newMockAgencyBloc(t, map[string]func(http.ResponseWriter, map[string][]string){
		searchPath: func(w http.ResponseWriter, _ map[string][]string) {
			fmt.Fprint(w, `{"Agencybloc Response": {"Status": "200", "Data": []}}`)
		},
		createPath: func(w http.ResponseWriter, _ map[string][]string) {
			fmt.Fprint(w, envelopeJSON("200", "AB-7", ""))
		},
		notePath: func(w http.ResponseWriter, form map[string][]string) {
			noteRecordID = form["record_id"][0]
			fmt.Fprint(w, envelopeJSON("200", "", ""))
		},
	})
	defer srv.Close()

	c, err := New("sid", "key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	res := c.CreateLeadWithNote(context.Background(), LeadInput{
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Phone: "5125551234",
	})

	assert.True(t, res.Success)
	assert.Equal(t, "AB-7", res.RecordID)
	assert.True(t, res.NoteAttached)
	assert.Equal(t, "AB-7", noteRecordID)
}

func TestCreateLeadWithNote_DuplicatePhone(t *testing.T) {
	srv := newMockAgencyBloc(t, map[string]func(http.ResponseWriter, map[string][]string){
		searchPath: func(w http.ResponseWriter, _ map[string][]string) {
			fmt.Fprint(w, `{"Agencybloc Response": {"Status": "200", "Data": [{"record_id": "AB-EXISTING"}]}}`)
		},
	})
	defer srv.Close()

	c, err := New("sid", "key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	res := c.CreateLeadWithNote(context.Background(), LeadInput{Name: "Jane", Phone: "5125551234"})

	assert.False(t, res.Success)
	assert.True(t, res.Duplicate)
	assert.Equal(t, "AB-EXISTING", res.RecordID)
}

func TestCreateLeadWithNote_NoPhoneSkipsDedup(t *testing.T) {
	searched := false

	srv := newMockAgencyBloc(t, map[string]func(http.ResponseWriter, map[string][]string){
		searchPath: func(w http.ResponseWriter, _ map[string][]string) {
			searched = true
			fmt.Fprint(w, `{"Agencybloc Response": {"Status": "200", "Data": []}}`)
		},
		createPath: func(w http.ResponseWriter, _ map[string][]string) {
			fmt.Fprint(w, envelopeJSON("200", "AB-9", ""))
		},
		notePath: func(w http.ResponseWriter, _ map[string][]string) {
			fmt.Fprint(w, envelopeJSON("200", "", ""))
		},
	})
	defer srv.Close()

	c, err := New("sid", "key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	res := c.CreateLeadWithNote(context.Background(), LeadInput{Name: "Jane", Email: "jane@example.com"})

	assert.True(t, res.Success)
	assert.False(t, searched, "dedup search must be skipped when no phone is present")
}

func TestCreateLeadWithNote_OutageIsResultValue(t *testing.T) {
	srv := newMockAgencyBloc(t, nil)
	srv.Close() // unreachable upstream

	c, err := New("sid", "key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	res := c.CreateLeadWithNote(context.Background(), LeadInput{Name: "Jane", Email: "jane@example.com"})

	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}
