// Package agencybloc wraps the AgencyBloc CRM's form-encoded HTTP API:
// phone search, lead create, and note create. Network and parse failures are
// converted into result values at this package's boundary; no error from a
// CRM call crosses into the handlers.
package agencybloc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/theopenlane/httpsling"
)

const (
	// defaultBaseURL is the AgencyBloc API root
	defaultBaseURL = "https://app.agencybloc.com/api/v1"

	// defaultRequestTimeout is the default timeout for AgencyBloc requests
	defaultRequestTimeout = 15 * time.Second

	searchPath = "/leads/search"
	createPath = "/leads"
	notePath   = "/leads/note"

	// statusOK is the envelope-level status AgencyBloc reports on success
	statusOK = "200"
)

var reNonDigits = regexp.MustCompile(`\D`)

// Client talks to the AgencyBloc CRM API.
type Client struct {
	sid        string
	key        string
	baseURL    string
	httpClient *http.Client
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client for AgencyBloc requests
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the AgencyBloc API root, used in tests
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// New creates an AgencyBloc client authenticated by the sid/key pair.
func New(sid, key string, opts ...Option) (*Client, error) {
	if sid == "" || key == "" {
		return nil, ErrMissingCredentials
	}

	client := &Client{
		sid:        sid,
		key:        key,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// LeadRecord is one existing CRM lead returned by a phone search.
type LeadRecord struct {
	RecordID  string `json:"record_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// envelope is the nested response wrapper AgencyBloc puts around every call.
type envelope struct {
	Response struct {
		Status    string       `json:"Status"`
		RecordID  string       `json:"record_id"`
		Exception string       `json:"Exception"`
		Data      []LeadRecord `json:"Data"`
	} `json:"Agencybloc Response"`
}

// Result is the outcome of the composite create-with-note operation.
type Result struct {
	Success      bool
	RecordID     string
	Duplicate    bool
	NoteAttached bool
	Error        string
}

// SearchLeadByPhone looks up existing CRM leads by phone number. Any failure
// is logged and reported as an empty result; callers cannot distinguish
// "search failed" from "no match", so a transient CRM outage can let a
// duplicate through.
func (c *Client) SearchLeadByPhone(ctx context.Context, phone string) []LeadRecord {
	digits := reNonDigits.ReplaceAllString(phone, "")
	if digits == "" {
		return nil
	}

	form := c.authValues()
	form.Set("phone", digits)

	var env envelope
	if err := c.postForm(ctx, searchPath, form, &env); err != nil {
		log.Warn().Err(err).Msg("agencybloc phone search failed, treating as no match")
		return nil
	}

	if env.Response.Status != statusOK {
		log.Warn().Str("status", env.Response.Status).Str("exception", env.Response.Exception).Msg("agencybloc phone search returned non-ok status")
		return nil
	}

	return env.Response.Data
}

// CreateLead creates a CRM lead from the mapped form fields and returns the
// new record ID, or an empty string when the create was rejected.
func (c *Client) CreateLead(ctx context.Context, fields url.Values) (string, error) {
	form := c.authValues()
	for k, vs := range fields {
		for _, v := range vs {
			form.Add(k, v)
		}
	}

	var env envelope
	if err := c.postForm(ctx, createPath, form, &env); err != nil {
		return "", err
	}

	if env.Response.Status != statusOK {
		return "", fmt.Errorf("%w: status %s: %s", ErrCreateRejected, env.Response.Status, env.Response.Exception)
	}

	return env.Response.RecordID, nil
}

// AttachNote posts a formatted note against an existing CRM record and
// reports whether it succeeded.
func (c *Client) AttachNote(ctx context.Context, recordID, note string) bool {
	form := c.authValues()
	form.Set("record_id", recordID)
	form.Set("note", note)

	var env envelope
	if err := c.postForm(ctx, notePath, form, &env); err != nil {
		log.Warn().Err(err).Str("record_id", recordID).Msg("agencybloc note create failed")
		return false
	}

	if env.Response.Status != statusOK {
		log.Warn().Str("record_id", recordID).Str("status", env.Response.Status).Msg("agencybloc note create returned non-ok status")
		return false
	}

	return true
}

// CreateLeadWithNote is the composite operation the lead pipeline invokes:
// dedupe by phone, create the mapped lead, then attach the formatted note.
// Deduplication is phone-only; submissions without a phone number are
// created unconditionally.
func (c *Client) CreateLeadWithNote(ctx context.Context, in LeadInput) Result {
	if in.Phone != "" {
		if existing := c.SearchLeadByPhone(ctx, in.Phone); len(existing) > 0 {
			return Result{
				Success:   false,
				Duplicate: true,
				RecordID:  existing[0].RecordID,
				Error:     "lead already exists in agencybloc",
			}
		}
	}

	recordID, err := c.CreateLead(ctx, MapLead(in))
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}

	res := Result{Success: true, RecordID: recordID}
	res.NoteAttached = c.AttachNote(ctx, recordID, BuildNote(in, time.Now()))

	return res
}

// authValues returns a form pre-populated with the API credentials.
func (c *Client) authValues() url.Values {
	return url.Values{
		"sid": []string{c.sid},
		"key": []string{c.key},
	}
}

// postForm sends one form-encoded POST and decodes the JSON envelope.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	requester := httpsling.MustNew(
		httpsling.URL(c.baseURL+path),
		httpsling.Post(),
		httpsling.Form(),
		httpsling.Body(form),
		httpsling.WithDoer(c.httpClient),
	)

	resp, err := requester.SendWithContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrRequestFailed, err)
	}

	return nil
}
