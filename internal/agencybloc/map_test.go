package agencybloc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSplitName(t *testing.T) {
	cases := []struct {
		in    string
		first string
		last  string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Jane", "Jane", ""},
		{"Jane van der Berg", "Jane", "van der Berg"},
		{"  Jane   Doe  ", "Jane", "Doe"},
		{"", "", ""},
	}

	for _, tc := range cases {
		first, last := SplitName(tc.in)
		assert.Equal(t, tc.first, first, "first name for %q", tc.in)
		assert.Equal(t, tc.last, last, "last name for %q", tc.in)
	}
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "(512) 555-1234", FormatPhone("5125551234"))
	assert.Equal(t, "(512) 555-1234", FormatPhone("512-555-1234"))

	// only exactly 10 digits get reformatted
	assert.Equal(t, "15125551234", FormatPhone("15125551234"))
	assert.Equal(t, "", FormatPhone(""))
}

func TestNormalizeGender(t *testing.T) {
	assert.Equal(t, "Male", NormalizeGender("m"))
	assert.Equal(t, "Male", NormalizeGender("MALE"))
	assert.Equal(t, "Female", NormalizeGender("woman"))
	assert.Equal(t, "nonbinary", NormalizeGender("nonbinary"))
	assert.Equal(t, "", NormalizeGender(""))
}

func TestFormatDOB(t *testing.T) {
	assert.Equal(t, "03/09/1961", FormatDOB("1961-03-09"))
	assert.Equal(t, "03/09/1961", FormatDOB("3/9/1961"))
	assert.Equal(t, "03/09/1961", FormatDOB("03/09/1961"))
	assert.Equal(t, "not a date", FormatDOB("not a date"))
	assert.Equal(t, "", FormatDOB(""))
}

func TestMapLead_Constants(t *testing.T) {
	fields := MapLead(LeadInput{Name: "Jane Doe", Email: "jane@example.com", Phone: "5125551234"})

	assert.Equal(t, "website", fields.Get("lead_source"))
	assert.Equal(t, "open", fields.Get("status"))
	assert.Equal(t, "Jane", fields.Get("first_name"))
	assert.Equal(t, "Doe", fields.Get("last_name"))
	assert.Equal(t, "(512) 555-1234", fields.Get("phone"))
	assert.NotEmpty(t, fields.Get("agent_notes"))
}

func TestBuildNote_IncludesPresentFieldsOnly(t *testing.T) {
	now := time.Date(2026, 3, 9, 15, 30, 0, 0, time.UTC)

	note := BuildNote(LeadInput{
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		ClientType:     "individual",
		InsuranceTypes: []string{"dental", "vision"},
		LeadScore:      45,
		FormType:       FormTypeInsurance,
	}, now)

	assert.Contains(t, note, "insurance quote")
	assert.Contains(t, note, "Name: Jane Doe")
	assert.Contains(t, note, "Coverage Interests: dental, vision")
	assert.Contains(t, note, "Lead Score: 45/100")
	assert.NotContains(t, note, "Phone:")
	assert.NotContains(t, note, "Company:")
}
