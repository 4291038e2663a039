package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"jane@example.com", "a.b+c@sub.domain.org"}
	invalid := []string{"", "plainaddress", "no@tld", "two@@example.com", "spaces in@example.com"}

	for _, e := range valid {
		assert.True(t, ValidateEmail(e), "expected %q to be valid", e)
	}

	for _, e := range invalid {
		assert.False(t, ValidateEmail(e), "expected %q to be invalid", e)
	}
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"5125551234", "15125551234", "(512) 555-1234", "1-512-555-1234"}
	invalid := []string{"", "512555123", "151255512345", "abc"}

	for _, p := range valid {
		assert.True(t, ValidatePhone(p), "expected %q to be valid", p)
	}

	for _, p := range invalid {
		assert.False(t, ValidatePhone(p), "expected %q to be invalid", p)
	}
}

func TestValidateZipCode(t *testing.T) {
	assert.True(t, ValidateZipCode("78701"))
	assert.True(t, ValidateZipCode("78701-1234"))
	assert.False(t, ValidateZipCode("ABCDE"))
	assert.False(t, ValidateZipCode("787"))
	assert.False(t, ValidateZipCode("78701-12"))
}

func TestValidateLeadData_EmptySubmission(t *testing.T) {
	res := ValidateLeadData(LeadData{})

	assert.False(t, res.Valid)
	assert.GreaterOrEqual(t, len(res.Errors), 3, "empty submission must report name, email, and phone violations")
}

func TestValidateLeadData_Aggregates(t *testing.T) {
	res := ValidateLeadData(LeadData{
		Name:           "J",
		Email:          "bad",
		Phone:          "123",
		ZipCode:        "oops",
		ClientType:     "corporation",
		InsuranceTypes: []string{},
	})

	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 6, "every violation must be reported")
	assert.Contains(t, res.ErrorString(), ", ")
}

func TestValidateLeadData_HappyPath(t *testing.T) {
	res := ValidateLeadData(LeadData{
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		Phone:          "5125551234",
		ZipCode:        "78701",
		ClientType:     "individual",
		InsuranceTypes: []string{"dental"},
	})

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidateLeadData_OptionalFields(t *testing.T) {
	// zip, client type, and insurance types are optional when absent
	res := ValidateLeadData(LeadData{
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Phone: "5125551234",
	})

	assert.True(t, res.Valid)
}
