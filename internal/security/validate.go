package security

import (
	"regexp"
	"strings"
)

// minNameLength is the minimum accepted length for a submitted name.
const minNameLength = 2

// maxEmailLength mirrors the RFC 5321 overall address limit.
const maxEmailLength = 254

var (
	reEmail     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	reZipCode   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	reNonDigits = regexp.MustCompile(`\D`)
)

// ClientTypes enumerates the accepted client types on insurance submissions.
var ClientTypes = []string{"individual", "family", "business", "agent"}

// ValidateEmail reports whether the address is plausibly deliverable.
func ValidateEmail(email string) bool {
	return len(email) <= maxEmailLength && reEmail.MatchString(email)
}

// ValidatePhone reports whether the value contains a 10-digit US number or an
// 11-digit number with country code, ignoring separators.
func ValidatePhone(phone string) bool {
	digits := reNonDigits.ReplaceAllString(phone, "")
	return len(digits) == 10 || len(digits) == 11
}

// ValidateZipCode reports whether the value is a 5-digit US zip code with an
// optional +4 suffix.
func ValidateZipCode(zip string) bool {
	return reZipCode.MatchString(zip)
}

// LeadData is the subset of an insurance submission subject to field
// validation. InsuranceTypes distinguishes absent (nil) from present but
// empty, which is rejected.
type LeadData struct {
	Name           string
	Email          string
	Phone          string
	ZipCode        string
	ClientType     string
	InsuranceTypes []string
}

// Result aggregates the outcome of validating a submission. Validation is
// exhaustive: every violation found is reported, not just the first.
type Result struct {
	Valid  bool
	Errors []string
}

// ErrorString joins all violations into a single human-readable message.
func (r Result) ErrorString() string {
	return strings.Join(r.Errors, ", ")
}

// ValidateLeadData checks an insurance lead submission field by field and
// returns every violation found.
func ValidateLeadData(d LeadData) Result {
	var errs []string

	if len(strings.TrimSpace(d.Name)) < minNameLength {
		errs = append(errs, "name must be at least 2 characters")
	}

	if d.Email == "" || !ValidateEmail(d.Email) {
		errs = append(errs, "a valid email address is required")
	}

	if d.Phone == "" || !ValidatePhone(d.Phone) {
		errs = append(errs, "a valid phone number is required")
	}

	if d.ZipCode != "" && !ValidateZipCode(d.ZipCode) {
		errs = append(errs, "zip code must be a valid US zip code")
	}

	if d.ClientType != "" && !isClientType(d.ClientType) {
		errs = append(errs, "client type must be one of: "+strings.Join(ClientTypes, ", "))
	}

	if d.InsuranceTypes != nil && len(d.InsuranceTypes) == 0 {
		errs = append(errs, "at least one insurance type must be selected")
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

func isClientType(v string) bool {
	for _, t := range ClientTypes {
		if v == t {
			return true
		}
	}

	return false
}
