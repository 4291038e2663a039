package agencybloc

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Form types forwarded to the CRM.
const (
	FormTypeInsurance  = "insurance"
	FormTypeContact    = "contact"
	FormTypeNewsletter = "newsletter"
	FormTypeWaitlist   = "waitlist"
)

// centralTime is the agency's home timezone, used when timestamping notes.
var centralTime = func() *time.Location {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		return time.UTC
	}

	return loc
}()

// LeadInput carries the submitted fields the CRM mapping consumes. Only the
// fields relevant to the originating form type are populated.
type LeadInput struct {
	Name           string
	Email          string
	Phone          string
	Gender         string
	DateOfBirth    string
	ZipCode        string
	Company        string
	Message        string
	ClientType     string
	Urgency        string
	InsuranceTypes []string
	LeadScore      int
	FormType       string
}

// MapLead converts a submission into the form fields AgencyBloc's lead
// create endpoint expects. The formatted note text is embedded in
// agent_notes so the record is self-describing even if the separate note
// call later fails.
func MapLead(in LeadInput) url.Values {
	first, last := SplitName(in.Name)

	fields := url.Values{}
	fields.Set("first_name", first)
	fields.Set("last_name", last)
	fields.Set("email", in.Email)
	fields.Set("lead_source", "website")
	fields.Set("status", "open")

	if phone := FormatPhone(in.Phone); phone != "" {
		fields.Set("phone", phone)
	}

	if gender := NormalizeGender(in.Gender); gender != "" {
		fields.Set("gender", gender)
	}

	if dob := FormatDOB(in.DateOfBirth); dob != "" {
		fields.Set("date_of_birth", dob)
	}

	if in.ZipCode != "" {
		fields.Set("zip", in.ZipCode)
	}

	fields.Set("agent_notes", BuildNote(in, time.Now()))

	return fields
}

// SplitName splits a submitted full name into first and last components.
// Everything after the first word becomes the last name.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(strings.TrimSpace(name))

	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

// FormatPhone reformats a 10-digit US number to (xxx) xxx-xxxx; any other
// digit count passes through unchanged.
func FormatPhone(phone string) string {
	digits := reNonDigits.ReplaceAllString(phone, "")

	if len(digits) != 10 {
		return phone
	}

	return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
}

// NormalizeGender maps free-text gender values to the CRM's Male/Female
// vocabulary; unrecognized values pass through unchanged.
func NormalizeGender(gender string) string {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "m", "male", "man":
		return "Male"
	case "f", "female", "woman":
		return "Female"
	default:
		return gender
	}
}

// dobLayouts are the date-of-birth formats accepted from the forms.
var dobLayouts = []string{"2006-01-02", "01/02/2006", "1/2/2006"}

// FormatDOB reformats a submitted date of birth to MM/DD/YYYY. Values that
// do not parse pass through unchanged.
func FormatDOB(dob string) string {
	dob = strings.TrimSpace(dob)
	if dob == "" {
		return ""
	}

	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, dob); err == nil {
			return t.Format("01/02/2006")
		}
	}

	return dob
}

// BuildNote formats a timestamped, bulleted summary of whichever fields are
// present in the submission, for attachment to the CRM record.
func BuildNote(in LeadInput, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Website %s submission - %s\n", formTypeLabel(in.FormType), now.In(centralTime).Format("01/02/2006 3:04 PM MST"))

	writeBullet(&b, "Name", in.Name)
	writeBullet(&b, "Email", in.Email)
	writeBullet(&b, "Phone", FormatPhone(in.Phone))
	writeBullet(&b, "Zip Code", in.ZipCode)
	writeBullet(&b, "Client Type", in.ClientType)
	writeBullet(&b, "Company", in.Company)
	writeBullet(&b, "Urgency", in.Urgency)

	if len(in.InsuranceTypes) > 0 {
		writeBullet(&b, "Coverage Interests", strings.Join(in.InsuranceTypes, ", "))
	}

	if in.LeadScore > 0 {
		writeBullet(&b, "Lead Score", fmt.Sprintf("%d/100", in.LeadScore))
	}

	writeBullet(&b, "Message", in.Message)

	return strings.TrimRight(b.String(), "\n")
}

func writeBullet(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}

	fmt.Fprintf(b, "• %s: %s\n", label, value)
}

func formTypeLabel(formType string) string {
	switch formType {
	case FormTypeInsurance:
		return "insurance quote"
	case FormTypeContact:
		return "contact form"
	case FormTypeNewsletter:
		return "newsletter"
	case FormTypeWaitlist:
		return "waitlist"
	default:
		return "lead"
	}
}
