package security

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// maxMessageLength is the length above which a free-text message is treated
// as an abuse signal.
const maxMessageLength = 10000

var (
	reTestName  = regexp.MustCompile(`(?i)^test[0-9]*$`)
	reTempEmail = regexp.MustCompile(`(?i)^temp[0-9]*@`)
)

// disposableDomains lists throwaway email providers that never correspond to
// a real insurance prospect.
var disposableDomains = []string{
	"mailinator.com",
	"guerrillamail.com",
	"10minutemail.com",
	"tempmail.com",
	"throwaway.email",
	"trashmail.com",
	"sharklasers.com",
	"yopmail.com",
}

// Submission carries the fields the abuse heuristic inspects, along with
// request metadata used when logging a security event.
type Submission struct {
	Name      string
	Email     string
	Message   string
	IP        string
	UserAgent string
}

// DetectSuspiciousActivity evaluates a fixed set of abuse signals over a
// submission and reports whether any of them fired. A flagged submission is
// logged as a structured security event with the caller's request metadata.
func DetectSuspiciousActivity(s Submission) bool {
	name := strings.ToLower(s.Name)
	email := strings.ToLower(s.Email)

	checks := []struct {
		reason string
		hit    bool
	}{
		{"test-pattern name", reTestName.MatchString(s.Name)},
		{"temporary email address", reTempEmail.MatchString(s.Email)},
		{"oversized message", len(s.Message) > maxMessageLength},
		{"spam keyword", strings.Contains(name, "spam") || strings.Contains(email, "spam")},
		{"disposable email domain", hasDisposableDomain(email)},
	}

	for _, c := range checks {
		if c.hit {
			log.Warn().
				Str("event", "suspicious_submission").
				Str("reason", c.reason).
				Str("ip", s.IP).
				Str("user_agent", s.UserAgent).
				Str("name", s.Name).
				Str("email", s.Email).
				Msg("suspicious form submission blocked")

			return true
		}
	}

	return false
}

func hasDisposableDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}

	domain := email[at+1:]

	for _, d := range disposableDomains {
		if domain == d {
			return true
		}
	}

	return false
}
