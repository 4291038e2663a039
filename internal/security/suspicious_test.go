package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectSuspiciousActivity(t *testing.T) {
	cases := []struct {
		name string
		sub  Submission
		want bool
	}{
		{"clean submission", Submission{Name: "Jane Doe", Email: "jane@example.com", Message: "Need a quote"}, false},
		{"test name", Submission{Name: "test123", Email: "jane@example.com"}, true},
		{"temp email", Submission{Name: "Jane", Email: "temp42@example.com"}, true},
		{"oversized message", Submission{Name: "Jane", Email: "jane@example.com", Message: strings.Repeat("x", 10001)}, true},
		{"spam in name", Submission{Name: "spam bot", Email: "jane@example.com"}, true},
		{"spam in email", Submission{Name: "Jane", Email: "buy-spam@example.com"}, true},
		{"disposable domain", Submission{Name: "Jane", Email: "jane@mailinator.com"}, true},
		{"testimonial name is fine", Submission{Name: "Testerman", Email: "t@example.com"}, false},
		{"boundary message length", Submission{Name: "Jane", Email: "jane@example.com", Message: strings.Repeat("x", 10000)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectSuspiciousActivity(tc.sub))
		})
	}
}
