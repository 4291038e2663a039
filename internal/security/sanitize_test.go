package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeString_StripsInjectionVectors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"script tag", `<script>alert(1)</script>`},
		{"double quotes", `"quoted"`},
		{"single quotes", `it's a 'test'`},
		{"javascript scheme", `javascript:alert(1)`},
		{"uppercase scheme", `JAVASCRIPT:void(0)`},
		{"event handler", `x onClick=steal()`},
		{"spliced scheme", `javasjavascript:cript:alert(1)`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := SanitizeString(tc.input)

			assert.NotContains(t, out, "<")
			assert.NotContains(t, out, ">")
			assert.NotContains(t, out, `"`)
			assert.NotContains(t, out, "'")
			assert.NotContains(t, strings.ToLower(out), "javascript:")
			assert.NotRegexp(t, `(?i)\bon\w+\s*=`, out)
		})
	}
}

func TestSanitizeString_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Jane Doe",
		`<b>bold</b> "quoted" javascript:alert(1) onload=x`,
		strings.Repeat("a<b>", 400),
		"  padded  ",
	}

	for _, in := range inputs {
		once := SanitizeString(in)
		twice := SanitizeString(once)

		assert.Equal(t, once, twice, "sanitize must be a fixed point for %q", in)
	}
}

func TestSanitizeString_TruncatesTo500(t *testing.T) {
	out := SanitizeString(strings.Repeat("x", 2000))

	assert.Len(t, []rune(out), MaxFieldLength)
}

func TestSanitizeString_PreservesPlainText(t *testing.T) {
	assert.Equal(t, "Jane Doe", SanitizeString("  Jane Doe  "))
	assert.Equal(t, "jane@example.com", SanitizeString("jane@example.com"))
}

func TestSanitizeMap_RecursesNestedStructures(t *testing.T) {
	in := map[string]any{
		"name": "<script>x</script>Jane",
		"age":  float64(44),
		"ok":   true,
		"nested": map[string]any{
			"note": `"quoted"`,
		},
		"tags": []any{"<b>dental</b>", float64(1)},
	}

	out := SanitizeMap(in)

	assert.Equal(t, "xJane", out["name"])
	assert.Equal(t, float64(44), out["age"])
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, "quoted", out["nested"].(map[string]any)["note"])
	assert.Equal(t, "dental", out["tags"].([]any)[0])
	assert.Equal(t, float64(1), out["tags"].([]any)[1])
}

func TestSanitizeSlice(t *testing.T) {
	assert.Nil(t, SanitizeSlice(nil))
	assert.Equal(t, []string{"dental", "vision"}, SanitizeSlice([]string{"<dental>", " vision "}))
}
