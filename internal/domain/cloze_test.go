package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyClozes(t *testing.T) {
	t.Parallel()

	content := "The mitochondria is the powerhouse of the cell"
	out := ApplyClozes(content, []Cloze{
		{ID: 1, Text: "mitochondria"},
		{ID: 2, Text: "powerhouse", Hint: "energy"},
	})

	assert.Equal(t, "The {{c1::mitochondria}} is the {{c2::powerhouse::energy}} of the cell", out)
}

func TestApplyClozesLongestFirst(t *testing.T) {
	t.Parallel()

	// "Go runtime" must be wrapped before "Go" so the shorter deletion
	// does not split the longer one.
	out := ApplyClozes("The Go runtime schedules goroutines in Go code", []Cloze{
		{ID: 1, Text: "Go"},
		{ID: 2, Text: "Go runtime"},
	})

	assert.Contains(t, out, "{{c2::Go runtime}}")
	assert.Contains(t, out, "{{c1::Go}}")
}

func TestClozeOrdinals(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{1, 2}, ClozeOrdinals("{{c2::b}} then {{c1::a}} and {{c1::again}}"))
	assert.Empty(t, ClozeOrdinals("plain text"))
}

func TestValidateClozeContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"valid single", "{{c1::x}}", true},
		{"valid sequence", "{{c1::x}} {{c2::y}}", true},
		{"gap in ids", "{{c1::x}} {{c3::y}}", false},
		{"starts above one", "{{c2::x}}", false},
		{"no clozes", "plain", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidateClozeContent(tc.content))
		})
	}
}
