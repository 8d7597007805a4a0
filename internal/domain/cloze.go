package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Cloze describes one deletion the model asked for inside a card's text.
type Cloze struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	Hint string `json:"hint,omitempty"`
}

var clozeRe = regexp.MustCompile(`\{\{c(\d+)::[^}]+\}\}`)

// ApplyClozes rewrites content so each requested deletion appears in
// {{cN::text}} or {{cN::text::hint}} form. Deletions are applied longest
// text first so a shorter deletion never splits a longer one, and each
// only replaces its first occurrence.
func ApplyClozes(content string, clozes []Cloze) string {
	ordered := append([]Cloze(nil), clozes...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Text) > len(ordered[j].Text)
	})

	for _, c := range ordered {
		if c.Text == "" {
			continue
		}
		var repl string
		if c.Hint != "" {
			repl = fmt.Sprintf("{{c%d::%s::%s}}", c.ID, c.Text, c.Hint)
		} else {
			repl = fmt.Sprintf("{{c%d::%s}}", c.ID, c.Text)
		}
		content = strings.Replace(content, c.Text, repl, 1)
	}
	return content
}

// ClozeOrdinals returns the distinct deletion numbers appearing in the
// content, sorted ascending. The deck-package writer emits one card per
// ordinal.
func ClozeOrdinals(content string) []int {
	seen := make(map[int]struct{})
	for _, m := range clozeRe.FindAllStringSubmatch(content, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			continue
		}
		seen[n] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// ValidateClozeContent reports whether content carries a well-formed
// deletion set: at least one {{cN::}} marker, with IDs running 1..max
// without gaps.
func ValidateClozeContent(content string) bool {
	ords := ClozeOrdinals(content)
	if len(ords) == 0 {
		return false
	}
	for i, n := range ords {
		if n != i+1 {
			return false
		}
	}
	return true
}
