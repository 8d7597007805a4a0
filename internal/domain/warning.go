package domain

import "fmt"

// WarningCode classifies a normalization or export warning.
type WarningCode string

// Warning codes emitted by the response normalizer.
const (
	// WarnRecovered indicates the raw response failed strict parsing and a
	// fallback strategy produced the cards.
	WarnRecovered WarningCode = "recovered"

	// WarnUnknownField indicates a card object carried a field that is not
	// part of the template schema; the field was dropped.
	WarnUnknownField WarningCode = "unknown_field"

	// WarnPositionalMapping indicates a card object's keys matched nothing
	// in the schema and its values were assigned by position instead.
	WarnPositionalMapping WarningCode = "positional_mapping"

	// WarnMissingField indicates a schema field was absent from a card
	// object and was filled with an empty string.
	WarnMissingField WarningCode = "missing_field"

	// WarnEmptyCard indicates a candidate card ended up with every field
	// empty and was dropped.
	WarnEmptyCard WarningCode = "empty_card"

	// WarnClozeMissing indicates a card for a cloze template ended up with
	// no cloze deletion markers in its text field.
	WarnClozeMissing WarningCode = "cloze_missing"

	// WarnCountMismatch indicates the parsed card count differs from the
	// requested count. Over- and under-generation are reported, never
	// corrected.
	WarnCountMismatch WarningCode = "count_mismatch"

	// WarnUnparseable indicates no parsing strategy could extract any card
	// from the raw response.
	WarnUnparseable WarningCode = "unparseable"
)

// Warning describes something the normalizer repaired or dropped while
// turning raw model output into card records. Warnings are informational:
// they never abort a request on their own.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// Warnf builds a Warning with a formatted message.
func Warnf(code WarningCode, format string, args ...any) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}

// String implements fmt.Stringer.
func (w Warning) String() string {
	return string(w.Code) + ": " + w.Message
}
