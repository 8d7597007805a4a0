package normalizer

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"cardforge/internal/domain"
)

// cardObject is one candidate card parsed from the response. Key order is
// preserved because the positional mapping fallback depends on it, which
// rules out plain map decoding.
type cardObject struct {
	keys   []string
	values map[string]any
}

func (o cardObject) get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// responseEnvelope is the strict shape the model is instructed to return.
type responseEnvelope struct {
	Cards []json.RawMessage `json:"cards"`
}

// parseStrict accepts only what the prompt asked for: an object with a
// "cards" array, or a bare array of card objects.
func parseStrict(raw string, _ domain.TemplateDefinition) ([]cardObject, bool) {
	return decodeCandidates(strings.TrimSpace(raw))
}

var fenceRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")

// parseFenced strips markdown code fences and surrounding prose, then
// retries a strict parse. Models routinely wrap otherwise valid JSON in
// explanation text, so succeeding here is not treated as a repair.
func parseFenced(raw string, tmpl domain.TemplateDefinition) ([]cardObject, bool) {
	for _, m := range fenceRe.FindAllStringSubmatch(raw, -1) {
		if objs, ok := decodeCandidates(strings.TrimSpace(m[1])); ok {
			return objs, true
		}
	}

	// No usable fence: cut from the first opening brace or bracket to the
	// matching end of the document and try that.
	start := strings.IndexAny(raw, "{[")
	end := strings.LastIndexAny(raw, "}]")
	if start >= 0 && end > start {
		if objs, ok := decodeCandidates(raw[start : end+1]); ok {
			return objs, true
		}
	}
	return nil, false
}

// parseBracketScan walks the text looking for a balanced JSON array that
// contains at least one object, and parses the first one it finds. This
// rescues responses where valid card data is embedded mid-sentence or the
// envelope itself is broken around an intact array.
func parseBracketScan(raw string, _ domain.TemplateDefinition) ([]cardObject, bool) {
	for i := 0; i < len(raw); i++ {
		if raw[i] != '[' {
			continue
		}
		end, ok := matchBracket(raw, i)
		if !ok {
			continue
		}
		candidate := raw[i : end+1]
		if !strings.Contains(candidate, "{") {
			continue
		}
		if objs, ok := decodeCandidates(candidate); ok && len(objs) > 0 {
			return objs, true
		}
	}
	return nil, false
}

// matchBracket returns the index of the ']' closing the '[' at start,
// respecting string literals and escapes.
func matchBracket(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// lineSeparators are the tokens the line splitter recognizes, most
// specific first.
var lineSeparators = []string{"\t", " | ", "|", " :: ", "::", " - ", " – ", "："}

// parseLineSplit is the last-resort heuristic for simple front/back
// templates: any line containing a recognizable separator becomes one
// card. It produces a degraded result rather than an empty one.
func parseLineSplit(raw string, tmpl domain.TemplateDefinition) ([]cardObject, bool) {
	if len(tmpl.Fields) != 2 {
		return nil, false
	}

	var objects []cardObject
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• ")
		line = trimEnumPrefix(line)
		if line == "" {
			continue
		}
		for _, sep := range lineSeparators {
			idx := strings.Index(line, sep)
			if idx <= 0 {
				continue
			}
			front := strings.TrimSpace(line[:idx])
			back := strings.TrimSpace(line[idx+len(sep):])
			if front == "" || back == "" {
				break
			}
			objects = append(objects, cardObject{
				keys: []string{tmpl.Fields[0], tmpl.Fields[1]},
				values: map[string]any{
					tmpl.Fields[0]: front,
					tmpl.Fields[1]: back,
				},
			})
			break
		}
	}
	return objects, len(objects) > 0
}

// trimEnumPrefix drops a leading "1." / "2)" style enumeration marker.
func trimEnumPrefix(line string) string {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return strings.TrimSpace(line[i+1:])
	}
	return line
}

// decodeCandidates parses text into card objects. It accepts the strict
// envelope, a bare array, or a single card object.
func decodeCandidates(text string) ([]cardObject, bool) {
	if text == "" {
		return nil, false
	}

	switch text[0] {
	case '{':
		var env responseEnvelope
		if err := json.Unmarshal([]byte(text), &env); err == nil && len(env.Cards) > 0 {
			return decodeObjects(env.Cards)
		}
		// A single bare card object.
		if obj, err := decodeOrderedObject([]byte(text)); err == nil && len(obj.keys) > 0 {
			return []cardObject{obj}, true
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(text), &items); err == nil && len(items) > 0 {
			return decodeObjects(items)
		}
	}
	return nil, false
}

func decodeObjects(items []json.RawMessage) ([]cardObject, bool) {
	objects := make([]cardObject, 0, len(items))
	for _, item := range items {
		obj, err := decodeOrderedObject(item)
		if err != nil {
			// Non-object entries are skipped here; mapOntoSchema never
			// sees them. The strict decode succeeded overall, so one bad
			// entry should not discard the rest.
			continue
		}
		objects = append(objects, obj)
	}
	return objects, len(objects) > 0
}

// decodeOrderedObject decodes a JSON object preserving key order.
func decodeOrderedObject(data []byte) (cardObject, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return cardObject{}, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return cardObject{}, &json.UnmarshalTypeError{Value: "non-object", Type: nil}
	}

	obj := cardObject{values: make(map[string]any)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return cardObject{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return cardObject{}, &json.UnmarshalTypeError{Value: "non-string key", Type: nil}
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return cardObject{}, err
		}
		if _, dup := obj.values[key]; !dup {
			obj.keys = append(obj.keys, key)
		}
		obj.values[key] = value
	}
	return obj, nil
}

// stringify renders a decoded JSON value as field text.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
