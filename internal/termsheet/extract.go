package termsheet

import (
	"regexp"
	"strings"
)

var keyValueLine = regexp.MustCompile(`^([^:]+):\s*(.+)$`)

// ExtractedFields is the ordered field map pulled from one document. Keys keep
// the position of their first occurrence; a repeated key takes the later value.
type ExtractedFields struct {
	keys   []string
	values map[string]string
}

// ExtractFields splits text into lines and keeps every "KEY: VALUE" line whose
// key and value are both non-empty. The first colon separates key from value.
// Keys are upper-cased. Any input, including "", yields a (possibly empty) map.
func ExtractFields(text string) ExtractedFields {
	fields := ExtractedFields{values: make(map[string]string)}

	for _, line := range strings.Split(text, "\n") {
		m := keyValueLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		key := strings.ToUpper(strings.TrimSpace(m[1]))
		value := strings.TrimSpace(m[2])
		if key == "" || value == "" {
			continue
		}
		fields.set(key, value)
	}
	return fields
}

func (f *ExtractedFields) set(key, value string) {
	if _, seen := f.values[key]; !seen {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Keys returns field names in extraction order.
func (f ExtractedFields) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

func (f ExtractedFields) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f ExtractedFields) Len() int { return len(f.keys) }

// Map returns a copy of the fields as a plain map.
func (f ExtractedFields) Map() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}
