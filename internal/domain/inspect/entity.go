package inspect

import (
	"encoding/json"
	"errors"
)

// Props is the outcome of parsing a data-props attribute.
// Raw == "" means the element carried no data; Err != nil means the data was unparseable.
type Props struct {
	Raw    string
	Fields map[string]any
	Err    error
}

// ErrNotObject is returned when data-props holds valid JSON that is not an object.
var ErrNotObject = errors.New("props payload is not a JSON object")

// ParseProps parses raw as a JSON object. It never panics and always keeps Raw.
func ParseProps(raw string) Props {
	p := Props{Raw: raw}
	if raw == "" {
		return p
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		p.Err = err
		return p
	}
	m, ok := v.(map[string]any)
	if !ok {
		p.Err = ErrNotObject
		return p
	}
	p.Fields = m
	return p
}

// Helpers picks the named fields. Missing fields, or every field when parsing failed,
// map to nil.
func (p Props) Helpers(names []string) map[string]any {
	out := make(map[string]any, len(names))
	for _, n := range names {
		out[n] = p.Fields[n]
	}
	return out
}

// ParseError returns the parse failure as text, empty when parsing succeeded.
func (p Props) ParseError() string {
	if p.Err == nil {
		return ""
	}
	return p.Err.Error()
}

// ComponentHit is one page where a searched component was found.
// Helper fields are flattened into the JSON object next to url/id/rawProps.
type ComponentHit struct {
	URL        string
	ID         int
	RawProps   string
	Helpers    map[string]any
	ParseError string
}

// MarshalJSON flattens helpers without letting them shadow the fixed keys.
func (h ComponentHit) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(h.Helpers)+4)
	for k, v := range h.Helpers {
		m[k] = v
	}
	m["url"] = h.URL
	m["id"] = h.ID
	m["rawProps"] = h.RawProps
	if h.ParseError != "" {
		m["parseError"] = h.ParseError
	}
	return json.Marshal(m)
}

// PageComponent is one component definition found on an analyzed page.
type PageComponent struct {
	Name       string         `json:"name"`
	Selector   string         `json:"selector"`
	RawProps   string         `json:"rawProps"`
	Helpers    map[string]any `json:"helpers"`
	ParseError string         `json:"parseError,omitempty"`
}
