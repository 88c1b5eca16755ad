package present

import (
	"bytes"
	"encoding/json"
)

// JSONViewState classifies what the payload viewer is showing.
type JSONViewState string

const (
	JSONViewEmpty   JSONViewState = "empty"   // field absent or blank
	JSONViewValid   JSONViewState = "valid"   // pretty-printed JSON
	JSONViewInvalid JSONViewState = "invalid" // raw text shown as-is
)

// JSONView is the tolerant payload viewer used for webhook requests and
// gateway responses.
type JSONView struct {
	State   JSONViewState `json:"state"`
	Content string        `json:"content"`
}

// emptyPlaceholder is shown when the payload field is absent.
const emptyPlaceholder = "No payload data"

// RenderJSON attempts to pretty-print raw as JSON. Payloads sometimes arrive
// double-encoded as a JSON string; one level of unwrapping is attempted. On
// parse failure the raw text is returned unchanged so the viewer never throws.
func RenderJSON(raw string) JSONView {
	if raw == "" {
		return JSONView{State: JSONViewEmpty, Content: emptyPlaceholder}
	}

	candidate := raw

	// Unwrap one level of double encoding: a JSON string whose content is
	// itself JSON.
	var inner string
	if err := json.Unmarshal([]byte(candidate), &inner); err == nil {
		candidate = inner
	}

	var value any
	if err := json.Unmarshal([]byte(candidate), &value); err != nil {
		return JSONView{State: JSONViewInvalid, Content: raw}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return JSONView{State: JSONViewInvalid, Content: raw}
	}

	// Encoder appends a trailing newline.
	return JSONView{State: JSONViewValid, Content: string(bytes.TrimRight(buf.Bytes(), "\n"))}
}
