package cli

import (
	"encoding/json"
	"io"
)

const (
	msgRejected = "Can not create new bookmark"
	msgNotFound = "Not Found"
)

type envelope map[string]any

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func ok(w io.Writer, key string, v any) error {
	body := envelope{"ok": true}
	if key != "" {
		body[key] = v
	}
	return writeJSON(w, body)
}

// fail reports an expected outcome and exits with code.
func fail(w io.Writer, msg string, code int) error {
	if err := writeJSON(w, envelope{"error": msg, "ok": false}); err != nil {
		return err
	}
	return &exitError{code: code}
}
