// ABOUTME: Renders command results as text, JSON or YAML
// ABOUTME: Text output is produced by the caller; structured formats marshal the value

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts text, json or yaml (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", Text:
		return Text, nil
	case JSON, YAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid output format: %q (must be text, json, or yaml)", s)
	}
}

// Structured reports whether f is a machine-readable format.
func (f Format) Structured() bool {
	return f == JSON || f == YAML
}

// Write renders v in format f. For Text, human is called to build the output.
func Write(w io.Writer, f Format, v any, human func() string) error {
	switch f {
	case JSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(w, human())
		return err
	}
}

// ErrorBody is the structured form of a failed command.
type ErrorBody struct {
	Error string `json:"error" yaml:"error"`
	Code  int    `json:"code" yaml:"code"`
}

// WriteError renders a failure. Text output is "Error: <message>".
func WriteError(w io.Writer, f Format, message string, code int) {
	_ = Write(w, f, ErrorBody{Error: message, Code: code}, func() string {
		return "Error: " + message
	})
}

// Capitalize upper-cases the first letter of a server message.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
