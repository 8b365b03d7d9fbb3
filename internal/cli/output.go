package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// decodeData strictly decodes a --data argument into dst.
func decodeData(raw string, dst any) error {
	if raw == "" {
		return userError("--data is required")
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return userError("parse --data: %w", err)
	}
	return nil
}
