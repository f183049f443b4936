// Package encodex converts binary photo attachments to and from the
// text-safe form used by the local queue. The queue stores indexed columns
// next to the payload, so attachments are kept as data URLs rather than raw
// bytes; the encoding is lossless and deterministic.
package encodex

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/graminsta/storysync/internal/common"
)

const defaultMimeType = "application/octet-stream"

// Encode wraps payload in a base64 data URL: "data:<mime>;base64,<...>".
// An empty mimeType falls back to application/octet-stream.
func Encode(payload []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = defaultMimeType
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(payload)
}

// Decode is the inverse of Encode. It also accepts bare base64 without the
// data URL prefix. Malformed input fails with common.ErrorDecode.
func Decode(text string) ([]byte, error) {
	raw := text
	if strings.HasPrefix(text, "data:") {
		idx := strings.Index(text, ",")
		if idx < 0 {
			return nil, fmt.Errorf("%w: data URL without payload separator", common.ErrorDecode)
		}
		meta := text[len("data:"):idx]
		if !strings.HasSuffix(meta, ";base64") {
			return nil, fmt.Errorf("%w: unsupported data URL encoding %q", common.ErrorDecode, meta)
		}
		raw = text[idx+1:]
	}

	payload, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorDecode, err)
	}
	return payload, nil
}

// MimeType extracts the MIME type from an encoded payload, or returns the
// default when the payload carries none.
func MimeType(text string) string {
	if !strings.HasPrefix(text, "data:") {
		return defaultMimeType
	}
	idx := strings.Index(text, ";")
	if idx < 0 {
		return defaultMimeType
	}
	mime := text[len("data:"):idx]
	if mime == "" {
		return defaultMimeType
	}
	return mime
}
