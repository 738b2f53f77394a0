// Package media handles embedded media payloads (data URLs).
//
// Files and microphone captures are converted to data URLs at the intake
// boundary; the journal store only ever sees the resulting strings.
package media

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/jinsol/rememberme/internal/apperr"
)

// MaxPayloadBytes caps a single decoded media payload.
const MaxPayloadBytes = 5 << 20 // 5 MB

// Payload is a decoded data URL.
type Payload struct {
	MIME string
	Data []byte
}

// allowedMIME reports whether a media payload type is accepted.
// Only the media families the journal renders are allowed.
func allowedMIME(mime string) bool {
	return strings.HasPrefix(mime, "image/") ||
		strings.HasPrefix(mime, "audio/") ||
		strings.HasPrefix(mime, "video/")
}

// Normalize canonicalizes an optional payload string: nil, empty or blank
// values become absent (nil). A stored record never carries a visible empty
// string where "no media" is meant.
func Normalize(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// Parse decodes a data:[<mediatype>];base64,<data> URL.
func Parse(u string) (*Payload, error) {
	if !strings.HasPrefix(u, "data:") {
		return nil, fmt.Errorf("media: not a data URL: %w", apperr.ErrBadPayload)
	}
	rest := strings.TrimPrefix(u, "data:")
	commaIdx := strings.Index(rest, ",")
	if commaIdx < 0 {
		return nil, fmt.Errorf("media: missing comma separator: %w", apperr.ErrBadPayload)
	}

	meta := rest[:commaIdx]
	encoded := rest[commaIdx+1:]

	if !strings.Contains(meta, ";base64") {
		return nil, fmt.Errorf("media: only base64 data URLs are supported: %w", apperr.ErrBadPayload)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("media: invalid base64 data: %w", apperr.ErrBadPayload)
		}
	}
	if len(data) > MaxPayloadBytes {
		return nil, fmt.Errorf("media: payload is %d bytes (max %d): %w",
			len(data), MaxPayloadBytes, apperr.ErrQuotaExceeded)
	}

	mime := strings.Split(strings.TrimSuffix(meta, ";base64"), ";")[0]
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	if !allowedMIME(mime) {
		return nil, fmt.Errorf("media: unsupported MIME type %s: %w", mime, apperr.ErrBadPayload)
	}
	return &Payload{MIME: mime, Data: data}, nil
}

// FromBytes builds a data URL from raw bytes and reports the MIME type used.
// When mime is empty it is sniffed from the content.
func FromBytes(data []byte, mime string) (string, string, error) {
	if len(data) == 0 {
		return "", "", fmt.Errorf("media: empty payload: %w", apperr.ErrBadPayload)
	}
	if len(data) > MaxPayloadBytes {
		return "", "", fmt.Errorf("media: payload is %d bytes (max %d): %w",
			len(data), MaxPayloadBytes, apperr.ErrQuotaExceeded)
	}
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	mime = strings.TrimSpace(strings.Split(mime, ";")[0])
	if !allowedMIME(mime) {
		return "", "", fmt.Errorf("media: unsupported MIME type %s: %w", mime, apperr.ErrBadPayload)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), mime, nil
}
