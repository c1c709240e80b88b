// Package translate turns Cyrillic issue titles into English so
// generated branch names and merge request titles stay ASCII.
// Translation failures fall back to the original text; a broken
// translation endpoint must never block an MR.
package translate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	json "github.com/goccy/go-json"
)

// endpoint is the public Google translate endpoint, the same one
// lightweight translation clients use.
const endpoint = "https://translate.googleapis.com/translate_a/single"

// Translator translates text to English over HTTP.
type Translator struct {
	client  *http.Client
	baseURL string
}

// New returns a Translator using the default endpoint.
func New() *Translator {
	return &Translator{
		client:  &http.Client{},
		baseURL: endpoint,
	}
}

// NewWithEndpoint returns a Translator against a custom endpoint.
// Used by tests.
func NewWithEndpoint(
	client *http.Client,
	baseURL string,
) *Translator {
	return &Translator{
		client:  client,
		baseURL: baseURL,
	}
}

// ContainsCyrillic reports whether text contains at least one
// Cyrillic rune.
func ContainsCyrillic(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}

	return false
}

// AutoTranslate returns text translated to English when it
// contains Cyrillic, and unchanged otherwise. On translation
// failure the original text is returned with a warning log.
func (t *Translator) AutoTranslate(
	ctx context.Context,
	text string,
) string {
	if text == "" || !ContainsCyrillic(text) {
		return text
	}

	slog.Debug(
		"translating cyrillic text", "text", text,
	)

	translated, err := t.translate(ctx, text)
	if err != nil {
		slog.Warn(
			"translation failed, using original text",
			"error", err,
		)

		return text
	}

	return translated
}

// translate calls the translation endpoint. The answer is a nested
// JSON array whose first element lists translated segments.
func (t *Translator) translate(
	ctx context.Context,
	text string,
) (string, error) {
	const errCtx = "translating text"

	params := url.Values{
		"client": {"gtx"},
		"sl":     {"auto"},
		"tl":     {"en"},
		"dt":     {"t"},
		"q":      {text},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		t.baseURL+"?"+params.Encode(),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf(
			"%s: new request: %w", errCtx, err,
		)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return "", fmt.Errorf(
			"%s: status %d: %s",
			errCtx, resp.StatusCode, string(body),
		)
	}

	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).
		Decode(&payload); err != nil {
		return "", fmt.Errorf(
			"%s: decode: %w", errCtx, err,
		)
	}

	if len(payload) == 0 {
		return "", fmt.Errorf(
			"%s: empty answer", errCtx,
		)
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(
		payload[0], &segments,
	); err != nil {
		return "", fmt.Errorf(
			"%s: decode segments: %w", errCtx, err,
		)
	}

	var sb strings.Builder

	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}

		var part string
		if err := json.Unmarshal(
			seg[0], &part,
		); err != nil {
			return "", fmt.Errorf(
				"%s: decode segment: %w",
				errCtx, err,
			)
		}

		sb.WriteString(part)
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf(
			"%s: no translated segments", errCtx,
		)
	}

	return sb.String(), nil
}
