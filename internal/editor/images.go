package editor

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/islandhop/internal/domain"
)

// imageParser is one attempt at reading an images value. It reports false
// when the text is not in the format it understands.
type imageParser func(text string) ([]string, bool)

// imageParsers are tried in order; the first success wins.
var imageParsers = []imageParser{
	parseImageJSONList,
	parseImageBareURL,
	parseImageCommaList,
}

// ParseImages reads a record's images field. It accepts a JSON list of
// strings (raw or JSON-encoded in a string), a single bare URL or a
// comma-separated list of URLs. ok is false when none of those matched, in
// which case the list is empty. An absent value is an empty list and ok.
func ParseImages(raw json.RawMessage) (images []string, ok bool) {
	text, present := imagesText(raw)
	if !present {
		return []string{}, true
	}
	for _, parse := range imageParsers {
		if list, ok := parse(text); ok {
			return list, true
		}
	}
	return []string{}, false
}

func imagesText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return text, true
		}
		text = s
	}
	text = strings.TrimSpace(text)
	return text, text != ""
}

func parseImageJSONList(text string) ([]string, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, false
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, true
}

func parseImageBareURL(text string) ([]string, bool) {
	if looksLikeJSON(text) || strings.Contains(text, ",") || !isImageURL(text) {
		return nil, false
	}
	return []string{text}, true
}

func parseImageCommaList(text string) ([]string, bool) {
	if looksLikeJSON(text) {
		return nil, false
	}
	parts := domain.SplitList(text)
	if len(parts) == 0 {
		return nil, false
	}
	for _, p := range parts {
		if !isImageURL(p) {
			return nil, false
		}
	}
	return parts, true
}

func looksLikeJSON(text string) bool {
	return strings.HasPrefix(text, "[") || strings.HasPrefix(text, "{")
}

// isImageURL accepts absolute http(s) URLs and site-relative paths.
func isImageURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	case "":
		return strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//")
	default:
		return false
	}
}
