// internal/navigation/url.go
package navigation

import (
	"net/url"
	"strings"

	"docs-browser/internal/model"
)

const (
	paramTopic    = "topic"
	paramSubTopic = "subtopic"
)

// SelectionFromURL reads the selection from the topic and subtopic query parameters of u.
func SelectionFromURL(u *url.URL) model.Selection {
	if u == nil {
		return model.Selection{}
	}
	q := u.Query()
	return model.Selection{
		Topic:    q.Get(paramTopic),
		SubTopic: q.Get(paramSubTopic),
	}
}

// SelectionToURL returns a copy of u whose query carries sel. Unrelated parameters are kept;
// topic and subtopic are appended after them in that order. A zero selection removes both.
func SelectionToURL(u *url.URL, sel model.Selection) *url.URL {
	out := &url.URL{}
	if u != nil {
		clone := *u
		out = &clone
	}

	q := out.Query()
	q.Del(paramTopic)
	q.Del(paramSubTopic)

	parts := make([]string, 0, 3)
	if rest := q.Encode(); rest != "" {
		parts = append(parts, rest)
	}
	if sel.Topic != "" {
		parts = append(parts, paramTopic+"="+url.QueryEscape(sel.Topic))
	}
	if sel.SubTopic != "" {
		parts = append(parts, paramSubTopic+"="+url.QueryEscape(sel.SubTopic))
	}

	out.RawQuery = strings.Join(parts, "&")
	out.ForceQuery = false
	return out
}
