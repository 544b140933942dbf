// Package scout implements the AI shopping assistant: the recommendation
// marker parser, the prompt sent to the text-generation provider, and the
// dialogue session that runs one request/response cycle per shopper turn.
package scout

import (
	"regexp"
	"strings"
)

// MarkerPrefix opens a recommendation marker. The prompt instructs the model
// to end its answer with "[RECOMMEND_ID:<id>]"; the parser below must stay in
// sync with that instruction.
const MarkerPrefix = "[RECOMMEND_ID:"

var markerRE = regexp.MustCompile(`\[RECOMMEND_ID:([^\]]*)\]`)

// Recommendation is a provider reply split into display text and the
// recommended product id ("" when there is none).
type Recommendation struct {
	Text      string
	ProductID string
}

// ParseRecommendation extracts the first recommendation marker from raw and
// strips every marker from the display text. The token is trimmed; an empty
// token counts as no recommendation. The id is not checked against the
// catalog here.
func ParseRecommendation(raw string) Recommendation {
	var id string
	if m := markerRE.FindStringSubmatch(raw); m != nil {
		id = strings.TrimSpace(m[1])
	}
	return Recommendation{
		Text:      strings.TrimSpace(markerRE.ReplaceAllString(raw, "")),
		ProductID: id,
	}
}

// Marker renders the marker for id.
func Marker(id string) string {
	return MarkerPrefix + id + "]"
}
