package scout

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/tbourn/go-keynexus/internal/domain"
)

const promptTemplate = `You are a video game expert assistant called Nexus AI.
Your goal is to recommend games from our store based on what the user asks for.
Available games: {{.Catalog}}.

Instructions:
1. Be friendly and enthusiastic, and use a gamer tone.
2. Always answer in {{.Language}}.
3. If you recommend a game, try to make it one from the list above.
4. At the end of your answer, if you think one specific game is the best option, include its ID in the format ` + MarkerPrefix + `xxxx].

User says: "{{.Utterance}}"
`

var promptTmpl = template.Must(template.New("scout").Parse(promptTemplate))

// PromptBuilder renders the provider prompt: persona instructions, a flat
// listing of the whole catalog, and the shopper's message verbatim. Only the
// latest message is ever sent; earlier turns are not replayed.
type PromptBuilder struct {
	catalog  string
	language string
}

// NewPromptBuilder flattens products once. language defaults to English.
func NewPromptBuilder(products []domain.Product, language string) *PromptBuilder {
	if strings.TrimSpace(language) == "" {
		language = "English"
	}
	return &PromptBuilder{catalog: CatalogListing(products), language: language}
}

// Build renders the prompt for utterance.
func (b *PromptBuilder) Build(utterance string) (string, error) {
	var sb strings.Builder
	err := promptTmpl.Execute(&sb, struct {
		Catalog, Language, Utterance string
	}{b.catalog, b.language, utterance})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return sb.String(), nil
}

// CatalogListing renders products as "Title (Genre, Price€, id:ID)" joined
// by ", ".
func CatalogListing(products []domain.Product) string {
	parts := make([]string, len(products))
	for i, p := range products {
		parts[i] = fmt.Sprintf("%s (%s, %s€, id:%s)", p.Title, p.Genre, p.Price.String(), p.ID)
	}
	return strings.Join(parts, ", ")
}
