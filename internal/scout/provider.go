package scout

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/tbourn/go-keynexus/internal/domain"
	"github.com/tbourn/go-keynexus/internal/search"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-3-flash-preview"

// Request is one call to a text-generation provider. Prompt is the full
// rendered prompt; Utterance is the shopper's raw message, for providers
// that work without a language model.
type Request struct {
	Prompt    string
	Utterance string
}

// Provider produces a free-text reply for a request. Any error is treated as
// a provider failure by the session.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, req Request) (string, error)

// Generate calls f.
func (f ProviderFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// GeminiProvider sends prompts to Google's Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini-backed provider.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

// Generate issues a single, non-streaming GenerateContent call.
func (g *GeminiProvider) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}

// Model returns the configured model name.
func (g *GeminiProvider) Model() string { return g.model }

// IndexProvider answers from the catalog alone by ranking products against
// the shopper's message. It keeps the scout usable without an API key and
// emits the same marker protocol as a model would.
type IndexProvider struct {
	idx      search.Index
	products map[string]domain.Product
}

var indexStopwords = []string{
	"a", "an", "the", "and", "or", "of", "to", "in", "for", "on", "with",
	"i", "me", "my", "want", "looking", "something", "game", "games", "some", "like",
}

// NewIndexProvider indexes products by title, with genre and platform as
// tags and the description as body text.
func NewIndexProvider(products []domain.Product) *IndexProvider {
	docs := make([]search.Document, len(products))
	byID := make(map[string]domain.Product, len(products))
	for i, p := range products {
		docs[i] = search.Document{
			ID:    p.ID,
			Title: p.Title,
			Tags:  []string{string(p.Genre), string(p.Platform)},
			Body:  p.Description,
		}
		byID[p.ID] = p
	}
	return &IndexProvider{
		idx:      search.NewIndex(docs, search.WithStopwords(indexStopwords)),
		products: byID,
	}
}

// Generate picks the best-scoring product, if any.
func (p *IndexProvider) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	hits := p.idx.TopK(req.Utterance, 1)
	if len(hits) == 0 {
		return "I couldn't find a match for that in our catalog. Tell me a genre you enjoy, like RPG or FPS, and I'll dig something up!", nil
	}
	best := p.products[hits[0].ID]
	return fmt.Sprintf("Great pick incoming! %s (%s on %s, %s€) fits what you're after. %s",
		best.Title, best.Genre, best.Platform, best.Price.String(), Marker(best.ID)), nil
}
