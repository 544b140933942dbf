// Package search ranks catalog products against free-text shopper messages.
// The index is built once and is read-only afterwards, so a single Index can
// be shared by every session.
//
// Each document has a title, a few tags (genre, platform) and a body. A query
// token found in the title counts more than one found only in a tag or the
// body; the score is the mean token weight over the query, so it lies in
// [0, title weight]. Tokens are lowercased, stripped of diacritics and
// lightly de-pluralised, which lets "pokemon shooters" match "Pokémon" and
// "Shooter".
package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Document is one indexed product.
type Document struct {
	ID    string
	Title string
	Tags  []string
	Body  string
}

// Result is a ranked document id.
type Result struct {
	ID    string
	Score float64
}

// Index answers ranked lookups.
type Index interface {
	TopK(query string, k int) []Result
	Len() int
}

// Weights sets how much a match in each field is worth.
type Weights struct {
	Title, Tag, Body float64
}

// DefaultWeights favour title hits.
var DefaultWeights = Weights{Title: 3, Tag: 2, Body: 1}

type Option func(*options)

type options struct {
	weights   Weights
	stopwords map[string]struct{}
	maxDocs   int
}

// WithWeights overrides DefaultWeights. Non-positive weights are ignored.
func WithWeights(w Weights) Option {
	return func(o *options) {
		if w.Title > 0 && w.Tag > 0 && w.Body > 0 {
			o.weights = w
		}
	}
}

// WithStopwords drops the given words from documents and queries.
func WithStopwords(words []string) Option {
	return func(o *options) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			for _, t := range terms(w) {
				m[t] = struct{}{}
			}
		}
		if len(m) > 0 {
			o.stopwords = m
		}
	}
}

// WithMaxDocs caps the number of indexed documents.
func WithMaxDocs(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDocs = n
		}
	}
}

type entry struct {
	id string
	// term -> best field weight it appears in
	terms map[string]float64
}

type index struct {
	opts    options
	entries []entry
}

// NewIndex indexes docs. Documents with no usable terms are skipped.
func NewIndex(docs []Document, opts ...Option) Index {
	o := options{weights: DefaultWeights}
	for _, fn := range opts {
		fn(&o)
	}

	entries := make([]entry, 0, len(docs))
	for _, d := range docs {
		e := entry{id: d.ID, terms: map[string]float64{}}
		e.add(d.Body, o.weights.Body, o.stopwords)
		for _, tag := range d.Tags {
			e.add(tag, o.weights.Tag, o.stopwords)
		}
		e.add(d.Title, o.weights.Title, o.stopwords)
		if len(e.terms) == 0 {
			continue
		}
		entries = append(entries, e)
		if o.maxDocs > 0 && len(entries) == o.maxDocs {
			break
		}
	}
	return &index{opts: o, entries: entries}
}

func (e *entry) add(text string, weight float64, stop map[string]struct{}) {
	for _, t := range terms(text) {
		if _, skip := stop[t]; skip {
			continue
		}
		if weight > e.terms[t] {
			e.terms[t] = weight
		}
	}
}

func (i *index) Len() int { return len(i.entries) }

// TopK returns up to k matching documents, best first. k <= 0 means 3.
// Equal scores prefer the document with fewer terms, then the smaller id.
func (i *index) TopK(query string, k int) []Result {
	q := i.queryTerms(query)
	if len(q) == 0 || len(i.entries) == 0 {
		return nil
	}
	if k <= 0 {
		k = 3
	}

	type hit struct {
		Result
		size int
	}
	var hits []hit
	for _, e := range i.entries {
		var sum float64
		for _, t := range q {
			sum += e.terms[t]
		}
		if sum == 0 {
			continue
		}
		hits = append(hits, hit{Result{ID: e.id, Score: sum / float64(len(q))}, len(e.terms)})
	}
	if len(hits) == 0 {
		return nil
	}

	sort.Slice(hits, func(a, b int) bool {
		switch {
		case hits[a].Score != hits[b].Score:
			return hits[a].Score > hits[b].Score
		case hits[a].size != hits[b].size:
			return hits[a].size < hits[b].size
		default:
			return hits[a].ID < hits[b].ID
		}
	})

	out := make([]Result, 0, min(k, len(hits)))
	for _, h := range hits[:min(k, len(hits))] {
		out = append(out, h.Result)
	}
	return out
}

// queryTerms returns the distinct non-stopword terms of q in order.
func (i *index) queryTerms(q string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, t := range terms(q) {
		if _, skip := i.opts.stopwords[t]; skip {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*|\p{N}+`)

// terms splits s into folded, singularised words.
func terms(s string) []string {
	words := wordRE.FindAllString(fold(s), -1)
	for j, w := range words {
		words[j] = singular(w)
	}
	return words
}

// fold lowercases s and removes combining marks.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// singular trims a plural "s", leaving short words and "ss" endings alone.
func singular(w string) string {
	if len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") {
		return w[:len(w)-1]
	}
	return w
}
