package scout

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-keynexus/internal/domain"
)

// Canned assistant messages.
const (
	Greeting      = "Hi! I'm Nexus AI. I'm here to help you find your next great game or answer questions about your purchases. What do you feel like playing today?"
	GlitchReply   = "Sorry, I had a small glitch. Could you say that again?"
	FallbackReply = "Oops, looks like I lost connection to the main servers. Shall we try again?"
)

var (
	// ErrEmptyUtterance is returned when the submitted text is blank.
	ErrEmptyUtterance = errors.New("utterance is empty")
	// ErrBusy is returned when a request is already outstanding.
	ErrBusy = errors.New("assistant is still answering")
)

// State is the dialogue session state.
type State int

const (
	StateIdle State = iota
	StateAwaiting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaiting:
		return "awaiting"
	default:
		return "unknown"
	}
}

// Session is one shopper's conversation with the assistant. The log is
// append-only and starts with the greeting. At most one provider request is
// outstanding at a time; the lock is never held across that request.
type Session struct {
	provider Provider
	prompts  *PromptBuilder
	now      func() time.Time
	logger   zerolog.Logger

	mu    sync.Mutex
	state State
	log   []domain.ChatMessage
}

// Turn is the assistant message produced by Submit and its position in the
// session log.
type Turn struct {
	Index   int
	Message domain.ChatMessage
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for provider failures.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession starts an idle session whose log holds the greeting.
func NewSession(p Provider, prompts *PromptBuilder, opts ...Option) *Session {
	s := &Session{
		provider: p,
		prompts:  prompts,
		now:      time.Now,
		logger:   log.Logger,
	}
	for _, o := range opts {
		o(s)
	}
	s.log = []domain.ChatMessage{{
		Role:      domain.RoleAssistant,
		Content:   Greeting,
		CreatedAt: s.now(),
	}}
	return s
}

// Submit runs one turn: it records the trimmed text as a user message,
// issues exactly one provider request, and records and returns the assistant
// reply.
// Blank text returns ErrEmptyUtterance and a turn already in flight returns
// ErrBusy; neither touches the log. A provider failure is not an error for
// the caller: the fallback reply is recorded and returned instead.
func (s *Session) Submit(ctx context.Context, text string) (Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, ErrEmptyUtterance
	}

	s.mu.Lock()
	if s.state == StateAwaiting {
		s.mu.Unlock()
		return Turn{}, ErrBusy
	}
	s.log = append(s.log, domain.ChatMessage{Role: domain.RoleUser, Content: text, CreatedAt: s.now()})
	s.state = StateAwaiting
	s.mu.Unlock()

	reply, outcome := s.ask(ctx, text)
	repliesTotal.WithLabelValues(outcome).Inc()

	s.mu.Lock()
	defer s.mu.Unlock()
	reply.CreatedAt = s.now()
	s.log = append(s.log, reply)
	s.state = StateIdle
	return Turn{Index: len(s.log) - 1, Message: reply}, nil
}

func (s *Session) ask(ctx context.Context, text string) (domain.ChatMessage, string) {
	ctx, span := otel.Tracer("scout/Session").Start(ctx, "Submit",
		trace.WithAttributes(attribute.Int("utterance.len", len(text))),
	)
	defer span.End()

	prompt, err := s.prompts.Build(text)
	if err == nil {
		start := time.Now()
		var raw string
		raw, err = s.provider.Generate(ctx, Request{Prompt: prompt, Utterance: text})
		providerLatency.Observe(time.Since(start).Seconds())
		if err == nil {
			rec := ParseRecommendation(raw)
			if rec.Text == "" && rec.ProductID == "" {
				return domain.ChatMessage{Role: domain.RoleAssistant, Content: GlitchReply}, outcomeEmpty
			}
			span.SetAttributes(attribute.String("recommendation.id", rec.ProductID))
			msg := domain.ChatMessage{Role: domain.RoleAssistant, Content: rec.Text, RecommendedID: rec.ProductID}
			if rec.ProductID != "" {
				return msg, outcomeRecommendation
			}
			return msg, outcomePlain
		}
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "provider failed")
	s.logger.Warn().Err(err).Msg("scout provider failed")
	return domain.ChatMessage{Role: domain.RoleAssistant, Content: FallbackReply}, outcomeError
}

// Messages returns a copy of the log in order.
func (s *Session) Messages() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatMessage, len(s.log))
	copy(out, s.log)
	return out
}

// State reports whether a request is outstanding.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
