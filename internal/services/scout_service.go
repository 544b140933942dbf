package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-keynexus/internal/cart"
	"github.com/tbourn/go-keynexus/internal/catalog"
	"github.com/tbourn/go-keynexus/internal/domain"
	"github.com/tbourn/go-keynexus/internal/scout"
)

// TranscriptEntry is one message of a dialogue with its recommendation
// resolved against the catalog. A recommended id that is not in the catalog
// is cleared and Product stays nil.
type TranscriptEntry struct {
	Index   int
	Message domain.ChatMessage
	Product *domain.Product
}

// ScoutService runs assistant turns for sessions and exposes their
// transcripts.
type ScoutService struct {
	Sessions *SessionStore
	Catalog  *catalog.Store

	// MaxRunes caps an accepted message; 0 disables the check.
	MaxRunes int
	// Timeout bounds one provider call; 0 leaves it to the transport.
	Timeout time.Duration
}

// Send submits text to the session's assistant and returns the reply. The
// provider call is detached from ctx's cancellation: a client that goes away
// does not abort the turn, so the reply still lands in the transcript.
func (s *ScoutService) Send(ctx context.Context, sessionID, text string) (TranscriptEntry, error) {
	ctx, span := otel.Tracer("services/Scout").Start(ctx, "Send",
		trace.WithAttributes(attribute.String("session.id", sessionID)),
	)
	defer span.End()

	if s.MaxRunes > 0 && utf8.RuneCountInString(strings.TrimSpace(text)) > s.MaxRunes {
		return TranscriptEntry{}, ErrTooLong
	}
	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return TranscriptEntry{}, err
	}

	callCtx := context.WithoutCancel(ctx)
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, s.Timeout)
		defer cancel()
	}
	turn, err := sess.Scout.Submit(callCtx, text)
	if err != nil {
		return TranscriptEntry{}, err
	}
	entry := s.resolve(turn.Index, turn.Message)
	if entry.Product != nil {
		span.SetAttributes(attribute.String("recommendation.id", entry.Product.ID))
	}
	return entry, nil
}

// Transcript returns the session's dialogue and whether a reply is pending.
func (s *ScoutService) Transcript(ctx context.Context, sessionID string) ([]TranscriptEntry, scout.State, error) {
	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, scout.StateIdle, err
	}
	msgs := sess.Scout.Messages()
	out := make([]TranscriptEntry, len(msgs))
	for i, m := range msgs {
		out[i] = s.resolve(i, m)
	}
	return out, sess.Scout.State(), nil
}

// AddRecommendation adds the product recommended by transcript message index
// to the session's cart.
func (s *ScoutService) AddRecommendation(ctx context.Context, sessionID string, index int) (cart.Snapshot, error) {
	_, span := otel.Tracer("services/Scout").Start(ctx, "AddRecommendation",
		trace.WithAttributes(attribute.String("session.id", sessionID), attribute.Int("message.index", index)),
	)
	defer span.End()

	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return cart.Snapshot{}, err
	}
	msgs := sess.Scout.Messages()
	if index < 0 || index >= len(msgs) {
		return cart.Snapshot{}, ErrMessageNotFound
	}
	entry := s.resolve(index, msgs[index])
	if entry.Product == nil {
		return cart.Snapshot{}, ErrNoRecommendation
	}
	sess.Cart.Add(*entry.Product)
	return sess.Cart.Snapshot(), nil
}

func (s *ScoutService) resolve(index int, m domain.ChatMessage) TranscriptEntry {
	e := TranscriptEntry{Index: index, Message: m}
	if m.RecommendedID == "" {
		return e
	}
	if p, ok := s.Catalog.Get(m.RecommendedID); ok {
		e.Product = &p
	} else {
		e.Message.RecommendedID = ""
	}
	return e
}
