// Shopping-assistant HTTP handlers.
//
//   - GET  /sessions/{id}/scout/messages                 (transcript + state)
//   - POST /sessions/{id}/scout/messages                 (one assistant turn)
//   - POST /sessions/{id}/scout/messages/{index}/cart    (add the recommended product)
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a reply was already
// produced for that key in the same session, the stored reply is returned
// with `Idempotency-Replayed: true` and the provider is not called again.
// Fallback replies are not stored.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-keynexus/internal/domain"
	"github.com/tbourn/go-keynexus/internal/http/middleware"
	"github.com/tbourn/go-keynexus/internal/scout"
	"github.com/tbourn/go-keynexus/internal/services"
)

// MessageDTO is one transcript message. Product is set when the assistant
// recommended a product that exists in the catalog.
type MessageDTO struct {
	Index         int             `json:"index" example:"2"`
	Role          domain.Role     `json:"role" example:"assistant"`
	Content       string          `json:"content" example:"Elden Ring is a must-play!"`
	RecommendedID string          `json:"recommended_id,omitempty" example:"er1"`
	Product       *domain.Product `json:"product,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TranscriptResponse is a session's dialogue. State is "awaiting" while a
// reply is being generated.
type TranscriptResponse struct {
	State    string       `json:"state" example:"idle"`
	Messages []MessageDTO `json:"messages"`
}

// PostScoutMessageRequest is a shopper's message to the assistant.
type PostScoutMessageRequest struct {
	Content string `json:"content" example:"Recommend me a good RPG"`
}

func toMessageDTO(e services.TranscriptEntry) MessageDTO {
	return MessageDTO{
		Index:         e.Index,
		Role:          e.Message.Role,
		Content:       e.Message.Content,
		RecommendedID: e.Message.RecommendedID,
		Product:       e.Product,
		CreatedAt:     e.Message.CreatedAt,
	}
}

func toMessageDTOs(entries []services.TranscriptEntry) []MessageDTO {
	out := make([]MessageDTO, len(entries))
	for i, e := range entries {
		out[i] = toMessageDTO(e)
	}
	return out
}

// ListScoutMessages godoc
// @ID          listScoutMessages
// @Summary     Assistant transcript
// @Tags        Scout
// @Produce     json
// @Param       id   path      string  true  "Session ID"  format(uuid)
// @Success     200  {object}  handlers.TranscriptResponse
// @Failure     404  {object}  handlers.ErrorResponse "Session not found"
// @Router      /sessions/{id}/scout/messages [get]
func (h *Handlers) ListScoutMessages(c *gin.Context) {
	entries, state, err := h.scout.Transcript(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, TranscriptResponse{State: state.String(), Messages: toMessageDTOs(entries)})
}

// PostScoutMessage godoc
// @ID          postScoutMessage
// @Summary     Ask the shopping assistant
// @Description Runs one assistant turn and returns the reply. Blank messages are ignored (204).
// @Description A message sent while a reply is pending is rejected (409).
// @Description Supports idempotency via the Idempotency-Key header (same key → same reply).
// @Tags        Scout
// @Accept      json
// @Produce     json
// @Param       id               path    string  true  "Session ID"  format(uuid)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.PostScoutMessageRequest  true  "Shopper message"
// @Success     200  {object}  handlers.MessageDTO  "Assistant reply"
// @Success     204  {string}  string "Blank message ignored"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Session not found"
// @Failure     409  {object}  handlers.ErrorResponse "Assistant busy"
// @Router      /sessions/{id}/scout/messages [post]
func (h *Handlers) PostScoutMessage(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	var req PostScoutMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	// Replay path.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" && h.replays != nil {
		if payload, found := h.replays.Lookup(ctx, sessionID, idemKey); found {
			c.Header("Idempotency-Replayed", "true")
			c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
			return
		}
	}

	entry, err := h.scout.Send(ctx, sessionID, req.Content)
	if err != nil {
		if errors.Is(err, services.ErrEmptyUtterance) {
			noContent(c)
			return
		}
		failService(c, err)
		return
	}

	payload, err := json.Marshal(toMessageDTO(entry))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	// Store path, best effort. A fallback is not stored so a retry with the
	// same key reaches the provider again.
	if idemKey != "" && h.replays != nil && entry.Message.Content != scout.FallbackReply {
		h.replays.Save(ctx, sessionID, idemKey, http.StatusOK, payload)
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// AddRecommendationToCart godoc
// @ID          addRecommendationToCart
// @Summary     Add a recommended product to the cart
// @Description Adds the product recommended by transcript message {index} and opens the cart view.
// @Tags        Scout
// @Produce     json
// @Param       id     path      string  true  "Session ID"  format(uuid)
// @Param       index  path      int     true  "Transcript index"  minimum(0)
// @Success     200    {object}  cart.Snapshot
// @Failure     400    {object}  handlers.ErrorResponse "Bad request"
// @Failure     404    {object}  handlers.ErrorResponse "Session or message not found"
// @Failure     409    {object}  handlers.ErrorResponse "Message has no recommendation"
// @Router      /sessions/{id}/scout/messages/{index}/cart [post]
func (h *Handlers) AddRecommendationToCart(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "index must be a non-negative integer")
		return
	}
	snap, err := h.scout.AddRecommendation(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, snap)
}
