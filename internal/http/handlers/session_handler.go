// Session HTTP handlers.
//
//   - POST   /sessions       (start a session: empty cart + greeting)
//   - DELETE /sessions/{id}  (end a session)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-keynexus/internal/cart"
)

// SessionResponse is a freshly created session.
type SessionResponse struct {
	ID       string        `json:"id" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	Messages []MessageDTO  `json:"messages"`
	Cart     cart.Snapshot `json:"cart"`
}

// CreateSession godoc
// @ID          createSession
// @Summary     Start a storefront session
// @Description Creates a session with an empty cart and an assistant greeting.
// @Tags        Sessions
// @Produce     json
// @Success     201  {object}  handlers.SessionResponse
// @Failure     503  {object}  handlers.ErrorResponse "Too many sessions"
// @Router      /sessions [post]
func (h *Handlers) CreateSession(c *gin.Context) {
	ctx := c.Request.Context()
	sess, err := h.sessions.Create(ctx)
	if err != nil {
		failService(c, err)
		return
	}
	entries, _, err := h.scout.Transcript(ctx, sess.ID)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, SessionResponse{
		ID:       sess.ID,
		Messages: toMessageDTOs(entries),
		Cart:     sess.Cart.Snapshot(),
	})
}

// DeleteSession godoc
// @ID          deleteSession
// @Summary     End a session
// @Tags        Sessions
// @Param       id   path  string  true  "Session ID"  format(uuid)
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse "Session not found"
// @Router      /sessions/{id} [delete]
func (h *Handlers) DeleteSession(c *gin.Context) {
	if !h.sessions.Delete(c.Param("id")) {
		fail(c, http.StatusNotFound, ErrCodeSessionNotFound, "session not found")
		return
	}
	noContent(c)
}
