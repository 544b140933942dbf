// Cart HTTP handlers. Every endpoint answers with the full cart snapshot
// (lines, item count, subtotal, total, open flag).
//
//   - GET    /sessions/{id}/cart
//   - POST   /sessions/{id}/cart/items
//   - PATCH  /sessions/{id}/cart/items/{productId}
//   - DELETE /sessions/{id}/cart/items/{productId}
//   - DELETE /sessions/{id}/cart
//   - PUT    /sessions/{id}/cart/visibility
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest adds one unit of a product.
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required" example:"er1"`
}

// AdjustCartItemRequest changes a line's quantity by Delta (clamped at 1).
type AdjustCartItemRequest struct {
	Delta *int `json:"delta" binding:"required" example:"-1"`
}

// CartVisibilityRequest opens or closes the cart view.
type CartVisibilityRequest struct {
	Open *bool `json:"open" binding:"required" example:"false"`
}

// GetCart godoc
// @ID          getCart
// @Summary     View the cart
// @Tags        Cart
// @Produce     json
// @Param       id   path      string  true  "Session ID"  format(uuid)
// @Success     200  {object}  cart.Snapshot
// @Failure     404  {object}  handlers.ErrorResponse "Session not found"
// @Router      /sessions/{id}/cart [get]
func (h *Handlers) GetCart(c *gin.Context) {
	snap, err := h.cart.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, snap)
}

// AddCartItem godoc
// @ID          addCartItem
// @Summary     Add a product to the cart
// @Description Adds one unit (incrementing an existing line) and opens the cart view.
// @Tags        Cart
// @Accept      json
// @Produce     json
// @Param       id    path      string                        true  "Session ID"  format(uuid)
// @Param       body  body      handlers.AddCartItemRequest  true  "Product to add"
// @Success     200   {object}  cart.Snapshot
// @Failure     400   {object}  handlers.ErrorResponse "Bad request"
// @Failure     404   {object}  handlers.ErrorResponse "Session or product not found"
// @Router      /sessions/{id}/cart/items [post]
func (h *Handlers) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ProductID) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "product_id required")
		return
	}
	snap, err := h.cart.Add(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.ProductID))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, snap)
}

// AdjustCartItem godoc
// @ID          adjustCartItem
// @Summary     Change a line's quantity
// @Description New quantity is max(1, quantity+delta). Unknown products are ignored.
// @Tags        Cart
// @Accept      json
// @Produce     json
// @Param       id         path      string                           true  "Session ID"  format(uuid)
// @Param       productId  path      string                           true  "Product ID"
// @Param       body       body      handlers.AdjustCartItemRequest  true  "Quantity delta"
// @Success     200        {object}  cart.Snapshot
// @Failure     400        {object}  handlers.ErrorResponse "Bad request"
// @Failure     404        {object}  handlers.ErrorResponse "Session not found"
// @Router      /sessions/{id}/cart/items/{productId} [patch]
func (h *Handlers) AdjustCartItem(c *gin.Context) {
	var req AdjustCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Delta == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "delta required")
		return
	}
	snap, err := h.cart.Adjust(c.Request.Context(), c.Param("id"), c.Param("productId"), *req.Delta)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, snap)
}

// RemoveCartItem godoc
// @ID          removeCartItem
// @Summary     Remove a line
// @Tags        Cart
// @Produce     json
// @Param       id         path      string  true  "Session ID"  format(uuid)
// @Param       productId  path      string  true  "Product ID"
// @Success     200        {object}  cart.Snapshot
// @Failure     404        {object}  handlers.ErrorResponse "Session not found"
// @Router      /sessions/{id}/cart/items/{productId} [delete]
func (h *Handlers) RemoveCartItem(c *gin.Context) {
	snap, err := h.cart.Remove(c.Request.Context(), c.Param("id"), c.Param("productId"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, snap)
}

// ClearCart godoc
// @ID          clearCart
// @Summary     Empty the cart
// @Tags        Cart
// @Produce     json
// @Param       id   path      string  true  "Session ID"  format(uuid)
// @Success     200  {object}  cart.Snapshot
// @Failure     404  {object}  handlers.ErrorResponse "Session not found"
// @Router      /sessions/{id}/cart [delete]
func (h *Handlers) ClearCart(c *gin.Context) {
	snap, err := h.cart.Clear(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, snap)
}

// SetCartVisibility godoc
// @ID          setCartVisibility
// @Summary     Open or close the cart view
// @Tags        Cart
// @Accept      json
// @Produce     json
// @Param       id    path      string                          true  "Session ID"  format(uuid)
// @Param       body  body      handlers.CartVisibilityRequest  true  "Visibility"
// @Success     200   {object}  cart.Snapshot
// @Failure     400   {object}  handlers.ErrorResponse "Bad request"
// @Failure     404   {object}  handlers.ErrorResponse "Session not found"
// @Router      /sessions/{id}/cart/visibility [put]
func (h *Handlers) SetCartVisibility(c *gin.Context) {
	var req CartVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Open == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "open required")
		return
	}
	snap, err := h.cart.SetOpen(c.Request.Context(), c.Param("id"), *req.Open)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, snap)
}
