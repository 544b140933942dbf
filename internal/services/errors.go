// Package services holds the storefront's application logic: shopper
// sessions, catalog browsing, the cart, and the shopping assistant. This file
// centralizes service-level error values so handlers can map them to HTTP
// results consistently.
package services

import (
	"errors"

	"github.com/tbourn/go-keynexus/internal/scout"
)

var (
	// ErrSessionNotFound indicates an unknown or expired session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTooManySessions is returned when the session cap is reached.
	ErrTooManySessions = errors.New("too many active sessions")

	// ErrProductNotFound indicates a product id absent from the catalog.
	ErrProductNotFound = errors.New("product not found")

	// ErrTooLong is returned when an assistant message exceeds the
	// configured rune limit.
	ErrTooLong = errors.New("message too long")

	// ErrMessageNotFound indicates a transcript index out of range.
	ErrMessageNotFound = errors.New("message not found")

	// ErrNoRecommendation is returned when a transcript message carries no
	// product recommendation that exists in the catalog.
	ErrNoRecommendation = errors.New("message has no recommendation")
)

// Dialogue errors surfaced unchanged from the scout session.
var (
	ErrEmptyUtterance = scout.ErrEmptyUtterance
	ErrBusy           = scout.ErrBusy
)
