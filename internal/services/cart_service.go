package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-keynexus/internal/cart"
	"github.com/tbourn/go-keynexus/internal/catalog"
)

// CartService applies cart operations to a session's cart. Operations on
// product ids that are not in the cart are no-ops, not errors.
type CartService struct {
	Sessions *SessionStore
	Catalog  *catalog.Store
}

func (s *CartService) withCart(ctx context.Context, op, sessionID string, attrs ...attribute.KeyValue) (*cart.Cart, trace.Span, error) {
	_, span := otel.Tracer("services/Cart").Start(ctx, op,
		trace.WithAttributes(append(attrs, attribute.String("session.id", sessionID))...),
	)
	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		span.End()
		return nil, nil, err
	}
	return sess.Cart, span, nil
}

// View returns the cart contents and totals.
func (s *CartService) View(ctx context.Context, sessionID string) (cart.Snapshot, error) {
	c, span, err := s.withCart(ctx, "View", sessionID)
	if err != nil {
		return cart.Snapshot{}, err
	}
	defer span.End()
	return c.Snapshot(), nil
}

// Add puts one unit of productID into the cart and opens the cart view.
func (s *CartService) Add(ctx context.Context, sessionID, productID string) (cart.Snapshot, error) {
	c, span, err := s.withCart(ctx, "Add", sessionID, attribute.String("product.id", productID))
	if err != nil {
		return cart.Snapshot{}, err
	}
	defer span.End()

	p, ok := s.Catalog.Get(productID)
	if !ok {
		return cart.Snapshot{}, ErrProductNotFound
	}
	c.Add(p)
	return c.Snapshot(), nil
}

// Adjust changes a line's quantity by delta, never below 1.
func (s *CartService) Adjust(ctx context.Context, sessionID, productID string, delta int) (cart.Snapshot, error) {
	c, span, err := s.withCart(ctx, "Adjust", sessionID,
		attribute.String("product.id", productID), attribute.Int("delta", delta))
	if err != nil {
		return cart.Snapshot{}, err
	}
	defer span.End()
	c.AdjustQuantity(productID, delta)
	return c.Snapshot(), nil
}

// Remove deletes a line.
func (s *CartService) Remove(ctx context.Context, sessionID, productID string) (cart.Snapshot, error) {
	c, span, err := s.withCart(ctx, "Remove", sessionID, attribute.String("product.id", productID))
	if err != nil {
		return cart.Snapshot{}, err
	}
	defer span.End()
	c.Remove(productID)
	return c.Snapshot(), nil
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) (cart.Snapshot, error) {
	c, span, err := s.withCart(ctx, "Clear", sessionID)
	if err != nil {
		return cart.Snapshot{}, err
	}
	defer span.End()
	c.Clear()
	return c.Snapshot(), nil
}

// SetOpen shows or hides the cart view.
func (s *CartService) SetOpen(ctx context.Context, sessionID string, open bool) (cart.Snapshot, error) {
	c, span, err := s.withCart(ctx, "SetOpen", sessionID, attribute.Bool("open", open))
	if err != nil {
		return cart.Snapshot{}, err
	}
	defer span.End()
	if open {
		c.Open()
	} else {
		c.Close()
	}
	return c.Snapshot(), nil
}
