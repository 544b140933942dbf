// Package domain defines the storefront data model: catalog products, cart
// lines, scout chat messages and the idempotency records kept for scout
// submissions. Products and idempotency records are mapped with GORM; cart
// lines and chat messages only ever live in memory.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidProduct is wrapped by Product.Validate failures.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrUnknownValue is wrapped when an enum value cannot be parsed.
	ErrUnknownValue = errors.New("unknown value")
)

// Product is an immutable catalog record for a single game key.
//
// Fields:
//   - ID: unique catalog identifier, also used in scout recommendation markers.
//   - Price / OriginalPrice: unit price and pre-discount price (Price <= OriginalPrice).
//   - Discount: whole percentage 0..100, consistent with the two prices.
//   - Position: catalog order; listings and filters preserve it.
type Product struct {
	ID            string          `json:"id"             gorm:"type:varchar(64);primaryKey"`
	Title         string          `json:"title"          gorm:"type:varchar(255);not null"`
	Description   string          `json:"description"    gorm:"type:text"`
	Price         decimal.Decimal `json:"price"          gorm:"type:decimal(10,2);not null"`
	OriginalPrice decimal.Decimal `json:"original_price" gorm:"type:decimal(10,2);not null"`
	Discount      int             `json:"discount"       gorm:"not null;default:0"`
	Platform      Platform        `json:"platform"       gorm:"type:varchar(32);not null"`
	Genre         Genre           `json:"genre"          gorm:"type:varchar(32);not null;index"`
	ImageURL      string          `json:"image_url"      gorm:"type:varchar(512)"`
	Rating        float64         `json:"rating"`
	ReleaseYear   int             `json:"release_year"`
	Region        Region          `json:"region"         gorm:"type:varchar(16);not null"`
	Position      int             `json:"-"              gorm:"not null;index"`
	CreatedAt     time.Time       `json:"-"`
	UpdatedAt     time.Time       `json:"-"`
}

// TableName returns the database table name for Product.
func (Product) TableName() string { return "products" }

// Validate checks the record invariants of a catalog product.
func (p Product) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w %q: %s", ErrInvalidProduct, p.ID, fmt.Sprintf(format, args...))
	}
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidProduct)
	}
	if strings.TrimSpace(p.Title) == "" {
		return bad("empty title")
	}
	if p.Price.IsNegative() {
		return bad("negative price")
	}
	if p.OriginalPrice.LessThan(p.Price) {
		return bad("original price %s below price %s", p.OriginalPrice, p.Price)
	}
	if p.Discount < 0 || p.Discount > 100 {
		return bad("discount %d out of range", p.Discount)
	}
	if want := p.ComputedDiscount(); absInt(want-p.Discount) > 1 {
		return bad("discount %d inconsistent with prices (expected %d)", p.Discount, want)
	}
	if !p.Platform.IsValid() {
		return bad("unknown platform %q", p.Platform)
	}
	if !p.Genre.IsValid() {
		return bad("unknown genre %q", p.Genre)
	}
	if !p.Region.IsValid() {
		return bad("unknown region %q", p.Region)
	}
	return nil
}

// ComputedDiscount is the rounded percentage drop from OriginalPrice to Price.
func (p Product) ComputedDiscount() int {
	if !p.OriginalPrice.IsPositive() {
		return 0
	}
	drop := p.OriginalPrice.Sub(p.Price).Div(p.OriginalPrice).Mul(decimal.NewFromInt(100))
	return int(drop.Round(0).IntPart())
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// CartLine is one product in a cart together with its quantity. The display
// fields are copied from the product when the line is created so the cart
// keeps rendering even if the catalog changes underneath it.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Title     string          `json:"title"`
	Platform  Platform        `json:"platform"`
	Region    Region          `json:"region"`
	Genre     Genre           `json:"genre"`
	ImageURL  string          `json:"image_url"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// NewCartLine snapshots p into a line with quantity 1.
func NewCartLine(p Product) CartLine {
	return CartLine{
		ProductID: p.ID,
		Quantity:  1,
		Title:     p.Title,
		Platform:  p.Platform,
		Region:    p.Region,
		Genre:     p.Genre,
		ImageURL:  p.ImageURL,
		UnitPrice: p.Price,
	}
}

// LineTotal returns unit price × quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ChatMessage is one turn of a scout dialogue. RecommendedID is set only on
// assistant messages whose reply carried a recommendation marker.
type ChatMessage struct {
	Role          Role      `json:"role"`
	Content       string    `json:"content"`
	RecommendedID string    `json:"recommended_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
