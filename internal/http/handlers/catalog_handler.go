// Catalog HTTP handlers.
//
//   - GET /catalog/facets    (genres, platforms, regions)
//   - GET /products          (filtered, paginated, ETag support)
//   - GET /products/{id}
package handlers

import (
	"fmt"
	"hash/fnv"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-keynexus/internal/catalog"
	"github.com/tbourn/go-keynexus/internal/domain"
)

// ListProductsResponse wraps a page of products. Filtered is true when a
// query or genre narrowed the listing, so an empty page can be told apart
// from the featured (unfiltered) catalog.
type ListProductsResponse struct {
	Products   []domain.Product `json:"products"`
	Filtered   bool             `json:"filtered"`
	Pagination Pagination       `json:"pagination"`
}

// Facets godoc
// @ID          getFacets
// @Summary     Catalog facets
// @Description Lists the genres, platforms and regions used by the catalog.
// @Tags        Catalog
// @Produce     json
// @Success     200  {object}  services.Facets
// @Router      /catalog/facets [get]
func (h *Handlers) Facets(c *gin.Context) {
	ok(c, http.StatusOK, h.catalog.Facets())
}

// ListProducts godoc
// @ID          listProducts
// @Summary     Browse the catalog
// @Description Filters products by a case-insensitive title substring and a genre, preserving catalog order.
// @Description Unknown genres are ignored. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Catalog
// @Produce     json
//
// @Param       q              query   string  false "Title substring"             example(ring)
// @Param       genre          query   string  false "Genre or All"                example(RPG)
// @Param       page           query   int     false "Page number"                 minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"              minimum(1) maximum(100) default(20)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object} handlers.ListProductsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Router      /products [get]
func (h *Handlers) ListProducts(c *gin.Context) {
	// An unrecognized genre is dropped rather than rejected.
	genre, err := catalog.ParseGenreSelector(c.Query("genre"))
	if err != nil {
		genre = domain.GenreAll
	}
	criteria := catalog.Criteria{Query: c.Query("q"), Genre: genre}
	page, pageSize := clampPagination(c)

	etag := productsETag(h.catalog.Version(), criteria, page, pageSize)
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return
	}

	res := h.catalog.Browse(c.Request.Context(), criteria, page, pageSize)
	ok(c, http.StatusOK, ListProductsResponse{
		Products:   res.Items,
		Filtered:   res.Filtered,
		Pagination: newPagination(res.Page, res.PageSize, res.Total),
	})
}

// GetProduct godoc
// @ID          getProduct
// @Summary     Get a product
// @Tags        Catalog
// @Produce     json
// @Param       id   path      string  true  "Product ID"  example(er1)
// @Success     200  {object}  domain.Product
// @Failure     404  {object}  handlers.ErrorResponse "Product not found"
// @Router      /products/{id} [get]
func (h *Handlers) GetProduct(c *gin.Context) {
	p, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// productsETag keys a listing by catalog version and request shape. The
// free-text query is hashed so the tag stays header-safe.
func productsETag(version string, c catalog.Criteria, page, pageSize int) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s\x00%s\x00%d\x00%d", c.Query, c.Genre, page, pageSize)
	return fmt.Sprintf(`W/"products:%s:%x"`, version, h.Sum64())
}
