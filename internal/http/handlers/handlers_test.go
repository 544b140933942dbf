package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-keynexus/internal/cart"
	"github.com/tbourn/go-keynexus/internal/catalog"
	"github.com/tbourn/go-keynexus/internal/domain"
	"github.com/tbourn/go-keynexus/internal/http/middleware"
	"github.com/tbourn/go-keynexus/internal/repo"
	"github.com/tbourn/go-keynexus/internal/scout"
	"github.com/tbourn/go-keynexus/internal/services"
)

// ---------- test plumbing ----------

type testEnv struct {
	r        *gin.Engine
	calls    *atomic.Int32
	sessions *services.SessionStore
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testProduct(id, title string, genre domain.Genre, price int64) domain.Product {
	return domain.Product{
		ID: id, Title: title, Genre: genre,
		Price: decimal.NewFromInt(price), OriginalPrice: decimal.NewFromInt(price),
		Platform: domain.PlatformSteam, Region: domain.RegionGlobal,
	}
}

// newEnv wires real services around reply, which answers every scout turn.
func newEnv(t *testing.T, reply func(scout.Request) (string, error)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := catalog.NewStore([]domain.Product{
		testProduct("g1", "Nova Strike", domain.GenreAction, 10),
		testProduct("g2", "Star Quest", domain.GenreRPG, 20),
		testProduct("g3", "Nova Legends", domain.GenreRPG, 30),
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	calls := &atomic.Int32{}
	provider := scout.ProviderFunc(func(_ context.Context, r scout.Request) (string, error) {
		calls.Add(1)
		return reply(r)
	})
	prompts := scout.NewPromptBuilder(store.All(), "")
	sessions := services.NewSessionStore(func() *scout.Session {
		return scout.NewSession(provider, prompts, scout.WithLogger(zerolog.Nop()))
	}, time.Hour, 0)

	h := New(
		&services.CatalogService{Store: store},
		sessions,
		&services.CartService{Sessions: sessions, Catalog: store},
		&services.ScoutService{Sessions: sessions, Catalog: store, MaxRunes: 50},
		services.NewReplayStore(newTestDB(t), time.Hour),
	)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil))
	r.GET("/catalog/facets", h.Facets)
	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.GetProduct)
	r.POST("/sessions", h.CreateSession)
	r.DELETE("/sessions/:id", h.DeleteSession)
	r.GET("/sessions/:id/cart", h.GetCart)
	r.DELETE("/sessions/:id/cart", h.ClearCart)
	r.POST("/sessions/:id/cart/items", h.AddCartItem)
	r.PATCH("/sessions/:id/cart/items/:productId", h.AdjustCartItem)
	r.DELETE("/sessions/:id/cart/items/:productId", h.RemoveCartItem)
	r.PUT("/sessions/:id/cart/visibility", h.SetCartVisibility)
	r.GET("/sessions/:id/scout/messages", h.ListScoutMessages)
	r.POST("/sessions/:id/scout/messages", h.PostScoutMessage)
	r.POST("/sessions/:id/scout/messages/:index/cart", h.AddRecommendationToCart)

	return &testEnv{r: r, calls: calls, sessions: sessions}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, isStr := body.(string); isStr {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func (e *testEnv) newSession(t *testing.T) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create session status=%d body=%s", w.Code, w.Body)
	}
	return decode[SessionResponse](t, w).ID
}

func fixed(text string) func(scout.Request) (string, error) {
	return func(scout.Request) (string, error) { return text, nil }
}

// ---------- catalog ----------

func TestListProducts_FilterPaginationAndETag(t *testing.T) {
	e := newEnv(t, fixed("hi"))

	w := e.do(t, http.MethodGet, "/products?q=NOVA&genre=rpg", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	resp := decode[ListProductsResponse](t, w)
	if !resp.Filtered || len(resp.Products) != 1 || resp.Products[0].ID != "g3" || resp.Pagination.Total != 1 {
		t.Fatalf("resp = %+v", resp)
	}

	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	w = e.do(t, http.MethodGet, "/products?q=NOVA&genre=rpg", nil, "If-None-Match", etag)
	if w.Code != http.StatusNotModified {
		t.Fatalf("conditional GET status=%d", w.Code)
	}
	w = e.do(t, http.MethodGet, "/products?q=nova", nil, "If-None-Match", etag)
	if w.Code != http.StatusOK {
		t.Fatalf("different criteria must not match ETag, status=%d", w.Code)
	}

	w = e.do(t, http.MethodGet, "/products?page=2&page_size=2", nil)
	resp = decode[ListProductsResponse](t, w)
	if resp.Filtered || len(resp.Products) != 1 || resp.Products[0].ID != "g3" || resp.Pagination.HasNext {
		t.Fatalf("page 2 = %+v", resp)
	}
}

func TestListProducts_EmptyResultAndUnknownGenre(t *testing.T) {
	e := newEnv(t, fixed("hi"))

	resp := decode[ListProductsResponse](t, e.do(t, http.MethodGet, "/products?q=zzz", nil))
	if !resp.Filtered || resp.Products == nil || len(resp.Products) != 0 {
		t.Fatalf("empty search = %+v", resp)
	}

	resp = decode[ListProductsResponse](t, e.do(t, http.MethodGet, "/products?genre=Puzzle", nil))
	if len(resp.Products) != 3 {
		t.Fatalf("unknown genre should be ignored, got %d products", len(resp.Products))
	}
}

func TestGetProductAndFacets(t *testing.T) {
	e := newEnv(t, fixed("hi"))

	w := e.do(t, http.MethodGet, "/products/g2", nil)
	if w.Code != http.StatusOK || decode[domain.Product](t, w).Title != "Star Quest" {
		t.Fatalf("get product status=%d body=%s", w.Code, w.Body)
	}
	w = e.do(t, http.MethodGet, "/products/nope", nil)
	if w.Code != http.StatusNotFound || decode[ErrorResponse](t, w).Code != ErrCodeProductNotFound {
		t.Fatalf("missing product status=%d body=%s", w.Code, w.Body)
	}

	f := decode[services.Facets](t, e.do(t, http.MethodGet, "/catalog/facets", nil))
	if len(f.Genres) != len(domain.Genres) {
		t.Fatalf("facets = %+v", f)
	}
}

// ---------- sessions + cart ----------

func TestCreateSession_GreetingAndEmptyCart(t *testing.T) {
	e := newEnv(t, fixed("hi"))
	w := e.do(t, http.MethodPost, "/sessions", nil)
	resp := decode[SessionResponse](t, w)
	if resp.ID == "" || len(resp.Messages) != 1 || resp.Messages[0].Content != scout.Greeting {
		t.Fatalf("session = %+v", resp)
	}
	if len(resp.Cart.Lines) != 0 || resp.Cart.Open {
		t.Fatalf("cart = %+v", resp.Cart)
	}

	if w := e.do(t, http.MethodDelete, "/sessions/"+resp.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", w.Code)
	}
	if w := e.do(t, http.MethodDelete, "/sessions/"+resp.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete status=%d", w.Code)
	}
}

func TestCartFlow(t *testing.T) {
	e := newEnv(t, fixed("hi"))
	sid := e.newSession(t)
	base := "/sessions/" + sid + "/cart"

	e.do(t, http.MethodPost, base+"/items", AddCartItemRequest{ProductID: "g1"})
	e.do(t, http.MethodPost, base+"/items", AddCartItemRequest{ProductID: "g2"})
	w := e.do(t, http.MethodPatch, base+"/items/g1", `{"delta":1}`)
	snap := decode[cart.Snapshot](t, w)
	if w.Code != http.StatusOK || snap.ItemCount != 3 || !snap.Total.Equal(decimal.NewFromInt(40)) || !snap.Open {
		t.Fatalf("status=%d snapshot=%+v", w.Code, snap)
	}

	snap = decode[cart.Snapshot](t, e.do(t, http.MethodPatch, base+"/items/g2", `{"delta":-100}`))
	if snap.Lines[1].Quantity != 1 {
		t.Fatalf("clamp failed: %+v", snap.Lines[1])
	}
	if w := e.do(t, http.MethodPatch, base+"/items/g2", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing delta status=%d", w.Code)
	}

	snap = decode[cart.Snapshot](t, e.do(t, http.MethodPut, base+"/visibility", `{"open":false}`))
	if snap.Open {
		t.Fatal("cart should be closed")
	}
	snap = decode[cart.Snapshot](t, e.do(t, http.MethodDelete, base+"/items/g1", nil))
	if len(snap.Lines) != 1 {
		t.Fatalf("after remove = %+v", snap)
	}
	snap = decode[cart.Snapshot](t, e.do(t, http.MethodDelete, base, nil))
	if len(snap.Lines) != 0 {
		t.Fatalf("after clear = %+v", snap)
	}
	if w := e.do(t, http.MethodGet, base, nil); w.Code != http.StatusOK {
		t.Fatalf("get cart status=%d", w.Code)
	}
}

func TestCartErrors(t *testing.T) {
	e := newEnv(t, fixed("hi"))
	sid := e.newSession(t)

	w := e.do(t, http.MethodPost, "/sessions/"+sid+"/cart/items", AddCartItemRequest{ProductID: "ghost"})
	if w.Code != http.StatusNotFound || decode[ErrorResponse](t, w).Code != ErrCodeProductNotFound {
		t.Fatalf("unknown product status=%d body=%s", w.Code, w.Body)
	}
	if w := e.do(t, http.MethodPost, "/sessions/"+sid+"/cart/items", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing product_id status=%d", w.Code)
	}
	w = e.do(t, http.MethodGet, "/sessions/nope/cart", nil)
	if w.Code != http.StatusNotFound || decode[ErrorResponse](t, w).Code != ErrCodeSessionNotFound {
		t.Fatalf("unknown session status=%d body=%s", w.Code, w.Body)
	}
}

// ---------- scout ----------

func TestPostScoutMessage_RecommendationAndAddToCart(t *testing.T) {
	e := newEnv(t, fixed("Star Quest is great! [RECOMMEND_ID:g2]"))
	sid := e.newSession(t)
	base := "/sessions/" + sid + "/scout/messages"

	w := e.do(t, http.MethodPost, base, PostScoutMessageRequest{Content: "best rpg?"})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body)
	}
	msg := decode[MessageDTO](t, w)
	if msg.Index != 2 || msg.Content != "Star Quest is great!" || msg.Product == nil || msg.Product.ID != "g2" {
		t.Fatalf("reply = %+v", msg)
	}

	w = e.do(t, http.MethodPost, fmt.Sprintf("%s/%d/cart", base, msg.Index), nil)
	snap := decode[cart.Snapshot](t, w)
	if w.Code != http.StatusOK || len(snap.Lines) != 1 || snap.Lines[0].ProductID != "g2" || !snap.Open {
		t.Fatalf("add recommendation status=%d snap=%+v", w.Code, snap)
	}

	if w := e.do(t, http.MethodPost, base+"/0/cart", nil); w.Code != http.StatusConflict {
		t.Fatalf("greeting add status=%d", w.Code)
	}
	if w := e.do(t, http.MethodPost, base+"/x/cart", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad index status=%d", w.Code)
	}
	if w := e.do(t, http.MethodPost, base+"/42/cart", nil); w.Code != http.StatusNotFound {
		t.Fatalf("out of range status=%d", w.Code)
	}

	tr := decode[TranscriptResponse](t, e.do(t, http.MethodGet, base, nil))
	if tr.State != "idle" || len(tr.Messages) != 3 || tr.Messages[1].Role != domain.RoleUser {
		t.Fatalf("transcript = %+v", tr)
	}
}

func TestPostScoutMessage_BlankIsIgnored(t *testing.T) {
	e := newEnv(t, fixed("hi"))
	sid := e.newSession(t)

	w := e.do(t, http.MethodPost, "/sessions/"+sid+"/scout/messages", PostScoutMessageRequest{Content: "   "})
	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d", w.Code)
	}
	if e.calls.Load() != 0 {
		t.Fatal("provider must not be called")
	}
	tr := decode[TranscriptResponse](t, e.do(t, http.MethodGet, "/sessions/"+sid+"/scout/messages", nil))
	if len(tr.Messages) != 1 {
		t.Fatalf("transcript grew: %+v", tr)
	}
}

func TestPostScoutMessage_UnknownRecommendationHidden(t *testing.T) {
	e := newEnv(t, fixed("Try it [RECOMMEND_ID:ghost]"))
	sid := e.newSession(t)

	msg := decode[MessageDTO](t, e.do(t, http.MethodPost, "/sessions/"+sid+"/scout/messages", PostScoutMessageRequest{Content: "hey"}))
	if msg.Product != nil || msg.RecommendedID != "" || msg.Content != "Try it" {
		t.Fatalf("reply = %+v", msg)
	}
}

func TestPostScoutMessage_TooLongAndProviderFailure(t *testing.T) {
	e := newEnv(t, func(scout.Request) (string, error) { return "", fmt.Errorf("down") })
	sid := e.newSession(t)
	base := "/sessions/" + sid + "/scout/messages"

	long := PostScoutMessageRequest{Content: string(bytes.Repeat([]byte("a"), 51))}
	if w := e.do(t, http.MethodPost, base, long); w.Code != http.StatusBadRequest {
		t.Fatalf("too long status=%d", w.Code)
	}

	w := e.do(t, http.MethodPost, base, PostScoutMessageRequest{Content: "hello"})
	if w.Code != http.StatusOK || decode[MessageDTO](t, w).Content != scout.FallbackReply {
		t.Fatalf("fallback status=%d body=%s", w.Code, w.Body)
	}
}

func TestPostScoutMessage_IdempotentReplay(t *testing.T) {
	e := newEnv(t, fixed("Nova Strike! [RECOMMEND_ID:g1]"))
	sid := e.newSession(t)
	base := "/sessions/" + sid + "/scout/messages"

	first := e.do(t, http.MethodPost, base, PostScoutMessageRequest{Content: "shooter?"}, middleware.HeaderIdempotencyKey, "key-1")
	second := e.do(t, http.MethodPost, base, PostScoutMessageRequest{Content: "shooter?"}, middleware.HeaderIdempotencyKey, "key-1")

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("status %d / %d", first.Code, second.Code)
	}
	if second.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatal("second response should be a replay")
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replay body differs:\n%s\n%s", first.Body, second.Body)
	}
	if n := e.calls.Load(); n != 1 {
		t.Fatalf("provider calls = %d, want 1", n)
	}

	if w := e.do(t, http.MethodPost, base, PostScoutMessageRequest{Content: "x"}, middleware.HeaderIdempotencyKey, "bad key!"); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid key status=%d", w.Code)
	}
}

func TestPostScoutMessage_FallbackIsNotReplayed(t *testing.T) {
	var down atomic.Bool
	down.Store(true)
	e := newEnv(t, func(scout.Request) (string, error) {
		if down.Load() {
			return "", fmt.Errorf("down")
		}
		return "Back online", nil
	})
	sid := e.newSession(t)
	base := "/sessions/" + sid + "/scout/messages"

	first := e.do(t, http.MethodPost, base, PostScoutMessageRequest{Content: "hi"}, middleware.HeaderIdempotencyKey, "retry-1")
	if first.Code != http.StatusOK || decode[MessageDTO](t, first).Content != scout.FallbackReply {
		t.Fatalf("first status=%d body=%s", first.Code, first.Body)
	}

	down.Store(false)
	second := e.do(t, http.MethodPost, base, PostScoutMessageRequest{Content: "hi"}, middleware.HeaderIdempotencyKey, "retry-1")
	if second.Header().Get("Idempotency-Replayed") != "" {
		t.Fatal("fallback reply must not be replayed")
	}
	if got := decode[MessageDTO](t, second).Content; got != "Back online" {
		t.Fatalf("retry content = %q", got)
	}
	if n := e.calls.Load(); n != 2 {
		t.Fatalf("provider calls = %d, want 2", n)
	}
}

func TestPostScoutMessage_BusyIsConflict(t *testing.T) {
	release := make(chan struct{})
	e := newEnv(t, func(scout.Request) (string, error) {
		<-release
		return "done", nil
	})
	sid := e.newSession(t)
	base := "/sessions/" + sid + "/scout/messages"

	done := make(chan int, 1)
	go func() {
		done <- e.do(t, http.MethodPost, base, PostScoutMessageRequest{Content: "first"}).Code
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		tr := decode[TranscriptResponse](t, e.do(t, http.MethodGet, base, nil))
		if tr.State == "awaiting" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("never saw awaiting state")
		}
		time.Sleep(time.Millisecond)
	}

	w := e.do(t, http.MethodPost, base, PostScoutMessageRequest{Content: "second"})
	if w.Code != http.StatusConflict || decode[ErrorResponse](t, w).Code != ErrCodeScoutBusy {
		t.Fatalf("busy status=%d body=%s", w.Code, w.Body)
	}
	// Cart stays responsive while the assistant is busy.
	if w := e.do(t, http.MethodPost, "/sessions/"+sid+"/cart/items", AddCartItemRequest{ProductID: "g1"}); w.Code != http.StatusOK {
		t.Fatalf("cart while busy status=%d", w.Code)
	}

	close(release)
	if code := <-done; code != http.StatusOK {
		t.Fatalf("first status=%d", code)
	}
}
