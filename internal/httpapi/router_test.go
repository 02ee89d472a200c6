package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/babelchat/api/internal/ai"
	"github.com/babelchat/api/internal/auth"
	"github.com/babelchat/api/internal/chat"
	"github.com/babelchat/api/internal/config"
	"github.com/babelchat/api/internal/prefs"
	"github.com/babelchat/api/internal/store/redisstore"
	"github.com/babelchat/api/internal/translate"
	gormsqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type fakeClient struct {
	mu    sync.Mutex
	calls int
	reply string
}

func (f *fakeClient) Generate(ctx context.Context, req ai.GenerateRequest) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.reply == "" {
		return "ok", nil
	}
	return f.reply, nil
}

func (f *fakeClient) Stream(ctx context.Context, req ai.GenerateRequest) (<-chan string, <-chan error) {
	chunks := make(chan string, 1)
	errs := make(chan error, 1)
	close(chunks)
	close(errs)
	return chunks, errs
}

func (f *fakeClient) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var dbSeq atomic.Int64

// openTestDB gives each test its own named in-memory database; the shared
// cache keeps it visible across gorm's pooled connections.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:routertest%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&chat.Chat{}, &chat.Message{}, &chat.Stream{}, &chat.TurnEvent{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testRouter(t *testing.T) (*gin.Engine, *fakeClient, *gorm.DB, config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := openTestDB(t)

	cfg := config.Config{JWTSecret: "test-secret"}
	client := &fakeClient{reply: "Hi there!"}
	factory := func(apiKey string) ai.Client { return client }

	repo := chat.NewRepo(db)
	svc := chat.NewService(repo, translate.NewService(factory), factory, nil)
	r := NewRouter(db, cfg, prefs.NewStore(redisstore.Noop{}), prefs.NewKeyStore(redisstore.Noop{}), svc)
	return r, client, db, cfg
}

func bearer(t *testing.T, cfg config.Config, uid uint64) string {
	t.Helper()
	tok, err := auth.SignJWT(uid, cfg.JWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + tok
}

const chatBody = `{
	"id": "chat-1",
	"message": {"id": "m1", "role": "user", "parts": [{"type": "text", "text": "Hello"}]},
	"selectedChatModel": "chat-model",
	"selectedVisibilityType": "private",
	"inputLanguage": "en",
	"searchLanguage": "en"
}`

func TestSendChatRequiresSession(t *testing.T) {
	r, client, _, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(chatBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", "sk-test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if client.count() != 0 {
		t.Fatalf("provider called %d times, want 0", client.count())
	}
}

func TestSendChatRequiresAPIKey(t *testing.T) {
	r, client, _, cfg := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(chatBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, cfg, 1))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if client.count() != 0 {
		t.Fatalf("provider called %d times with no key, want 0", client.count())
	}
}

func TestSendChatRejectsMalformedBody(t *testing.T) {
	r, _, _, cfg := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"id": 42}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, cfg, 1))
	req.Header.Set("x-api-key", "sk-test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSendChatStreamsPlainText(t *testing.T) {
	r, _, _, cfg := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(chatBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, cfg, 1))
	req.Header.Set("x-api-key", "sk-test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type = %q", ct)
	}
	if w.Body.String() != "Hi there!" {
		t.Fatalf("body = %q", w.Body.String())
	}
}

func TestDeleteChatForbiddenForForeignOwner(t *testing.T) {
	r, _, db, cfg := testRouter(t)

	if err := db.Create(&chat.Chat{ID: "chat-x", UserID: 1, Title: "t", Visibility: chat.VisibilityPrivate}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/chat?id=chat-x", nil)
	req.Header.Set("Authorization", bearer(t, cfg, 2))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}

	var cnt int64
	if err := db.Model(&chat.Chat{}).Where("id = ?", "chat-x").Count(&cnt).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != 1 {
		t.Fatalf("chat deleted despite forbidden")
	}
}

func TestDeleteChatReturnsDeletedRecord(t *testing.T) {
	r, _, db, cfg := testRouter(t)

	if err := db.Create(&chat.Chat{ID: "chat-y", UserID: 3, Title: "mine", Visibility: chat.VisibilityPrivate}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/chat?id=chat-y", nil)
	req.Header.Set("Authorization", bearer(t, cfg, 3))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"mine"`) {
		t.Fatalf("body missing deleted record: %s", w.Body.String())
	}

	var cnt int64
	if err := db.Model(&chat.Chat{}).Where("id = ?", "chat-y").Count(&cnt).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("chat still present after delete")
	}
}

func TestLanguagesIsPublic(t *testing.T) {
	r, _, _, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/languages", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"Français"`) {
		t.Fatalf("catalog missing entries: %s", w.Body.String())
	}
}

func TestGenerationFailureIsBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := openTestDB(t)

	cfg := config.Config{JWTSecret: "test-secret"}
	factory := func(apiKey string) ai.Client { return failingClient{} }
	repo := chat.NewRepo(db)
	svc := chat.NewService(repo, translate.NewService(factory), factory, nil)
	r := NewRouter(db, cfg, prefs.NewStore(redisstore.Noop{}), prefs.NewKeyStore(redisstore.Noop{}), svc)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(chatBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, cfg, 1))
	req.Header.Set("x-api-key", "sk-test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	// The caller never sees the provider's internal error detail.
	if strings.Contains(w.Body.String(), "down") {
		t.Fatalf("internal detail leaked: %s", w.Body.String())
	}

	var cnt int64
	if err := db.Model(&chat.Message{}).Count(&cnt).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("messages persisted despite generation failure")
	}
}

type failingClient struct{}

func (failingClient) Generate(ctx context.Context, req ai.GenerateRequest) (string, error) {
	return "", errors.New("down")
}

func (failingClient) Stream(ctx context.Context, req ai.GenerateRequest) (<-chan string, <-chan error) {
	chunks := make(chan string)
	errs := make(chan error, 1)
	close(chunks)
	errs <- errors.New("down")
	close(errs)
	return chunks, errs
}
