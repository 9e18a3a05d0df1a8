package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Memaso-max/schedule-sync-service/internal/repositories"
	redisstore "github.com/Memaso-max/schedule-sync-service/internal/repositories/redis"
)

const writeToken = "write-secret"

func newTestRouter(t *testing.T) (*gin.Engine, repositories.KeyValueStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	kv := redisstore.NewKVStore(client, "host:")
	return NewRouter(kv, writeToken, slog.New(slog.DiscardHandler)), kv
}

func putBody(t *testing.T, content, sha string) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"message": "update",
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
		"sha":     sha,
	})
	if err != nil {
		t.Fatalf("encoding put body: %v", err)
	}
	return bytes.NewReader(body)
}

func doPut(router *gin.Engine, body *bytes.Reader, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/contents/data.json", body)
	if token != "" {
		req.Header.Set("Authorization", "token "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPutThenGetRaw(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doPut(router, putBody(t, `{"users":[],"lastUpdated":"T1"}`, ""), writeToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT returned %d: %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/raw/data.json", nil)
	get := httptest.NewRecorder()
	router.ServeHTTP(get, req)
	if get.Code != http.StatusOK {
		t.Fatalf("GET raw returned %d", get.Code)
	}
	if got := get.Body.String(); got != `{"users":[],"lastUpdated":"T1"}` {
		t.Errorf("raw body = %s", got)
	}
}

func TestPutAuth(t *testing.T) {
	router, _ := newTestRouter(t)
	body := `{"lastUpdated":"T1"}`

	if rec := doPut(router, putBody(t, body, ""), ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing credential: expected 401, got %d", rec.Code)
	}
	if rec := doPut(router, putBody(t, body, ""), "wrong"); rec.Code != http.StatusForbidden {
		t.Errorf("bad credential: expected 403, got %d", rec.Code)
	}
}

func TestPutConflictOnStaleRevision(t *testing.T) {
	router, _ := newTestRouter(t)

	if rec := doPut(router, putBody(t, `{"v":1}`, ""), writeToken); rec.Code != http.StatusOK {
		t.Fatalf("first PUT returned %d", rec.Code)
	}

	// Read the current revision, then overwrite, then replay the stale sha.
	req := httptest.NewRequest(http.MethodGet, "/contents/data.json", nil)
	get := httptest.NewRecorder()
	router.ServeHTTP(get, req)
	var contents struct {
		SHA string `json:"sha"`
	}
	if err := json.Unmarshal(get.Body.Bytes(), &contents); err != nil {
		t.Fatalf("decoding contents response: %v", err)
	}

	if rec := doPut(router, putBody(t, `{"v":2}`, contents.SHA), writeToken); rec.Code != http.StatusOK {
		t.Fatalf("conditional PUT returned %d", rec.Code)
	}
	if rec := doPut(router, putBody(t, `{"v":3}`, contents.SHA), writeToken); rec.Code != http.StatusConflict {
		t.Fatalf("stale PUT: expected 409, got %d", rec.Code)
	}
}

func TestPutRejectsBadPayload(t *testing.T) {
	router, _ := newTestRouter(t)

	// Missing required fields.
	rec := doPut(router, bytes.NewReader([]byte(`{}`)), writeToken)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty payload: expected 400, got %d", rec.Code)
	}

	// Content not base64.
	body, _ := json.Marshal(map[string]string{"message": "m", "content": "%%%"})
	rec = doPut(router, bytes.NewReader(body), writeToken)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad base64: expected 400, got %d", rec.Code)
	}
}

func TestUnknownArtifact(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/raw/other.json", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown artifact, got %d", rec.Code)
	}
}
