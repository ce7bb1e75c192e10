package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap/zaptest"
)

const (
	testReqID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testActor = "123456789012345678"
	loansPath = "/v1/guilds/111111111111111111/loans"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// setupEcho mounts h on the loans route; calls counts handler invocations.
func setupEcho(t *testing.T, rdb redis.Cmdable, h echo.HandlerFunc) (*echo.Echo, *int32) {
	t.Helper()
	var calls int32
	e := echo.New()
	e.HideBanner = true
	e.Use(Idempotency(rdb, 2*time.Minute, zaptest.NewLogger(t)))
	wrapped := func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return h(c)
	}
	e.POST("/v1/guilds/:guild_id/loans", wrapped)
	e.GET("/v1/guilds/:guild_id/loans", wrapped)
	return e, &calls
}

func validHeaders() map[string]string {
	return map[string]string{
		HeaderRequestID: testReqID,
		HeaderRequestAt: time.Now().UTC().Format(time.RFC3339),
		HeaderActorID:   testActor,
	}
}

func doReq(e *echo.Echo, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func created(c echo.Context) error {
	return c.JSON(http.StatusCreated, map[string]any{"loan_id": "L1234", "actor": ActorID(c)})
}

func TestIdempotency_ReadsBypass(t *testing.T) {
	_, rdb := newRedis(t)
	e, calls := setupEcho(t, rdb, func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := doReq(e, http.MethodGet, loansPath, "", nil)
	if rec.Code != http.StatusOK || *calls != 1 {
		t.Fatalf("GET => code %d calls %d", rec.Code, *calls)
	}
}

func TestIdempotency_HeaderValidation(t *testing.T) {
	_, rdb := newRedis(t)
	e, calls := setupEcho(t, rdb, created)

	tests := []struct {
		name   string
		mutate func(h map[string]string)
		want   string
	}{
		{"missing request id", func(h map[string]string) { delete(h, HeaderRequestID) }, "missing Ax-Request-Id"},
		{"bad request id", func(h map[string]string) { h[HeaderRequestID] = "NOT-VALID" }, "invalid Ax-Request-Id"},
		{"bad request at", func(h map[string]string) { h[HeaderRequestAt] = "yesterday" }, "Ax-Request-At must be"},
		{"skewed past", func(h map[string]string) {
			h[HeaderRequestAt] = time.Now().UTC().Add(-maxClockSkew - time.Minute).Format(time.RFC3339)
		}, "too skewed"},
		{"skewed future", func(h map[string]string) {
			h[HeaderRequestAt] = time.Now().UTC().Add(maxClockSkew + time.Minute).Format(time.RFC3339)
		}, "too skewed"},
		{"missing actor", func(h map[string]string) { delete(h, HeaderActorID) }, "missing Ax-Actor-Id"},
		{"actor not a snowflake", func(h map[string]string) { h[HeaderActorID] = "bob" }, "invalid Ax-Actor-Id"},
		{"actor too short", func(h map[string]string) { h[HeaderActorID] = "12345" }, "invalid Ax-Actor-Id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHeaders()
			tt.mutate(h)
			rec := doReq(e, http.MethodPost, loansPath, `{"amount":1}`, h)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("want 400, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Fatalf("body %q does not mention %q", rec.Body.String(), tt.want)
			}
		})
	}
	if *calls != 0 {
		t.Fatalf("handler ran %d times on rejected requests", *calls)
	}
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	mr, rdb := newRedis(t)
	e, calls := setupEcho(t, rdb, created)

	first := doReq(e, http.MethodPost, loansPath, `{"amount":5000}`, validHeaders())
	if first.Code != http.StatusCreated {
		t.Fatalf("first => %d %s", first.Code, first.Body.String())
	}
	if !strings.Contains(first.Body.String(), testActor) {
		t.Fatalf("actor id not exposed to handler: %s", first.Body.String())
	}

	second := doReq(e, http.MethodPost, loansPath, `{"amount":5000}`, validHeaders())
	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Fatalf("replay mismatch: %d %q vs %q", second.Code, second.Body.String(), first.Body.String())
	}
	if second.Header().Get("Ax-Idempotent-Replay") != "true" {
		t.Fatalf("replay header missing")
	}
	if *calls != 1 {
		t.Fatalf("handler calls = %d, want 1", *calls)
	}

	key := buildKey(http.MethodPost, loansPath, testActor, testReqID)
	if ttl := mr.TTL(key); ttl <= provisionalLockTTL {
		t.Fatalf("final TTL = %v, want the configured 2m", ttl)
	}
}

func TestIdempotency_KeyScopedByPathAndActor(t *testing.T) {
	_, rdb := newRedis(t)
	e, calls := setupEcho(t, rdb, created)

	doReq(e, http.MethodPost, loansPath, `{}`, validHeaders())

	other := validHeaders()
	other[HeaderActorID] = "876543210987654321"
	doReq(e, http.MethodPost, loansPath, `{}`, other)

	doReq(e, http.MethodPost, "/v1/guilds/222222222222222222/loans", `{}`, validHeaders())

	if *calls != 3 {
		t.Fatalf("handler calls = %d, want 3 distinct executions", *calls)
	}
}

func TestIdempotency_Conflicts(t *testing.T) {
	tests := []struct {
		name  string
		seed  idempEntry
		body  string
		final bool
	}{
		{
			name: "in progress",
			seed: idempEntry{InProgress: true, BodySHA256: bodyHash([]byte(`{"x":1}`))},
			body: `{"x":1}`,
		},
		{
			name:  "same id different body",
			seed:  idempEntry{Code: http.StatusCreated, Body: []byte(`{}`), BodySHA256: bodyHash([]byte(`{"x":1}`))},
			body:  `{"x":2}`,
			final: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rdb := newRedis(t)
			e, calls := setupEcho(t, rdb, created)

			key := buildKey(http.MethodPost, loansPath, testActor, testReqID)
			ctx := context.Background()
			var err error
			if tt.final {
				err = saveFinal(ctx, rdb, key, tt.seed, time.Minute)
			} else {
				_, err = provisionalSet(ctx, rdb, key, tt.seed)
			}
			if err != nil {
				t.Fatalf("seed: %v", err)
			}

			rec := doReq(e, http.MethodPost, loansPath, tt.body, validHeaders())
			if rec.Code != http.StatusConflict {
				t.Fatalf("want 409, got %d %s", rec.Code, rec.Body.String())
			}
			if *calls != 0 {
				t.Fatalf("handler must not run on conflict")
			}
		})
	}
}

func TestIdempotency_ServerErrorsAreNotStored(t *testing.T) {
	_, rdb := newRedis(t)
	var fail atomic.Bool
	fail.Store(true)
	e, calls := setupEcho(t, rdb, func(c echo.Context) error {
		if fail.Load() {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db down"})
		}
		return created(c)
	})

	if rec := doReq(e, http.MethodPost, loansPath, `{}`, validHeaders()); rec.Code != http.StatusInternalServerError {
		t.Fatalf("first => %d", rec.Code)
	}
	fail.Store(false)
	if rec := doReq(e, http.MethodPost, loansPath, `{}`, validHeaders()); rec.Code != http.StatusCreated {
		t.Fatalf("retry => %d, want 201", rec.Code)
	}
	if *calls != 2 {
		t.Fatalf("handler calls = %d, want 2", *calls)
	}
}

func TestIdempotency_HandlerErrorIsStored(t *testing.T) {
	_, rdb := newRedis(t)
	e, calls := setupEcho(t, rdb, func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "bad amount")
	})

	first := doReq(e, http.MethodPost, loansPath, `{}`, validHeaders())
	second := doReq(e, http.MethodPost, loansPath, `{}`, validHeaders())
	if first.Code != http.StatusUnprocessableEntity || second.Code != http.StatusUnprocessableEntity {
		t.Fatalf("codes = %d, %d", first.Code, second.Code)
	}
	if *calls != 1 {
		t.Fatalf("handler calls = %d, want 1", *calls)
	}
}

func TestIdempotency_StoreUnavailable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	e, calls := setupEcho(t, rdb, created)

	rec := doReq(e, http.MethodPost, loansPath, `{}`, validHeaders())
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503, got %d", rec.Code)
	}
	if *calls != 0 {
		t.Fatalf("handler must not run without the store")
	}
}
