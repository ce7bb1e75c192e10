// Package middleware makes every mutating ledger call safe to retry: the
// first response for a request id is stored in Redis and replayed.
package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "Ax-Request-Id"
	HeaderRequestAt = "Ax-Request-At"
	HeaderActorID   = "Ax-Actor-Id"

	// ActorKey holds the validated actor id in the echo context.
	ActorKey = "actor_id"

	keyPrefix = "bank:idem:"

	// held while the handler runs; a crashed handler frees the key after this
	provisionalLockTTL = 60 * time.Second
	maxClockSkew       = 10 * time.Minute
)

type idempEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// captureWriter tees the response so it can be stored after the handler.
type captureWriter struct {
	http.ResponseWriter
	buf  bytes.Buffer
	code int
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// ActorID returns the member id the idempotency layer validated, or "".
func ActorID(c echo.Context) string {
	s, _ := c.Get(ActorKey).(string)
	return s
}

func reject(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

// Idempotency guards POST, PUT, PATCH and DELETE. Reads pass straight through.
// 5xx responses are not stored, so a retry after an outage runs again.
func Idempotency(rdb redis.Cmdable, ttl time.Duration, logger *zap.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("idempotency")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			reqID := strings.TrimSpace(req.Header.Get(HeaderRequestID))
			if reqID == "" {
				return reject(c, http.StatusBadRequest, "missing "+HeaderRequestID)
			}
			if !validReqID(reqID) {
				return reject(c, http.StatusBadRequest, "invalid "+HeaderRequestID+" format")
			}
			reqAt, err := parseRequestAt(req.Header.Get(HeaderRequestAt))
			if err != nil {
				return reject(c, http.StatusBadRequest, err.Error())
			}
			now := nowUTC()
			if reqAt.Before(now.Add(-maxClockSkew)) || reqAt.After(now.Add(maxClockSkew)) {
				return reject(c, http.StatusBadRequest, HeaderRequestAt+" too skewed")
			}
			actorID := strings.TrimSpace(req.Header.Get(HeaderActorID))
			if actorID == "" {
				return reject(c, http.StatusBadRequest, "missing "+HeaderActorID)
			}
			if !reSnowflake.MatchString(actorID) {
				return reject(c, http.StatusBadRequest, "invalid "+HeaderActorID)
			}
			c.Set(ActorKey, actorID)

			var body []byte
			if req.Body != nil {
				if body, err = io.ReadAll(req.Body); err != nil {
					return reject(c, http.StatusBadRequest, "unreadable body")
				}
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			hash := bodyHash(body)

			key := buildKey(req.Method, req.URL.Path, actorID, reqID)
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()

			ok, err := provisionalSet(ctx, rdb, key, idempEntry{
				InProgress:  true,
				BodySHA256:  hash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   now,
			})
			if err != nil {
				log.Error("idempotency store unavailable", zap.String("key", key), zap.Error(err))
				return reject(c, http.StatusServiceUnavailable, "idempotency store unavailable")
			}
			if !ok {
				cur, err := loadEntry(ctx, rdb, key)
				if err != nil && !errors.Is(err, redis.Nil) {
					log.Warn("load idempotency entry failed", zap.String("key", key), zap.Error(err))
				}
				if cur.BodySHA256 != "" && cur.BodySHA256 != hash {
					return reject(c, http.StatusConflict, HeaderRequestID+" reused with different body")
				}
				if !cur.InProgress && cur.Code != 0 {
					c.Response().Header().Set("Ax-Idempotent-Replay", "true")
					return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
				}
				return reject(c, http.StatusConflict, "request is already in progress")
			}

			w := &captureWriter{ResponseWriter: c.Response().Writer, code: http.StatusOK}
			c.Response().Writer = w
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may already be cancelled by now
			store, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			if w.code >= http.StatusInternalServerError {
				if err := rdb.Del(store, key).Err(); err != nil {
					log.Warn("release idempotency key failed", zap.String("key", key), zap.Error(err))
				}
				return nil
			}
			if err := saveFinal(store, rdb, key, idempEntry{
				Code:        w.code,
				Body:        w.buf.Bytes(),
				BodySHA256:  hash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}, ttl); err != nil {
				log.Warn("store idempotent response failed", zap.String("key", key), zap.Error(err))
			}
			return nil
		}
	}
}
