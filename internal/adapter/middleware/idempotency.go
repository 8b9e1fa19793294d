package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// How long we hold the "in-progress" lock before a retry may take over.
const provisionalLockTTL = 60 * time.Second

var reRequestID = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

type idempEntry struct {
	InProgress bool      `json:"in_progress"`
	Code       int       `json:"code"`
	Body       []byte    `json:"body"`
	BodySHA256 string    `json:"body_sha256"`
	CreatedAt  time.Time `json:"created_at"`
}

type respRecorder struct {
	http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *respRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// Idempotency replays the stored response when a mutating request repeats
// with the same Ax-Request-Id and body, and rejects same-id retries whose
// body differs. Key = method + route + session user + request id. This
// dedupes client retries only; it is not a concurrency guard between
// distinct administrative updates.
func Idempotency(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			reqID := strings.TrimSpace(req.Header.Get("Ax-Request-Id"))
			if reqID == "" {
				return c.JSON(http.StatusBadRequest, map[string]any{
					"type": "validation_error", "message": "missing Ax-Request-Id", "status": http.StatusBadRequest,
				})
			}
			if !reRequestID.MatchString(reqID) {
				return c.JSON(http.StatusBadRequest, map[string]any{
					"type": "validation_error", "message": "invalid Ax-Request-Id format", "status": http.StatusBadRequest,
				})
			}

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			sum := sha256.Sum256(body)
			bhash := hex.EncodeToString(sum[:])

			key := strings.Join([]string{"idemp", req.Method, c.Path(), SessionFrom(c).UserID, reqID}, ":")
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()

			entry := idempEntry{InProgress: true, BodySHA256: bhash, CreatedAt: time.Now().UTC()}
			raw, _ := json.Marshal(entry)
			ok, err := rdb.SetNX(ctx, key, raw, provisionalLockTTL).Result()
			if err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]any{
					"type": "server_error", "message": "idempotency store unavailable", "status": http.StatusServiceUnavailable,
				})
			}
			if !ok {
				cur, err := loadEntry(ctx, rdb, key)
				if err != nil {
					log.Printf("idempotency: load %s: %v", key, err)
					return c.JSON(http.StatusConflict, map[string]any{
						"type": "validation_error", "message": "request already in progress", "status": http.StatusConflict,
					})
				}
				if cur.BodySHA256 != bhash {
					return c.JSON(http.StatusUnprocessableEntity, map[string]any{
						"type": "validation_error", "message": "Ax-Request-Id reused with a different body", "status": http.StatusUnprocessableEntity,
					})
				}
				if cur.InProgress {
					return c.JSON(http.StatusConflict, map[string]any{
						"type": "validation_error", "message": "request already in progress", "status": http.StatusConflict,
					})
				}
				// Replay the finished response verbatim.
				return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
			}

			rec := &respRecorder{ResponseWriter: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec

			if err := next(c); err != nil {
				// Let the handler error path run normally; drop the lock so a
				// retry can execute.
				rdb.Del(context.WithoutCancel(ctx), key)
				return err
			}

			entry.InProgress = false
			entry.Code = rec.code
			entry.Body = rec.buf.Bytes()
			raw, _ = json.Marshal(entry)
			if err := rdb.Set(context.WithoutCancel(ctx), key, raw, ttl).Err(); err != nil {
				log.Printf("idempotency: store %s: %v", key, err)
			}
			return nil
		}
	}
}

func loadEntry(ctx context.Context, rdb *redis.Client, key string) (*idempEntry, error) {
	raw, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var e idempEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
