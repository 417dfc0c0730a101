package idempotency

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-sales-orders/internal/repository"
)

const (
	// HeaderKey carries the client-chosen idempotency key.
	HeaderKey = "Idempotency-Key"
	// HeaderReplayed is set on responses served from a stored record.
	HeaderReplayed = "Idempotent-Replayed"

	maxKeyLength = 255
)

// Middleware makes the wrapped create endpoint idempotent for requests that
// send HeaderKey. Keys are namespaced by scope so the same client key can
// be reused across endpoints. Requests without the header pass through.
//
// The first request claims the key and its response is stored once the
// handler finishes: DONE for statuses below 500, FAILED otherwise. Repeats
// replay a DONE response, get 409 while the first is IN_PROGRESS, and 500
// when it FAILED. A repeat whose method, path or body differs from the
// first gets 422.
//
// When store is a Committer, the handler's insert also marks the key DONE
// with the created record as a 201 body, in the same transaction, so a
// crash after the insert cannot strand the key.
func Middleware(store Store, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(HeaderKey))
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_idempotency_key"})
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		ctx := c.Request.Context()
		scoped := scope + ":" + key
		claim := NewClaim(scoped, Fingerprint(c.Request.Method, c.Request.URL.Path, body))
		log := zap.L().With(zap.String("idempotency_key", scoped))

		created, err := store.CreateIfNotExists(ctx, claim)
		if err != nil {
			log.Error("idempotency claim failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed"})
			return
		}

		if !created {
			rec, err := store.Get(ctx, scoped)
			if err != nil || rec == nil {
				log.Error("idempotency record lookup failed", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed"})
				return
			}
			if rec.Fingerprint != "" && rec.Fingerprint != claim.Fingerprint {
				c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "idempotency_key_reused"})
				return
			}
			switch rec.Status {
			case StatusDone:
				c.Header(HeaderReplayed, "true")
				c.Data(rec.ResponseStatus, "application/json; charset=utf-8", []byte(rec.ResponseBody))
				c.Abort()
			case StatusInProgress:
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "request_in_progress"})
			case StatusFailed:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "previous_attempt_failed"})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown_idempotency_status"})
			}
			return
		}

		if committer, ok := store.(Committer); ok {
			c.Request = c.Request.WithContext(repository.WithAttachment(ctx, commitCreated(committer, claim)))
		}

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		// the outcome must be recorded even when the client has gone away
		markCtx := context.WithoutCancel(ctx)
		status := w.Status()
		if status >= http.StatusInternalServerError {
			if err := store.MarkFailed(markCtx, scoped, http.StatusText(status)); err != nil {
				log.Error("mark idempotency failed", zap.Error(err))
			}
			return
		}
		if err := store.MarkDone(markCtx, scoped, w.body.String(), status); err != nil {
			log.Error("mark idempotency done", zap.Error(err))
		}
	}
}

// commitCreated renders the inserted record the way the create handlers
// answer (201 with the record as JSON) and hands it to the store's
// transactional DONE write.
func commitCreated(committer Committer, claim Claim) repository.Attachment {
	return func(item any) (types.TransactWriteItem, error) {
		b, err := json.Marshal(item)
		if err != nil {
			return types.TransactWriteItem{}, err
		}
		return committer.DoneWrite(claim, string(b), http.StatusCreated), nil
	}
}

// captureWriter tees the response body so it can be stored for replay.
type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
