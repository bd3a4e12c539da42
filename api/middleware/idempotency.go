package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cinespark/cinespark-backend/api/responses"
	pkgerrors "github.com/cinespark/cinespark-backend/pkg/errors"
	"github.com/cinespark/cinespark-backend/pkg/logger"
)

// IdempotencyHeader carries the client-chosen key for replay-safe POSTs.
const IdempotencyHeader = "Idempotency-Key"

const idempotencyKeyTTL = 24 * time.Hour

// IdempotencyStore claims keys so a replayed request can be detected.
type IdempotencyStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
}

// Idempotency rejects a charging POST whose Idempotency-Key was already
// claimed by the same user on the same path. Requests without the header
// pass through untouched.
func Idempotency(store IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			key := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			storeKey := fmt.Sprintf("idem:%d:%s:%s", UserIDFromContext(ctx), r.URL.Path, key)
			claimed, err := store.SetNX(ctx, storeKey, "1", idempotencyKeyTTL)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "idempotency check"))
				return
			}
			if !claimed {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"path":            r.URL.Path,
						"idempotency_key": key,
					})
					logg.Warn(logCtx, "idempotency.replay_blocked")
				}
				err := pkgerrors.New(pkgerrors.CodeConflict, "duplicate request").
					WithDetails(map[string]any{"idempotency_key": key})
				responses.WriteError(ctx, logg, w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
