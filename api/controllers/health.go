package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/cinespark/cinespark-backend/api/responses"
	"github.com/cinespark/cinespark-backend/pkg/config"
	pkgdb "github.com/cinespark/cinespark-backend/pkg/db"
	pkgerrors "github.com/cinespark/cinespark-backend/pkg/errors"
	"github.com/cinespark/cinespark-backend/pkg/logger"
	"github.com/cinespark/cinespark-backend/pkg/redis"
	"go.uber.org/multierr"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CineSpark-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the backing stores before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, db *pkgdb.Client, cache *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var err error
		if db != nil {
			err = multierr.Append(err, db.Ping(ctx))
		}
		if cache != nil {
			err = multierr.Append(err, cache.Ping(ctx))
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "readiness check"))
			return
		}

		w.Header().Set("X-CineSpark-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
