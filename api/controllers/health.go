package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/campuscart/campuscart-backend/api/responses"
	"github.com/campuscart/campuscart-backend/pkg/config"
	"github.com/campuscart/campuscart-backend/pkg/db"
	pkgerrors "github.com/campuscart/campuscart-backend/pkg/errors"
	"github.com/campuscart/campuscart-backend/pkg/logger"
	"github.com/campuscart/campuscart-backend/pkg/redis"
	"github.com/campuscart/campuscart-backend/pkg/storage/gcs"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CampusCart-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks every downstream dependency with a short deadline.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, gcsP gcs.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CampusCart-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true
		check := func(name string, ping func(context.Context) error) {
			if ping == nil {
				return
			}
			if err := ping(ctx); err != nil {
				checks[name] = err.Error()
				healthy = false
				return
			}
			checks[name] = "ok"
		}

		if dbP != nil {
			check("database", dbP.Ping)
		}
		if redisP != nil {
			check("redis", redisP.Ping)
		}
		if gcsP != nil {
			check("gcs", gcsP.Ping)
		}

		if !healthy {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks))
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
