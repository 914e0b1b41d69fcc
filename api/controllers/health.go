package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/tabegoro/tabegoro-backend/api/responses"
	"github.com/tabegoro/tabegoro-backend/pkg/config"
	pkgerrors "github.com/tabegoro/tabegoro-backend/pkg/errors"
	"github.com/tabegoro/tabegoro-backend/pkg/logger"
)

const envHeader = "X-Tabegoro-Env"

type pinger interface {
	Ping(ctx context.Context) error
}

// Dependency pairs a name with its health probe.
type Dependency struct {
	Name   string
	Pinger pinger
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes every registered dependency and aggregates failures.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps ...Dependency) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		var combined error
		failing := []string{}
		for _, dep := range deps {
			if dep.Pinger == nil {
				continue
			}
			if err := dep.Pinger.Ping(r.Context()); err != nil {
				combined = multierr.Append(combined, err)
				failing = append(failing, dep.Name)
			}
		}

		if combined != nil {
			err := pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "dependencies unavailable").
				WithDetails(map[string]any{"failing": failing})
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
