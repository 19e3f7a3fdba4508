package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campuscart/campuscart-backend/api/middleware"
	"github.com/campuscart/campuscart-backend/api/responses"
	"github.com/campuscart/campuscart-backend/api/validators"
	pkgerrors "github.com/campuscart/campuscart-backend/pkg/errors"
	"github.com/campuscart/campuscart-backend/pkg/logger"
)

type membershipWriter interface {
	Add(ctx context.Context, userID, shopID uuid.UUID) error
	Remove(ctx context.Context, userID, shopID uuid.UUID) error
}

// MembershipJoin records the caller as a member of the shop so member prices apply.
func MembershipJoin(repo membershipWriter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "membership store unavailable"))
			return
		}

		shopID, err := validators.ParsePathUUID(chi.URLParam(r, "shopID"), "shopID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := repo.Add(r.Context(), middleware.UserIDFromContext(r.Context()), shopID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "join shop"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "member"})
	}
}

// MembershipLeave removes the caller's membership.
func MembershipLeave(repo membershipWriter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "membership store unavailable"))
			return
		}

		shopID, err := validators.ParsePathUUID(chi.URLParam(r, "shopID"), "shopID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := repo.Remove(r.Context(), middleware.UserIDFromContext(r.Context()), shopID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "leave shop"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "left"})
	}
}
