package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campuscart/campuscart-backend/api/middleware"
	"github.com/campuscart/campuscart-backend/api/responses"
	"github.com/campuscart/campuscart-backend/api/validators"
	shopsvc "github.com/campuscart/campuscart-backend/internal/shops"
	pkgerrors "github.com/campuscart/campuscart-backend/pkg/errors"
	"github.com/campuscart/campuscart-backend/pkg/logger"
)

// ShopsList returns every shop in the storefront.
func ShopsList(svc shopsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shop service unavailable"))
			return
		}

		shops, err := svc.ListShops(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shops)
	}
}

// ShopsGet returns one shop's profile.
func ShopsGet(svc shopsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shop service unavailable"))
			return
		}

		shopID, err := validators.ParsePathUUID(chi.URLParam(r, "shopID"), "shopID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shop, err := svc.GetShop(r.Context(), shopID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shop)
	}
}

type createShopRequest struct {
	Name    string  `json:"name" validate:"required"`
	Acronym string  `json:"acronym"`
	LogoURL *string `json:"logo_url"`
}

type updateShopRequest struct {
	Name    *string `json:"name"`
	Acronym *string `json:"acronym"`
	LogoURL *string `json:"logo_url"`
}

// ShopsCreate registers a new shop with the caller as its first operator.
func ShopsCreate(svc shopsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shop service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())

		var payload createShopRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shop, err := svc.CreateShop(r.Context(), userID, shopsvc.CreateShopInput{
			Name:    payload.Name,
			Acronym: payload.Acronym,
			LogoURL: payload.LogoURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, shop)
	}
}

// ShopsUpdate patches a shop's profile; operators only.
func ShopsUpdate(svc shopsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shop service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		shopID, err := validators.ParsePathUUID(chi.URLParam(r, "shopID"), "shopID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateShopRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shop, err := svc.UpdateShop(r.Context(), userID, shopID, shopsvc.UpdateShopInput{
			Name:    payload.Name,
			Acronym: payload.Acronym,
			LogoURL: payload.LogoURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shop)
	}
}
