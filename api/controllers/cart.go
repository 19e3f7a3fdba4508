package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campuscart/campuscart-backend/api/middleware"
	"github.com/campuscart/campuscart-backend/api/responses"
	"github.com/campuscart/campuscart-backend/api/validators"
	cartsvc "github.com/campuscart/campuscart-backend/internal/cart"
	pkgerrors "github.com/campuscart/campuscart-backend/pkg/errors"
	"github.com/campuscart/campuscart-backend/pkg/logger"
)

// CartList returns the caller's cart with live prices.
func CartList(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cart, err := svc.List(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

type addLineRequest struct {
	MerchandiseID uuid.UUID  `json:"merchandise_id" validate:"required"`
	VariantID     uuid.UUID  `json:"variant_id" validate:"required"`
	SizeID        *uuid.UUID `json:"size_id"`
	Quantity      int        `json:"quantity"`
}

// CartAddLine puts a merchandise selection into the cart, merging with an
// identical line when one exists.
func CartAddLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := svc.AddLine(r.Context(), middleware.UserIDFromContext(r.Context()), cartsvc.AddInput{
			MerchandiseID: payload.MerchandiseID,
			VariantID:     payload.VariantID,
			SizeID:        payload.SizeID,
			Quantity:      payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, line)
	}
}

type changeVariantRequest struct {
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
}

type changeSizeRequest struct {
	SizeID *uuid.UUID `json:"size_id"`
}

type changeQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func cartLineID(r *http.Request) (uuid.UUID, error) {
	return validators.ParsePathUUID(chi.URLParam(r, "lineID"), "lineID")
}

// CartChangeVariant swaps the line's variant and resets its size.
func CartChangeVariant(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		lineID, err := cartLineID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload changeVariantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ChangeVariant(r.Context(), middleware.UserIDFromContext(r.Context()), lineID, payload.VariantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// CartChangeSize sets or clears the line's size.
func CartChangeSize(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		lineID, err := cartLineID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload changeSizeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ChangeSize(r.Context(), middleware.UserIDFromContext(r.Context()), lineID, payload.SizeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// CartChangeQuantity sets the line's quantity; values below one leave it untouched.
func CartChangeQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		lineID, err := cartLineID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload changeQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ChangeQuantity(r.Context(), middleware.UserIDFromContext(r.Context()), lineID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// CartDeleteLine removes the line from the cart.
func CartDeleteLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		lineID, err := cartLineID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteLine(r.Context(), middleware.UserIDFromContext(r.Context()), lineID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
