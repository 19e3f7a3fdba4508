package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuscart/campuscart-backend/api/middleware"
	"github.com/campuscart/campuscart-backend/api/responses"
	"github.com/campuscart/campuscart-backend/api/validators"
	merchsvc "github.com/campuscart/campuscart-backend/internal/merchandise"
	pkgerrors "github.com/campuscart/campuscart-backend/pkg/errors"
	"github.com/campuscart/campuscart-backend/pkg/logger"
	"github.com/campuscart/campuscart-backend/pkg/pagination"
)

// MerchandiseList returns a filtered, cursor-paginated page of listings.
func MerchandiseList(svc merchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "merchandise service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shopID, err := validators.ParseQueryUUID(r, "shop_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := validators.ParseQueryUUID(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListListings(r.Context(), merchsvc.ListFilter{
			ShopID:     shopID,
			CategoryID: categoryID,
			Search:     strings.TrimSpace(r.URL.Query().Get("search")),
		}, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// MerchandiseGet returns one listing with its variants and sizes.
func MerchandiseGet(svc merchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "merchandise service unavailable"))
			return
		}

		merchandiseID, err := validators.ParsePathUUID(chi.URLParam(r, "merchandiseID"), "merchandiseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetListing(r.Context(), merchandiseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// MerchandiseCategories lists the browse categories.
func MerchandiseCategories(svc merchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "merchandise service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

type sizePayload struct {
	Name            string           `json:"name" validate:"required"`
	OriginalPrice   *decimal.Decimal `json:"original_price"`
	MembershipPrice *decimal.Decimal `json:"membership_price"`
}

type variantPayload struct {
	Name            string           `json:"name"`
	PictureURL      *string          `json:"picture_url"`
	OriginalPrice   decimal.Decimal  `json:"original_price" validate:"required"`
	MembershipPrice *decimal.Decimal `json:"membership_price"`
	Sizes           []sizePayload    `json:"sizes" validate:"dive"`
}

type listingPayload struct {
	ShopID          uuid.UUID        `json:"shop_id" validate:"required"`
	Name            string           `json:"name" validate:"required"`
	Description     string           `json:"description"`
	ReceivingInfo   string           `json:"receiving_info"`
	OnlinePayment   bool             `json:"online_payment"`
	PhysicalPayment bool             `json:"physical_payment"`
	Cancellable     bool             `json:"cancellable"`
	VariantLabel    string           `json:"variant_label"`
	Tags            []string         `json:"tags"`
	PictureURLs     []string         `json:"picture_urls"`
	Variants        []variantPayload `json:"variants" validate:"required,min=1,dive"`
	CategoryIDs     []uuid.UUID      `json:"category_ids"`
}

func (p listingPayload) variants() []merchsvc.VariantInput {
	variants := make([]merchsvc.VariantInput, 0, len(p.Variants))
	for _, v := range p.Variants {
		sizes := make([]merchsvc.SizeInput, 0, len(v.Sizes))
		for _, s := range v.Sizes {
			sizes = append(sizes, merchsvc.SizeInput{
				Name:            s.Name,
				OriginalPrice:   s.OriginalPrice,
				MembershipPrice: s.MembershipPrice,
			})
		}
		variants = append(variants, merchsvc.VariantInput{
			Name:            v.Name,
			PictureURL:      v.PictureURL,
			OriginalPrice:   v.OriginalPrice,
			MembershipPrice: v.MembershipPrice,
			Sizes:           sizes,
		})
	}
	return variants
}

// MerchandiseCreate publishes a new listing; shop operators only.
func MerchandiseCreate(svc merchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "merchandise service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())

		var payload listingPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.CreateListing(r.Context(), userID, merchsvc.CreateInput{
			ShopID:          payload.ShopID,
			Name:            payload.Name,
			Description:     payload.Description,
			ReceivingInfo:   payload.ReceivingInfo,
			OnlinePayment:   payload.OnlinePayment,
			PhysicalPayment: payload.PhysicalPayment,
			Cancellable:     payload.Cancellable,
			VariantLabel:    payload.VariantLabel,
			Tags:            payload.Tags,
			PictureURLs:     payload.PictureURLs,
			Variants:        payload.variants(),
			CategoryIDs:     payload.CategoryIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// MerchandiseUpdate replaces a listing's content; shop operators only.
func MerchandiseUpdate(svc merchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "merchandise service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		merchandiseID, err := validators.ParsePathUUID(chi.URLParam(r, "merchandiseID"), "merchandiseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload listingPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.UpdateListing(r.Context(), userID, merchandiseID, merchsvc.UpdateInput{
			Name:            payload.Name,
			Description:     payload.Description,
			ReceivingInfo:   payload.ReceivingInfo,
			OnlinePayment:   payload.OnlinePayment,
			PhysicalPayment: payload.PhysicalPayment,
			Cancellable:     payload.Cancellable,
			VariantLabel:    payload.VariantLabel,
			Tags:            payload.Tags,
			PictureURLs:     payload.PictureURLs,
			Variants:        payload.variants(),
			CategoryIDs:     payload.CategoryIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// MerchandiseDelete removes a listing; shop operators only.
func MerchandiseDelete(svc merchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "merchandise service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		merchandiseID, err := validators.ParsePathUUID(chi.URLParam(r, "merchandiseID"), "merchandiseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteListing(r.Context(), userID, merchandiseID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
