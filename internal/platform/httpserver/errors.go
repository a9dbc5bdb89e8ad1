package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	catalogerrors "eshop/contexts/catalog/domain/errors"
	identityerrors "eshop/contexts/identity/domain/errors"
	identityhttp "eshop/contexts/identity/transport/http"
	orderingerrors "eshop/contexts/ordering/domain/errors"
	"eshop/internal/platform/uploads"
)

func writeIdentityDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identityerrors.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, identityerrors.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, identityerrors.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "invalid_credentials", err.Error())
	case errors.Is(err, identityerrors.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, identityerrors.ErrTokenInvalid),
		errors.Is(err, identityerrors.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCatalogDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogerrors.ErrCategoryNotFound):
		writeError(w, http.StatusNotFound, "category_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, "invalid_category", err.Error())
	case errors.Is(err, catalogerrors.ErrInvalidStock):
		writeError(w, http.StatusBadRequest, "invalid_stock", err.Error())
	case errors.Is(err, catalogerrors.ErrImageRequired):
		writeError(w, http.StatusBadRequest, "image_required", err.Error())
	case errors.Is(err, catalogerrors.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, uploads.ErrInvalidFileType):
		writeError(w, http.StatusBadRequest, "invalid_file_type", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeOrderingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orderingerrors.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, orderingerrors.ErrLineItemNotFound):
		writeError(w, http.StatusNotFound, "order_item_not_found", err.Error())
	case errors.Is(err, orderingerrors.ErrUnknownProduct):
		writeError(w, http.StatusBadRequest, "unknown_product", err.Error())
	case errors.Is(err, orderingerrors.ErrInvalidQuantity),
		errors.Is(err, orderingerrors.ErrMissingShippingField),
		errors.Is(err, orderingerrors.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, orderingerrors.ErrOrderItemCreation),
		errors.Is(err, orderingerrors.ErrOrderCreation):
		writeError(w, http.StatusInternalServerError, "order_creation_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, identityhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
