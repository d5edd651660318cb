package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shopyard/gocart/internal/core/service"
	"github.com/shopyard/gocart/internal/port"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// respondError maps service errors onto the HTTP taxonomy. Unexpected errors
// return a generic message; details go to the log only.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		stockErr      *port.InsufficientStockError
		validationErr validator.ValidationErrors
	)
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "invalid request: "+validationErr.Error())
	case errors.Is(err, port.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, port.ErrDuplicate):
		// Duplicate brand or category names and repeat reviews both land
		// here, so the message stays resource-neutral.
		writeError(w, http.StatusBadRequest, "already exists")
	case errors.As(err, &stockErr):
		writeError(w, http.StatusConflict, stockErr.Error())
	case errors.Is(err, service.ErrCartEmpty),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrQuantityNeeded),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrWrongMethod),
		errors.Is(err, service.ErrNoSession):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		writeError(w, http.StatusForbidden, "forbidden")
	default:
		logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeAndValidate parses a JSON body into dst and runs its validator tags.
func decodeAndValidate(r *http.Request, validate *validator.Validate, dst interface{}) error {
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(dst); err != nil {
		return errBadBody
	}
	return validate.Struct(dst)
}

var errBadBody = errors.New("invalid request body")

// respondDecodeError distinguishes malformed JSON from validation failures.
func respondDecodeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if errors.Is(err, errBadBody) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	respondError(w, logger, err)
}
