package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/respond"
	"github.com/MrSnakeDoc/shelf/internal/logger"
)

const (
	CodeInvalidJSON        = "INVALID_JSON"
	CodeMissingFields      = "MISSING_REQUIRED_FIELDS"
	CodeDuplicateSlug      = "DUPLICATE_SLUG"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeAppNotFound        = "APP_NOT_FOUND"
	CodeBookmarkNotFound   = "BOOKMARK_NOT_FOUND"
	CodeDuplicateBookmark  = "DUPLICATE_BOOKMARK"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// writeError maps a service error to its status and body. notFound is the
// message used for domain.ErrNotFound ("App not found").
func writeError(w http.ResponseWriter, r *http.Request, d deps.Deps, err error, notFound string) {
	var invalid *domain.InvalidParameterError
	var missing *domain.MissingFieldsError

	switch {
	case errors.As(err, &invalid):
		respond.Error(w, http.StatusBadRequest, invalid.Code(), invalid.Error())
	case errors.As(err, &missing):
		respond.Error(w, http.StatusBadRequest, CodeMissingFields, missing.Error())
	case errors.Is(err, domain.ErrNotFound):
		respond.JSON(w, http.StatusNotFound, respond.ErrorBody{Error: notFound})
	case errors.Is(err, domain.ErrDuplicateSlug):
		respond.Error(w, http.StatusConflict, CodeDuplicateSlug, "Item with this slug already exists")
	case errors.Is(err, domain.ErrUnauthorized):
		respond.Error(w, http.StatusUnauthorized, CodeUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrAppNotFound):
		respond.Error(w, http.StatusNotFound, CodeAppNotFound, "App not found")
	case errors.Is(err, domain.ErrBookmarkNotFound):
		respond.Error(w, http.StatusNotFound, CodeBookmarkNotFound, "Bookmark not found")
	case errors.Is(err, domain.ErrDuplicateBookmark):
		respond.Error(w, http.StatusConflict, CodeDuplicateBookmark, "Bookmark already exists")
	case errors.Is(err, domain.ErrEmailTaken):
		respond.Error(w, http.StatusConflict, CodeEmailTaken, "Email already registered")
	case errors.Is(err, domain.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid email or password")
	default:
		internalError(w, r, d, err)
	}
}

func internalError(w http.ResponseWriter, r *http.Request, d deps.Deps, err error) {
	d.Logger.With(
		logger.String("method", r.Method),
		logger.String("path", r.URL.Path),
		logger.String("request_id", middleware.GetReqID(r.Context())),
	).Error("request failed", logger.Error(err))

	code := CodeInternal
	if errors.Is(err, domain.ErrStorageUnavailable) {
		code = CodeStorageUnavailable
	}
	msg := "Internal server error"
	if !d.Production {
		msg += ": " + err.Error()
	}
	respond.Error(w, http.StatusInternalServerError, code, msg)
}
