package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"restaurant_gateway/internal/middleware"
	"restaurant_gateway/internal/repositories"
	"restaurant_gateway/internal/services"
	"restaurant_gateway/internal/session"
	"restaurant_gateway/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps errors shared by every handler. fallback is the
// message used for anything unexpected.
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrRequestInFlight):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeRequestInFlight, "A request for this action is already in progress.", err.Error()))
	case errors.Is(err, services.ErrNotOwner):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You can only access your own orders.", err.Error()))
	case errors.Is(err, session.ErrNoEditableOrder):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "No order is being edited.", err.Error()))
	case errors.Is(err, repositories.ErrUnauthorized):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Your sign-in has expired, please sign in again.", err.Error()))
	case errors.Is(err, repositories.ErrForbidden):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You do not have permission to do this.", err.Error()))
	case errors.Is(err, repositories.ErrNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Not found.", err.Error()))
	case errors.Is(err, repositories.ErrConflict):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), err.Error()))
	case errors.Is(err, repositories.ErrBadRequest):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "The request was rejected as invalid.", err.Error()))
	case errors.Is(err, repositories.ErrUpstream), errors.Is(err, repositories.ErrDecode):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadGateway, utils.ErrCodeUpstreamUnavailable, fallback, "Upstream error"))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}

func parseIDParam(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+label+" ID format.", c.Param(name)))
		return 0, false
	}
	return id, true
}

// requireSession returns the caller's session or answers 500; the session
// middleware is missing when it is absent.
func requireSession(c *gin.Context) (*session.Session, bool) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Session unavailable.", "session middleware not installed"))
		return nil, false
	}
	return sess, true
}
