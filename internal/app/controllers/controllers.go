package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/linguahub/linguahub-backend/internal/app/models/dto"
	"github.com/linguahub/linguahub-backend/internal/app/services"
	"github.com/linguahub/linguahub-backend/internal/middleware"
)

// parseIDParam parses a path parameter as an int64 ID. On failure it writes
// the validation response and returns false; the handler should just return.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
		errorDetail = errorDetail.WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// requireActor resolves the authenticated actor set by the JWT middleware
func requireActor(ctx *gin.Context) (services.Actor, bool) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return services.Actor{}, false
	}
	return actor, true
}

// bindJSON binds the request body and writes the validation response on failure
func bindJSON(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}
	return true
}
