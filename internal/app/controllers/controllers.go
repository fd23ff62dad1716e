// Package controllers handles HTTP request handling
package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/eventhub/internal/middleware"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
)

// pathUUID parses the uuid path parameter name. On failure it writes a 400
// response and returns false.
func pathUUID(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		middleware.AbortWithBadRequest(ctx, "Invalid "+name, "must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated user id or writes a 401 response
func currentUser(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return 0, false
	}
	return userID, true
}
