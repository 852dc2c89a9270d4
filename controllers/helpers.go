package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/discuss/middleware"
	"github.com/cppla/discuss/services"
	"github.com/cppla/discuss/utils"
)

// parseID reads a positive numeric path parameter. On failure it writes a
// 400 response and returns false.
func parseID(ctx *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(ctx.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func currentUser(ctx *gin.Context) (string, bool) {
	user, ok := middleware.Username(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
	}
	return user, ok
}

// renderError maps a service error onto the response envelope.
func renderError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.Error(ctx, http.StatusBadRequest, 40000, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.Error(ctx, http.StatusConflict, 40901, err.Error())
	default:
		utils.Sugar.Errorw("request failed", "path", ctx.FullPath(), "error", err,
			"request_id", ctx.GetString(utils.RequestIDKey))
		utils.Error(ctx, http.StatusInternalServerError, 50000, "internal server error")
	}
}

type contentRequest struct {
	Content string `json:"content"`
}

type reportRequest struct {
	Reason string `json:"reason"`
}
