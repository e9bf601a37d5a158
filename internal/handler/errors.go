package handler

import (
	"errors"
	"net/http"
	"strconv"

	"websecurity/internal/apperr"
	"websecurity/internal/config"
	"websecurity/internal/utils"

	"github.com/gin-gonic/gin"
)

// statusOf 业务错误类别对应的HTTP状态码
func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindUnauthorized:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidationFailed:
		return http.StatusBadRequest
	case apperr.KindInvalidState:
		return http.StatusUnprocessableEntity
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError 统一错误响应，非业务错误不向客户端暴露细节
func respondError(c *gin.Context, err error) {
	var e *apperr.Error
	if errors.As(err, &e) {
		utils.AppErrorResponse(c, statusOf(e.Kind), e)
		return
	}
	_ = c.Error(err)
	utils.InternalError(c, "internal server error")
}

// bindError 请求体无法解析
func bindError(c *gin.Context, err error) {
	utils.BadRequest(c, "malformed request body: "+err.Error())
}

// parseID 解析路径中的ID
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.NotFound(c, "not found")
		return 0, false
	}
	return uint(id), true
}

// pageParams 解析分页参数，返回 page, perPage, offset
func pageParams(c *gin.Context, cfg *config.PaginationConfig) (int, int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))
	page, perPage = cfg.Normalize(page, perPage)
	return page, perPage, (page - 1) * perPage
}
