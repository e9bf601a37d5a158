package handler

import (
	"websecurity/internal/config"
	"websecurity/internal/dto"
	"websecurity/internal/service"
	"websecurity/internal/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler 管理员处理器
type AdminHandler struct {
	authService *service.AuthService
	pagination  *config.PaginationConfig
}

// NewAdminHandler 创建管理员处理器
func NewAdminHandler(authService *service.AuthService, pagination *config.PaginationConfig) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		pagination:  pagination,
	}
}

// ListUsers 获取所有用户
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, perPage, offset := pageParams(c, h.pagination)

	users, total, err := h.authService.ListUsers(offset, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.UserInfo, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserInfo(&users[i]))
	}
	utils.PaginatedResponse(c, items, total, page, perPage)
}
