package handler

import (
	"websecurity/internal/config"
	"websecurity/internal/dto"
	"websecurity/internal/middleware"
	"websecurity/internal/service"
	"websecurity/internal/utils"

	"github.com/gin-gonic/gin"
)

// ActivityHandler 训练活动处理器
type ActivityHandler struct {
	activityService *service.ActivityService
	pagination      *config.PaginationConfig
}

// NewActivityHandler 创建活动处理器
func NewActivityHandler(activityService *service.ActivityService, pagination *config.PaginationConfig) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		pagination:      pagination,
	}
}

// List 可见活动列表
func (h *ActivityHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	page, perPage, offset := pageParams(c, h.pagination)

	activities, total, err := h.activityService.List(userID, offset, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, dto.NewActivityResponses(activities), total, page, perPage)
}

// ListOwn 我创建的活动
func (h *ActivityHandler) ListOwn(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	page, perPage, offset := pageParams(c, h.pagination)

	activities, total, err := h.activityService.ListOwn(userID, offset, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, dto.NewActivityResponses(activities), total, page, perPage)
}

// Get 活动详情
func (h *ActivityHandler) Get(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.activityService.Get(userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, dto.ActivityDetailResponse{
		ActivityResponse: dto.NewActivityResponse(detail.Activity),
		Completed:        detail.Completed,
	})
}

// Create 创建活动
func (h *ActivityHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	activity, err := h.activityService.Create(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, "activity created", dto.NewActivityResponse(activity))
}

// Edit 编辑活动
func (h *ActivityHandler) Edit(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.EditActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	activity, err := h.activityService.Edit(userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "activity updated", dto.NewActivityResponse(activity))
}

// Delete 删除活动
func (h *ActivityHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.activityService.Delete(userID, id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "activity deleted", gin.H{"success": true})
}

// Veto 否决活动
func (h *ActivityHandler) Veto(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.VetoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	activity, err := h.activityService.Veto(userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "activity vetoed", dto.NewActivityResponse(activity))
}

// Unveto 撤销否决
func (h *ActivityHandler) Unveto(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	activity, err := h.activityService.Unveto(userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "activity unvetoed", dto.NewActivityResponse(activity))
}
