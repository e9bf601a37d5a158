package handler

import (
	"websecurity/internal/dto"
	"websecurity/internal/middleware"
	"websecurity/internal/service"
	"websecurity/internal/utils"

	"github.com/gin-gonic/gin"
)

// ProfileHandler 个人资料处理器
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler 创建个人资料处理器
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetOwn 查看自己的资料
func (h *ProfileHandler) GetOwn(c *gin.Context) {
	h.get(c, 0)
}

// Get 查看指定用户的资料
func (h *ProfileHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	h.get(c, id)
}

func (h *ProfileHandler) get(c *gin.Context, profileID uint) {
	userID, _ := middleware.GetUserID(c)

	profile, err := h.profileService.Get(userID, profileID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, dto.ProfileResponse{
		User:                dto.NewUserInfo(profile.User),
		Own:                 profile.Own,
		Attachments:         dto.NewAttachmentResponses(profile.Attachments),
		CompletedActivities: dto.NewActivitySummaries(profile.CompletedActivities),
	})
}

// Edit 编辑自己的资料
func (h *ProfileHandler) Edit(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.EditProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.profileService.Edit(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "profile updated", dto.NewUserInfo(user))
}
