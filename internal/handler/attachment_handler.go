package handler

import (
	"websecurity/internal/dto"
	"websecurity/internal/middleware"
	"websecurity/internal/models"
	"websecurity/internal/service"
	"websecurity/internal/utils"

	"github.com/gin-gonic/gin"
)

// AttachmentHandler 附件处理器
type AttachmentHandler struct {
	attachmentService *service.AttachmentService
}

// NewAttachmentHandler 创建附件处理器
func NewAttachmentHandler(attachmentService *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// List 当前用户的附件
func (h *AttachmentHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	attachments, err := h.attachmentService.List(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, dto.NewAttachmentResponses(attachments))
}

// Create 添加附件
func (h *AttachmentHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.AttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	attachment, err := h.attachmentService.Create(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, "attachment created", attachmentResponse(attachment))
}

// Edit 修改附件
func (h *AttachmentHandler) Edit(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.AttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	attachment, err := h.attachmentService.Edit(userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "attachment updated", attachmentResponse(attachment))
}

// Delete 删除附件
func (h *AttachmentHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.attachmentService.Delete(userID, id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "attachment deleted", gin.H{"success": true})
}

func attachmentResponse(a *models.Attachment) dto.AttachmentResponse {
	return dto.NewAttachmentResponses([]models.Attachment{*a})[0]
}
