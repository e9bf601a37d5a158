package dto

import (
	"time"

	"websecurity/internal/models"
)

// AttachmentRequest 创建或修改附件
type AttachmentRequest struct {
	URL string `json:"url" validate:"required,url,max=200"`
}

// AttachmentResponse 附件响应
type AttachmentResponse struct {
	ID        uint      `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAttachmentResponses 批量转换
func NewAttachmentResponses(attachments []models.Attachment) []AttachmentResponse {
	res := make([]AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		res = append(res, AttachmentResponse{ID: a.ID, URL: a.URL, CreatedAt: a.CreatedAt})
	}
	return res
}
