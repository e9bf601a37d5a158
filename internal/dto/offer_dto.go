package dto

import (
	"time"

	"websecurity/internal/models"
)

// CreateOfferRequest 创建招聘请求
type CreateOfferRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=1000"`
	ActivityIDs []uint `json:"activities" validate:"required,min=1"`
}

// EditOfferRequest 编辑招聘请求
type EditOfferRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=1000"`
	ActivityIDs []uint `json:"activities" validate:"required,min=1"`
	Draft       *bool  `json:"draft" validate:"required"`
}

// OfferResponse 招聘响应，标志位针对当前用户计算
type OfferResponse struct {
	ID                    uint              `json:"id"`
	Identifier            string            `json:"identifier"`
	Title                 string            `json:"title"`
	Description           string            `json:"description"`
	Status                string            `json:"status"`
	Draft                 bool              `json:"draft"`
	Closed                bool              `json:"closed"`
	Vetoed                bool              `json:"vetoed"`
	VetoReason            *string           `json:"veto_reason"`
	CreatedDate           time.Time         `json:"created_date"`
	Author                UserSummary       `json:"author"`
	Activities            []ActivitySummary `json:"activities"`
	Solicitable           bool              `json:"solicitable"`
	Retirable             bool              `json:"retirable"`
	HasVetoedPrerequisite bool              `json:"has_vetoed_prerequisite"`
}

// OfferDetailResponse 招聘详情，申请人列表仅作者可见
type OfferDetailResponse struct {
	OfferResponse
	Applicants []UserSummary `json:"applicants,omitempty"`
}

// RequestResponse 申请响应
type RequestResponse struct {
	ID        uint      `json:"id"`
	OfferID   uint      `json:"offer_id"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewOfferResponse 转换招聘响应
func NewOfferResponse(o *models.Offer) OfferResponse {
	return OfferResponse{
		ID:          o.ID,
		Identifier:  o.Identifier,
		Title:       o.Title,
		Description: o.Description,
		Status:      string(o.Status()),
		Draft:       o.Draft,
		Closed:      o.Closed,
		Vetoed:      o.Vetoed,
		VetoReason:  o.VetoReason,
		CreatedDate: o.CreatedDate,
		Author:      UserSummary{ID: o.AuthorID, Username: o.Author.Username},
		Activities:  NewActivitySummaries(o.Activities),
	}
}

// NewRequestResponse 转换申请响应
func NewRequestResponse(r *models.Request) RequestResponse {
	return RequestResponse{
		ID:        r.ID,
		OfferID:   r.OfferID,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
	}
}
