package dto

import (
	"time"

	"websecurity/internal/models"
)

// CreateActivityRequest 创建活动请求，新活动总是草稿
type CreateActivityRequest struct {
	Title          string `json:"title" validate:"required,max=100"`
	Link           string `json:"link" validate:"required,url,max=200"`
	Description    string `json:"description" validate:"required,max=1000"`
	CommentEnabled bool   `json:"comment_enabled"`
}

// EditActivityRequest 编辑活动请求，draft 必须显式给出
type EditActivityRequest struct {
	Title          string `json:"title" validate:"required,max=100"`
	Link           string `json:"link" validate:"required,url,max=200"`
	Description    string `json:"description" validate:"required,max=1000"`
	CommentEnabled bool   `json:"comment_enabled"`
	Draft          *bool  `json:"draft" validate:"required"`
}

// ActivitySummary 活动简要信息
type ActivitySummary struct {
	ID         uint   `json:"id"`
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	Vetoed     bool   `json:"vetoed"`
}

// ActivityResponse 活动响应
type ActivityResponse struct {
	ID             uint        `json:"id"`
	Identifier     string      `json:"identifier"`
	Title          string      `json:"title"`
	Link           string      `json:"link"`
	Description    string      `json:"description"`
	Status         string      `json:"status"`
	Draft          bool        `json:"draft"`
	Vetoed         bool        `json:"vetoed"`
	VetoReason     *string     `json:"veto_reason"`
	CommentEnabled bool        `json:"comment_enabled"`
	CreatedDate    time.Time   `json:"created_date"`
	Author         UserSummary `json:"author"`
}

// ActivityDetailResponse 活动详情
type ActivityDetailResponse struct {
	ActivityResponse
	Completed bool `json:"completed"`
}

// NewActivityResponse 转换活动响应
func NewActivityResponse(a *models.Activity) ActivityResponse {
	return ActivityResponse{
		ID:             a.ID,
		Identifier:     a.Identifier,
		Title:          a.Title,
		Link:           a.Link,
		Description:    a.Description,
		Status:         string(a.Status()),
		Draft:          a.Draft,
		Vetoed:         a.Vetoed,
		VetoReason:     a.VetoReason,
		CommentEnabled: a.CommentEnabled,
		CreatedDate:    a.CreatedDate,
		Author:         UserSummary{ID: a.AuthorID, Username: a.Author.Username},
	}
}

// NewActivityResponses 批量转换
func NewActivityResponses(activities []models.Activity) []ActivityResponse {
	res := make([]ActivityResponse, 0, len(activities))
	for i := range activities {
		res = append(res, NewActivityResponse(&activities[i]))
	}
	return res
}

// NewActivitySummaries 批量转换为简要信息
func NewActivitySummaries(activities []models.Activity) []ActivitySummary {
	res := make([]ActivitySummary, 0, len(activities))
	for _, a := range activities {
		res = append(res, ActivitySummary{
			ID:         a.ID,
			Identifier: a.Identifier,
			Title:      a.Title,
			Status:     string(a.Status()),
			Vetoed:     a.Vetoed,
		})
	}
	return res
}
