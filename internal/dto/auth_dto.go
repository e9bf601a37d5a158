package dto

import "websecurity/internal/models"

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username      string `json:"username" validate:"required,username"`
	Password      string `json:"password" validate:"required,min=6,max=30"`
	FirstName     string `json:"first_name" validate:"max=30"`
	LastName      string `json:"last_name" validate:"max=30"`
	Email         string `json:"email" validate:"omitempty,email,max=50"`
	Phone         string `json:"phone" validate:"omitempty,phone,max=30"`
	CompanyOrTeam string `json:"company_or_team" validate:"max=100"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        UserInfo `json:"user"`
}

// EditProfileRequest 编辑个人资料，密码为空时不修改
type EditProfileRequest struct {
	Username      string `json:"username" validate:"required,username"`
	FirstName     string `json:"first_name" validate:"max=30"`
	LastName      string `json:"last_name" validate:"max=30"`
	Email         string `json:"email" validate:"omitempty,email,max=50"`
	Phone         string `json:"phone" validate:"omitempty,phone,max=30"`
	CompanyOrTeam string `json:"company_or_team" validate:"max=100"`
	Password      string `json:"password" validate:"omitempty,min=6,max=30"`
}

// UserSummary 用户简要信息
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// UserInfo 用户信息
type UserInfo struct {
	ID            uint   `json:"id"`
	Username      string `json:"username"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	CompanyOrTeam string `json:"company_or_team"`
	Vetoed        bool   `json:"vetoed"`
	IsAdmin       bool   `json:"is_admin"`
}

// ProfileResponse 个人资料
type ProfileResponse struct {
	User                UserInfo             `json:"user"`
	Own                 bool                 `json:"own"`
	Attachments         []AttachmentResponse `json:"attachments"`
	CompletedActivities []ActivitySummary    `json:"completed_activities"`
}

// NewUserSummary 转换用户简要信息
func NewUserSummary(u *models.User) UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username}
}

// NewUserInfo 转换用户信息
func NewUserInfo(u *models.User) UserInfo {
	return UserInfo{
		ID:            u.ID,
		Username:      u.Username,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		Phone:         u.Phone,
		CompanyOrTeam: u.CompanyOrTeam,
		Vetoed:        u.Vetoed,
		IsAdmin:       u.IsAdmin,
	}
}
