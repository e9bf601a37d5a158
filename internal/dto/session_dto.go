package dto

// SessionTarget 会话路径参数
type SessionTarget struct {
	Identifier string `uri:"identifier" validate:"required,identifier"`
}

// CompleteSessionRequest 完成会话请求
type CompleteSessionRequest struct {
	Token string `json:"token" validate:"required,max=100"`
}

// SessionResponse 会话响应
type SessionResponse struct {
	Identifier string `json:"identifier"`
	Token      string `json:"token"`
}
