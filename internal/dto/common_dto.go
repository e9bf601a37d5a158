package dto

// PageQuery 分页查询参数
type PageQuery struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}

// PaginatedResponse 分页响应
type PaginatedResponse struct {
	Items   interface{} `json:"data"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
}

// VetoRequest 否决请求
type VetoRequest struct {
	Reason string `json:"veto_reason" validate:"required,notblank,max=1000"`
}
