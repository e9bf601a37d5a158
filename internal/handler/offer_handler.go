package handler

import (
	"websecurity/internal/config"
	"websecurity/internal/dto"
	"websecurity/internal/middleware"
	"websecurity/internal/models"
	"websecurity/internal/service"
	"websecurity/internal/utils"

	"github.com/gin-gonic/gin"
)

// OfferHandler 招聘处理器
type OfferHandler struct {
	offerService *service.OfferService
	pagination   *config.PaginationConfig
}

// NewOfferHandler 创建招聘处理器
func NewOfferHandler(offerService *service.OfferService, pagination *config.PaginationConfig) *OfferHandler {
	return &OfferHandler{
		offerService: offerService,
		pagination:   pagination,
	}
}

// List 可见招聘列表
func (h *OfferHandler) List(c *gin.Context) {
	h.list(c, h.offerService.List)
}

// ListOwn 我创建的招聘
func (h *OfferHandler) ListOwn(c *gin.Context) {
	h.list(c, h.offerService.ListOwn)
}

// ListRequested 我申请的招聘
func (h *OfferHandler) ListRequested(c *gin.Context) {
	h.list(c, h.offerService.ListRequested)
}

func (h *OfferHandler) list(c *gin.Context, fetch func(userID uint, offset, limit int) ([]service.OfferView, int64, error)) {
	userID, _ := middleware.GetUserID(c)
	page, perPage, offset := pageParams(c, h.pagination)

	views, total, err := fetch(userID, offset, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.OfferResponse, 0, len(views))
	for i := range views {
		items = append(items, offerViewResponse(&views[i]))
	}
	utils.PaginatedResponse(c, items, total, page, perPage)
}

// Get 招聘详情
func (h *OfferHandler) Get(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.offerService.Get(userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.OfferDetailResponse{OfferResponse: offerViewResponse(&detail.OfferView)}
	if detail.Applicants != nil {
		resp.Applicants = make([]dto.UserSummary, 0, len(detail.Applicants))
		for i := range detail.Applicants {
			resp.Applicants = append(resp.Applicants, dto.NewUserSummary(&detail.Applicants[i]))
		}
	}
	utils.SuccessResponse(c, resp)
}

// Create 创建招聘
func (h *OfferHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	offer, err := h.offerService.Create(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, "offer created", dto.NewOfferResponse(offer))
}

// Edit 编辑招聘
func (h *OfferHandler) Edit(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.EditOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	offer, err := h.offerService.Edit(userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "offer updated", dto.NewOfferResponse(offer))
}

// Delete 删除招聘
func (h *OfferHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.offerService.Delete(userID, id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "offer deleted", gin.H{"success": true})
}

// Veto 否决招聘
func (h *OfferHandler) Veto(c *gin.Context) {
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

	h.respondOffer(c, "offer vetoed")(h.offerService.Veto(userID, id, &req))
}

// Unveto 撤销否决
func (h *OfferHandler) Unveto(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	h.respondOffer(c, "offer unvetoed")(h.offerService.Unveto(userID, id))
}

// Close 关闭招聘
func (h *OfferHandler) Close(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	h.respondOffer(c, "offer closed")(h.offerService.Close(userID, id))
}

func (h *OfferHandler) respondOffer(c *gin.Context, message string) func(*models.Offer, error) {
	return func(offer *models.Offer, err error) {
		if err != nil {
			respondError(c, err)
			return
		}
		utils.SuccessWithMessage(c, message, dto.NewOfferResponse(offer))
	}
}

// Solicit 申请招聘
func (h *OfferHandler) Solicit(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	request, err := h.offerService.Solicit(userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, "request created", dto.NewRequestResponse(request))
}

// Withdraw 撤回申请
func (h *OfferHandler) Withdraw(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.offerService.Withdraw(userID, id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "request withdrawn", gin.H{"success": true})
}

func offerViewResponse(v *service.OfferView) dto.OfferResponse {
	resp := dto.NewOfferResponse(&v.Offer)
	resp.Solicitable = v.Solicitable
	resp.Retirable = v.Retirable
	resp.HasVetoedPrerequisite = v.HasVetoedPrerequisite
	return resp
}
