package handler

import (
	"websecurity/internal/apperr"
	"websecurity/internal/dto"
	"websecurity/internal/middleware"
	"websecurity/internal/service"
	"websecurity/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SessionHandler 活动练习会话处理器
// 会话接口的任何失败都返回通用的500，不区分原因
type SessionHandler struct {
	sessionService *service.SessionService
	logger         logrus.FieldLogger
}

// NewSessionHandler 创建会话处理器
func NewSessionHandler(sessionService *service.SessionService, logger logrus.FieldLogger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

// Begin 开始练习
func (h *SessionHandler) Begin(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var target dto.SessionTarget
	if err := c.ShouldBindUri(&target); err != nil {
		h.fail(c, err)
		return
	}
	if err := utils.ValidateStruct(&target); err != nil {
		h.fail(c, err)
		return
	}

	session, err := h.sessionService.Begin(userID, target.Identifier)
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.SuccessResponse(c, dto.SessionResponse{
		Identifier: target.Identifier,
		Token:      session.Token,
	})
}

// Complete 提交令牌
func (h *SessionHandler) Complete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var target dto.SessionTarget
	if err := c.ShouldBindUri(&target); err != nil {
		h.fail(c, err)
		return
	}

	var req dto.CompleteSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, err)
		return
	}

	if err := h.sessionService.Complete(userID, target.Identifier, &req); err != nil {
		h.fail(c, err)
		return
	}

	utils.SuccessWithMessage(c, "activity completed", gin.H{"success": true})
}

func (h *SessionHandler) fail(c *gin.Context, err error) {
	if apperr.KindOf(err) == "" {
		_ = c.Error(err)
	}
	h.logger.WithFields(logrus.Fields{
		"path":   c.FullPath(),
		"reason": apperr.ReasonOf(err),
	}).WithError(err).Warn("session request failed")
	utils.InternalError(c, "internal server error")
}
