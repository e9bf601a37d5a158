package service

import (
	"errors"
	"fmt"
	"time"

	"websecurity/internal/apperr"
	"websecurity/internal/models"
	"websecurity/internal/repository"
	"websecurity/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// maxIdentifierAttempts 标识符冲突时的最大重试次数
const maxIdentifierAttempts = 5

// Clock 当前时间，测试中可替换
type Clock func() time.Time

// loadRequester 加载发起操作的用户及其已完成活动
func loadRequester(tx *repository.Store, userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, apperr.Unauthenticated("authentication is required")
	}
	user, err := tx.Users.GetByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unauthenticated("authentication is required")
	}
	if err != nil {
		return nil, fmt.Errorf("加载用户失败: %w", err)
	}
	return user, nil
}

// notFound 将记录不存在转换为业务错误，其余错误原样包装
func notFound(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity, id)
	}
	return fmt.Errorf("加载%s失败: %w", entity, err)
}

// newIdentifier 生成不重复的 PREFIX-XXXXXXXXXX 标识符
func newIdentifier(ids utils.IdentifierGenerator, prefix string, exists func(string) (bool, error)) (string, error) {
	for i := 0; i < maxIdentifierAttempts; i++ {
		identifier := prefix + "-" + ids.Generate()
		taken, err := exists(identifier)
		if err != nil {
			return "", fmt.Errorf("检查标识符失败: %w", err)
		}
		if !taken {
			return identifier, nil
		}
	}
	return "", fmt.Errorf("无法生成唯一标识符: 已重试%d次", maxIdentifierAttempts)
}

// logDenied 记录被拒绝的操作
func logDenied(logger logrus.FieldLogger, op string, userID uint, err error) {
	if kind := apperr.KindOf(err); kind != "" {
		logger.WithFields(logrus.Fields{
			"op":      op,
			"user_id": userID,
			"kind":    kind,
			"reason":  apperr.ReasonOf(err),
		}).Info("operation denied")
		return
	}
	logger.WithFields(logrus.Fields{
		"op":      op,
		"user_id": userID,
	}).WithError(err).Error("operation failed")
}
