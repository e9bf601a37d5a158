package service

import (
	"errors"
	"fmt"
	"time"

	"websecurity/internal/apperr"
	"websecurity/internal/dto"
	"websecurity/internal/models"
	"websecurity/internal/repository"
	"websecurity/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// sessionTimeLayout 令牌中时间戳部分的格式
const sessionTimeLayout = "2006-01-02 15:04:05.000000"

// SessionService 活动练习会话服务
type SessionService struct {
	store  *repository.Store
	logger logrus.FieldLogger
	now    Clock
}

// NewSessionService 创建会话服务
func NewSessionService(store *repository.Store, logger logrus.FieldLogger) *SessionService {
	return &SessionService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Begin 开始练习，已有会话时替换令牌
func (s *SessionService) Begin(userID uint, identifier string) (*models.ActivitySession, error) {
	var session *models.ActivitySession
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		activity, err := loadActivityByIdentifier(tx, identifier)
		if err != nil {
			return err
		}

		session, err = tx.Sessions.Get(user.ID, activity.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			session = &models.ActivitySession{UserID: user.ID, ActivityID: activity.ID}
		} else if err != nil {
			return fmt.Errorf("获取会话失败: %w", err)
		}

		session.Token = user.Username + s.now().Format(sessionTimeLayout)
		if err := tx.Sessions.Save(session); err != nil {
			return fmt.Errorf("保存会话失败: %w", err)
		}
		return nil
	})
	if err != nil {
		logDenied(s.logger, "session.begin", userID, err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"identifier": identifier,
	}).Info("session started")
	return session, nil
}

// Complete 提交令牌完成练习，活动非草稿时记入已完成
func (s *SessionService) Complete(userID uint, identifier string, req *dto.CompleteSessionRequest) error {
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		activity, err := loadActivityByIdentifier(tx, identifier)
		if err != nil {
			return err
		}
		if err := utils.ValidateStruct(req); err != nil {
			return err
		}

		session, err := tx.Sessions.GetByToken(user.ID, activity.ID, req.Token)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return (&apperr.Error{
				Kind:    apperr.KindNotFound,
				Reason:  apperr.ReasonSessionNotFound,
				Message: "no active session matches the submitted token",
			}).On("activity", activity.ID)
		}
		if err != nil {
			return fmt.Errorf("获取会话失败: %w", err)
		}

		if err := tx.Sessions.Delete(session.ID); err != nil {
			return fmt.Errorf("删除会话失败: %w", err)
		}
		if activity.Draft {
			return nil
		}
		return tx.Users.AddCompletedActivity(user.ID, activity.ID)
	})
	if err != nil {
		logDenied(s.logger, "session.complete", userID, err)
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"identifier": identifier,
	}).Info("session completed")
	return nil
}

func loadActivityByIdentifier(tx *repository.Store, identifier string) (*models.Activity, error) {
	if !models.IdentifierPattern.MatchString(identifier) {
		return nil, apperr.NotFoundByKey("activity", identifier)
	}
	activity, err := tx.Activities.GetByIdentifier(identifier)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundByKey("activity", identifier)
	}
	if err != nil {
		return nil, fmt.Errorf("加载活动失败: %w", err)
	}
	return activity, nil
}
