package service

import (
	"fmt"
	"time"

	"websecurity/internal/dto"
	"websecurity/internal/eligibility"
	"websecurity/internal/models"
	"websecurity/internal/repository"
	"websecurity/internal/utils"

	"github.com/sirupsen/logrus"
)

// ActivityService 训练活动服务
type ActivityService struct {
	store  *repository.Store
	ids    utils.IdentifierGenerator
	logger logrus.FieldLogger
	now    Clock
}

// ActivityDetail 活动详情及当前用户是否已完成
type ActivityDetail struct {
	Activity  *models.Activity
	Completed bool
}

// NewActivityService 创建活动服务
func NewActivityService(store *repository.Store, ids utils.IdentifierGenerator, logger logrus.FieldLogger) *ActivityService {
	return &ActivityService{
		store:  store,
		ids:    ids,
		logger: logger,
		now:    time.Now,
	}
}

// List 当前用户可见的活动
func (s *ActivityService) List(userID uint, offset, limit int) ([]models.Activity, int64, error) {
	var (
		activities []models.Activity
		total      int64
	)
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		activities, total, err = tx.Activities.ListVisible(user, offset, limit)
		return err
	})
	return activities, total, err
}

// ListOwn 当前用户创建的活动
func (s *ActivityService) ListOwn(userID uint, offset, limit int) ([]models.Activity, int64, error) {
	var (
		activities []models.Activity
		total      int64
	)
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		activities, total, err = tx.Activities.ListByAuthor(user.ID, offset, limit)
		return err
	})
	return activities, total, err
}

// Get 活动详情
func (s *ActivityService) Get(userID, activityID uint) (*ActivityDetail, error) {
	var detail *ActivityDetail
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		activity, err := tx.Activities.GetByID(activityID)
		if err != nil {
			return notFound(err, "activity", activityID)
		}
		if err := eligibility.CanViewActivity(user, activity); err != nil {
			return err
		}
		detail = &ActivityDetail{Activity: activity, Completed: user.HasCompleted(activity.ID)}
		return nil
	})
	return detail, err
}

// Create 创建草稿活动
func (s *ActivityService) Create(userID uint, req *dto.CreateActivityRequest) (*models.Activity, error) {
	var activity *models.Activity
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		if err := utils.ValidateStruct(req); err != nil {
			return err
		}

		identifier, err := newIdentifier(s.ids, models.ActivityPrefix, tx.Activities.ExistsByIdentifier)
		if err != nil {
			return err
		}

		activity = &models.Activity{
			Title:          req.Title,
			Link:           req.Link,
			Description:    req.Description,
			Draft:          true,
			CommentEnabled: req.CommentEnabled,
			CreatedDate:    models.Today(s.now()),
			Identifier:     identifier,
			AuthorID:       user.ID,
			Author:         *user,
		}
		if err := tx.Activities.Create(activity); err != nil {
			return fmt.Errorf("创建活动失败: %w", err)
		}
		return nil
	})
	if err != nil {
		logDenied(s.logger, "activity.create", userID, err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"identifier": activity.Identifier,
	}).Info("activity created")
	return activity, nil
}

// Edit 编辑草稿活动，draft=false 即发布
func (s *ActivityService) Edit(userID, activityID uint, req *dto.EditActivityRequest) (*models.Activity, error) {
	var activity *models.Activity
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		activity, err = tx.Activities.GetByID(activityID)
		if err != nil {
			return notFound(err, "activity", activityID)
		}
		if err := eligibility.CheckEditActivity(user, activity); err != nil {
			return err
		}
		if err := utils.ValidateStruct(req); err != nil {
			return err
		}

		activity.Title = req.Title
		activity.Link = req.Link
		activity.Description = req.Description
		activity.CommentEnabled = req.CommentEnabled
		activity.Draft = *req.Draft
		if err := tx.Activities.Update(activity); err != nil {
			return fmt.Errorf("更新活动失败: %w", err)
		}
		return nil
	})
	if err != nil {
		logDenied(s.logger, "activity.edit", userID, err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"identifier": activity.Identifier,
		"status":     activity.Status(),
	}).Info("activity edited")
	return activity, nil
}

// Delete 删除草稿活动
func (s *ActivityService) Delete(userID, activityID uint) error {
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		activity, err := tx.Activities.GetByID(activityID)
		if err != nil {
			return notFound(err, "activity", activityID)
		}
		if err := eligibility.CheckDeleteActivity(user, activity); err != nil {
			return err
		}
		return tx.Activities.Delete(activity.ID)
	})
	if err != nil {
		logDenied(s.logger, "activity.delete", userID, err)
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":     userID,
		"activity_id": activityID,
	}).Info("activity deleted")
	return nil
}

// Veto 管理员否决已发布的活动
func (s *ActivityService) Veto(userID, activityID uint, req *dto.VetoRequest) (*models.Activity, error) {
	var activity *models.Activity
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		activity, err = tx.Activities.GetByID(activityID)
		if err != nil {
			return notFound(err, "activity", activityID)
		}
		if err := eligibility.CheckVetoActivity(user, activity); err != nil {
			return err
		}
		if err := utils.ValidateStruct(req); err != nil {
			return err
		}

		reason := req.Reason
		activity.Vetoed = true
		activity.VetoReason = &reason
		if err := tx.Activities.Update(activity); err != nil {
			return fmt.Errorf("否决活动失败: %w", err)
		}
		return nil
	})
	if err != nil {
		logDenied(s.logger, "activity.veto", userID, err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"admin_id":   userID,
		"identifier": activity.Identifier,
	}).Info("activity vetoed")
	return activity, nil
}

// Unveto 管理员撤销否决
func (s *ActivityService) Unveto(userID, activityID uint) (*models.Activity, error) {
	var activity *models.Activity
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		activity, err = tx.Activities.GetByID(activityID)
		if err != nil {
			return notFound(err, "activity", activityID)
		}
		if err := eligibility.CheckUnvetoActivity(user, activity); err != nil {
			return err
		}

		activity.Vetoed = false
		activity.VetoReason = nil
		if err := tx.Activities.Update(activity); err != nil {
			return fmt.Errorf("撤销否决失败: %w", err)
		}
		return nil
	})
	if err != nil {
		logDenied(s.logger, "activity.unveto", userID, err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"admin_id":   userID,
		"identifier": activity.Identifier,
	}).Info("activity unvetoed")
	return activity, nil
}
