package service

import (
	"fmt"

	"websecurity/internal/dto"
	"websecurity/internal/models"
	"websecurity/internal/repository"
	"websecurity/internal/utils"

	"github.com/sirupsen/logrus"
)

// ProfileService 个人资料与附件服务
type ProfileService struct {
	store  *repository.Store
	logger logrus.FieldLogger
}

// Profile 个人资料视图
type Profile struct {
	User                *models.User
	Own                 bool
	Attachments         []models.Attachment
	CompletedActivities []models.Activity
}

// NewProfileService 创建个人资料服务
func NewProfileService(store *repository.Store, logger logrus.FieldLogger) *ProfileService {
	return &ProfileService{
		store:  store,
		logger: logger,
	}
}

// Get 查看个人资料，profileID 为0时查看自己
func (s *ProfileService) Get(userID, profileID uint) (*Profile, error) {
	var profile *Profile
	err := s.store.Transaction(func(tx *repository.Store) error {
		requester, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}

		target := requester
		if profileID != 0 && profileID != requester.ID {
			target, err = tx.Users.GetByID(profileID)
			if err != nil {
				return notFound(err, "user", profileID)
			}
		}

		attachments, err := tx.Attachments.ListByUserID(target.ID)
		if err != nil {
			return fmt.Errorf("获取附件失败: %w", err)
		}
		completed, err := tx.Users.ListCompletedActivities(target.ID)
		if err != nil {
			return fmt.Errorf("获取已完成活动失败: %w", err)
		}

		profile = &Profile{
			User:                target,
			Own:                 target.ID == requester.ID,
			Attachments:         attachments,
			CompletedActivities: completed,
		}
		return nil
	})
	return profile, err
}

// Edit 编辑自己的资料
func (s *ProfileService) Edit(userID uint, req *dto.EditProfileRequest) (*models.User, error) {
	var user *models.User
	err := s.store.Transaction(func(tx *repository.Store) error {
		var err error
		user, err = loadRequester(tx, userID)
		if err != nil {
			return err
		}
		if err := utils.ValidateStruct(req); err != nil {
			return err
		}

		if req.Username != user.Username {
			taken, err := tx.Users.ExistsByUsername(req.Username, user.ID)
			if err != nil {
				return fmt.Errorf("检查用户名失败: %w", err)
			}
			if taken {
				return duplicateUsername()
			}
		}

		user.Username = req.Username
		user.FirstName = req.FirstName
		user.LastName = req.LastName
		user.Email = req.Email
		user.Phone = req.Phone
		user.CompanyOrTeam = req.CompanyOrTeam
		if req.Password != "" {
			hashed, err := utils.HashPassword(req.Password)
			if err != nil {
				return fmt.Errorf("密码哈希失败: %w", err)
			}
			user.PasswordHash = hashed
		}
		if err := tx.Users.Update(user); err != nil {
			return userWriteError(err, "更新用户失败")
		}
		return nil
	})
	if err != nil {
		logDenied(s.logger, "profile.edit", userID, err)
		return nil, err
	}

	s.logger.WithField("user_id", userID).Info("profile edited")
	return user, nil
}
