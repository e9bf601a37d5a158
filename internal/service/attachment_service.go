package service

import (
	"fmt"

	"websecurity/internal/apperr"
	"websecurity/internal/dto"
	"websecurity/internal/models"
	"websecurity/internal/repository"
	"websecurity/internal/utils"

	"github.com/sirupsen/logrus"
)

// AttachmentService 用户附件服务，只有所有者可以修改
type AttachmentService struct {
	store  *repository.Store
	logger logrus.FieldLogger
}

// NewAttachmentService 创建附件服务
func NewAttachmentService(store *repository.Store, logger logrus.FieldLogger) *AttachmentService {
	return &AttachmentService{
		store:  store,
		logger: logger,
	}
}

// List 当前用户的附件
func (s *AttachmentService) List(userID uint) ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		attachments, err = tx.Attachments.ListByUserID(user.ID)
		return err
	})
	return attachments, err
}

// Create 添加附件
func (s *AttachmentService) Create(userID uint, req *dto.AttachmentRequest) (*models.Attachment, error) {
	var attachment *models.Attachment
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		if err := utils.ValidateStruct(req); err != nil {
			return err
		}
		attachment = &models.Attachment{UserID: user.ID, URL: req.URL}
		if err := tx.Attachments.Create(attachment); err != nil {
			return fmt.Errorf("创建附件失败: %w", err)
		}
		return nil
	})
	if err != nil {
		logDenied(s.logger, "attachment.create", userID, err)
		return nil, err
	}
	return attachment, nil
}

// Edit 修改附件地址
func (s *AttachmentService) Edit(userID, attachmentID uint, req *dto.AttachmentRequest) (*models.Attachment, error) {
	var attachment *models.Attachment
	err := s.store.Transaction(func(tx *repository.Store) error {
		var err error
		attachment, err = s.owned(tx, userID, attachmentID)
		if err != nil {
			return err
		}
		if err := utils.ValidateStruct(req); err != nil {
			return err
		}
		attachment.URL = req.URL
		if err := tx.Attachments.Update(attachment); err != nil {
			return fmt.Errorf("更新附件失败: %w", err)
		}
		return nil
	})
	if err != nil {
		logDenied(s.logger, "attachment.edit", userID, err)
		return nil, err
	}
	return attachment, nil
}

// Delete 删除附件
func (s *AttachmentService) Delete(userID, attachmentID uint) error {
	err := s.store.Transaction(func(tx *repository.Store) error {
		attachment, err := s.owned(tx, userID, attachmentID)
		if err != nil {
			return err
		}
		return tx.Attachments.Delete(attachment.ID)
	})
	if err != nil {
		logDenied(s.logger, "attachment.delete", userID, err)
	}
	return err
}

// owned 加载附件并检查所有权
func (s *AttachmentService) owned(tx *repository.Store, userID, attachmentID uint) (*models.Attachment, error) {
	user, err := loadRequester(tx, userID)
	if err != nil {
		return nil, err
	}
	attachment, err := tx.Attachments.GetByID(attachmentID)
	if err != nil {
		return nil, notFound(err, "attachment", attachmentID)
	}
	if attachment.UserID != user.ID {
		return nil, apperr.Unauthorized(apperr.ReasonNotOwner, "you do not own this attachment").
			On("attachment", attachment.ID)
	}
	return attachment, nil
}
