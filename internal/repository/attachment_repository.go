package repository

import (
	"websecurity/internal/models"

	"gorm.io/gorm"
)

// AttachmentRepository 附件数据访问层
type AttachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository 创建附件Repository
func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// Create 创建附件
func (r *AttachmentRepository) Create(attachment *models.Attachment) error {
	return r.db.Omit("User").Create(attachment).Error
}

// GetByID 根据ID获取附件
func (r *AttachmentRepository) GetByID(id uint) (*models.Attachment, error) {
	var attachment models.Attachment
	err := r.db.First(&attachment, id).Error
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

// Update 更新附件
func (r *AttachmentRepository) Update(attachment *models.Attachment) error {
	return r.db.Omit("User").Save(attachment).Error
}

// Delete 删除附件
func (r *AttachmentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Attachment{}, id).Error
}

// ListByUserID 获取用户的附件
func (r *AttachmentRepository) ListByUserID(userID uint) ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := r.db.Where("user_id = ?", userID).Order("id").Find(&attachments).Error
	return attachments, err
}
