package repository

import (
	"websecurity/internal/models"

	"gorm.io/gorm"
)

// ActivityRepository 活动数据访问层
type ActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository 创建活动Repository
func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create 创建活动
func (r *ActivityRepository) Create(activity *models.Activity) error {
	return r.db.Omit("Author").Create(activity).Error
}

// GetByID 根据ID获取活动
func (r *ActivityRepository) GetByID(id uint) (*models.Activity, error) {
	var activity models.Activity
	err := r.db.Preload("Author").First(&activity, id).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// GetByIdentifier 根据标识符获取活动
func (r *ActivityRepository) GetByIdentifier(identifier string) (*models.Activity, error) {
	var activity models.Activity
	err := r.db.Where("identifier = ?", identifier).First(&activity).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// GetByIDs 根据ID列表获取活动
func (r *ActivityRepository) GetByIDs(ids []uint) ([]models.Activity, error) {
	var activities []models.Activity
	if len(ids) == 0 {
		return activities, nil
	}
	err := r.db.Where("id IN ?", ids).Order("id").Find(&activities).Error
	return activities, err
}

// ExistsByIdentifier 检查标识符是否存在
func (r *ActivityRepository) ExistsByIdentifier(identifier string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Activity{}).Where("identifier = ?", identifier).Count(&count).Error
	return count > 0, err
}

// Update 更新活动
func (r *ActivityRepository) Update(activity *models.Activity) error {
	return r.db.Omit("Author").Save(activity).Error
}

// Delete 删除活动
func (r *ActivityRepository) Delete(id uint) error {
	return r.db.Delete(&models.Activity{}, id).Error
}

// ListVisible 获取对用户可见的活动列表
func (r *ActivityRepository) ListVisible(user *models.User, offset, limit int) ([]models.Activity, int64, error) {
	var activities []models.Activity
	var total int64

	if err := r.db.Model(&models.Activity{}).Scopes(visibleActivities(user)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Scopes(visibleActivities(user), paginate(offset, limit)).
		Preload("Author").Order("id").Find(&activities).Error
	return activities, total, err
}

// ListByAuthor 获取用户创建的活动列表
func (r *ActivityRepository) ListByAuthor(authorID uint, offset, limit int) ([]models.Activity, int64, error) {
	var activities []models.Activity
	var total int64

	if err := r.db.Model(&models.Activity{}).Where("author_id = ?", authorID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("author_id = ?", authorID).Scopes(paginate(offset, limit)).
		Preload("Author").Order("id").Find(&activities).Error
	return activities, total, err
}

// visibleActivities 管理员可见除他人草稿外的全部，普通用户还排除他人被否决的
func visibleActivities(user *models.User) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if user.IsAdmin {
			return db.Where("activities.author_id = ? OR activities.draft = ?", user.ID, false)
		}
		return db.Where("activities.author_id = ? OR (activities.draft = ? AND activities.vetoed = ?)", user.ID, false, false)
	}
}
