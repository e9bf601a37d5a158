package repository

import (
	"websecurity/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository 用户数据访问层
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户Repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID 根据ID获取用户，同时加载已完成活动
func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	ids, err := r.CompletedActivityIDs(user.ID)
	if err != nil {
		return nil, err
	}
	user.CompletedActivityIDs = ids
	return &user, nil
}

// GetByUsername 根据用户名获取用户
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsername 检查用户名是否存在，excludeID 非零时排除该用户
func (r *UserRepository) ExistsByUsername(username string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&models.User{}).Where("username = ?", username)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// GetAdmin 获取任意一个管理员
func (r *UserRepository) GetAdmin() (*models.User, error) {
	var user models.User
	err := r.db.Where("is_admin = ?", true).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update 更新用户
func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// List 分页获取用户列表
func (r *UserRepository) List(offset, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Scopes(paginate(offset, limit)).Order("id").Find(&users).Error
	return users, total, err
}

// CompletedActivityIDs 获取用户已完成的活动ID
func (r *UserRepository) CompletedActivityIDs(userID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.Model(&models.CompletedActivity{}).
		Where("user_id = ?", userID).
		Order("activity_id").
		Pluck("activity_id", &ids).Error
	return ids, err
}

// AddCompletedActivity 记录用户完成了某个活动，重复记录忽略
func (r *UserRepository) AddCompletedActivity(userID, activityID uint) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.CompletedActivity{
		UserID:     userID,
		ActivityID: activityID,
	}).Error
}

// ListCompletedActivities 获取用户已完成的活动
func (r *UserRepository) ListCompletedActivities(userID uint) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.Joins("JOIN user_completed_activities uca ON uca.activity_id = activities.id").
		Where("uca.user_id = ?", userID).
		Order("activities.id").
		Find(&activities).Error
	return activities, err
}
