package repository

import (
	"websecurity/internal/models"

	"gorm.io/gorm"
)

// RequestRepository 申请数据访问层
type RequestRepository struct {
	db *gorm.DB
}

// NewRequestRepository 创建申请Repository
func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create 创建申请
func (r *RequestRepository) Create(request *models.Request) error {
	return r.db.Omit("User", "Offer").Create(request).Error
}

// Get 获取用户对某招聘的申请
func (r *RequestRepository) Get(userID, offerID uint) (*models.Request, error) {
	var request models.Request
	err := r.db.Where("user_id = ? AND offer_id = ?", userID, offerID).First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Exists 检查用户是否已申请该招聘
func (r *RequestRepository) Exists(userID, offerID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Request{}).Where("user_id = ? AND offer_id = ?", userID, offerID).Count(&count).Error
	return count > 0, err
}

// RequestedOfferIDs 在给定招聘中，返回用户已申请的招聘ID集合
func (r *RequestRepository) RequestedOfferIDs(userID uint, offerIDs []uint) (map[uint]bool, error) {
	res := make(map[uint]bool)
	if len(offerIDs) == 0 {
		return res, nil
	}
	var ids []uint
	err := r.db.Model(&models.Request{}).
		Where("user_id = ? AND offer_id IN ?", userID, offerIDs).
		Pluck("offer_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		res[id] = true
	}
	return res, nil
}

// Delete 删除申请
func (r *RequestRepository) Delete(id uint) error {
	return r.db.Delete(&models.Request{}, id).Error
}

// ListApplicants 获取招聘的申请人，按申请先后排序
func (r *RequestRepository) ListApplicants(offerID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Joins("JOIN requests ON requests.user_id = users.id").
		Where("requests.offer_id = ?", offerID).
		Order("requests.id").
		Find(&users).Error
	return users, err
}
