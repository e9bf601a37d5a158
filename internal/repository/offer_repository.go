package repository

import (
	"websecurity/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OfferRepository 招聘数据访问层
type OfferRepository struct {
	db *gorm.DB
}

// NewOfferRepository 创建招聘Repository
func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// Create 创建招聘并写入前置活动
func (r *OfferRepository) Create(offer *models.Offer) error {
	if err := r.db.Omit(clause.Associations).Create(offer).Error; err != nil {
		return err
	}
	return r.SetActivities(offer.ID, offer.ActivityIDs())
}

// GetByID 根据ID获取招聘，同时加载前置活动
func (r *OfferRepository) GetByID(id uint) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.Preload("Author").First(&offer, id).Error; err != nil {
		return nil, err
	}
	if err := r.loadActivities([]*models.Offer{&offer}); err != nil {
		return nil, err
	}
	return &offer, nil
}

// ExistsByIdentifier 检查标识符是否存在
func (r *OfferRepository) ExistsByIdentifier(identifier string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Offer{}).Where("identifier = ?", identifier).Count(&count).Error
	return count > 0, err
}

// Update 更新招聘字段（不含前置活动）
func (r *OfferRepository) Update(offer *models.Offer) error {
	return r.db.Omit(clause.Associations).Save(offer).Error
}

// SetActivities 用给定列表替换前置活动
func (r *OfferRepository) SetActivities(offerID uint, activityIDs []uint) error {
	if err := r.db.Where("offer_id = ?", offerID).Delete(&models.OfferActivity{}).Error; err != nil {
		return err
	}
	if len(activityIDs) == 0 {
		return nil
	}
	rows := make([]models.OfferActivity, 0, len(activityIDs))
	for _, id := range activityIDs {
		rows = append(rows, models.OfferActivity{OfferID: offerID, ActivityID: id})
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(&rows).Error
}

// Delete 删除招聘
func (r *OfferRepository) Delete(id uint) error {
	if err := r.db.Where("offer_id = ?", id).Delete(&models.OfferActivity{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Offer{}, id).Error
}

// ListVisible 获取对用户可见的招聘列表
func (r *OfferRepository) ListVisible(user *models.User, offset, limit int) ([]models.Offer, int64, error) {
	var offers []models.Offer
	var total int64

	if err := r.db.Model(&models.Offer{}).Scopes(visibleOffers(user)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Scopes(visibleOffers(user), paginate(offset, limit)).
		Preload("Author").Order("id").Find(&offers).Error
	if err != nil {
		return nil, 0, err
	}
	return offers, total, r.loadActivitiesOf(offers)
}

// ListByAuthor 获取用户创建的招聘列表
func (r *OfferRepository) ListByAuthor(authorID uint, offset, limit int) ([]models.Offer, int64, error) {
	var offers []models.Offer
	var total int64

	if err := r.db.Model(&models.Offer{}).Where("author_id = ?", authorID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("author_id = ?", authorID).Scopes(paginate(offset, limit)).
		Preload("Author").Order("id").Find(&offers).Error
	if err != nil {
		return nil, 0, err
	}
	return offers, total, r.loadActivitiesOf(offers)
}

// ListRequestedBy 获取用户已申请的招聘，按申请先后排序
func (r *OfferRepository) ListRequestedBy(userID uint, offset, limit int) ([]models.Offer, int64, error) {
	var offers []models.Offer
	var total int64

	if err := r.db.Model(&models.Request{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Joins("JOIN requests ON requests.offer_id = offers.id").
		Where("requests.user_id = ?", userID).
		Scopes(paginate(offset, limit)).
		Preload("Author").Order("requests.id").Find(&offers).Error
	if err != nil {
		return nil, 0, err
	}
	return offers, total, r.loadActivitiesOf(offers)
}

func (r *OfferRepository) loadActivitiesOf(offers []models.Offer) error {
	ptrs := make([]*models.Offer, len(offers))
	for i := range offers {
		ptrs[i] = &offers[i]
	}
	return r.loadActivities(ptrs)
}

// loadActivities 一次查询加载多个招聘的前置活动
func (r *OfferRepository) loadActivities(offers []*models.Offer) error {
	if len(offers) == 0 {
		return nil
	}
	byID := make(map[uint]*models.Offer, len(offers))
	ids := make([]uint, 0, len(offers))
	for _, o := range offers {
		o.Activities = []models.Activity{}
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	type row struct {
		OfferID uint
		models.Activity
	}
	var rows []row
	err := r.db.Table("activities").
		Select("offer_activities.offer_id AS offer_id, activities.*").
		Joins("JOIN offer_activities ON offer_activities.activity_id = activities.id").
		Where("offer_activities.offer_id IN ?", ids).
		Order("activities.id").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, rw := range rows {
		if o, ok := byID[rw.OfferID]; ok {
			o.Activities = append(o.Activities, rw.Activity)
		}
	}
	return nil
}

// visibleOffers 管理员排除他人已关闭或草稿的招聘；
// 普通用户还排除他人被否决或含有被否决前置活动的招聘
func visibleOffers(user *models.User) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if user.IsAdmin {
			return db.Where("offers.author_id = ? OR (offers.closed = ? AND offers.draft = ?)", user.ID, false, false)
		}
		return db.Where(
			`offers.author_id = ? OR (offers.closed = ? AND offers.draft = ? AND offers.vetoed = ? AND NOT EXISTS (
				SELECT 1 FROM offer_activities oa JOIN activities a ON a.id = oa.activity_id
				WHERE oa.offer_id = offers.id AND a.vetoed = ?))`,
			user.ID, false, false, false, true,
		)
	}
}
