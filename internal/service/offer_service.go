package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"websecurity/internal/apperr"
	"websecurity/internal/dto"
	"websecurity/internal/eligibility"
	"websecurity/internal/models"
	"websecurity/internal/repository"
	"websecurity/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OfferService 招聘服务
type OfferService struct {
	store  *repository.Store
	ids    utils.IdentifierGenerator
	logger logrus.FieldLogger
	now    Clock
}

// OfferView 招聘及针对当前用户计算的标志位
type OfferView struct {
	Offer                 models.Offer
	Solicitable           bool
	Retirable             bool
	HasVetoedPrerequisite bool
}

// OfferDetail 招聘详情，Applicants 仅对作者填充
type OfferDetail struct {
	OfferView
	Applicants []models.User
}

// NewOfferService 创建招聘服务
func NewOfferService(store *repository.Store, ids utils.IdentifierGenerator, logger logrus.FieldLogger) *OfferService {
	return &OfferService{
		store:  store,
		ids:    ids,
		logger: logger,
		now:    time.Now,
	}
}

// List 当前用户可见的招聘
func (s *OfferService) List(userID uint, offset, limit int) ([]OfferView, int64, error) {
	return s.list(userID, func(tx *repository.Store, user *models.User) ([]models.Offer, int64, error) {
		return tx.Offers.ListVisible(user, offset, limit)
	})
}

// ListOwn 当前用户创建的招聘
func (s *OfferService) ListOwn(userID uint, offset, limit int) ([]OfferView, int64, error) {
	return s.list(userID, func(tx *repository.Store, user *models.User) ([]models.Offer, int64, error) {
		return tx.Offers.ListByAuthor(user.ID, offset, limit)
	})
}

// ListRequested 当前用户已申请的招聘
func (s *OfferService) ListRequested(userID uint, offset, limit int) ([]OfferView, int64, error) {
	return s.list(userID, func(tx *repository.Store, user *models.User) ([]models.Offer, int64, error) {
		return tx.Offers.ListRequestedBy(user.ID, offset, limit)
	})
}

func (s *OfferService) list(userID uint, fetch func(*repository.Store, *models.User) ([]models.Offer, int64, error)) ([]OfferView, int64, error) {
	var (
		views []OfferView
		total int64
	)
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		offers, n, err := fetch(tx, user)
		if err != nil {
			return fmt.Errorf("获取招聘列表失败: %w", err)
		}
		views, err = annotate(tx, user, offers)
		total = n
		return err
	})
	return views, total, err
}

// annotate 为每个招聘计算当前用户的申请/撤回标志
func annotate(tx *repository.Store, user *models.User, offers []models.Offer) ([]OfferView, error) {
	ids := make([]uint, 0, len(offers))
	for _, o := range offers {
		ids = append(ids, o.ID)
	}
	requested, err := tx.Requests.RequestedOfferIDs(user.ID, ids)
	if err != nil {
		return nil, fmt.Errorf("获取申请记录失败: %w", err)
	}

	views := make([]OfferView, 0, len(offers))
	for i := range offers {
		offer := &offers[i]
		r := requested[offer.ID]
		views = append(views, OfferView{
			Offer:                 *offer,
			Solicitable:           eligibility.Solicitable(user, offer, r),
			Retirable:             eligibility.Retirable(offer, r),
			HasVetoedPrerequisite: eligibility.HasVetoedPrerequisite(offer),
		})
	}
	return views, nil
}

// Get 招聘详情
func (s *OfferService) Get(userID, offerID uint) (*OfferDetail, error) {
	var detail *OfferDetail
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		offer, err := tx.Offers.GetByID(offerID)
		if err != nil {
			return notFound(err, "offer", offerID)
		}
		if err := eligibility.CanViewOffer(user, offer); err != nil {
			return err
		}

		views, err := annotate(tx, user, []models.Offer{*offer})
		if err != nil {
			return err
		}
		detail = &OfferDetail{OfferView: views[0]}

		if offer.AuthorID == user.ID {
			detail.Applicants, err = tx.Requests.ListApplicants(offer.ID)
			if err != nil {
				return fmt.Errorf("获取申请人失败: %w", err)
			}
		}
		return nil
	})
	return detail, err
}

// Create 创建草稿招聘
func (s *OfferService) Create(userID uint, req *dto.CreateOfferRequest) (*models.Offer, error) {
	var offer *models.Offer
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		if err := utils.ValidateStruct(req); err != nil {
			return err
		}
		activities, err := loadPrerequisites(tx, req.ActivityIDs)
		if err != nil {
			return err
		}

		identifier, err := newIdentifier(s.ids, models.OfferPrefix, tx.Offers.ExistsByIdentifier)
		if err != nil {
			return err
		}

		offer = &models.Offer{
			Title:       req.Title,
			Description: req.Description,
			Draft:       true,
			CreatedDate: models.Today(s.now()),
			Identifier:  identifier,
			AuthorID:    user.ID,
			Author:      *user,
			Activities:  activities,
		}
		if err := tx.Offers.Create(offer); err != nil {
			return fmt.Errorf("创建招聘失败: %w", err)
		}
		return nil
	})
	if err != nil {
		logDenied(s.logger, "offer.create", userID, err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"identifier": offer.Identifier,
	}).Info("offer created")
	return offer, nil
}

// Edit 编辑草稿招聘，draft=false 即发布
func (s *OfferService) Edit(userID, offerID uint, req *dto.EditOfferRequest) (*models.Offer, error) {
	var offer *models.Offer
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		offer, err = tx.Offers.GetByID(offerID)
		if err != nil {
			return notFound(err, "offer", offerID)
		}
		if err := eligibility.CheckEditOffer(user, offer); err != nil {
			return err
		}
		if err := utils.ValidateStruct(req); err != nil {
			return err
		}
		activities, err := loadPrerequisites(tx, req.ActivityIDs)
		if err != nil {
			return err
		}

		offer.Title = req.Title
		offer.Description = req.Description
		offer.Draft = *req.Draft
		offer.Activities = activities
		if err := tx.Offers.Update(offer); err != nil {
			return fmt.Errorf("更新招聘失败: %w", err)
		}
		if err := tx.Offers.SetActivities(offer.ID, offer.ActivityIDs()); err != nil {
			return fmt.Errorf("更新前置活动失败: %w", err)
		}
		return nil
	})
	if err != nil {
		logDenied(s.logger, "offer.edit", userID, err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"identifier": offer.Identifier,
		"status":     offer.Status(),
	}).Info("offer edited")
	return offer, nil
}

// loadPrerequisites 加载并校验前置活动，ID 必须全部存在且已发布未否决
func loadPrerequisites(tx *repository.Store, ids []uint) ([]models.Activity, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })

	activities, err := tx.Activities.GetByIDs(unique)
	if err != nil {
		return nil, fmt.Errorf("加载前置活动失败: %w", err)
	}
	if len(activities) != len(unique) {
		e := apperr.Validation(apperr.FieldError{
			Field:   "activities",
			Message: "one or more activities do not exist",
		})
		e.Reason = apperr.ReasonInvalidActivities
		return nil, e
	}
	if err := eligibility.ValidPrerequisites(activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// Delete 删除草稿招聘
func (s *OfferService) Delete(userID, offerID uint) error {
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		offer, err := tx.Offers.GetByID(offerID)
		if err != nil {
			return notFound(err, "offer", offerID)
		}
		if err := eligibility.CheckDeleteOffer(user, offer); err != nil {
			return err
		}
		return tx.Offers.Delete(offer.ID)
	})
	if err != nil {
		logDenied(s.logger, "offer.delete", userID, err)
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"offer_id": offerID,
	}).Info("offer deleted")
	return nil
}

// Veto 管理员否决招聘
func (s *OfferService) Veto(userID, offerID uint, req *dto.VetoRequest) (*models.Offer, error) {
	return s.mutate("offer.veto", userID, offerID, func(user *models.User, offer *models.Offer) error {
		if err := eligibility.CheckVetoOffer(user, offer); err != nil {
			return err
		}
		if err := utils.ValidateStruct(req); err != nil {
			return err
		}
		reason := req.Reason
		offer.Vetoed = true
		offer.VetoReason = &reason
		return nil
	})
}

// Unveto 管理员撤销否决
func (s *OfferService) Unveto(userID, offerID uint) (*models.Offer, error) {
	return s.mutate("offer.unveto", userID, offerID, func(user *models.User, offer *models.Offer) error {
		if err := eligibility.CheckUnvetoOffer(user, offer); err != nil {
			return err
		}
		offer.Vetoed = false
		offer.VetoReason = nil
		return nil
	})
}

// Close 作者关闭招聘
func (s *OfferService) Close(userID, offerID uint) (*models.Offer, error) {
	return s.mutate("offer.close", userID, offerID, func(user *models.User, offer *models.Offer) error {
		if err := eligibility.CheckCloseOffer(user, offer); err != nil {
			return err
		}
		offer.Closed = true
		return nil
	})
}

// mutate 加载招聘，执行 apply 修改标志位后保存
func (s *OfferService) mutate(op string, userID, offerID uint, apply func(*models.User, *models.Offer) error) (*models.Offer, error) {
	var offer *models.Offer
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		offer, err = tx.Offers.GetByID(offerID)
		if err != nil {
			return notFound(err, "offer", offerID)
		}
		if err := apply(user, offer); err != nil {
			return err
		}
		if err := tx.Offers.Update(offer); err != nil {
			return fmt.Errorf("保存招聘失败: %w", err)
		}
		return nil
	})
	if err != nil {
		logDenied(s.logger, op, userID, err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"op":         op,
		"user_id":    userID,
		"identifier": offer.Identifier,
		"status":     offer.Status(),
	}).Info("offer updated")
	return offer, nil
}

// Solicit 申请招聘
func (s *OfferService) Solicit(userID, offerID uint) (*models.Request, error) {
	var request *models.Request
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		offer, err := tx.Offers.GetByID(offerID)
		if err != nil {
			return notFound(err, "offer", offerID)
		}
		requested, err := tx.Requests.Exists(user.ID, offer.ID)
		if err != nil {
			return fmt.Errorf("检查申请记录失败: %w", err)
		}
		if err := eligibility.CheckSolicit(user, offer, requested); err != nil {
			return err
		}

		request = &models.Request{UserID: user.ID, OfferID: offer.ID}
		if err := tx.Requests.Create(request); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict(apperr.ReasonAlreadyRequested, "you already have a request for this offer").
					On("offer", offer.ID)
			}
			return fmt.Errorf("创建申请失败: %w", err)
		}
		return nil
	})
	if err != nil {
		logDenied(s.logger, "offer.solicit", userID, err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"offer_id": offerID,
	}).Info("offer requested")
	return request, nil
}

// Withdraw 撤回申请
func (s *OfferService) Withdraw(userID, offerID uint) error {
	err := s.store.Transaction(func(tx *repository.Store) error {
		user, err := loadRequester(tx, userID)
		if err != nil {
			return err
		}
		offer, err := tx.Offers.GetByID(offerID)
		if err != nil {
			return notFound(err, "offer", offerID)
		}
		request, err := tx.Requests.Get(user.ID, offer.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("获取申请记录失败: %w", err)
		}
		if err := eligibility.CheckWithdraw(offer, request != nil); err != nil {
			return err
		}
		return tx.Requests.Delete(request.ID)
	})
	if err != nil {
		logDenied(s.logger, "offer.withdraw", userID, err)
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"offer_id": offerID,
	}).Info("offer request withdrawn")
	return nil
}
