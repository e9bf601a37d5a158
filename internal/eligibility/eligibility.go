// Package eligibility 计算用户能否查看或操作活动、招聘。
//
// 所有函数都是纯函数，输入为已显式加载的模型：Offer.Activities 与
// User.CompletedActivityIDs 必须由调用方预先填充。
package eligibility

import (
	"websecurity/internal/apperr"
	"websecurity/internal/models"
)

// ActivityVisible 列表中活动是否可见
// 管理员可以看到除他人草稿以外的所有活动，普通用户还看不到他人被否决的活动
func ActivityVisible(user *models.User, activity *models.Activity) bool {
	if activity.AuthorID == user.ID {
		return true
	}
	if activity.Draft {
		return false
	}
	if !user.IsAdmin && activity.Vetoed {
		return false
	}
	return true
}

// OfferVisible 列表中招聘是否可见
// 管理员不按前置活动否决情况过滤，普通用户会过滤
func OfferVisible(user *models.User, offer *models.Offer) bool {
	if offer.AuthorID == user.ID {
		return true
	}
	if offer.Closed || offer.Draft {
		return false
	}
	if user.IsAdmin {
		return true
	}
	return !offer.Vetoed && !HasVetoedPrerequisite(offer)
}

// VisibleActivities 过滤出可见活动，保持原有顺序
func VisibleActivities(user *models.User, activities []models.Activity) []models.Activity {
	res := make([]models.Activity, 0, len(activities))
	for i := range activities {
		if ActivityVisible(user, &activities[i]) {
			res = append(res, activities[i])
		}
	}
	return res
}

// VisibleOffers 过滤出可见招聘，保持原有顺序
func VisibleOffers(user *models.User, offers []models.Offer) []models.Offer {
	res := make([]models.Offer, 0, len(offers))
	for i := range offers {
		if OfferVisible(user, &offers[i]) {
			res = append(res, offers[i])
		}
	}
	return res
}

// CanViewActivity 详情页访问：他人的草稿不可见
func CanViewActivity(user *models.User, activity *models.Activity) error {
	if activity.Draft && activity.AuthorID != user.ID {
		return apperr.Unauthorized(apperr.ReasonDraftNotVisible, "you do not have permission to access this activity").
			On("activity", activity.ID)
	}
	return nil
}

// CanViewOffer 详情页访问：他人的草稿不可见
func CanViewOffer(user *models.User, offer *models.Offer) error {
	if offer.Draft && offer.AuthorID != user.ID {
		return apperr.Unauthorized(apperr.ReasonDraftNotVisible, "you do not have permission to access this offer").
			On("offer", offer.ID)
	}
	return nil
}

// HasVetoedPrerequisite 前置活动中是否有被否决的
func HasVetoedPrerequisite(offer *models.Offer) bool {
	for _, a := range offer.Activities {
		if a.Vetoed {
			return true
		}
	}
	return false
}

// Solicitable 用户当前能否申请该招聘
func Solicitable(user *models.User, offer *models.Offer, requested bool) bool {
	return CheckSolicit(user, offer, requested) == nil
}

// Retirable 用户当前能否撤回申请
func Retirable(offer *models.Offer, requested bool) bool {
	return requested && !offer.Vetoed && !offer.Closed
}

// CheckSolicit 按固定顺序检查申请条件，返回第一个不满足的条件
func CheckSolicit(user *models.User, offer *models.Offer, requested bool) error {
	if offer.Vetoed {
		return stateErr(offer, apperr.ReasonVetoed, "cannot request a vetoed offer")
	}
	if offer.Draft {
		return stateErr(offer, apperr.ReasonIsDraft, "cannot request an offer in draft mode")
	}
	if offer.Closed {
		return stateErr(offer, apperr.ReasonClosed, "cannot request a closed offer")
	}
	if offer.AuthorID == user.ID {
		return stateErr(offer, apperr.ReasonOwnOffer, "cannot request an offer you authored")
	}
	if requested {
		return apperr.Conflict(apperr.ReasonAlreadyRequested, "you already have a request for this offer").
			On("offer", offer.ID)
	}
	if HasVetoedPrerequisite(offer) {
		return stateErr(offer, apperr.ReasonVetoedPrerequisite, "cannot request an offer with vetoed required activities")
	}
	for _, a := range offer.Activities {
		if !user.HasCompleted(a.ID) {
			return stateErr(offer, apperr.ReasonUnmetPrerequisite, "cannot request an offer whose required activities have not been completed")
		}
	}
	return nil
}

// CheckWithdraw 按固定顺序检查撤回申请条件
func CheckWithdraw(offer *models.Offer, requested bool) error {
	if offer.Vetoed {
		return stateErr(offer, apperr.ReasonVetoed, "cannot withdraw the request of a vetoed offer")
	}
	if offer.Draft {
		return stateErr(offer, apperr.ReasonIsDraft, "cannot withdraw the request of an offer in draft mode")
	}
	if offer.Closed {
		return stateErr(offer, apperr.ReasonClosed, "cannot withdraw the request of a closed offer")
	}
	if !requested {
		return (&apperr.Error{
			Kind:    apperr.KindNotFound,
			Reason:  apperr.ReasonNoSuchRequest,
			Message: "cannot withdraw from an offer you have not requested",
		}).On("offer", offer.ID)
	}
	return nil
}

// ValidPrerequisites 前置活动必须已发布且未被否决
func ValidPrerequisites(activities []models.Activity) error {
	for _, a := range activities {
		if a.Draft || a.Vetoed {
			e := apperr.Validation(apperr.FieldError{
				Field:   "activities",
				Message: "an offer cannot include vetoed or draft activities: " + a.Identifier,
			})
			e.Reason = apperr.ReasonInvalidActivities
			return e
		}
	}
	return nil
}

func stateErr(offer *models.Offer, reason apperr.Reason, message string) error {
	return apperr.InvalidState(reason, message).On("offer", offer.ID)
}
