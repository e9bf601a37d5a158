package eligibility

import (
	"websecurity/internal/apperr"
	"websecurity/internal/models"
)

// 生命周期守卫：按顺序检查，第一个失败的条件即为结果，调用方在任何写入前调用

// CheckEditActivity 编辑活动：作者本人，且仍为草稿
func CheckEditActivity(user *models.User, activity *models.Activity) error {
	if activity.AuthorID != user.ID {
		return activityErr(activity, apperr.Unauthorized(apperr.ReasonNotAuthor, "you do not have permission to edit this activity"))
	}
	if !activity.Draft {
		return activityErr(activity, apperr.InvalidState(apperr.ReasonNotDraft, "cannot edit an activity that is not in draft mode"))
	}
	return nil
}

// CheckDeleteActivity 删除活动：作者本人，且仍为草稿
func CheckDeleteActivity(user *models.User, activity *models.Activity) error {
	if activity.AuthorID != user.ID {
		return activityErr(activity, apperr.Unauthorized(apperr.ReasonNotAuthor, "you do not have permission to delete this activity"))
	}
	if !activity.Draft {
		return activityErr(activity, apperr.InvalidState(apperr.ReasonNotDraft, "cannot delete an activity that is not in draft mode"))
	}
	return nil
}

// CheckVetoActivity 否决活动：管理员、未被否决、非草稿
func CheckVetoActivity(user *models.User, activity *models.Activity) error {
	if !user.IsAdmin {
		return activityErr(activity, apperr.Unauthorized(apperr.ReasonAdminRequired, "administrator permissions are required to veto the activity"))
	}
	if activity.Vetoed {
		return activityErr(activity, apperr.Conflict(apperr.ReasonAlreadyVetoed, "cannot veto an already vetoed activity"))
	}
	if activity.Draft {
		return activityErr(activity, apperr.InvalidState(apperr.ReasonIsDraft, "cannot veto a draft activity"))
	}
	return nil
}

// CheckUnvetoActivity 解除否决：管理员、当前被否决
func CheckUnvetoActivity(user *models.User, activity *models.Activity) error {
	if !user.IsAdmin {
		return activityErr(activity, apperr.Unauthorized(apperr.ReasonAdminRequired, "administrator permissions are required to lift the veto of the activity"))
	}
	if !activity.Vetoed {
		return activityErr(activity, apperr.InvalidState(apperr.ReasonNotVetoed, "cannot lift the veto of an activity that is not vetoed"))
	}
	return nil
}

// CheckEditOffer 编辑招聘：作者、草稿、未关闭、未否决
func CheckEditOffer(user *models.User, offer *models.Offer) error {
	if offer.AuthorID != user.ID {
		return offerErr(offer, apperr.Unauthorized(apperr.ReasonNotAuthor, "you do not have permission to edit this offer"))
	}
	if !offer.Draft {
		return offerErr(offer, apperr.InvalidState(apperr.ReasonNotDraft, "cannot edit an offer that is not in draft mode"))
	}
	if offer.Closed {
		return offerErr(offer, apperr.InvalidState(apperr.ReasonClosed, "cannot edit a closed offer"))
	}
	if offer.Vetoed {
		return offerErr(offer, apperr.InvalidState(apperr.ReasonVetoed, "cannot edit a vetoed offer"))
	}
	return nil
}

// CheckDeleteOffer 删除招聘：作者、草稿、未关闭、未否决
func CheckDeleteOffer(user *models.User, offer *models.Offer) error {
	if offer.AuthorID != user.ID {
		return offerErr(offer, apperr.Unauthorized(apperr.ReasonNotAuthor, "you do not have permission to delete this offer"))
	}
	if !offer.Draft {
		return offerErr(offer, apperr.InvalidState(apperr.ReasonNotDraft, "cannot delete an offer that is not in draft mode"))
	}
	if offer.Closed {
		return offerErr(offer, apperr.InvalidState(apperr.ReasonClosed, "cannot delete a closed offer"))
	}
	if offer.Vetoed {
		return offerErr(offer, apperr.InvalidState(apperr.ReasonVetoed, "cannot delete a vetoed offer"))
	}
	return nil
}

// CheckVetoOffer 否决招聘：管理员、未否决、非草稿、未关闭
func CheckVetoOffer(user *models.User, offer *models.Offer) error {
	if !user.IsAdmin {
		return offerErr(offer, apperr.Unauthorized(apperr.ReasonAdminRequired, "administrator permissions are required to veto the offer"))
	}
	if offer.Vetoed {
		return offerErr(offer, apperr.Conflict(apperr.ReasonAlreadyVetoed, "cannot veto an already vetoed offer"))
	}
	if offer.Draft {
		return offerErr(offer, apperr.InvalidState(apperr.ReasonIsDraft, "cannot veto a draft offer"))
	}
	if offer.Closed {
		return offerErr(offer, apperr.InvalidState(apperr.ReasonClosed, "cannot veto a closed offer"))
	}
	return nil
}

// CheckUnvetoOffer 解除否决：管理员、当前被否决
func CheckUnvetoOffer(user *models.User, offer *models.Offer) error {
	if !user.IsAdmin {
		return offerErr(offer, apperr.Unauthorized(apperr.ReasonAdminRequired, "administrator permissions are required to lift the veto of the offer"))
	}
	if !offer.Vetoed {
		return offerErr(offer, apperr.InvalidState(apperr.ReasonNotVetoed, "cannot lift the veto of an offer that is not vetoed"))
	}
	return nil
}

// CheckCloseOffer 关闭招聘：先检查状态，最后检查作者
func CheckCloseOffer(user *models.User, offer *models.Offer) error {
	if offer.Vetoed {
		return offerErr(offer, apperr.InvalidState(apperr.ReasonVetoed, "cannot close a vetoed offer"))
	}
	if offer.Draft {
		return offerErr(offer, apperr.InvalidState(apperr.ReasonIsDraft, "cannot close an offer in draft mode"))
	}
	if offer.Closed {
		return offerErr(offer, apperr.Conflict(apperr.ReasonAlreadyClosed, "cannot close an offer that is already closed"))
	}
	if offer.AuthorID != user.ID {
		return offerErr(offer, apperr.Unauthorized(apperr.ReasonNotAuthor, "you do not have the permissions or requirements to perform this action"))
	}
	return nil
}

func activityErr(activity *models.Activity, e *apperr.Error) error {
	return e.On("activity", activity.ID)
}

func offerErr(offer *models.Offer, e *apperr.Error) error {
	return e.On("offer", offer.ID)
}
