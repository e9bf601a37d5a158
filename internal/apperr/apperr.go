// Package apperr 定义业务错误分类，边界层按 Kind 映射为 HTTP 状态码
package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误类别
type Kind string

const (
	KindUnauthenticated  Kind = "UNAUTHENTICATED"
	KindUnauthorized     Kind = "UNAUTHORIZED"
	KindInvalidState     Kind = "INVALID_STATE"
	KindNotFound         Kind = "NOT_FOUND"
	KindValidationFailed Kind = "VALIDATION_FAILED"
	KindConflict         Kind = "CONFLICT"
)

// Reason 具体失败原因，同一 Kind 下区分不同守卫
type Reason string

const (
	ReasonNotAuthor          Reason = "not_author"
	ReasonNotOwner           Reason = "not_owner"
	ReasonAdminRequired      Reason = "admin_required"
	ReasonNotDraft           Reason = "not_draft"
	ReasonIsDraft            Reason = "is_draft"
	ReasonVetoed             Reason = "vetoed"
	ReasonAlreadyVetoed      Reason = "already_vetoed"
	ReasonNotVetoed          Reason = "not_vetoed"
	ReasonClosed             Reason = "closed"
	ReasonAlreadyClosed      Reason = "already_closed"
	ReasonOwnOffer           Reason = "own_offer"
	ReasonAlreadyRequested   Reason = "already_requested"
	ReasonVetoedPrerequisite Reason = "vetoed_prerequisite"
	ReasonUnmetPrerequisite  Reason = "unmet_prerequisite"
	ReasonNoSuchRequest      Reason = "no_such_request"
	ReasonSessionNotFound    Reason = "session_not_found"
	ReasonInvalidActivities  Reason = "invalid_activities"
	ReasonInvalidField       Reason = "invalid_field"
	ReasonDuplicateUsername  Reason = "duplicate_username"
	ReasonNoIdentity         Reason = "no_identity"
	ReasonEntityNotFound     Reason = "entity_not_found"
	ReasonDraftNotVisible    Reason = "draft_not_visible"
	ReasonInvalidCredentials Reason = "invalid_credentials"
)

// FieldError 字段级校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error 业务错误
type Error struct {
	Kind     Kind
	Reason   Reason
	Message  string
	Entity   string
	EntityID uint
	// EntityKey 非数字的实体标识，例如 ACT-XXXXXXXXXX
	EntityKey string
	Fields    []FieldError
}

func (e *Error) Error() string {
	if e.Entity != "" && e.EntityID != 0 {
		return fmt.Sprintf("%s %d: %s", e.Entity, e.EntityID, e.Message)
	}
	if e.Entity != "" && e.EntityKey != "" {
		return fmt.Sprintf("%s %s: %s", e.Entity, e.EntityKey, e.Message)
	}
	return e.Message
}

// Is 按 Kind 和 Reason 比较，便于 errors.Is(err, apperr.ErrXxx)
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// New 创建业务错误
func New(kind Kind, reason Reason, message string) *Error {
	return &Error{Kind: kind, Reason: reason, Message: message}
}

// On 附加实体上下文
func (e *Error) On(entity string, id uint) *Error {
	c := *e
	c.Entity = entity
	c.EntityID = id
	return &c
}

// Unauthenticated 未认证
func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, ReasonNoIdentity, message)
}

// Unauthorized 无权限
func Unauthorized(reason Reason, message string) *Error {
	return New(KindUnauthorized, reason, message)
}

// InvalidState 状态不允许
func InvalidState(reason Reason, message string) *Error {
	return New(KindInvalidState, reason, message)
}

// Conflict 重复操作
func Conflict(reason Reason, message string) *Error {
	return New(KindConflict, reason, message)
}

// NotFound 实体不存在
func NotFound(entity string, id uint) *Error {
	return &Error{
		Kind:     KindNotFound,
		Reason:   ReasonEntityNotFound,
		Message:  fmt.Sprintf("%s not found", entity),
		Entity:   entity,
		EntityID: id,
	}
}

// NotFoundByKey 按标识符查找的实体不存在
func NotFoundByKey(entity, key string) *Error {
	return &Error{
		Kind:      KindNotFound,
		Reason:    ReasonEntityNotFound,
		Message:   fmt.Sprintf("%s not found", entity),
		Entity:    entity,
		EntityKey: key,
	}
}

// Validation 字段校验失败
func Validation(fields ...FieldError) *Error {
	msg := "validation failed"
	if len(fields) > 0 {
		msg = fields[0].Field + ": " + fields[0].Message
		for _, f := range fields[1:] {
			msg += "; " + f.Field + ": " + f.Message
		}
	}
	return &Error{Kind: KindValidationFailed, Reason: ReasonInvalidField, Message: msg, Fields: fields}
}

// KindOf 返回错误类别，非业务错误返回空
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ReasonOf 返回失败原因，非业务错误返回空
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

// Sentinels 用于 errors.Is 判断
var (
	ErrUnauthenticated  = &Error{Kind: KindUnauthenticated}
	ErrUnauthorized     = &Error{Kind: KindUnauthorized}
	ErrInvalidState     = &Error{Kind: KindInvalidState}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrValidationFailed = &Error{Kind: KindValidationFailed}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrSessionNotFound  = &Error{Kind: KindNotFound, Reason: ReasonSessionNotFound}
	ErrNoSuchRequest    = &Error{Kind: KindNotFound, Reason: ReasonNoSuchRequest}
)
