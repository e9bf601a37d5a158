package repository

import (
	"gorm.io/gorm"
)

// Store 聚合所有Repository，共享同一个连接或事务
type Store struct {
	db *gorm.DB

	Users       *UserRepository
	Activities  *ActivityRepository
	Offers      *OfferRepository
	Requests    *RequestRepository
	Sessions    *SessionRepository
	Attachments *AttachmentRepository
}

// NewStore 创建Store
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       NewUserRepository(db),
		Activities:  NewActivityRepository(db),
		Offers:      NewOfferRepository(db),
		Requests:    NewRequestRepository(db),
		Sessions:    NewSessionRepository(db),
		Attachments: NewAttachmentRepository(db),
	}
}

// DB 获取底层数据库连接
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction 在一个事务中执行fn，fn返回错误时整体回滚
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func paginate(offset, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 {
			return db.Offset(offset)
		}
		return db.Offset(offset).Limit(limit)
	}
}
