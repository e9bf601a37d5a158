package service

import (
	"errors"
	"fmt"

	"websecurity/internal/apperr"
	"websecurity/internal/config"
	"websecurity/internal/dto"
	"websecurity/internal/models"
	"websecurity/internal/repository"
	"websecurity/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthService 认证服务
type AuthService struct {
	store      *repository.Store
	jwtManager *utils.JWTManager
	cfg        *config.Config
	logger     logrus.FieldLogger
}

// NewAuthService 创建认证服务
func NewAuthService(store *repository.Store, jwtManager *utils.JWTManager, cfg *config.Config, logger logrus.FieldLogger) *AuthService {
	return &AuthService{
		store:      store,
		jwtManager: jwtManager,
		cfg:        cfg,
		logger:     logger,
	}
}

// Register 用户注册
func (s *AuthService) Register(req *dto.RegisterRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.store.Transaction(func(tx *repository.Store) error {
		// 验证用户名是否已存在
		exists, err := tx.Users.ExistsByUsername(req.Username, 0)
		if err != nil {
			return fmt.Errorf("检查用户名失败: %w", err)
		}
		if exists {
			return duplicateUsername()
		}

		hashedPassword, err := utils.HashPassword(req.Password)
		if err != nil {
			return fmt.Errorf("密码哈希失败: %w", err)
		}

		user = &models.User{
			Username:      req.Username,
			PasswordHash:  hashedPassword,
			FirstName:     req.FirstName,
			LastName:      req.LastName,
			Email:         req.Email,
			Phone:         req.Phone,
			CompanyOrTeam: req.CompanyOrTeam,
		}
		if err := tx.Users.Create(user); err != nil {
			return userWriteError(err, "创建用户失败")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("username", user.Username).Info("user registered")
	return user, nil
}

func duplicateUsername() error {
	return apperr.Conflict(apperr.ReasonDuplicateUsername, "a user with that username already exists")
}

// userWriteError 并发写入时由唯一索引拦下的重名同样返回 Conflict
func userWriteError(err error, action string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return duplicateUsername()
	}
	return fmt.Errorf("%s: %w", action, err)
}

// Login 用户登录
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	invalid := apperr.New(apperr.KindUnauthenticated, apperr.ReasonInvalidCredentials, "invalid username or password")

	user, err := s.store.Users.GetByUsername(req.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, fmt.Errorf("获取用户失败: %w", err)
	}

	if err := utils.CheckPassword(req.Password, user.PasswordHash); err != nil {
		s.logger.WithField("username", req.Username).Warn("login failed")
		return nil, invalid
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("生成Token失败: %w", err)
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        dto.NewUserInfo(user),
	}, nil
}

// GetMe 获取当前用户信息
func (s *AuthService) GetMe(userID uint) (*models.User, error) {
	var user *models.User
	err := s.store.Transaction(func(tx *repository.Store) error {
		var err error
		user, err = loadRequester(tx, userID)
		return err
	})
	return user, err
}

// ListUsers 分页获取用户列表（管理员）
func (s *AuthService) ListUsers(offset, limit int) ([]models.User, int64, error) {
	return s.store.Users.List(offset, limit)
}

// InitAdmin 初始化管理员账户
func (s *AuthService) InitAdmin() error {
	// 检查是否已有管理员
	admin, err := s.store.Users.GetAdmin()
	if err == nil && admin != nil {
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("查询管理员失败: %w", err)
	}

	// 配置中的密码可以是明文或bcrypt哈希
	passwordHash := s.cfg.Admin.Password
	if !utils.IsBcryptHash(passwordHash) {
		hashedPassword, err := utils.HashPassword(s.cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("密码哈希失败: %w", err)
		}
		passwordHash = hashedPassword
	}

	user := &models.User{
		Username:     s.cfg.Admin.Username,
		PasswordHash: passwordHash,
		Email:        s.cfg.Admin.Email,
		IsAdmin:      true,
	}
	if err := s.store.Users.Create(user); err != nil {
		return fmt.Errorf("创建管理员失败: %w", err)
	}

	s.logger.WithField("username", user.Username).Info("admin account created")
	return nil
}
