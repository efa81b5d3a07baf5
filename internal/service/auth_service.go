package service

import (
	"errors"
	"strings"
	"time"

	"github.com/quillblog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAdminNotFound      = errors.New("admin not found")
)

// AuthService 负责管理员账号校验。
type AuthService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAuthService creates an AuthService instance.
func NewAuthService(gdb *gorm.DB) *AuthService {
	return &AuthService{db: gdb, now: time.Now}
}

// Authenticate 校验用户名与密码，成功时记录最后登录时间。
// 用户不存在与密码错误返回同一个错误，避免泄露账号是否存在。
func (s *AuthService) Authenticate(username, password string) (*db.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var admin db.Admin
	if err := s.db.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !admin.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.db.Model(&admin).UpdateColumn("last_login", now).Error; err != nil {
		return nil, err
	}
	admin.LastLogin = &now
	return &admin, nil
}

// Get fetches an admin by id.
func (s *AuthService) Get(id uint) (*db.Admin, error) {
	var admin db.Admin
	if err := s.db.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}
