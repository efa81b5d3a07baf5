package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quillblog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// SessionService 管理服务端保存的登录会话。
type SessionService struct {
	db       *gorm.DB
	lifetime time.Duration
	refresh  bool
	now      func() time.Time
}

// NewSessionService creates a SessionService; refresh 为 true 时每次访问都会顺延过期时间。
func NewSessionService(gdb *gorm.DB, lifetime time.Duration, refresh bool) *SessionService {
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	return &SessionService{db: gdb, lifetime: lifetime, refresh: refresh, now: time.Now}
}

// Lifetime returns the configured session lifetime.
func (s *SessionService) Lifetime() time.Duration {
	return s.lifetime
}

// Refreshes 表示 Resolve 是否会顺延会话过期时间。
func (s *SessionService) Refreshes() bool {
	return s.refresh
}

// Issue 为管理员签发新的会话。
func (s *SessionService) Issue(adminID uint) (*db.AdminSession, error) {
	now := s.now()
	session := db.AdminSession{
		Token:     strings.ReplaceAll(uuid.NewString(), "-", ""),
		AdminID:   adminID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.lifetime),
	}
	if err := s.db.Omit("Admin").Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// Resolve 根据 token 查找有效会话并预加载管理员，过期会话会被顺手删除。
func (s *SessionService) Resolve(token string) (*db.AdminSession, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrSessionNotFound
	}

	var session db.AdminSession
	if err := s.db.Preload("Admin").Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	now := s.now()
	if session.Expired(now) {
		if err := s.db.Delete(&db.AdminSession{}, session.ID).Error; err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}

	if s.refresh {
		session.ExpiresAt = now.Add(s.lifetime)
		if err := s.db.Model(&db.AdminSession{}).
			Where("id = ?", session.ID).
			UpdateColumn("expires_at", session.ExpiresAt).Error; err != nil {
			return nil, err
		}
	}

	return &session, nil
}

// Revoke 删除 token 对应的会话，不存在时不报错。
func (s *SessionService) Revoke(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.db.Where("token = ?", token).Delete(&db.AdminSession{}).Error
}

// PurgeExpired removes every session that has expired and reports how many were deleted.
func (s *SessionService) PurgeExpired() (int64, error) {
	result := s.db.Where("expires_at <= ?", s.now()).Delete(&db.AdminSession{})
	return result.RowsAffected, result.Error
}
