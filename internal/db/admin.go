package db

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Admin 定义了后台管理员模型，密码只以 bcrypt 哈希形式保存
type Admin struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:50;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// TableName 指定自定义表名。
func (Admin) TableName() string {
	return "admins"
}

// SetPassword 计算并保存密码哈希。
func (a *Admin) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hashed)
	return nil
}

// CheckPassword 校验明文密码是否与哈希匹配。
func (a *Admin) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// AdminSession 是服务端保存的登录会话，Cookie 中只携带 Token
type AdminSession struct {
	ID        uint      `gorm:"primaryKey"`
	Token     string    `gorm:"size:64;uniqueIndex;not null"`
	AdminID   uint      `gorm:"not null;index"`
	Admin     Admin     `gorm:"constraint:OnDelete:CASCADE"`
	IssuedAt  time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName 指定自定义表名。
func (AdminSession) TableName() string {
	return "admin_sessions"
}

// Expired 判断会话在给定时间是否已过期。
func (s *AdminSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// EnsureAdmin 存在性检查：若提供的用户名与密码均非空且不存在对应账号，则创建一个 bcrypt 哈希的管理员。
// 返回值 created 表示本次是否新建了账号。
func EnsureAdmin(gdb *gorm.DB, username, password string) (created bool, err error) {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return false, nil
	}

	if gdb == nil {
		return false, errors.New("database not initialized")
	}

	var existing Admin
	if err := gdb.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}

		admin := Admin{Username: trimmedUser}
		if err := admin.SetPassword(trimmedPassword); err != nil {
			return false, err
		}

		if err := gdb.Create(&admin).Error; err != nil {
			return false, err
		}
		return true, nil
	}

	return false, nil
}
