package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt 只使用前 72 字节
const maxBcryptPasswordBytes = 72

var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialChecker 校验登录凭据，失败时返回 ErrInvalidCredentials
type CredentialChecker interface {
	Check(ctx context.Context, username, password string) error
}

// StaticCredentials 是配置里的单个账号
type StaticCredentials struct {
	username       string
	passwordDigest []byte
	passwordHash   []byte
}

// NewStaticCredentials 优先使用已有的 bcrypt hash，否则对明文密码做逐字节比较
func NewStaticCredentials(username, password, passwordHash string) (*StaticCredentials, error) {
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("invalid password hash: %w", err)
		}
		return &StaticCredentials{username: username, passwordHash: []byte(passwordHash)}, nil
	}

	if password == "" {
		return nil, errors.New("password is required")
	}
	return &StaticCredentials{username: username, passwordDigest: digest(password)}, nil
}

func (c *StaticCredentials) Check(_ context.Context, username, password string) error {
	// 用户名和密码都要校验，避免通过耗时区分是哪个字段错了
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1
	passwordOK := c.verifyPassword(password)
	if !usernameOK || !passwordOK {
		return ErrInvalidCredentials
	}
	return nil
}

func (c *StaticCredentials) verifyPassword(password string) bool {
	if c.passwordHash == nil {
		// 比较定长摘要，耗时与密码长度无关
		return subtle.ConstantTimeCompare(digest(password), c.passwordDigest) == 1
	}
	// 超过 72 字节的输入会被 bcrypt 截断，直接拒绝
	if len(password) > maxBcryptPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password)) == nil
}

func digest(value string) []byte {
	sum := sha256.Sum256([]byte(value))
	return sum[:]
}
