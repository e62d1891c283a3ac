package auth

import (
	"context"
	"fmt"
)

const TokenTypeBearer = "Bearer"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Service 把凭据校验和 token 签发组合成登录操作
type Service struct {
	credentials CredentialChecker
	tokens      *TokenService
}

func NewService(credentials CredentialChecker, tokens *TokenService) *Service {
	return &Service{credentials: credentials, tokens: tokens}
}

func (s *Service) Login(ctx context.Context, input LoginRequest) (TokenResponse, error) {
	if err := s.credentials.Check(ctx, input.Username, input.Password); err != nil {
		return TokenResponse{}, err
	}

	token, err := s.tokens.Issue(input.Username, RoleAdmin)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("issue token: %w", err)
	}

	return TokenResponse{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   int64(s.tokens.Expiry().Seconds()),
	}, nil
}
