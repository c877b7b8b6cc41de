package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chatterly/chat_service/internal/apperr"
	"github.com/chatterly/chat_service/internal/domain"
	"github.com/chatterly/chat_service/internal/dto"
	"github.com/chatterly/chat_service/internal/helper"
	"github.com/chatterly/chat_service/internal/interfaces"
	"github.com/chatterly/chat_service/internal/repository"
)

type AuthService interface {
	Register(input dto.RegisterRequest) error
	Login(input dto.UserLogin) (*dto.LoginResponse, error)
	Refresh(refreshToken string) (*dto.RefreshResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(input dto.ResetPasswordRequest) error
	GetUserByToken(token string) (*dto.PublicUser, error)
}

type authService struct {
	repo   repository.UserRepository
	mailer interfaces.Mailer
	auth   helper.Auth

	resetTTL     time.Duration
	mailFrom     string
	mailFromName string
	resetBaseURL string
}

func NewAuthService(
	repo repository.UserRepository,
	mailer interfaces.Mailer,
	auth helper.Auth,
	resetTTL time.Duration,
	mailFrom string,
	mailFromName string,
	resetBaseURL string,
) AuthService {
	return &authService{
		repo:         repo,
		mailer:       mailer,
		auth:         auth,
		resetTTL:     resetTTL,
		mailFrom:     mailFrom,
		mailFromName: mailFromName,
		resetBaseURL: resetBaseURL,
	}
}

func (s *authService) Register(input dto.RegisterRequest) error {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	name := strings.TrimSpace(input.Name)

	if email == "" || name == "" || strings.TrimSpace(input.Password) == "" {
		return apperr.InvalidInput("provide all needed data")
	}
	if len(input.Password) < 6 {
		return apperr.InvalidInput("password must be at least 6 characters")
	}
	if input.Password != input.ConfirmPassword {
		return apperr.InvalidInput("passwords are not the same")
	}

	existing, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.Conflict(fmt.Sprintf("user with this email: %s exists", email))
	}

	_, err = s.repo.CreateUser(&domain.User{Email: email, Name: name}, input.Password)
	return err
}

func (s *authService) Login(input dto.UserLogin) (*dto.LoginResponse, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if email == "" || password == "" {
		return nil, apperr.Unauthorized("invalid email or password")
	}

	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthorized("invalid email or password")
	}

	if err := s.auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, err
	}

	snapshot := dto.UserSnapshot{ID: user.ID, Email: user.Email, Name: user.Name, Image: user.Image}
	access, err := s.auth.GenerateAccessToken(snapshot)
	if err != nil {
		return nil, err
	}
	refresh, err := s.auth.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	friends, err := s.repo.FriendIDs(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User: dto.PublicUser{
			ID:      user.ID,
			Email:   user.Email,
			Name:    user.Name,
			Image:   user.Image,
			Bio:     user.Bio,
			Friends: friends,
		},
	}, nil
}

// Refresh mints a fresh access token for the refresh token's subject. The
// refresh token itself must verify; any failure beyond expiry rejects.
func (s *authService) Refresh(refreshToken string) (*dto.RefreshResponse, error) {
	claims, err := s.auth.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindUserById(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthorized("invalid refresh token")
	}

	access, err := s.auth.GenerateAccessToken(dto.UserSnapshot{
		ID: user.ID, Email: user.Email, Name: user.Name, Image: user.Image,
	})
	if err != nil {
		return nil, err
	}

	return &dto.RefreshResponse{AccessToken: access, RefreshToken: refreshToken}, nil
}

// ForgotPassword never tells the caller whether the email exists. The reset
// token is access-token-shaped but bound to a server-side expiry on the user
// row, so it can be invalidated independently of its cryptographic expiry.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		log.Printf("forgot password: no user for submitted email")
		return nil
	}

	token, err := s.auth.GenerateAccessToken(dto.UserSnapshot{
		ID: user.ID, Email: user.Email, Name: user.Name, Image: user.Image,
	})
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(s.resetTTL)
	if err := s.repo.SetResetToken(user.ID, token, expiresAt); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.resetBaseURL, token)
	mail := interfaces.Mail{
		To:      user.Email,
		From:    fmt.Sprintf("%s <%s>", s.mailFromName, s.mailFrom),
		Subject: "Recover your password",
		Text:    "Recover your password",
		HTML: fmt.Sprintf("<p>Hello, <strong>%s</strong>, your recovery link is:<br><b>%s</b></p>",
			user.Name, resetURL),
	}

	if err := s.mailer.Send(ctx, mail); err != nil {
		// fail closed: a reset token must never outlive its delivery
		log.Printf("forgot password: mail delivery failed, clearing reset token: %v", err)
		if clearErr := s.repo.ClearResetToken(user.ID); clearErr != nil {
			return clearErr
		}
	}
	return nil
}

func (s *authService) ResetPassword(input dto.ResetPasswordRequest) error {
	claims, err := s.auth.DecodeUnverified(input.Token)
	if err != nil {
		return apperr.Expired("token is invalid or has expired")
	}

	user, err := s.repo.FindUserByEmail(claims.User.Email)
	if err != nil {
		return err
	}
	if user == nil || user.ResetToken == "" {
		return apperr.Expired("token is invalid or has expired")
	}
	if user.ResetTokenExpiresAt == nil || time.Now().After(*user.ResetTokenExpiresAt) {
		return apperr.Expired("token is invalid or has expired")
	}
	if input.NewPassword != input.ConfirmPassword {
		return apperr.InvalidInput("passwords must be same")
	}

	// UpdatePassword re-hashes and clears the reset fields, so a second call
	// with the same token lands in the checks above.
	return s.repo.UpdatePassword(user.ID, input.NewPassword)
}

func (s *authService) GetUserByToken(token string) (*dto.PublicUser, error) {
	claims, err := s.auth.DecodeUnverified(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindUserByEmail(claims.User.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("there is no user with such email")
	}

	friends, err := s.repo.FriendIDs(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.PublicUser{
		ID:      user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Image:   user.Image,
		Bio:     user.Bio,
		Friends: friends,
	}, nil
}
