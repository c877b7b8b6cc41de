package repository

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/chatterly/chat_service/internal/apperr"
	"github.com/chatterly/chat_service/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserRepository is the credential-store contract. Not-found comes back as a
// nil user with a nil error; callers decide whether absence is a failure.
// Store unavailability surfaces as an upstream-failure error.
type UserRepository interface {
	CreateUser(user *domain.User, password string) (*domain.User, error)
	FindUserByEmail(email string) (*domain.User, error)
	FindUserById(userID uint) (*domain.User, error)
	FindUsersByIds(ids []uint) ([]domain.User, error)
	SaveUser(user *domain.User) error
	UpdatePassword(userID uint, newPassword string) error
	SetResetToken(userID uint, token string, expiresAt time.Time) error
	ClearResetToken(userID uint) error
	SearchUsers(email, name string) ([]domain.User, error)
	FriendIDs(userID uint) ([]uint, error)
	AreFriends(aID, bID uint) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateUser hashes the password as an explicit step of the write path;
// nothing else in the store ever touches PasswordHash.
func (r *userRepository) CreateUser(user *domain.User, password string) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("nil user")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}
	user.PasswordHash = string(hashed)

	if err := r.db.Create(user).Error; err != nil {
		log.Printf("create user error: %v", err)
		return nil, apperr.Upstream("failed to create user", err)
	}
	return user, nil
}

func (r *userRepository) FindUserByEmail(email string) (*domain.User, error) {
	user := &domain.User{}

	err := r.db.First(user, "email = ?", strings.ToLower(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("find user by email error: %v", err)
		return nil, apperr.Upstream("failed to find user by email", err)
	}
	return user, nil
}

func (r *userRepository) FindUserById(userID uint) (*domain.User, error) {
	user := &domain.User{}

	err := r.db.First(user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("find user by id error: %v", err)
		return nil, apperr.Upstream("failed to find user by ID", err)
	}
	return user, nil
}

func (r *userRepository) FindUsersByIds(ids []uint) ([]domain.User, error) {
	var users []domain.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		log.Printf("find users by ids error: %v", err)
		return nil, apperr.Upstream("failed to find users", err)
	}
	return users, nil
}

func (r *userRepository) SaveUser(user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	if err := r.db.Save(user).Error; err != nil {
		log.Printf("save user error: %v", err)
		return apperr.Upstream("failed to save user", err)
	}
	return nil
}

// UpdatePassword re-hashes and clears any pending reset token in the same
// update so a consumed token cannot be replayed.
func (r *userRepository) UpdatePassword(userID uint, newPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	err = r.db.Model(&domain.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"password_hash":          string(hashed),
		"reset_token":            "",
		"reset_token_expires_at": nil,
	}).Error
	if err != nil {
		log.Printf("update password error: %v", err)
		return apperr.Upstream("failed to update password", err)
	}
	return nil
}

func (r *userRepository) SetResetToken(userID uint, token string, expiresAt time.Time) error {
	err := r.db.Model(&domain.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"reset_token":            token,
		"reset_token_expires_at": expiresAt,
	}).Error
	if err != nil {
		log.Printf("set reset token error: %v", err)
		return apperr.Upstream("failed to set reset token", err)
	}
	return nil
}

func (r *userRepository) ClearResetToken(userID uint) error {
	err := r.db.Model(&domain.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"reset_token":            "",
		"reset_token_expires_at": nil,
	}).Error
	if err != nil {
		log.Printf("clear reset token error: %v", err)
		return apperr.Upstream("failed to clear reset token", err)
	}
	return nil
}

func (r *userRepository) SearchUsers(email, name string) ([]domain.User, error) {
	var users []domain.User

	q := r.db.Model(&domain.User{})
	switch {
	case email != "" && name != "":
		q = q.Where("email ILIKE ? OR name ILIKE ?", "%"+email+"%", "%"+name+"%")
	case email != "":
		q = q.Where("email ILIKE ?", "%"+email+"%")
	case name != "":
		q = q.Where("name ILIKE ?", "%"+name+"%")
	}

	if err := q.Find(&users).Error; err != nil {
		log.Printf("search users error: %v", err)
		return nil, apperr.Upstream("failed to search users", err)
	}
	return users, nil
}

func (r *userRepository) FriendIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Table("user_friends").
		Where("user_id = ?", userID).
		Order("friend_id").
		Pluck("friend_id", &ids).Error
	if err != nil {
		log.Printf("list friend ids error: %v", err)
		return nil, apperr.Upstream("failed to list friends", err)
	}
	return ids, nil
}

func (r *userRepository) AreFriends(aID, bID uint) (bool, error) {
	var count int64
	err := r.db.Table("user_friends").
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", aID, bID, bID, aID).
		Count(&count).Error
	if err != nil {
		log.Printf("are friends error: %v", err)
		return false, apperr.Upstream("failed to check friendship", err)
	}
	return count > 0, nil
}
