package repository

import (
	"errors"
	"log"

	"github.com/chatterly/chat_service/internal/apperr"
	"github.com/chatterly/chat_service/internal/domain"
	"gorm.io/gorm"
)

type MessageRepository interface {
	CreateMessage(msg *domain.Message) (*domain.Message, error)
	// ListByChat returns messages in creation order, insertion id breaking
	// same-timestamp ties.
	ListByChat(chatID uint) ([]domain.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) CreateMessage(msg *domain.Message) (*domain.Message, error) {
	if msg == nil {
		return nil, errors.New("nil message")
	}
	if err := r.db.Create(msg).Error; err != nil {
		log.Printf("create message error: %v", err)
		return nil, apperr.Upstream("failed to create message", err)
	}
	return msg, nil
}

func (r *messageRepository) ListByChat(chatID uint) ([]domain.Message, error) {
	var msgs []domain.Message
	if err := r.db.Where("chat_id = ?", chatID).Order("created_at, id").Find(&msgs).Error; err != nil {
		log.Printf("list messages error: %v", err)
		return nil, apperr.Upstream("failed to list messages", err)
	}
	return msgs, nil
}
