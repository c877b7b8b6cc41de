package repository

import (
	"errors"
	"log"

	"github.com/chatterly/chat_service/internal/apperr"
	"github.com/chatterly/chat_service/internal/domain"
	"gorm.io/gorm"
)

type ChatRepository interface {
	// CreateChat inserts the chat for the unordered pair if absent and
	// reports whether this call created it.
	CreateChat(aID, bID uint) (*domain.Chat, bool, error)
	FindByParticipants(aID, bID uint) (*domain.Chat, error)
	FindChatById(chatID uint) (*domain.Chat, error)
	ListUserChats(userID uint) ([]domain.Chat, error)
	// DeleteByParticipants removes the pair's chat and its messages in one
	// transaction; ok is false when no chat matched.
	DeleteByParticipants(aID, bID uint) (bool, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateChat(aID, bID uint) (*domain.Chat, bool, error) {
	a, b := domain.SortPair(aID, bID)
	chat := &domain.Chat{}

	res := r.db.Where(domain.Chat{ParticipantA: a, ParticipantB: b}).FirstOrCreate(chat)
	if res.Error != nil {
		log.Printf("create chat error: %v", res.Error)
		return nil, false, apperr.Upstream("failed to create chat", res.Error)
	}
	return chat, res.RowsAffected > 0, nil
}

func (r *chatRepository) FindByParticipants(aID, bID uint) (*domain.Chat, error) {
	a, b := domain.SortPair(aID, bID)
	chat := &domain.Chat{}

	err := r.db.Where("participant_a = ? AND participant_b = ?", a, b).First(chat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("find chat by participants error: %v", err)
		return nil, apperr.Upstream("failed to find chat", err)
	}
	return chat, nil
}

func (r *chatRepository) FindChatById(chatID uint) (*domain.Chat, error) {
	chat := &domain.Chat{}

	err := r.db.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at, id")
	}).First(chat, chatID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("find chat by id error: %v", err)
		return nil, apperr.Upstream("failed to find chat", err)
	}
	return chat, nil
}

func (r *chatRepository) ListUserChats(userID uint) ([]domain.Chat, error) {
	var chats []domain.Chat
	err := r.db.Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("created_at DESC").Find(&chats).Error
	if err != nil {
		log.Printf("list user chats error: %v", err)
		return nil, apperr.Upstream("failed to list chats", err)
	}
	return chats, nil
}

func (r *chatRepository) DeleteByParticipants(aID, bID uint) (bool, error) {
	a, b := domain.SortPair(aID, bID)
	var deleted bool

	err := r.db.Transaction(func(tx *gorm.DB) error {
		chat := &domain.Chat{}
		err := tx.Where("participant_a = ? AND participant_b = ?", a, b).First(chat).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Where("chat_id = ?", chat.ID).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(chat).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		log.Printf("delete chat error: %v", err)
		return false, apperr.Upstream("failed to delete chat", err)
	}
	return deleted, nil
}
