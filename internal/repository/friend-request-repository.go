package repository

import (
	"errors"
	"log"

	"github.com/chatterly/chat_service/internal/apperr"
	"github.com/chatterly/chat_service/internal/domain"
	"gorm.io/gorm"
)

type FriendRequestRepository interface {
	CreateRequest(senderID, receiverID uint) (*domain.FriendRequest, error)
	FindRequest(senderID, receiverID uint) (*domain.FriendRequest, error)
	DeleteRequest(senderID, receiverID uint) error
	ListIncoming(receiverID uint) ([]domain.FriendRequest, error)
	ListOutgoing(senderID uint) ([]domain.FriendRequest, error)
	// AcceptRequest runs the whole acceptance in one transaction: both
	// friend-list inserts, request deletion and chat creation. Returns the
	// pair's chat and whether this call created it.
	AcceptRequest(senderID, receiverID uint) (*domain.Chat, bool, error)
	// RemoveFriendship pulls both join rows in one transaction.
	RemoveFriendship(aID, bID uint) error
}

type friendRequestRepository struct {
	db *gorm.DB
}

func NewFriendRequestRepository(db *gorm.DB) FriendRequestRepository {
	return &friendRequestRepository{db: db}
}

func (r *friendRequestRepository) CreateRequest(senderID, receiverID uint) (*domain.FriendRequest, error) {
	req := &domain.FriendRequest{SenderID: senderID, ReceiverID: receiverID}
	if err := r.db.Create(req).Error; err != nil {
		log.Printf("create friend request error: %v", err)
		return nil, apperr.Upstream("failed to create friend request", err)
	}
	return req, nil
}

func (r *friendRequestRepository) FindRequest(senderID, receiverID uint) (*domain.FriendRequest, error) {
	req := &domain.FriendRequest{}

	err := r.db.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).First(req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("find friend request error: %v", err)
		return nil, apperr.Upstream("failed to find friend request", err)
	}
	return req, nil
}

// DeleteRequest is a no-op when the row is already gone.
func (r *friendRequestRepository) DeleteRequest(senderID, receiverID uint) error {
	err := r.db.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		Delete(&domain.FriendRequest{}).Error
	if err != nil {
		log.Printf("delete friend request error: %v", err)
		return apperr.Upstream("failed to delete friend request", err)
	}
	return nil
}

func (r *friendRequestRepository) ListIncoming(receiverID uint) ([]domain.FriendRequest, error) {
	var reqs []domain.FriendRequest
	if err := r.db.Where("receiver_id = ?", receiverID).Order("created_at").Find(&reqs).Error; err != nil {
		log.Printf("list incoming requests error: %v", err)
		return nil, apperr.Upstream("failed to list incoming requests", err)
	}
	return reqs, nil
}

func (r *friendRequestRepository) ListOutgoing(senderID uint) ([]domain.FriendRequest, error) {
	var reqs []domain.FriendRequest
	if err := r.db.Where("sender_id = ?", senderID).Order("created_at").Find(&reqs).Error; err != nil {
		log.Printf("list outgoing requests error: %v", err)
		return nil, apperr.Upstream("failed to list outgoing requests", err)
	}
	return reqs, nil
}

func (r *friendRequestRepository) AcceptRequest(senderID, receiverID uint) (*domain.Chat, bool, error) {
	var chat domain.Chat
	var created bool

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var sender, receiver domain.User
		if err := tx.First(&sender, senderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("user is not found")
			}
			return err
		}
		if err := tx.First(&receiver, receiverID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("friend is not found")
			}
			return err
		}

		// Join rows in both directions; the association upsert keeps a
		// repeated accept from duplicating either row.
		if err := tx.Model(&receiver).Association("Friends").Append(&sender); err != nil {
			return err
		}
		if err := tx.Model(&sender).Association("Friends").Append(&receiver); err != nil {
			return err
		}

		if err := tx.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
			Delete(&domain.FriendRequest{}).Error; err != nil {
			return err
		}

		a, b := domain.SortPair(senderID, receiverID)
		res := tx.Where(domain.Chat{ParticipantA: a, ParticipantB: b}).FirstOrCreate(&chat)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) != apperr.KindUnknown {
			return nil, false, err
		}
		log.Printf("accept friend request error: %v", err)
		return nil, false, apperr.Upstream("failed to accept friend request", err)
	}
	return &chat, created, nil
}

func (r *friendRequestRepository) RemoveFriendship(aID, bID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Exec(
			"DELETE FROM user_friends WHERE (user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			aID, bID, bID, aID,
		).Error
	})
	if err != nil {
		log.Printf("remove friendship error: %v", err)
		return apperr.Upstream("failed to remove friendship", err)
	}
	return nil
}
