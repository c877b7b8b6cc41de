package domain

import "time"

// FriendRequest is a pending, directional proposal. One row per ordered
// (sender, receiver) pair; accepted or declined requests are deleted.
type FriendRequest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;uniqueIndex:idx_sender_receiver" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;uniqueIndex:idx_sender_receiver" json:"receiver_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Sender   User `gorm:"foreignKey:SenderID" json:"-"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"-"`
}
