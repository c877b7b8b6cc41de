package domain

import "time"

// Chat is the single conversation container for an unordered participant
// pair. ParticipantA always holds the smaller id so the composite unique
// index enforces one chat per pair.
type Chat struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ParticipantA uint      `gorm:"not null;uniqueIndex:idx_chat_pair" json:"participant_a"`
	ParticipantB uint      `gorm:"not null;uniqueIndex:idx_chat_pair" json:"participant_b"`
	Messages     []Message `gorm:"foreignKey:ChatID" json:"messages,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// SortPair normalizes an unordered participant pair to (low, high).
func SortPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

func (c *Chat) HasParticipant(userID uint) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}
