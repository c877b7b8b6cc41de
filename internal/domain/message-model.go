package domain

import "time"

type MessageType string

const (
	MessageText        MessageType = "text"
	MessageImage       MessageType = "image"
	MessageVideo       MessageType = "video"
	MessageAudio       MessageType = "audio"
	MessageFile        MessageType = "file"
	MessageVoice       MessageType = "voice"
	MessageGeolocation MessageType = "geolocation"
)

// IsValid reports whether t belongs to the closed message-type set.
func (t MessageType) IsValid() bool {
	switch t {
	case MessageText, MessageImage, MessageVideo, MessageAudio,
		MessageFile, MessageVoice, MessageGeolocation:
		return true
	}
	return false
}

// IsMedia reports whether content must be an already-uploaded file reference.
func (t MessageType) IsMedia() bool {
	switch t {
	case MessageImage, MessageVideo, MessageAudio, MessageFile, MessageVoice:
		return true
	}
	return false
}

type Message struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	ChatID      uint        `gorm:"not null;index" json:"chat_id"`
	SenderID    uint        `gorm:"not null" json:"sender_id"`
	RecipientID uint        `gorm:"not null" json:"recipient_id"`
	MessageType MessageType `gorm:"type:varchar(20);not null;default:text" json:"message_type"`
	Content     string      `json:"content"`
	Latitude    *float64    `json:"latitude,omitempty"`
	Longitude   *float64    `json:"longitude,omitempty"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
}
