package dto

import "github.com/chatterly/chat_service/internal/domain"

type CreateChatRequest struct {
	Participants []uint `json:"participants" validate:"required,len=2"`
}

type NewMessageRequest struct {
	ChatID      uint     `json:"chat_id" validate:"required"`
	RecipientID uint     `json:"recipient_id" validate:"required"`
	MessageType string   `json:"message_type"`
	Content     string   `json:"content"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

type ChatResponse struct {
	ID           uint         `json:"id"`
	Participants []PublicUser `json:"participants"`
}

// NewMessageEvent is the inbox fan-out payload: the message plus the sender
// fields a client needs to render the notification without another lookup.
type NewMessageEvent struct {
	Message     domain.Message `json:"message"`
	SenderName  string         `json:"sender_name"`
	SenderImage string         `json:"sender_image"`
}
