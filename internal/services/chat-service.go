package services

import (
	"context"
	"log"
	"strings"

	"github.com/chatterly/chat_service/internal/apperr"
	"github.com/chatterly/chat_service/internal/domain"
	"github.com/chatterly/chat_service/internal/dto"
	"github.com/chatterly/chat_service/internal/interfaces"
	"github.com/chatterly/chat_service/internal/repository"
)

type ChatService interface {
	CreateChat(ctx context.Context, participants []uint) (*domain.Chat, error)
	SendMessage(ctx context.Context, senderID uint, input dto.NewMessageRequest) (*domain.Message, error)
	ListMessages(chatID uint) ([]domain.Message, error)
	ListUserChats(userID uint) ([]dto.ChatResponse, error)
	GetChatInfo(chatID uint) (*domain.Chat, []dto.PublicUser, error)
	GetChatByParticipants(aID, bID uint) (*domain.Chat, error)
	DeleteChat(ctx context.Context, aID, bID uint) error
}

type chatService struct {
	chatRepo repository.ChatRepository
	msgRepo  repository.MessageRepository
	userRepo repository.UserRepository
	notifier interfaces.Notifier
}

func NewChatService(
	chatRepo repository.ChatRepository,
	msgRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	notifier interfaces.Notifier,
) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		msgRepo:  msgRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

func (s *chatService) CreateChat(ctx context.Context, participants []uint) (*domain.Chat, error) {
	if len(participants) != 2 || participants[0] == 0 || participants[1] == 0 {
		return nil, apperr.InvalidInput("a chat needs exactly two participants")
	}
	if participants[0] == participants[1] {
		return nil, apperr.InvalidInput("a chat needs two distinct participants")
	}

	chat, created, err := s.chatRepo.CreateChat(participants[0], participants[1])
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, apperr.Conflict("chat for these participants already exists")
	}

	s.publish(ctx, dto.GlobalChatChannel, dto.EventNewChat, chat)
	return chat, nil
}

// SendMessage persists the message and fans it out twice: to anyone viewing
// the conversation and to the recipient's inbox channel.
func (s *chatService) SendMessage(ctx context.Context, senderID uint, input dto.NewMessageRequest) (*domain.Message, error) {
	msgType := domain.MessageType(strings.TrimSpace(input.MessageType))
	if msgType == "" {
		msgType = domain.MessageText
	}
	if !msgType.IsValid() {
		return nil, apperr.InvalidInput("unknown message type")
	}

	if senderID == 0 || input.RecipientID == 0 || input.ChatID == 0 {
		return nil, apperr.InvalidInput("provide all needed data")
	}

	content := strings.TrimSpace(input.Content)
	switch {
	case msgType == domain.MessageGeolocation:
		if input.Latitude == nil || input.Longitude == nil {
			return nil, apperr.InvalidInput("geolocation messages need coordinates")
		}
	case msgType.IsMedia():
		// content must be the reference the upload collaborator produced
		if content == "" {
			return nil, apperr.InvalidInput("media messages need an uploaded file reference")
		}
	default:
		if content == "" {
			return nil, apperr.InvalidInput("message content is required")
		}
	}

	chat, err := s.findChatForMessage(input.ChatID, senderID)
	if err != nil {
		return nil, err
	}

	sender, err := s.userRepo.FindUserById(senderID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, apperr.NotFound("there is no user with that id")
	}

	msg, err := s.msgRepo.CreateMessage(&domain.Message{
		ChatID:      chat.ID,
		SenderID:    senderID,
		RecipientID: input.RecipientID,
		MessageType: msgType,
		Content:     content,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
	})
	if err != nil {
		return nil, err
	}

	// both publishes carry the sender's display fields so neither audience
	// needs a profile lookup to render the message
	event := dto.NewMessageEvent{
		Message:     *msg,
		SenderName:  sender.Name,
		SenderImage: sender.Image,
	}
	s.publish(ctx, dto.ChatChannel(chat.ID), dto.EventIncomingMessage, event)
	s.publish(ctx, dto.UserChatsChannel(input.RecipientID), dto.EventNewMessage, event)
	return msg, nil
}

func (s *chatService) findChatForMessage(chatID, senderID uint) (*domain.Chat, error) {
	chat, err := s.chatRepo.FindChatById(chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, apperr.NotFound("invalid chat")
	}
	if !chat.HasParticipant(senderID) {
		return nil, apperr.Unauthorized("sender is not a chat participant")
	}
	return chat, nil
}

func (s *chatService) ListMessages(chatID uint) ([]domain.Message, error) {
	if chatID == 0 {
		return nil, apperr.InvalidInput("chat id is required")
	}
	return s.msgRepo.ListByChat(chatID)
}

func (s *chatService) ListUserChats(userID uint) ([]dto.ChatResponse, error) {
	chats, err := s.chatRepo.ListUserChats(userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ChatResponse, 0, len(chats))
	for _, c := range chats {
		participants, err := s.participants(c)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.ChatResponse{ID: c.ID, Participants: participants})
	}
	return out, nil
}

func (s *chatService) GetChatInfo(chatID uint) (*domain.Chat, []dto.PublicUser, error) {
	chat, err := s.chatRepo.FindChatById(chatID)
	if err != nil {
		return nil, nil, err
	}
	if chat == nil {
		return nil, nil, apperr.NotFound("invalid chat")
	}

	participants, err := s.participants(*chat)
	if err != nil {
		return nil, nil, err
	}
	return chat, participants, nil
}

// GetChatByParticipants treats absence as a domain error: without a chat the
// pair is not (or no longer) friends.
func (s *chatService) GetChatByParticipants(aID, bID uint) (*domain.Chat, error) {
	if aID == 0 || bID == 0 {
		return nil, apperr.InvalidInput("please provide all data")
	}

	chat, err := s.chatRepo.FindByParticipants(aID, bID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, apperr.NotFound("you must be friends to chat with a user")
	}
	return chat, nil
}

func (s *chatService) DeleteChat(ctx context.Context, aID, bID uint) error {
	if aID == 0 || bID == 0 {
		return apperr.InvalidInput("please provide all data")
	}

	deleted, err := s.chatRepo.DeleteByParticipants(aID, bID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("invalid chat")
	}
	return nil
}

func (s *chatService) participants(chat domain.Chat) ([]dto.PublicUser, error) {
	users, err := s.userRepo.FindUsersByIds([]uint{chat.ParticipantA, chat.ParticipantB})
	if err != nil {
		return nil, err
	}

	out := make([]dto.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, publicView(&users[i], nil))
	}
	return out, nil
}

func (s *chatService) publish(ctx context.Context, channel, event string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, channel, event, payload); err != nil {
		log.Printf("publish %s on %s failed: %v", event, channel, err)
	}
}
