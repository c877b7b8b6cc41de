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

type UserService interface {
	// Relationship state machine
	SendFriendRequest(ctx context.Context, senderID uint, receiverEmail string) error
	AcceptFriendRequest(ctx context.Context, senderID, receiverID uint) error
	DeclineFriendRequest(ctx context.Context, senderID, receiverID uint) error
	RemoveFriend(ctx context.Context, senderID, receiverID uint) error
	ListIncomingRequests(userID uint) ([]dto.FriendRequestResponse, error)
	ListOutgoingRequests(userID uint) ([]dto.FriendRequestResponse, error)

	// Profile
	GetProfile(userID uint) (*dto.PublicUser, error)
	SearchUsers(email, name string) ([]dto.PublicUser, error)
	UpdateBio(userID uint, bio string) (string, error)
	UpdateName(userID uint, name string) (string, error)
	SetPhoto(userID uint, image string) error
}

type userService struct {
	repo        repository.UserRepository
	requestRepo repository.FriendRequestRepository
	chatRepo    repository.ChatRepository
	notifier    interfaces.Notifier
}

func NewUserService(
	repo repository.UserRepository,
	requestRepo repository.FriendRequestRepository,
	chatRepo repository.ChatRepository,
	notifier interfaces.Notifier,
) UserService {
	return &userService{
		repo:        repo,
		requestRepo: requestRepo,
		chatRepo:    chatRepo,
		notifier:    notifier,
	}
}

// SendFriendRequest validates in a fixed order, each violation
// short-circuiting: receiver exists, no self-request, not already friends
// (with stray-request repair), no duplicate pending request.
func (s *userService) SendFriendRequest(ctx context.Context, senderID uint, receiverEmail string) error {
	receiverEmail = strings.TrimSpace(strings.ToLower(receiverEmail))
	if senderID == 0 || receiverEmail == "" {
		return apperr.InvalidInput("both sender and receiver must be provided")
	}

	receiver, err := s.repo.FindUserByEmail(receiverEmail)
	if err != nil {
		return err
	}
	if receiver == nil {
		return apperr.NotFound("there is no user with such email")
	}

	sender, err := s.repo.FindUserById(senderID)
	if err != nil {
		return err
	}
	if sender == nil {
		return apperr.NotFound("there is no user with such id")
	}

	if sender.ID == receiver.ID {
		return apperr.InvalidInput("you can't add yourself")
	}

	friends, err := s.repo.AreFriends(sender.ID, receiver.ID)
	if err != nil {
		return err
	}
	if friends {
		// repair: a pending request between two users who are already
		// friends is stale state from a partial failure, drop it
		if err := s.requestRepo.DeleteRequest(sender.ID, receiver.ID); err != nil {
			return err
		}
		return apperr.Conflict("you are already friends")
	}

	existing, err := s.requestRepo.FindRequest(sender.ID, receiver.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.Conflict("user already has friend request")
	}

	req, err := s.requestRepo.CreateRequest(sender.ID, receiver.ID)
	if err != nil {
		return err
	}

	s.publish(ctx, dto.UserRequestsChannel(receiver.ID), dto.EventIncomingFriendRequest, map[string]interface{}{
		"id":       req.ID,
		"sender":   publicView(sender, nil),
		"receiver": publicView(receiver, nil),
	})
	return nil
}

func (s *userService) AcceptFriendRequest(ctx context.Context, senderID, receiverID uint) error {
	if senderID == 0 || receiverID == 0 {
		return apperr.InvalidInput("both sender and receiver must be provided")
	}

	chat, created, err := s.requestRepo.AcceptRequest(senderID, receiverID)
	if err != nil {
		return err
	}

	sender, err := s.repo.FindUserById(senderID)
	if err != nil {
		return err
	}
	receiver, err := s.repo.FindUserById(receiverID)
	if err != nil {
		return err
	}

	if receiver != nil {
		s.publish(ctx, dto.UserFriendsChannel(senderID), dto.EventNewFriend, publicView(receiver, nil))
	}
	if sender != nil {
		s.publish(ctx, dto.UserFriendsChannel(receiverID), dto.EventNewFriend, publicView(sender, nil))
	}
	if created {
		s.publish(ctx, dto.GlobalChatChannel, dto.EventNewChat, chat)
	}
	return nil
}

// DeclineFriendRequest is idempotent: declining a request that no longer
// exists is a successful no-op.
func (s *userService) DeclineFriendRequest(ctx context.Context, senderID, receiverID uint) error {
	if senderID == 0 || receiverID == 0 {
		return apperr.InvalidInput("both sender and receiver must be provided")
	}

	if err := s.requestRepo.DeleteRequest(senderID, receiverID); err != nil {
		return err
	}

	s.publish(ctx, dto.UserRequestsChannel(senderID), dto.EventDenyRequest, map[string]interface{}{
		"sender_id":   senderID,
		"receiver_id": receiverID,
	})
	return nil
}

func (s *userService) RemoveFriend(ctx context.Context, senderID, receiverID uint) error {
	if senderID == 0 || receiverID == 0 || senderID == receiverID {
		return apperr.InvalidInput("please provide all data")
	}

	if err := s.requestRepo.RemoveFriendship(senderID, receiverID); err != nil {
		return err
	}

	// the pair may never have had a chat; removal still completes
	if _, err := s.chatRepo.DeleteByParticipants(senderID, receiverID); err != nil {
		return err
	}

	s.publish(ctx, dto.UserFriendsChannel(senderID), dto.EventDeleteFromFriends, map[string]interface{}{"status": "success"})
	s.publish(ctx, dto.UserFriendsChannel(receiverID), dto.EventDeleteFromFriends, map[string]interface{}{"status": "success"})
	return nil
}

func (s *userService) ListIncomingRequests(userID uint) ([]dto.FriendRequestResponse, error) {
	reqs, err := s.requestRepo.ListIncoming(userID)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(reqs), nil
}

func (s *userService) ListOutgoingRequests(userID uint) ([]dto.FriendRequestResponse, error) {
	reqs, err := s.requestRepo.ListOutgoing(userID)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(reqs), nil
}

func (s *userService) GetProfile(userID uint) (*dto.PublicUser, error) {
	user, err := s.repo.FindUserById(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("there is no user with that id")
	}

	friends, err := s.repo.FriendIDs(userID)
	if err != nil {
		return nil, err
	}
	view := publicView(user, friends)
	return &view, nil
}

func (s *userService) SearchUsers(email, name string) ([]dto.PublicUser, error) {
	users, err := s.repo.SearchUsers(strings.TrimSpace(email), strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}

	out := make([]dto.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, publicView(&users[i], nil))
	}
	return out, nil
}

func (s *userService) UpdateBio(userID uint, bio string) (string, error) {
	user, err := s.repo.FindUserById(userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperr.NotFound("there is no user with that id")
	}

	user.Bio = bio
	if err := s.repo.SaveUser(user); err != nil {
		return "", err
	}
	return user.Bio, nil
}

func (s *userService) UpdateName(userID uint, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.InvalidInput("name cannot be empty")
	}

	user, err := s.repo.FindUserById(userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperr.NotFound("there is no user with that id")
	}

	user.Name = name
	if err := s.repo.SaveUser(user); err != nil {
		return "", err
	}
	return user.Name, nil
}

func (s *userService) SetPhoto(userID uint, image string) error {
	if image == "" {
		return apperr.InvalidInput("image reference is required")
	}

	user, err := s.repo.FindUserById(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("there is no user with that id")
	}

	user.Image = image
	return s.repo.SaveUser(user)
}

// publish is fire-and-forget: a broker failure is logged, never surfaced.
func (s *userService) publish(ctx context.Context, channel, event string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, channel, event, payload); err != nil {
		log.Printf("publish %s on %s failed: %v", event, channel, err)
	}
}

func publicView(user *domain.User, friends []uint) dto.PublicUser {
	return dto.PublicUser{
		ID:      user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Image:   user.Image,
		Bio:     user.Bio,
		Friends: friends,
	}
}

func toRequestResponses(reqs []domain.FriendRequest) []dto.FriendRequestResponse {
	out := make([]dto.FriendRequestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, dto.FriendRequestResponse{
			ID:         r.ID,
			SenderID:   r.SenderID,
			ReceiverID: r.ReceiverID,
			CreatedAt:  r.CreatedAt,
		})
	}
	return out
}
