package services

import (
	"context"
	"strings"
	"time"

	"github.com/chatterly/chat_service/internal/apperr"
	"github.com/chatterly/chat_service/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// In-memory fakes mirroring the store contracts: not-found is (nil, nil),
// deletes are idempotent, accept runs as one atomic step.

type fakeUserRepo struct {
	users   map[uint]*domain.User
	friends map[uint]map[uint]bool
	nextID  uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   map[uint]*domain.User{},
		friends: map[uint]map[uint]bool{},
	}
}

func (r *fakeUserRepo) CreateUser(user *domain.User, password string) (*domain.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	r.nextID++
	user.ID = r.nextID
	user.PasswordHash = string(hashed)
	if user.Image == "" {
		user.Image = "default.jpg"
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) FindUserByEmail(email string) (*domain.User, error) {
	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindUserById(userID uint) (*domain.User, error) {
	return r.users[userID], nil
}

func (r *fakeUserRepo) FindUsersByIds(ids []uint) ([]domain.User, error) {
	var out []domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) SaveUser(user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdatePassword(userID uint, newPassword string) error {
	u, ok := r.users[userID]
	if !ok {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.MinCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	u.ResetToken = ""
	u.ResetTokenExpiresAt = nil
	return nil
}

func (r *fakeUserRepo) SetResetToken(userID uint, token string, expiresAt time.Time) error {
	if u, ok := r.users[userID]; ok {
		u.ResetToken = token
		u.ResetTokenExpiresAt = &expiresAt
	}
	return nil
}

func (r *fakeUserRepo) ClearResetToken(userID uint) error {
	if u, ok := r.users[userID]; ok {
		u.ResetToken = ""
		u.ResetTokenExpiresAt = nil
	}
	return nil
}

func (r *fakeUserRepo) SearchUsers(email, name string) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if email != "" && strings.Contains(u.Email, strings.ToLower(email)) {
			out = append(out, *u)
			continue
		}
		if name != "" && strings.Contains(strings.ToLower(u.Name), strings.ToLower(name)) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FriendIDs(userID uint) ([]uint, error) {
	var ids []uint
	for id := range r.friends[userID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeUserRepo) AreFriends(aID, bID uint) (bool, error) {
	return r.friends[aID][bID] || r.friends[bID][aID], nil
}

func (r *fakeUserRepo) link(aID, bID uint) {
	if r.friends[aID] == nil {
		r.friends[aID] = map[uint]bool{}
	}
	if r.friends[bID] == nil {
		r.friends[bID] = map[uint]bool{}
	}
	r.friends[aID][bID] = true
	r.friends[bID][aID] = true
}

func (r *fakeUserRepo) unlink(aID, bID uint) {
	delete(r.friends[aID], bID)
	delete(r.friends[bID], aID)
}

type fakeChatRepo struct {
	chats    map[uint]*domain.Chat
	nextID   uint
	messages *fakeMessageRepo
}

func newFakeChatRepo(messages *fakeMessageRepo) *fakeChatRepo {
	return &fakeChatRepo{chats: map[uint]*domain.Chat{}, messages: messages}
}

func (r *fakeChatRepo) CreateChat(aID, bID uint) (*domain.Chat, bool, error) {
	a, b := domain.SortPair(aID, bID)
	for _, c := range r.chats {
		if c.ParticipantA == a && c.ParticipantB == b {
			return c, false, nil
		}
	}
	r.nextID++
	c := &domain.Chat{ID: r.nextID, ParticipantA: a, ParticipantB: b, CreatedAt: time.Now()}
	r.chats[c.ID] = c
	return c, true, nil
}

func (r *fakeChatRepo) FindByParticipants(aID, bID uint) (*domain.Chat, error) {
	a, b := domain.SortPair(aID, bID)
	for _, c := range r.chats {
		if c.ParticipantA == a && c.ParticipantB == b {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeChatRepo) FindChatById(chatID uint) (*domain.Chat, error) {
	return r.chats[chatID], nil
}

func (r *fakeChatRepo) ListUserChats(userID uint) ([]domain.Chat, error) {
	var out []domain.Chat
	for _, c := range r.chats {
		if c.HasParticipant(userID) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) DeleteByParticipants(aID, bID uint) (bool, error) {
	chat, _ := r.FindByParticipants(aID, bID)
	if chat == nil {
		return false, nil
	}
	if r.messages != nil {
		r.messages.deleteByChat(chat.ID)
	}
	delete(r.chats, chat.ID)
	return true, nil
}

type fakeMessageRepo struct {
	msgs   []domain.Message
	nextID uint
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) CreateMessage(msg *domain.Message) (*domain.Message, error) {
	r.nextID++
	msg.ID = r.nextID
	msg.CreatedAt = time.Now()
	r.msgs = append(r.msgs, *msg)
	return msg, nil
}

func (r *fakeMessageRepo) ListByChat(chatID uint) ([]domain.Message, error) {
	var out []domain.Message
	for _, m := range r.msgs {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) deleteByChat(chatID uint) {
	kept := r.msgs[:0]
	for _, m := range r.msgs {
		if m.ChatID != chatID {
			kept = append(kept, m)
		}
	}
	r.msgs = kept
}

type fakeRequestRepo struct {
	reqs   map[[2]uint]*domain.FriendRequest
	nextID uint
	users  *fakeUserRepo
	chats  *fakeChatRepo
}

func newFakeRequestRepo(users *fakeUserRepo, chats *fakeChatRepo) *fakeRequestRepo {
	return &fakeRequestRepo{
		reqs:  map[[2]uint]*domain.FriendRequest{},
		users: users,
		chats: chats,
	}
}

func (r *fakeRequestRepo) CreateRequest(senderID, receiverID uint) (*domain.FriendRequest, error) {
	r.nextID++
	req := &domain.FriendRequest{
		ID:         r.nextID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		CreatedAt:  time.Now(),
	}
	r.reqs[[2]uint{senderID, receiverID}] = req
	return req, nil
}

func (r *fakeRequestRepo) FindRequest(senderID, receiverID uint) (*domain.FriendRequest, error) {
	return r.reqs[[2]uint{senderID, receiverID}], nil
}

func (r *fakeRequestRepo) DeleteRequest(senderID, receiverID uint) error {
	delete(r.reqs, [2]uint{senderID, receiverID})
	return nil
}

func (r *fakeRequestRepo) ListIncoming(receiverID uint) ([]domain.FriendRequest, error) {
	var out []domain.FriendRequest
	for _, req := range r.reqs {
		if req.ReceiverID == receiverID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) ListOutgoing(senderID uint) ([]domain.FriendRequest, error) {
	var out []domain.FriendRequest
	for _, req := range r.reqs {
		if req.SenderID == senderID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) AcceptRequest(senderID, receiverID uint) (*domain.Chat, bool, error) {
	if r.users.users[senderID] == nil {
		return nil, false, apperr.NotFound("user is not found")
	}
	if r.users.users[receiverID] == nil {
		return nil, false, apperr.NotFound("friend is not found")
	}
	r.users.link(senderID, receiverID)
	delete(r.reqs, [2]uint{senderID, receiverID})
	return r.chats.CreateChat(senderID, receiverID)
}

func (r *fakeRequestRepo) RemoveFriendship(aID, bID uint) error {
	r.users.unlink(aID, bID)
	return nil
}

type publishedEvent struct {
	Channel string
	Event   string
	Payload interface{}
}

type fakeNotifier struct {
	events []publishedEvent
	err    error
}

func (n *fakeNotifier) Publish(_ context.Context, channel, event string, payload interface{}) error {
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, publishedEvent{Channel: channel, Event: event, Payload: payload})
	return nil
}

func (n *fakeNotifier) on(channel, event string) []publishedEvent {
	var out []publishedEvent
	for _, e := range n.events {
		if e.Channel == channel && e.Event == event {
			out = append(out, e)
		}
	}
	return out
}
