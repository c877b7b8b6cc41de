package services

import (
	"context"
	"testing"

	"github.com/chatterly/chat_service/internal/apperr"
	"github.com/chatterly/chat_service/internal/domain"
	"github.com/chatterly/chat_service/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	svc      ChatService
	users    *fakeUserRepo
	chats    *fakeChatRepo
	msgs     *fakeMessageRepo
	notifier *fakeNotifier

	alice *domain.User
	bob   *domain.User
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	users := newFakeUserRepo()
	msgs := newFakeMessageRepo()
	chats := newFakeChatRepo(msgs)
	notifier := &fakeNotifier{}

	alice, err := users.CreateUser(&domain.User{Email: "alice@chatterly.io", Name: "Alice", Image: "alice.jpg"}, "secret1")
	require.NoError(t, err)
	bob, err := users.CreateUser(&domain.User{Email: "bob@chatterly.io", Name: "Bob"}, "secret1")
	require.NoError(t, err)

	return &chatFixture{
		svc:      NewChatService(chats, msgs, users, notifier),
		users:    users,
		chats:    chats,
		msgs:     msgs,
		notifier: notifier,
		alice:    alice,
		bob:      bob,
	}
}

func (f *chatFixture) createChat(t *testing.T) *domain.Chat {
	t.Helper()
	chat, err := f.svc.CreateChat(context.Background(), []uint{f.alice.ID, f.bob.ID})
	require.NoError(t, err)
	return chat
}

func TestCreateChat(t *testing.T) {
	f := newChatFixture(t)

	chat := f.createChat(t)
	assert.True(t, chat.HasParticipant(f.alice.ID))
	assert.True(t, chat.HasParticipant(f.bob.ID))
	assert.Len(t, f.notifier.on(dto.GlobalChatChannel, dto.EventNewChat), 1)
}

func TestCreateChatValidation(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	cases := []struct {
		name         string
		participants []uint
	}{
		{"one participant", []uint{f.alice.ID}},
		{"three participants", []uint{1, 2, 3}},
		{"zero id", []uint{f.alice.ID, 0}},
		{"same participant twice", []uint{f.alice.ID, f.alice.ID}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateChat(ctx, tc.participants)
			assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput), "got %v", err)
		})
	}
}

func TestCreateChatDuplicate(t *testing.T) {
	f := newChatFixture(t)
	f.createChat(t)

	// same pair in reversed order still hits the same chat
	_, err := f.svc.CreateChat(context.Background(), []uint{f.bob.ID, f.alice.ID})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestSendMessageFanOut(t *testing.T) {
	f := newChatFixture(t)
	chat := f.createChat(t)
	ctx := context.Background()

	msg, err := f.svc.SendMessage(ctx, f.alice.ID, dto.NewMessageRequest{
		ChatID:      chat.ID,
		RecipientID: f.bob.ID,
		Content:     "hello bob",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MessageText, msg.MessageType)
	assert.Equal(t, "hello bob", msg.Content)

	room := f.notifier.on(dto.ChatChannel(chat.ID), dto.EventIncomingMessage)
	require.Len(t, room, 1)

	inbox := f.notifier.on(dto.UserChatsChannel(f.bob.ID), dto.EventNewMessage)
	require.Len(t, inbox, 1)

	// both audiences get the sender's display fields alongside the message
	for _, published := range []publishedEvent{room[0], inbox[0]} {
		ev, ok := published.Payload.(dto.NewMessageEvent)
		require.True(t, ok, "payload on %s is %T", published.Channel, published.Payload)
		assert.Equal(t, "Alice", ev.SenderName)
		assert.Equal(t, "alice.jpg", ev.SenderImage)
		assert.Equal(t, msg.ID, ev.Message.ID)
	}
}

func TestSendMessageValidation(t *testing.T) {
	f := newChatFixture(t)
	chat := f.createChat(t)
	ctx := context.Background()
	lat := 52.52

	cases := []struct {
		name  string
		input dto.NewMessageRequest
	}{
		{"unknown type", dto.NewMessageRequest{ChatID: chat.ID, RecipientID: f.bob.ID, MessageType: "sticker", Content: "x"}},
		{"empty text", dto.NewMessageRequest{ChatID: chat.ID, RecipientID: f.bob.ID, Content: "   "}},
		{"media without reference", dto.NewMessageRequest{ChatID: chat.ID, RecipientID: f.bob.ID, MessageType: "image"}},
		{"geolocation without coordinates", dto.NewMessageRequest{ChatID: chat.ID, RecipientID: f.bob.ID, MessageType: "geolocation", Latitude: &lat}},
		{"missing recipient", dto.NewMessageRequest{ChatID: chat.ID, Content: "hi"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.SendMessage(ctx, f.alice.ID, tc.input)
			assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput), "got %v", err)
		})
	}
}

func TestSendGeolocationMessage(t *testing.T) {
	f := newChatFixture(t)
	chat := f.createChat(t)
	lat, lon := 52.52, 13.405

	msg, err := f.svc.SendMessage(context.Background(), f.alice.ID, dto.NewMessageRequest{
		ChatID:      chat.ID,
		RecipientID: f.bob.ID,
		MessageType: "geolocation",
		Latitude:    &lat,
		Longitude:   &lon,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MessageGeolocation, msg.MessageType)
	require.NotNil(t, msg.Latitude)
	assert.Equal(t, lat, *msg.Latitude)
}

func TestSendMessageUnknownChat(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.svc.SendMessage(context.Background(), f.alice.ID, dto.NewMessageRequest{
		ChatID:      999,
		RecipientID: f.bob.ID,
		Content:     "hi",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestSendMessageNonParticipant(t *testing.T) {
	f := newChatFixture(t)
	chat := f.createChat(t)

	carol, err := f.users.CreateUser(&domain.User{Email: "carol@chatterly.io", Name: "Carol"}, "secret1")
	require.NoError(t, err)

	_, err = f.svc.SendMessage(context.Background(), carol.ID, dto.NewMessageRequest{
		ChatID:      chat.ID,
		RecipientID: f.bob.ID,
		Content:     "let me in",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

func TestMessageOrdering(t *testing.T) {
	f := newChatFixture(t)
	chat := f.createChat(t)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		_, err := f.svc.SendMessage(ctx, f.alice.ID, dto.NewMessageRequest{
			ChatID:      chat.ID,
			RecipientID: f.bob.ID,
			Content:     text,
		})
		require.NoError(t, err)
	}

	msgs, err := f.svc.ListMessages(chat.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
	assert.Equal(t, "third", msgs[2].Content)
}

func TestListUserChats(t *testing.T) {
	f := newChatFixture(t)
	f.createChat(t)

	chats, err := f.svc.ListUserChats(f.alice.ID)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	require.Len(t, chats[0].Participants, 2)

	carol, err := f.users.CreateUser(&domain.User{Email: "carol@chatterly.io", Name: "Carol"}, "secret1")
	require.NoError(t, err)

	chats, err = f.svc.ListUserChats(carol.ID)
	require.NoError(t, err)
	assert.Empty(t, chats)
}

func TestGetChatInfo(t *testing.T) {
	f := newChatFixture(t)
	chat := f.createChat(t)

	got, participants, err := f.svc.GetChatInfo(chat.ID)
	require.NoError(t, err)
	assert.Equal(t, chat.ID, got.ID)
	assert.Len(t, participants, 2)

	_, _, err = f.svc.GetChatInfo(999)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestGetChatByParticipants(t *testing.T) {
	f := newChatFixture(t)
	chat := f.createChat(t)

	got, err := f.svc.GetChatByParticipants(f.bob.ID, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, chat.ID, got.ID)

	_, err = f.svc.GetChatByParticipants(f.alice.ID, 999)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestDeleteChat(t *testing.T) {
	f := newChatFixture(t)
	chat := f.createChat(t)
	ctx := context.Background()

	_, err := f.svc.SendMessage(ctx, f.alice.ID, dto.NewMessageRequest{
		ChatID:      chat.ID,
		RecipientID: f.bob.ID,
		Content:     "soon gone",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteChat(ctx, f.alice.ID, f.bob.ID))

	msgs, err := f.msgs.ListByChat(chat.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	err = f.svc.DeleteChat(ctx, f.alice.ID, f.bob.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
