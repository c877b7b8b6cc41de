package dto

import (
	"fmt"
	"time"
)

// Event is the envelope every broker publish carries.
type Event struct {
	Channel string      `json:"channel"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}

const (
	EventIncomingFriendRequest = "incoming-friend-requests"
	EventNewFriend             = "new-friend"
	EventDenyRequest           = "deny-request"
	EventDeleteFromFriends     = "delete-from-friends"
	EventNewChat               = "new-chat"
	EventIncomingMessage       = "incoming-message"
	EventNewMessage            = "new-message"
)

// GlobalChatChannel announces chat creation to relationship-scoped listeners.
const GlobalChatChannel = "chat"

func UserRequestsChannel(userID uint) string {
	return fmt.Sprintf("user:%d:incoming-friend-requests", userID)
}

func UserFriendsChannel(userID uint) string {
	return fmt.Sprintf("user:%d:friends", userID)
}

func UserChatsChannel(userID uint) string {
	return fmt.Sprintf("user:%d:chats", userID)
}

func ChatChannel(chatID uint) string {
	return fmt.Sprintf("chat:%d", chatID)
}
