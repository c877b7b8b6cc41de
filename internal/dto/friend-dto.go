package dto

import "time"

type AddFriendRequest struct {
	ReceiverEmail string `json:"receiver_email" validate:"required,email"`
}

type RespondFriendRequest struct {
	SenderID uint `json:"sender_id" validate:"required"`
}

type RemoveFriendRequest struct {
	FriendID uint `json:"friend_id" validate:"required"`
}

type FriendRequestResponse struct {
	ID         uint      `json:"id"`
	SenderID   uint      `json:"sender_id"`
	ReceiverID uint      `json:"receiver_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type UpdateBioRequest struct {
	Bio string `json:"bio"`
}

type UpdateNameRequest struct {
	Name string `json:"name" validate:"required,max=60"`
}
