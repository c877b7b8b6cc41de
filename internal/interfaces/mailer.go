package interfaces

import "context"

type Mail struct {
	To      string
	From    string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers a single message synchronously; a returned error means the
// message was not handed off and the caller must treat delivery as failed.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}
