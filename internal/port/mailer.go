package port

import "context"

type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends transactional mail. Implementations may queue and send
// asynchronously; callers treat Send as fire-and-forget.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}
