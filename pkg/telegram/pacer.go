package telegram

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// PacedSender spaces consecutive sends at least interval apart.
type PacedSender struct {
	next    Sender
	limiter *rate.Limiter
}

// NewPacedSender wraps next with a minimum-interval gate. A non-positive
// interval disables pacing.
func NewPacedSender(next Sender, interval time.Duration) *PacedSender {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &PacedSender{next: next, limiter: rate.NewLimiter(limit, 1)}
}

// SendText waits for the gate and forwards the message.
func (p *PacedSender) SendText(ctx context.Context, chatID int64, text string, opts SendOptions) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	return p.next.SendText(ctx, chatID, text, opts)
}
