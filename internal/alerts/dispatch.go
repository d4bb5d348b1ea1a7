package alerts

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sender is the outbound SMS capability.
type Sender interface {
	Send(ctx context.Context, phoneNumber, message string) error
}

// RecipientResult is one recipient's delivery outcome.
type RecipientResult struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Error   string `json:"error,omitempty"`
}

// DispatchResult aggregates a fan-out. Zero recipients is a no-op success.
type DispatchResult struct {
	Sent    int               `json:"sent"`
	Failed  int               `json:"failed"`
	Results []RecipientResult `json:"results,omitempty"`
}

// Delivered reports whether the dispatch counts as a success: at least one
// recipient reached, or nobody configured to notify.
func (r *DispatchResult) Delivered() bool {
	return r.Sent > 0 || (r.Sent == 0 && r.Failed == 0)
}

// Dispatch sends one message to every recipient concurrently. Each send gets
// its own timeout so a slow gateway call counts as that recipient's failure
// without blocking the rest; the aggregate waits for all outcomes.
func Dispatch(ctx context.Context, sender Sender, message string, recipients []Recipient, timeout time.Duration, logger *slog.Logger) DispatchResult {
	result := DispatchResult{Results: make([]RecipientResult, len(recipients))}
	if len(recipients) == 0 {
		return result
	}
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, rcpt := range recipients {
		wg.Add(1)
		go func(i int, rcpt Recipient) {
			defer wg.Done()

			sendCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			outcome := RecipientResult{Name: rcpt.Name, Contact: rcpt.Contact}
			err := sender.Send(sendCtx, rcpt.Contact, message)

			mu.Lock()
			if err != nil {
				outcome.Error = err.Error()
				result.Failed++
				logger.Warn("SMS send failed", "recipient", rcpt.Name, "error", err)
			} else {
				result.Sent++
			}
			result.Results[i] = outcome
			mu.Unlock()
		}(i, rcpt)
	}

	wg.Wait()
	return result
}
