package alerts

import (
	"context"
	"log/slog"
	"time"

	"github.com/farmsight/farmsight-data/internal/config"
)

// Deps holds the collaborators the pipeline needs for one evaluation.
type Deps struct {
	Ranges      config.RangeTable
	Dedup       *Deduper
	Recipients  RecipientDirectory
	Sender      Sender // nil disables outbound SMS (logged instead)
	SendTimeout time.Duration
}

// RunResult summarizes one pipeline pass over a reading.
type RunResult struct {
	Violations []Violation     `json:"violations"`
	Signature  string          `json:"signature,omitempty"`
	Suppressed bool            `json:"suppressed"`
	Dispatch   *DispatchResult `json:"dispatch,omitempty"`
}

// Run evaluates one reading and, when it finds an unseen violation set,
// notifies the recipient list. Called per incoming reading — from the
// LISTEN/NOTIFY consumer, the HTTP evaluation endpoint, or farmctl.
func Run(ctx context.Context, deps *Deps, reading Reading, logger *slog.Logger) (RunResult, error) {
	var result RunResult

	// 1. Evaluate against the safe-range table
	result.Violations = Evaluate(reading, deps.Ranges)
	if len(result.Violations) == 0 {
		return result, nil
	}
	logger.Info("Threshold violations detected",
		"count", len(result.Violations), "reading_ts", reading.Timestamp.UTC())

	// 2. Dedup on content identity, immediately before dispatch
	result.Signature = Signature(reading.Timestamp, result.Violations)
	if !deps.Dedup.ShouldSend(ctx, result.Signature, result.Violations) {
		result.Suppressed = true
		logger.Info("Alert suppressed, signature already dispatched",
			"signature", result.Signature)
		return result, nil
	}

	// 3. Fan out to eligible recipients
	recipients, err := deps.Recipients.ListAlertRecipients(ctx)
	if err != nil {
		// The claim stands; record the attempt so the window stays bounded.
		deps.Dedup.MarkSent(ctx, result.Signature, nil)
		return result, err
	}
	if len(recipients) == 0 {
		logger.Info("No alert recipients configured", "signature", result.Signature)
		deps.Dedup.MarkSent(ctx, result.Signature, nil)
		result.Dispatch = &DispatchResult{}
		return result, nil
	}

	message := BuildMessage(result.Violations)

	if deps.Sender == nil {
		logger.Info("SMS gateway not configured, alert logged only",
			"message", message, "recipients", len(recipients))
		deps.Dedup.MarkSent(ctx, result.Signature, nil)
		result.Dispatch = &DispatchResult{}
		return result, nil
	}

	dispatch := Dispatch(ctx, deps.Sender, message, recipients, deps.SendTimeout, logger)
	result.Dispatch = &dispatch

	// 4. Record immediately after the attempt, not only on full success
	notified := make([]Recipient, 0, len(recipients))
	for i, rr := range dispatch.Results {
		if rr.Error == "" {
			notified = append(notified, recipients[i])
		}
	}
	deps.Dedup.MarkSent(ctx, result.Signature, notified)

	logger.Info("Alert dispatched",
		"signature", result.Signature,
		"sent", dispatch.Sent, "failed", dispatch.Failed)
	return result, nil
}
