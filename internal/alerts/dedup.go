package alerts

import (
	"context"
	"log/slog"
	"sync"
)

// DedupStore is the persistent signature registry. Claim must be an atomic
// create-if-absent so two concurrent evaluations of the same signature can
// never both pass — the insert is the commit point, not a read-then-write.
type DedupStore interface {
	// Claim records the signature and reports true when this caller won
	// the claim, false when the signature already existed.
	Claim(ctx context.Context, signature string, violations []Violation) (bool, error)
	// RecordDispatch fills in delivery details after a dispatch attempt.
	RecordDispatch(ctx context.Context, signature string, recipients []Recipient) error
}

// Deduper gates dispatches on content identity with a two-tier policy: the
// persistent store decides; a process-local set takes over only while the
// store is unreachable. The fallback is best effort — it bounds duplicates
// within one process lifetime, it does not survive restarts. That gap is
// accepted: an extra alert under a store outage beats a silent one.
type Deduper struct {
	store  DedupStore // nil means memory-only (tests, degraded startup)
	logger *slog.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewDeduper builds a deduplicator over a persistent store. A fresh Deduper
// has an empty local set; tests reset state by constructing a new one.
func NewDeduper(store DedupStore, logger *slog.Logger) *Deduper {
	return &Deduper{
		store:  store,
		logger: logger,
		seen:   make(map[string]struct{}),
	}
}

// ShouldSend claims the signature and reports whether a dispatch may
// proceed. On store failure it falls back to the local set for the rest of
// the process lifetime.
func (d *Deduper) ShouldSend(ctx context.Context, signature string, violations []Violation) bool {
	if d.store != nil {
		won, err := d.store.Claim(ctx, signature, violations)
		if err == nil {
			if won {
				d.remember(signature)
			}
			return won
		}
		d.logger.Warn("Dedup store unreachable, using in-memory guard",
			"signature", signature, "error", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.seen[signature]; dup {
		return false
	}
	d.seen[signature] = struct{}{}
	return true
}

// MarkSent records the dispatch outcome against the claimed signature.
// Called after the attempt is made, success or not, so the duplicate window
// stays bounded. Store failures are logged, not propagated — the claim
// already holds.
func (d *Deduper) MarkSent(ctx context.Context, signature string, recipients []Recipient) {
	if d.store == nil {
		return
	}
	if err := d.store.RecordDispatch(ctx, signature, recipients); err != nil {
		d.logger.Warn("Failed to record dispatch", "signature", signature, "error", err)
	}
}

func (d *Deduper) remember(signature string) {
	d.mu.Lock()
	d.seen[signature] = struct{}{}
	d.mu.Unlock()
}
