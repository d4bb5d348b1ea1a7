package alerts

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeDedupStore is an in-memory DedupStore with fault injection.
type fakeDedupStore struct {
	mu         sync.Mutex
	claimed    map[string][]Violation
	dispatched map[string][]Recipient
	failing    bool
}

func newFakeDedupStore() *fakeDedupStore {
	return &fakeDedupStore{
		claimed:    make(map[string][]Violation),
		dispatched: make(map[string][]Recipient),
	}
}

func (f *fakeDedupStore) Claim(ctx context.Context, signature string, violations []Violation) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return false, errors.New("store unreachable")
	}
	if _, dup := f.claimed[signature]; dup {
		return false, nil
	}
	f.claimed[signature] = violations
	return true, nil
}

func (f *fakeDedupStore) RecordDispatch(ctx context.Context, signature string, recipients []Recipient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("store unreachable")
	}
	f.dispatched[signature] = recipients
	return nil
}

func TestDeduper_ClaimOncePerSignature(t *testing.T) {
	store := newFakeDedupStore()
	d := NewDeduper(store, testLogger())
	ctx := context.Background()

	assert.True(t, d.ShouldSend(ctx, "sig-1", nil))
	assert.False(t, d.ShouldSend(ctx, "sig-1", nil))
	assert.True(t, d.ShouldSend(ctx, "sig-2", nil))
}

func TestDeduper_FallsBackWhenStoreDegraded(t *testing.T) {
	store := newFakeDedupStore()
	store.failing = true
	d := NewDeduper(store, testLogger())
	ctx := context.Background()

	// First sighting under outage still sends (best effort), later ones
	// are suppressed by the in-memory guard for the process lifetime.
	assert.True(t, d.ShouldSend(ctx, "sig-1", nil))
	assert.False(t, d.ShouldSend(ctx, "sig-1", nil))
}

func TestDeduper_LocalGuardCoversStoreClaims(t *testing.T) {
	store := newFakeDedupStore()
	d := NewDeduper(store, testLogger())
	ctx := context.Background()

	assert.True(t, d.ShouldSend(ctx, "sig-1", nil))

	// Store degrades after the claim; the local set still remembers it.
	store.failing = true
	assert.False(t, d.ShouldSend(ctx, "sig-1", nil))
}

func TestDeduper_MemoryOnly(t *testing.T) {
	d := NewDeduper(nil, testLogger())
	ctx := context.Background()

	assert.True(t, d.ShouldSend(ctx, "sig-1", nil))
	assert.False(t, d.ShouldSend(ctx, "sig-1", nil))

	// MarkSent without a store is a no-op, not a panic.
	d.MarkSent(ctx, "sig-1", nil)
}

func TestDeduper_MarkSentRecordsRecipients(t *testing.T) {
	store := newFakeDedupStore()
	d := NewDeduper(store, testLogger())
	ctx := context.Background()

	d.ShouldSend(ctx, "sig-1", nil)
	d.MarkSent(ctx, "sig-1", []Recipient{{Name: "Amina", Contact: "+254700000001"}})

	assert.Len(t, store.dispatched["sig-1"], 1)
}
