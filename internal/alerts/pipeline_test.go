package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmsight/farmsight-data/internal/config"
)

type fakeDirectory struct {
	recipients []Recipient
	err        error
}

func (f *fakeDirectory) ListAlertRecipients(ctx context.Context) ([]Recipient, error) {
	return f.recipients, f.err
}

func pipelineDeps(store *fakeDedupStore, sender Sender, recipients []Recipient) *Deps {
	return &Deps{
		Ranges:      config.RangeTable{"nitrogen": {Min: 10, Max: 25}},
		Dedup:       NewDeduper(store, testLogger()),
		Recipients:  &fakeDirectory{recipients: recipients},
		Sender:      sender,
		SendTimeout: time.Second,
	}
}

func violatingReading(ts time.Time) Reading {
	return Reading{
		Parameters: map[string]interface{}{"nitrogen": 5.0},
		Timestamp:  ts,
	}
}

func TestRun_DispatchesOncePerSignature(t *testing.T) {
	store := newFakeDedupStore()
	sender := newFakeSender()
	deps := pipelineDeps(store, sender, threeRecipients())
	ts := time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC)

	first, err := Run(context.Background(), deps, violatingReading(ts), testLogger())
	require.NoError(t, err)
	require.Len(t, first.Violations, 1)
	assert.False(t, first.Suppressed)
	require.NotNil(t, first.Dispatch)
	assert.Equal(t, 3, first.Dispatch.Sent)

	// Identical violation set at the identical timestamp: suppressed.
	second, err := Run(context.Background(), deps, violatingReading(ts), testLogger())
	require.NoError(t, err)
	assert.True(t, second.Suppressed)
	assert.Nil(t, second.Dispatch)
	assert.Len(t, sender.sent, 3)
}

func TestRun_NewTimestampIsNewAlert(t *testing.T) {
	store := newFakeDedupStore()
	sender := newFakeSender()
	deps := pipelineDeps(store, sender, threeRecipients())
	ts := time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC)

	first, err := Run(context.Background(), deps, violatingReading(ts), testLogger())
	require.NoError(t, err)
	second, err := Run(context.Background(), deps, violatingReading(ts.Add(5*time.Minute)), testLogger())
	require.NoError(t, err)

	assert.NotEqual(t, first.Signature, second.Signature)
	assert.False(t, second.Suppressed)
	assert.Len(t, sender.sent, 6)
}

func TestRun_NoViolationsShortCircuits(t *testing.T) {
	store := newFakeDedupStore()
	sender := newFakeSender()
	deps := pipelineDeps(store, sender, threeRecipients())

	reading := Reading{
		Parameters: map[string]interface{}{"nitrogen": 18.0},
		Timestamp:  time.Now(),
	}
	result, err := Run(context.Background(), deps, reading, testLogger())
	require.NoError(t, err)

	assert.Empty(t, result.Violations)
	assert.Empty(t, result.Signature)
	assert.Empty(t, sender.sent)
	assert.Empty(t, store.claimed)
}

func TestRun_NoRecipientsIsNoOpSuccess(t *testing.T) {
	store := newFakeDedupStore()
	sender := newFakeSender()
	deps := pipelineDeps(store, sender, nil)

	result, err := Run(context.Background(), deps, violatingReading(time.Now()), testLogger())
	require.NoError(t, err)

	require.NotNil(t, result.Dispatch)
	assert.Equal(t, 0, result.Dispatch.Sent)
	assert.Equal(t, 0, result.Dispatch.Failed)
	assert.Empty(t, sender.sent)
	// The signature is still claimed and recorded.
	assert.Contains(t, store.claimed, result.Signature)
	assert.Contains(t, store.dispatched, result.Signature)
}

func TestRun_NilSenderLogsOnly(t *testing.T) {
	store := newFakeDedupStore()
	deps := pipelineDeps(store, nil, threeRecipients())

	result, err := Run(context.Background(), deps, violatingReading(time.Now()), testLogger())
	require.NoError(t, err)

	require.NotNil(t, result.Dispatch)
	assert.Equal(t, 0, result.Dispatch.Sent)
	assert.Contains(t, store.claimed, result.Signature)
}

func TestRun_RecordsOnlyNotifiedRecipients(t *testing.T) {
	store := newFakeDedupStore()
	sender := newFakeSender()
	sender.failNum["+254700000002"] = assert.AnError
	deps := pipelineDeps(store, sender, threeRecipients())

	result, err := Run(context.Background(), deps, violatingReading(time.Now()), testLogger())
	require.NoError(t, err)

	require.NotNil(t, result.Dispatch)
	assert.Equal(t, 2, result.Dispatch.Sent)
	assert.Equal(t, 1, result.Dispatch.Failed)

	notified := store.dispatched[result.Signature]
	require.Len(t, notified, 2)
	for _, r := range notified {
		assert.NotEqual(t, "+254700000002", r.Contact)
	}
}
