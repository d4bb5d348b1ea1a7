// Package alerts evaluates sensor readings against the safe-range table and
// notifies recipients by SMS when a parameter leaves its band.
//
// Pipeline: evaluate → signature → claim (dedup commit point) → fan out to
// recipients → record dispatch. Claiming happens immediately before the
// dispatch and recording immediately after the attempt, so a degraded dedup
// store costs at most one extra send per outage, never unbounded repeats.
package alerts

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// smsMaxLength is the single-segment SMS body limit.
	smsMaxLength = 160

	defaultSendTimeout = 10 * time.Second
)

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// ViolationStatus is which side of the safe band a value breached.
type ViolationStatus string

const (
	StatusLow  ViolationStatus = "LOW"
	StatusHigh ViolationStatus = "HIGH"
)

// Reading is one sensor reading. Parameters are raw decoded JSON values;
// non-numeric entries are tolerated and ignored by evaluation. The timestamp
// is the reading's logical time from the ingestion pipeline.
type Reading struct {
	Parameters map[string]interface{} `json:"parameters"`
	Timestamp  time.Time              `json:"timestamp"`
}

// Violation is one parameter outside its safe range.
type Violation struct {
	Parameter         string          `json:"parameter"`
	Value             float64         `json:"value"`
	Status            ViolationStatus `json:"status"`
	ThresholdBreached float64         `json:"threshold_breached"`
}

// Recipient is a user eligible to receive alerts.
type Recipient struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Contact string `json:"contact"`
}

// Record is one persisted alert, keyed by signature. Written at most once
// per signature; its existence is the sole gate against re-notification.
type Record struct {
	Signature  string      `json:"signature"`
	Violations []Violation `json:"violations"`
	Recipients []Recipient `json:"recipients,omitempty"`
	SentAt     *time.Time  `json:"sent_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// --------------------------------------------------------------------------
// Signature
// --------------------------------------------------------------------------

// Signature derives the content identity of an alert: the reading timestamp
// plus the sorted parameter-status pairs. Two readings with the same
// timestamp and the same violation set collapse to one signature regardless
// of map iteration order.
func Signature(timestamp time.Time, violations []Violation) string {
	pairs := make([]string, 0, len(violations))
	for _, v := range violations {
		pairs = append(pairs, fmt.Sprintf("%s-%s", v.Parameter, v.Status))
	}
	sort.Strings(pairs)
	return timestamp.UTC().Format(time.RFC3339) + "|" + strings.Join(pairs, ",")
}

// --------------------------------------------------------------------------
// Message rendering
// --------------------------------------------------------------------------

// BuildMessage renders one compact SMS body for a violation set, truncated
// to the transport limit with a trailing ellipsis marker.
func BuildMessage(violations []Violation) string {
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		side := "below"
		if v.Status == StatusHigh {
			side = "above"
		}
		parts = append(parts, fmt.Sprintf("%s %s %s safe %s",
			v.Parameter, trimFloat(v.Value), side, trimFloat(v.ThresholdBreached)))
	}
	msg := "Farm alert: " + strings.Join(parts, "; ")
	if runes := []rune(msg); len(runes) > smsMaxLength {
		msg = string(runes[:smsMaxLength-1]) + "…"
	}
	return msg
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
