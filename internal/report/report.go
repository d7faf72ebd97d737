// Package report emits the one structured record the calling process
// parses. Exactly one record per invocation; partial or duplicate
// emission is a defect.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// CheckRecord is the account-state check result.
type CheckRecord struct {
	Success      bool   `json:"success"`
	Username     string `json:"username"`
	IsSuspended  bool   `json:"isSuspended"`
	DoesNotExist bool   `json:"doesNotExist"`
}

// Composer action results. The ID is null when the confirmation toast
// yielded nothing extractable; a null ID is still a success.
type PostRecord struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	TweetID *string `json:"tweetId"`
}

type ReplyRecord struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	ReplyID *string `json:"replyId"`
}

type QuoteRecord struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	QuoteID *string `json:"quoteId"`
}

// FailureRecord is the sole externally visible failure signal.
type FailureRecord struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func Failure(message string) FailureRecord {
	return FailureRecord{Success: false, Error: message}
}

// OptionalID maps an empty extraction to an explicit null.
func OptionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// Emitter writes records to the calling process and enforces the
// exactly-once contract.
type Emitter struct {
	w    io.Writer
	mu   sync.Mutex
	done bool
}

func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Emit writes one record as a single JSON line. A second call is refused.
func (e *Emitter) Emit(record any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done {
		return fmt.Errorf("report already emitted")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if _, err := fmt.Fprintln(e.w, string(data)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	e.done = true
	return nil
}
