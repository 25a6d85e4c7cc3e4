package model

import "time"

// CallKind distinguishes chat completions from image generations in the call log.
type CallKind string

const (
	CallKindChat  CallKind = "chat"
	CallKindImage CallKind = "image"
)

// LLMCall tracks each call to a model provider for cost monitoring.
// It never stores prompt or brand book content.
type LLMCall struct {
	ID           int64     `db:"id" json:"id"`
	RequestID    string    `db:"request_id" json:"requestId"`
	Provider     string    `db:"provider" json:"provider"`
	Model        string    `db:"model" json:"model"`
	Kind         CallKind  `db:"kind" json:"kind"`
	Success      bool      `db:"success" json:"success"`
	DurationMs   *int64    `db:"duration_ms" json:"durationMs,omitempty"`
	ErrorMessage *string   `db:"error_message" json:"errorMessage,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// CallStats aggregates the call log for the stats endpoint and CLI.
type CallStats struct {
	Total  int64 `json:"total"`
	Failed int64 `json:"failed"`
	Chat   int64 `json:"chat"`
	Image  int64 `json:"image"`
}
