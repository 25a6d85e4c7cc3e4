package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/brandbook-service/internal/model"
)

// LLMCallRepository handles persistence of model call tracking.
type LLMCallRepository interface {
	Create(ctx context.Context, call *model.LLMCall) error
	ListByRequest(ctx context.Context, requestID string) ([]model.LLMCall, error)
	ListRecent(ctx context.Context, limit int) ([]model.LLMCall, error)
	Stats(ctx context.Context) (*model.CallStats, error)
}

type sqliteLLMCallRepository struct {
	db *sqlx.DB
}

// NewLLMCallRepository creates a new SQLite-backed LLMCallRepository.
func NewLLMCallRepository(db *sqlx.DB) LLMCallRepository {
	return &sqliteLLMCallRepository{db: db}
}

func (r *sqliteLLMCallRepository) Create(ctx context.Context, call *model.LLMCall) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO llm_calls (request_id, provider, model, kind, success, duration_ms, error_message)
		VALUES (:request_id, :provider, :model, :kind, :success, :duration_ms, :error_message)
	`, call)
	if err != nil {
		return fmt.Errorf("creating llm call record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	call.ID = id
	return nil
}

func (r *sqliteLLMCallRepository) ListByRequest(ctx context.Context, requestID string) ([]model.LLMCall, error) {
	var calls []model.LLMCall
	err := r.db.SelectContext(ctx, &calls,
		"SELECT * FROM llm_calls WHERE request_id = ? ORDER BY id", requestID)
	if err != nil {
		return nil, fmt.Errorf("listing llm calls for request: %w", err)
	}
	return calls, nil
}

func (r *sqliteLLMCallRepository) ListRecent(ctx context.Context, limit int) ([]model.LLMCall, error) {
	var calls []model.LLMCall
	err := r.db.SelectContext(ctx, &calls,
		"SELECT * FROM llm_calls ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent llm calls: %w", err)
	}
	return calls, nil
}

// Stats aggregates the whole log in one query. COALESCE keeps an empty table at zero
// instead of NULL sums.
func (r *sqliteLLMCallRepository) Stats(ctx context.Context) (*model.CallStats, error) {
	var stats model.CallStats
	err := r.db.QueryRowxContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'chat' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'image' THEN 1 ELSE 0 END), 0)
		FROM llm_calls
	`).Scan(&stats.Total, &stats.Failed, &stats.Chat, &stats.Image)
	if err != nil {
		return nil, fmt.Errorf("aggregating llm calls: %w", err)
	}
	return &stats, nil
}
