package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"assistant-gateway/internal/model"
)

//go:embed migrations.sql
var migrations embed.FS

// PostgresStorage connects to the project database directly instead of
// going through the REST endpoint.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStorage(databaseURL string, logger *zap.Logger) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	s := &PostgresStorage{db: db, logger: logger}
	if err := s.initializeSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}
	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}
	return nil
}

func (s *PostgresStorage) InsertThread(ctx context.Context, thread model.Thread) (model.Thread, error) {
	query := `
		INSERT INTO threads (id, user_id, name)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name`

	var inserted model.Thread
	err := s.db.QueryRowContext(ctx, query, thread.ID, thread.UserID, thread.Name).
		Scan(&inserted.ID, &inserted.UserID, &inserted.Name)
	if err != nil {
		return model.Thread{}, fmt.Errorf("error inserting thread: %w", err)
	}
	return inserted, nil
}

func (s *PostgresStorage) InsertMessage(ctx context.Context, msg model.Message) error {
	query := `
		INSERT INTO messages (id, thread_id, user_id, role, content)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := s.db.ExecContext(ctx, query, msg.ID, msg.ThreadID, msg.UserID, msg.Role, msg.Content); err != nil {
		return fmt.Errorf("error inserting message: %w", err)
	}
	return nil
}

func (s *PostgresStorage) GetActiveSubscription(ctx context.Context, userID string) (*model.Subscription, error) {
	query := `
		SELECT id, user_id, status
		FROM subscriptions
		WHERE user_id = $1 AND status = $2
		LIMIT 1`

	sub := &model.Subscription{}
	err := s.db.QueryRowContext(ctx, query, userID, model.SubscriptionStatusActive).
		Scan(&sub.ID, &sub.UserID, &sub.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying subscription: %w", err)
	}
	return sub, nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
