package sessiontokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, token *models.SessionToken) error {

	query :=
		`INSERT INTO session_tokens (id, user_id, token, purpose)
         VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	id := uuid.NewString()

	err := r.db.QueryRowContext(ctx, query, id, token.UserID, token.Token, string(token.Purpose)).
		Scan(&token.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	token.ID = id
	return nil
}

func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*models.SessionToken, error) {

	query :=
		`SELECT id, user_id, token, purpose, created_at FROM session_tokens
		 WHERE token = $1
		 `

	t := &models.SessionToken{}
	var purpose string

	err := r.db.QueryRowContext(ctx, query, token).Scan(&t.ID, &t.UserID, &t.Token, &purpose, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	t.Purpose = models.TokenPurpose(purpose)
	return t, nil
}

func (r *PostgresRepository) DeleteAllForUser(ctx context.Context, userID string, purpose models.TokenPurpose) (int64, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return 0, nil
	}

	query :=
		`DELETE FROM session_tokens
		 WHERE user_id = $1 AND purpose = $2
		 `

	res, err := r.db.ExecContext(ctx, query, userID, string(purpose))
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}

func (r *PostgresRepository) DeleteByToken(ctx context.Context, token string) error {

	query :=
		`DELETE FROM session_tokens
		 WHERE token = $1
		 `

	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
