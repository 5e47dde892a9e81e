package verification

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	c "passreset/internal/core/domain/common"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/verification"
	"passreset/internal/db"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

// PgxRepository stores a SHA-256 digest of each token instead of the token
// itself. Lookups are exact matches on the digest.
type PgxRepository struct {
	db db.DBTX
}

func NewPgxRepository(db db.DBTX) *PgxRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxRepository{db: db}
}

func (r *PgxRepository) Create(ctx context.Context, input verification.CreateInput) (v verification.Verification, err error) {
	var id pgtype.UUID
	err = id.Set(uuid.New().String())
	if err != nil {
		return v, err
	}
	_, err = r.db.Exec(
		ctx,
		`INSERT INTO verification (id, identifier, value_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		id,
		string(input.Identifier),
		hashToken(input.Value),
		input.ExpiresAt,
		input.CreatedAt,
	)
	if err != nil {
		return v, err
	}
	return verification.Verification{
		ID:         decodeID(id),
		Identifier: input.Identifier,
		Value:      input.Value,
		ExpiresAt:  input.ExpiresAt,
		CreatedAt:  input.CreatedAt,
	}, nil
}

func (r *PgxRepository) GetValid(
	ctx context.Context,
	token verification.Token,
	now time.Time,
) (v verification.Verification, err error) {
	var (
		id         pgtype.UUID
		identifier string
	)
	err = r.db.QueryRow(
		ctx,
		`SELECT id, identifier, expires_at, created_at FROM verification
		WHERE value_hash = $1 AND expires_at > $2`,
		hashToken(token),
		now,
	).Scan(&id, &identifier, &v.ExpiresAt, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return v, verification.ErrVerificationDoesNotExist
	}
	if err != nil {
		return v, err
	}
	v.ID = decodeID(id)
	v.Identifier = c.Email(identifier)
	v.Value = token
	return v, nil
}

func (r *PgxRepository) Delete(ctx context.Context, id verification.ID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM verification WHERE id = $1`, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return verification.ErrVerificationDoesNotExist
	}
	return nil
}

func (r *PgxRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM verification WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func hashToken(token verification.Token) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}

func decodeID(id pgtype.UUID) verification.ID {
	return verification.ID(uuid.UUID(id.Bytes).String())
}
