package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/omran-mahr/Aspiro-AI/internal/domain"
)

// EmbeddingRepository stores one row per enrolled embedding. It implements
// store.Store and store.Appender.
type EmbeddingRepository struct {
	pool PgxPool
}

func NewEmbeddingRepository(pool PgxPool) *EmbeddingRepository {
	return &EmbeddingRepository{pool: pool}
}

const insertEmbeddingQuery = `
		INSERT INTO face_embeddings (id, identity, embedding, metadata, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`

// Load returns every identity with its embeddings in enrolment order.
func (r *EmbeddingRepository) Load(ctx context.Context) (domain.Gallery, error) {
	query := `
		SELECT identity, embedding, metadata
		FROM face_embeddings
		ORDER BY identity, seq
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, domain.ErrStorageRead.WithError(fmt.Errorf("load embeddings: %w", err))
	}
	defer rows.Close()

	gallery := domain.Gallery{}
	for rows.Next() {
		var (
			identity  string
			embedding pgvector.Vector
			metadata  []byte
		)
		if err := rows.Scan(&identity, &embedding, &metadata); err != nil {
			return nil, domain.ErrStorageRead.WithError(fmt.Errorf("scan embedding: %w", err))
		}

		e, err := toDomain(embedding, metadata)
		if err != nil {
			return nil, domain.ErrStorageRead.WithError(fmt.Errorf("identity %q: %w", identity, err))
		}
		gallery.Add(identity, e)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.ErrStorageRead.WithError(fmt.Errorf("iterate embeddings: %w", err))
	}

	return gallery, nil
}

// Save replaces every stored embedding inside one transaction.
func (r *EmbeddingRepository) Save(ctx context.Context, gallery domain.Gallery) (err error) {
	if err := gallery.Validate(); err != nil {
		return domain.ErrStorageWrite.WithError(err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.ErrStorageWrite.WithError(fmt.Errorf("begin tx: %w", err))
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM face_embeddings`); err != nil {
		return domain.ErrStorageWrite.WithError(fmt.Errorf("clear embeddings: %w", err))
	}

	for _, name := range gallery.Names() {
		for _, e := range gallery[name] {
			if err = insertEmbedding(ctx, tx, name, e); err != nil {
				return domain.ErrStorageWrite.WithError(err)
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return domain.ErrStorageWrite.WithError(fmt.Errorf("commit: %w", err))
	}
	return nil
}

// Append inserts a single embedding for name and returns how many embeddings
// name now has. Concurrent appends never overwrite each other.
func (r *EmbeddingRepository) Append(ctx context.Context, name string, e domain.Embedding) (count int, err error) {
	if name == "" || len(e.Vector) == 0 {
		return 0, domain.ErrStorageWrite.WithError(fmt.Errorf("refusing to store empty identity or vector"))
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, domain.ErrStorageWrite.WithError(fmt.Errorf("begin tx: %w", err))
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = insertEmbedding(ctx, tx, name, e); err != nil {
		return 0, domain.ErrStorageWrite.WithError(err)
	}

	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM face_embeddings WHERE identity = $1`, name).Scan(&count)
	if err != nil {
		return 0, domain.ErrStorageWrite.WithError(fmt.Errorf("count embeddings: %w", err))
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, domain.ErrStorageWrite.WithError(fmt.Errorf("commit: %w", err))
	}
	return count, nil
}

func insertEmbedding(ctx context.Context, tx pgx.Tx, name string, e domain.Embedding) error {
	var metadata []byte
	if len(e.Metadata) > 0 {
		raw, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}
		metadata = raw
	}

	_, err := tx.Exec(ctx, insertEmbeddingQuery, uuid.New(), name, toVector(e.Vector), metadata)
	if err != nil {
		return fmt.Errorf("insert embedding: %w", err)
	}
	return nil
}

func toVector(v []float64) pgvector.Vector {
	floats := make([]float32, len(v))
	for i, x := range v {
		floats[i] = float32(x)
	}
	return pgvector.NewVector(floats)
}

func toDomain(vec pgvector.Vector, metadata []byte) (domain.Embedding, error) {
	slice := vec.Slice()
	if len(slice) == 0 {
		return domain.Embedding{}, fmt.Errorf("empty embedding")
	}

	e := domain.Embedding{Vector: make([]float64, len(slice))}
	for i, x := range slice {
		e.Vector[i] = float64(x)
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
			return domain.Embedding{}, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return e, nil
}
