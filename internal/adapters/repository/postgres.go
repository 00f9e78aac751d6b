package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/eventreg/internal/domain/participant"
)

// PostgresStore keeps each participant as a JSONB document keyed by id.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// OpenPostgres migrates the schema and connects a pgx pool to dsn.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if err := migratePostgres(dsn); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Create(ctx context.Context, f participant.Fields) (participant.Participant, error) {
	p := participant.New(uuid.NewString(), f)
	p.RegistrationDate = stamp(p.RegistrationDate)

	doc, err := json.Marshal(p)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("create participant: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO participants (id, doc, registration_date) VALUES ($1, $2, $3)`,
		p.ID, doc, p.RegistrationDate)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("create participant: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]participant.Participant, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM participants ORDER BY registration_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	docs, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	out := make([]participant.Participant, 0, len(docs))
	for _, doc := range docs {
		p, err := decodeDoc(doc)
		if err != nil {
			return nil, fmt.Errorf("list participants: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (participant.Participant, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM participants WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return participant.Participant{}, ErrNotFound
	}
	if err != nil {
		return participant.Participant{}, fmt.Errorf("get participant: %w", err)
	}
	return decodeDoc(doc)
}

func (s *PostgresStore) Update(ctx context.Context, id string, patch participant.Patch) (participant.Participant, error) {
	var out participant.Participant
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var doc []byte
		err := tx.QueryRow(ctx, `SELECT doc FROM participants WHERE id = $1 FOR UPDATE`, id).Scan(&doc)
		if err != nil {
			return err
		}
		cur, err := decodeDoc(doc)
		if err != nil {
			return err
		}

		next := cur.Apply(patch)
		next.RegistrationDate = stamp(next.RegistrationDate)
		if doc, err = json.Marshal(next); err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE participants SET doc = $2, registration_date = $3 WHERE id = $1`,
			id, doc, next.RegistrationDate)
		if err != nil {
			return err
		}
		out = next
		return nil
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return participant.Participant{}, ErrNotFound
	}
	if err != nil {
		return participant.Participant{}, fmt.Errorf("update participant: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM participants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return n, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func decodeDoc(doc []byte) (participant.Participant, error) {
	var p participant.Participant
	if err := json.Unmarshal(doc, &p); err != nil {
		return participant.Participant{}, fmt.Errorf("decode participant document: %w", err)
	}
	return p, nil
}
