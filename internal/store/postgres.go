package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"page-slicer/internal/slices"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	// Advisory lock keeps the upload job and workers from migrating concurrently.
	const lockID = 723404117

	var acquired bool
	err := s.db.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, lockID).Scan(&acquired)
	if err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}

	if !acquired {
		// Another process is running migrations; wait briefly and skip
		time.Sleep(2 * time.Second)
		return nil
	}

	defer func() {
		_, _ = s.db.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockID)
	}()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS pages (
			id UUID PRIMARY KEY,
			url TEXT NOT NULL UNIQUE,
			title TEXT,
			category_id UUID REFERENCES categories(id),
			updated_at TIMESTAMPTZ DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS slices (
			id TEXT PRIMARY KEY,
			page_id UUID REFERENCES pages(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			images TEXT[] NOT NULL DEFAULT '{}',
			image_titles TEXT[] NOT NULL DEFAULT '{}'
		);`,
		`CREATE INDEX IF NOT EXISTS slices_page_idx ON slices(page_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveSlices upserts categories, pages and slices for recs in one transaction.
func (s *PostgresStore) SaveSlices(ctx context.Context, recs []slices.Record) (Stats, error) {
	if len(recs) == 0 {
		return Stats{}, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, err
	}
	defer tx.Rollback()

	categories, pages := group(recs)

	categoryIDs := make(map[string]uuid.UUID, len(categories))
	for _, name := range categories {
		var id uuid.UUID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO categories(id, name) VALUES($1,$2)
			ON CONFLICT (name) DO UPDATE SET name=excluded.name
			RETURNING id`, uuid.New(), name).Scan(&id)
		if err != nil {
			return Stats{}, fmt.Errorf("upsert category %q: %w", name, err)
		}
		categoryIDs[name] = id
	}

	pageIDs := make(map[string]uuid.UUID, len(pages))
	for _, p := range pages {
		var id uuid.UUID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO pages(id, url, title, category_id) VALUES($1,$2,$3,$4)
			ON CONFLICT (url) DO UPDATE SET title=excluded.title, category_id=excluded.category_id, updated_at=now()
			RETURNING id`, uuid.New(), p.url, p.title, categoryIDs[p.category]).Scan(&id)
		if err != nil {
			return Stats{}, fmt.Errorf("upsert page %q: %w", p.url, err)
		}
		pageIDs[p.url] = id
	}

	for _, r := range recs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO slices(id, page_id, content, images, image_titles)
			VALUES($1,$2,$3,$4,$5)
			ON CONFLICT (id) DO UPDATE SET page_id=excluded.page_id, content=excluded.content,
				images=excluded.images, image_titles=excluded.image_titles`,
			r.ID, pageIDs[r.URL], r.Content, pq.Array(nonNil(r.Images)), pq.Array(nonNil(r.ImageTitles)))
		if err != nil {
			return Stats{}, fmt.Errorf("upsert slice %q: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, err
	}
	return Stats{Categories: len(categories), Pages: len(pages), Slices: len(recs)}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
