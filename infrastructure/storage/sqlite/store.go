// ABOUTME: SQLite article and source store backed by mattn/go-sqlite3
// ABOUTME: Upserts article batches in one transaction and serves retention and dedupe deletes

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"techpulse-app/core/domain"
	coreerrors "techpulse-app/core/errors"
)

const schema = `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		link TEXT NOT NULL,
		pub_date TEXT NOT NULL,
		description TEXT NOT NULL,
		content TEXT,
		source TEXT NOT NULL,
		tags TEXT NOT NULL,
		image_url TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at);
	CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source);

	CREATE TABLE IF NOT EXISTS sources (
		name TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		icon TEXT,
		category TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		last_fetch INTEGER
	);
`

// Store implements interfaces.ArticleStore and interfaces.SourceStore
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies the schema
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite store path cannot be empty")
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// A single connection serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveArticles upserts the batch in one transaction. An existing article is
// overwritten and its created_at refreshed.
func (s *Store) SaveArticles(ctx context.Context, articles []*domain.Article) error {
	if len(articles) == 0 {
		return nil
	}
	for _, a := range articles {
		if err := a.Validate(); err != nil {
			return &coreerrors.ValidationError{Field: "article", Message: err.Error()}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles (id, title, link, pub_date, description, content, source, tags, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			link = excluded.link,
			pub_date = excluded.pub_date,
			description = excluded.description,
			content = excluded.content,
			source = excluded.source,
			tags = excluded.tags,
			image_url = excluded.image_url,
			created_at = excluded.created_at
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	createdAt := s.now().UnixNano()
	for _, a := range articles {
		tags, err := json.Marshal(tagsOrEmpty(a.Tags))
		if err != nil {
			return fmt.Errorf("encode tags of %s: %w", a.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			a.ID, a.Title, a.Link, a.PublishedAt.UTC().Format(time.RFC3339Nano), a.Description,
			nullString(a.Content), a.Source, string(tags), nullString(a.ImageURL), createdAt,
		); err != nil {
			return fmt.Errorf("upsert article %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// GetArticle returns the article with the given id, or nil if absent
func (s *Store) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, link, pub_date, description, content, source, tags, image_url, created_at
		FROM articles WHERE id = ?`, id)

	var (
		a         domain.Article
		pubDate   string
		content   sql.NullString
		imageURL  sql.NullString
		tags      string
		createdAt int64
	)
	err := row.Scan(&a.ID, &a.Title, &a.Link, &pubDate, &a.Description, &content, &a.Source, &tags, &imageURL, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}

	if a.PublishedAt, err = time.Parse(time.RFC3339Nano, pubDate); err != nil {
		return nil, fmt.Errorf("decode pub_date of %s: %w", a.ID, err)
	}
	if err := json.Unmarshal([]byte(tags), &a.Tags); err != nil {
		return nil, fmt.Errorf("decode tags of %s: %w", a.ID, err)
	}
	a.Content = stringPtr(content)
	a.ImageURL = stringPtr(imageURL)
	a.CreatedAt = time.Unix(0, createdAt).UTC()
	return &a, nil
}

// CountArticles returns the number of stored articles
func (s *Store) CountArticles(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&n)
	return n, err
}

// DeleteArticlesCreatedBefore removes articles created before cutoff
func (s *Store) DeleteArticlesCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE created_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("delete expired articles: %w", err)
	}
	return res.RowsAffected()
}

// DeleteArticlesWithoutSource removes articles whose source row no longer exists
func (s *Store) DeleteArticlesWithoutSource(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE source NOT IN (SELECT name FROM sources)")
	if err != nil {
		return 0, fmt.Errorf("delete orphan articles: %w", err)
	}
	return res.RowsAffected()
}

// SaveSource upserts a source. A nil LastFetch keeps the stored value.
func (s *Store) SaveSource(ctx context.Context, source *domain.Source) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sources (name, url, icon, category, active, last_fetch)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			url = excluded.url,
			icon = excluded.icon,
			category = excluded.category,
			active = excluded.active,
			last_fetch = COALESCE(excluded.last_fetch, sources.last_fetch)
	`, source.Name, source.URL, nullString(source.Icon), source.Category, source.Active, nullTime(source.LastFetch))
	if err != nil {
		return fmt.Errorf("upsert source %s: %w", source.Name, err)
	}
	return nil
}

// GetSource returns the named source, or nil if absent
func (s *Store) GetSource(ctx context.Context, name string) (*domain.Source, error) {
	row := s.db.QueryRowContext(ctx, "SELECT name, url, icon, category, active, last_fetch FROM sources WHERE name = ?", name)
	src, err := scanSource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return src, err
}

// ListSources returns sources ordered by name
func (s *Store) ListSources(ctx context.Context, activeOnly bool) ([]*domain.Source, error) {
	query := "SELECT name, url, icon, category, active, last_fetch FROM sources"
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var out []*domain.Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

// SetActive flips the active flag of an existing source
func (s *Store) SetActive(ctx context.Context, name string, active bool) error {
	return s.updateSource(ctx, "UPDATE sources SET active = ? WHERE name = ?", active, name)
}

// MarkFetched records the last successful refresh time
func (s *Store) MarkFetched(ctx context.Context, name string, at time.Time) error {
	return s.updateSource(ctx, "UPDATE sources SET last_fetch = ? WHERE name = ?", at.UnixNano(), name)
}

// DeleteSource removes a source record
func (s *Store) DeleteSource(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sources WHERE name = ?", name); err != nil {
		return fmt.Errorf("delete source %s: %w", name, err)
	}
	return nil
}

func (s *Store) updateSource(ctx context.Context, query string, value interface{}, name string) error {
	res, err := s.db.ExecContext(ctx, query, value, name)
	if err != nil {
		return fmt.Errorf("update source %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &coreerrors.NotFoundError{Resource: "source", ID: name}
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSource(row scanner) (*domain.Source, error) {
	var (
		src       domain.Source
		icon      sql.NullString
		lastFetch sql.NullInt64
	)
	if err := row.Scan(&src.Name, &src.URL, &icon, &src.Category, &src.Active, &lastFetch); err != nil {
		return nil, err
	}
	src.Icon = stringPtr(icon)
	if lastFetch.Valid {
		t := time.Unix(0, lastFetch.Int64).UTC()
		src.LastFetch = &t
	}
	return &src, nil
}

func tagsOrEmpty(tags []domain.Tag) []domain.Tag {
	if tags == nil {
		return []domain.Tag{}
	}
	return tags
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
