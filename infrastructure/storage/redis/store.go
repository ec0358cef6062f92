// ABOUTME: Redis article and source store using go-redis and RedisJSON via go-rejson
// ABOUTME: Articles are JSON documents indexed by a creation-time sorted set; sources live in one hash

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/nitishm/go-rejson/v4"
	"github.com/redis/go-redis/v9"

	"techpulse-app/core/domain"
	coreerrors "techpulse-app/core/errors"
	"techpulse-app/pkg/config"
)

const (
	articlePrefix = "techpulse:article:"
	createdIndex  = "techpulse:articles:created"
	sourcesHash   = "techpulse:sources"
)

// Store implements interfaces.ArticleStore and interfaces.SourceStore
type Store struct {
	client  *redis.Client
	handler *rejson.Handler
	now     func() time.Time
}

// Open connects to Redis and verifies the connection
func Open(cfg config.RedisConfig) (*Store, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewStore(client), nil
}

// NewStore wraps an existing client. The server must have the RedisJSON module loaded.
func NewStore(client *redis.Client) *Store {
	handler := rejson.NewReJSONHandler()
	handler.SetGoRedisClient(client)
	return &Store{client: client, handler: handler, now: time.Now}
}

// Client returns the underlying client so a cache can share the connection
func (s *Store) Client() *redis.Client {
	return s.client
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// SaveArticles writes every article document and its index entry in one MULTI/EXEC
func (s *Store) SaveArticles(ctx context.Context, articles []*domain.Article) error {
	if len(articles) == 0 {
		return nil
	}
	for _, a := range articles {
		if err := a.Validate(); err != nil {
			return &coreerrors.ValidationError{Field: "article", Message: err.Error()}
		}
	}

	createdAt := s.now().UTC()
	docs := make(map[string][]byte, len(articles))
	for _, a := range articles {
		stored := *a
		stored.CreatedAt = createdAt
		if stored.Tags == nil {
			stored.Tags = []domain.Tag{}
		}
		doc, err := json.Marshal(&stored)
		if err != nil {
			return fmt.Errorf("encode article %s: %w", a.ID, err)
		}
		docs[a.ID] = doc
	}

	score := float64(createdAt.UnixMilli())
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for id, doc := range docs {
			pipe.Do(ctx, "JSON.SET", articlePrefix+id, ".", string(doc))
			pipe.ZAdd(ctx, createdIndex, redis.Z{Score: score, Member: id})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save articles: %w", err)
	}
	return nil
}

// GetArticle returns the article with the given id, or nil if absent
func (s *Store) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	res, err := s.handler.JSONGet(articlePrefix+id, ".")
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get article %s: %w", id, err)
	}
	raw, ok := res.([]byte)
	if !ok {
		return nil, nil
	}

	var a domain.Article
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode article %s: %w", id, err)
	}
	return &a, nil
}

// CountArticles returns the number of indexed articles
func (s *Store) CountArticles(ctx context.Context) (int64, error) {
	return s.client.ZCard(ctx, createdIndex).Result()
}

// DeleteArticlesCreatedBefore removes articles whose index score is before cutoff
func (s *Store) DeleteArticlesCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ids, err := s.client.ZRangeByScore(ctx, createdIndex, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(cutoff.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("list expired articles: %w", err)
	}
	return s.deleteArticles(ctx, ids)
}

// DeleteArticlesWithoutSource removes articles whose source is no longer in the sources hash
func (s *Store) DeleteArticlesWithoutSource(ctx context.Context) (int64, error) {
	names, err := s.client.HKeys(ctx, sourcesHash).Result()
	if err != nil {
		return 0, fmt.Errorf("list sources: %w", err)
	}
	known := make(map[string]struct{}, len(names))
	for _, n := range names {
		known[n] = struct{}{}
	}

	ids, err := s.client.ZRange(ctx, createdIndex, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("list articles: %w", err)
	}

	var orphans []string
	for _, id := range ids {
		res, err := s.handler.JSONGet(articlePrefix+id, ".source")
		if errors.Is(err, redis.Nil) {
			orphans = append(orphans, id)
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("read source of %s: %w", id, err)
		}
		raw, _ := res.([]byte)
		var source string
		if err := json.Unmarshal(raw, &source); err != nil {
			return 0, fmt.Errorf("decode source of %s: %w", id, err)
		}
		if _, ok := known[source]; !ok {
			orphans = append(orphans, id)
		}
	}
	return s.deleteArticles(ctx, orphans)
}

func (s *Store) deleteArticles(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, len(ids))
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		keys[i] = articlePrefix + id
		members[i] = id
	}

	var removed *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		removed = pipe.ZRem(ctx, createdIndex, members...)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete articles: %w", err)
	}
	return removed.Val(), nil
}

// SaveSource upserts a source. A nil LastFetch keeps the stored value.
func (s *Store) SaveSource(ctx context.Context, source *domain.Source) error {
	stored := *source
	if stored.LastFetch == nil {
		existing, err := s.GetSource(ctx, source.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			stored.LastFetch = existing.LastFetch
		}
	}
	return s.putSource(ctx, &stored)
}

// GetSource returns the named source, or nil if absent
func (s *Store) GetSource(ctx context.Context, name string) (*domain.Source, error) {
	raw, err := s.client.HGet(ctx, sourcesHash, name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get source %s: %w", name, err)
	}

	var src domain.Source
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, fmt.Errorf("decode source %s: %w", name, err)
	}
	return &src, nil
}

// ListSources returns sources ordered by name
func (s *Store) ListSources(ctx context.Context, activeOnly bool) ([]*domain.Source, error) {
	all, err := s.client.HGetAll(ctx, sourcesHash).Result()
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	out := make([]*domain.Source, 0, len(all))
	for name, raw := range all {
		var src domain.Source
		if err := json.Unmarshal([]byte(raw), &src); err != nil {
			return nil, fmt.Errorf("decode source %s: %w", name, err)
		}
		if activeOnly && !src.Active {
			continue
		}
		out = append(out, &src)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// SetActive flips the active flag of an existing source
func (s *Store) SetActive(ctx context.Context, name string, active bool) error {
	return s.updateSource(ctx, name, func(src *domain.Source) { src.Active = active })
}

// MarkFetched records the last successful refresh time
func (s *Store) MarkFetched(ctx context.Context, name string, at time.Time) error {
	at = at.UTC()
	return s.updateSource(ctx, name, func(src *domain.Source) { src.LastFetch = &at })
}

// DeleteSource removes a source record
func (s *Store) DeleteSource(ctx context.Context, name string) error {
	if err := s.client.HDel(ctx, sourcesHash, name).Err(); err != nil {
		return fmt.Errorf("delete source %s: %w", name, err)
	}
	return nil
}

func (s *Store) updateSource(ctx context.Context, name string, mutate func(*domain.Source)) error {
	src, err := s.GetSource(ctx, name)
	if err != nil {
		return err
	}
	if src == nil {
		return &coreerrors.NotFoundError{Resource: "source", ID: name}
	}
	mutate(src)
	return s.putSource(ctx, src)
}

func (s *Store) putSource(ctx context.Context, src *domain.Source) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode source %s: %w", src.Name, err)
	}
	if err := s.client.HSet(ctx, sourcesHash, src.Name, raw).Err(); err != nil {
		return fmt.Errorf("save source %s: %w", src.Name, err)
	}
	return nil
}
