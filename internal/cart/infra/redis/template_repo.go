package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"

	"github.com/dwikikusuma/distributor-portal/internal/cart/domain"
)

// TemplateRepo stores templates in a hash keyed by template name.
type TemplateRepo struct {
	rdb *redis.Client
	key string
}

func NewTemplateRepo(rdb *redis.Client, key string) *TemplateRepo {
	return &TemplateRepo{rdb: rdb, key: key}
}

func (r *TemplateRepo) Save(ctx context.Context, t domain.Template) error {
	raw, err := json.Marshal(templateRecord{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
		Items:     toRecords(t.Items),
	})
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	return r.rdb.HSet(ctx, r.key, t.Name, raw).Err()
}

func (r *TemplateRepo) Get(ctx context.Context, name string) (domain.Template, error) {
	raw, err := r.rdb.HGet(ctx, r.key, name).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Template{}, fmt.Errorf("template %q: %w", name, domain.ErrTemplateNotFound)
	}
	if err != nil {
		return domain.Template{}, fmt.Errorf("hget %s %s: %w", r.key, name, err)
	}
	return decodeTemplate(raw)
}

// List returns every template sorted by name.
func (r *TemplateRepo) List(ctx context.Context) ([]domain.Template, error) {
	all, err := r.rdb.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", r.key, err)
	}

	out := make([]domain.Template, 0, len(all))
	for name, raw := range all {
		t, err := decodeTemplate([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", name, err)
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TemplateRepo) Delete(ctx context.Context, name string) error {
	n, err := r.rdb.HDel(ctx, r.key, name).Result()
	if err != nil {
		return fmt.Errorf("hdel %s %s: %w", r.key, name, err)
	}
	if n == 0 {
		return fmt.Errorf("template %q: %w", name, domain.ErrTemplateNotFound)
	}
	return nil
}

func decodeTemplate(raw []byte) (domain.Template, error) {
	var rec templateRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Template{}, fmt.Errorf("decode template: %w", err)
	}
	items, err := fromRecords(rec.Items)
	if err != nil {
		return domain.Template{}, err
	}
	return domain.Template{
		ID:        rec.ID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		Items:     items,
	}, nil
}
