package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/dwikikusuma/distributor-portal/internal/cart/domain"
)

// CartRepo keeps the cart as one JSON array under a single key.
type CartRepo struct {
	rdb *redis.Client
	key string
}

func NewCartRepo(rdb *redis.Client, key string) *CartRepo {
	return &CartRepo{rdb: rdb, key: key}
}

func (r *CartRepo) Load(ctx context.Context) (domain.Cart, error) {
	raw, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("get %s: %w", r.key, err)
	}

	var records []lineRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return domain.Cart{}, fmt.Errorf("decode %s: %w", r.key, err)
	}

	items, err := fromRecords(records)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("decode %s: %w", r.key, err)
	}
	cart := domain.Cart{Items: items}
	if err := cart.Validate(); err != nil {
		return domain.Cart{}, fmt.Errorf("decode %s: %w", r.key, err)
	}
	return cart, nil
}

func (r *CartRepo) Save(ctx context.Context, cart domain.Cart) error {
	raw, err := json.Marshal(toRecords(cart.Items))
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", r.key, err)
	}
	return nil
}
