package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type Options struct {
	// Namespace prefixes every key, e.g. "celebri" -> "celebri:users".
	Namespace string
	// Latency is waited before every read and write to emulate a remote store.
	Latency time.Duration
}

type partitions struct {
	backend Backend
	opts    Options
}

func (p partitions) key(parts ...string) string {
	key := p.opts.Namespace
	for _, part := range parts {
		if key == "" {
			key = part
			continue
		}
		key += ":" + part
	}
	return key
}

func (p partitions) delay(ctx context.Context) error {
	if p.opts.Latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.opts.Latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// load decodes the partition into out. It reports false when the key is absent.
func (p partitions) load(ctx context.Context, key string, out any) (bool, error) {
	if err := p.delay(ctx); err != nil {
		return false, err
	}
	raw, err := p.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (p partitions) save(ctx context.Context, key string, value any) error {
	if err := p.delay(ctx); err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := p.backend.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (p partitions) remove(ctx context.Context, key string) error {
	if err := p.delay(ctx); err != nil {
		return err
	}
	if err := p.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
