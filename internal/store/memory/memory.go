// Package memory provides the in-memory KV backend, used as the default dev
// backend and as the test substitute for SQLite.
package memory

import (
	"context"
	"sync"
)

type KV struct {
	mu     sync.Mutex
	values map[string]string
}

func New() *KV {
	return &KV{values: make(map[string]string)}
}

func (kv *KV) Get(_ context.Context, key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.values[key]
	return v, ok, nil
}

func (kv *KV) Set(_ context.Context, key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.values[key] = value
	return nil
}

func (kv *KV) Delete(_ context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.values, key)
	return nil
}
