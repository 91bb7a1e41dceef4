package services

import (
	"context"
	"time"
)

// MockCache is a hand-written Cache stub for testing failure paths miniredis
// cannot produce. Behavior is overridden per test through the func fields;
// Set and Get invocations are recorded so tests can assert on cache traffic.
type MockCache struct {
	PingFunc              func(ctx context.Context) error
	SetFunc               func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetFunc               func(ctx context.Context, key string) (string, error)
	DelFunc               func(ctx context.Context, keys ...string) error
	ExistsFunc            func(ctx context.Context, keys ...string) (bool, error)
	CloseFunc             func() error
	WaitForConnectionFunc func(ctx context.Context) error

	SetCalls []SetCall
	GetCalls []string
}

// SetCall records one Set invocation.
type SetCall struct {
	Key        string
	Value      interface{}
	Expiration time.Duration
}

func (m *MockCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.SetCalls = append(m.SetCalls, SetCall{Key: key, Value: value, Expiration: expiration})
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	m.GetCalls = append(m.GetCalls, key)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	// Default behavior - not found
	return "", nil
}

func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}
	return nil
}

func (m *MockCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, keys...)
	}
	return false, nil
}

func (m *MockCache) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *MockCache) WaitForConnection(ctx context.Context) error {
	if m.WaitForConnectionFunc != nil {
		return m.WaitForConnectionFunc(ctx)
	}
	return nil
}

// Ensure MockCache implements Cache interface
var _ Cache = (*MockCache)(nil)
