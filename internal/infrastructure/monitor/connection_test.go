package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func up(context.Context) error   { return nil }
func down(context.Context) error { return errors.New("unreachable") }

func TestRefresh_ReportsEveryCheck(t *testing.T) {
	m := New(time.Minute, nil,
		WithCheck("mongo", up),
		WithCacheCheck("redis", down),
		WithJournal(func() (int, error) { return 3, nil }),
	)

	status := m.Refresh(context.Background())

	assert.Equal(t, map[string]bool{"mongo": true, "redis": false, "buffer": true}, status.Services)
	assert.Equal(t, 3, status.BufferSize)
	assert.False(t, status.Healthy())
	assert.False(t, m.IsCacheOnline())
}

func TestIsCacheOnline(t *testing.T) {
	m := New(time.Minute, nil, WithCheck("postgres", up), WithCacheCheck("redis", up))
	assert.False(t, m.IsCacheOnline(), "nothing checked yet")

	m.Refresh(context.Background())
	assert.True(t, m.IsCacheOnline())
	assert.True(t, m.GetStatus().Healthy())

	noCache := New(time.Minute, nil, WithCheck("postgres", up))
	noCache.Refresh(context.Background())
	assert.False(t, noCache.IsCacheOnline())
}

func TestGetStatus_ReturnsCopy(t *testing.T) {
	m := New(time.Minute, nil, WithCheck("mongo", up))
	m.Refresh(context.Background())

	status := m.GetStatus()
	status.Services["mongo"] = false

	assert.True(t, m.GetStatus().Services["mongo"])
}

func TestStartStop(t *testing.T) {
	m := New(time.Hour, nil, WithCheck("mongo", up))
	m.Start()
	assert.Eventually(t, func() bool { return m.GetStatus().Services["mongo"] }, time.Second, 10*time.Millisecond)
	m.Stop()
	m.Stop()
}
