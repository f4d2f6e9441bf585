package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_StartsInOrderStopsInReverse(t *testing.T) {
	var events []string
	m := New(time.Second, nil)
	for _, name := range []string{"store", "cache", "http"} {
		m.Add(name,
			func(context.Context) error { events = append(events, "start "+name); return nil },
			func(context.Context) error { events = append(events, "stop "+name); return nil },
		)
	}

	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.Shutdown(context.Background()))

	assert.Equal(t, []string{
		"start store", "start cache", "start http",
		"stop http", "stop cache", "stop store",
	}, events)
}

func TestManager_FailedStartUnwindsStartedComponents(t *testing.T) {
	var stopped []string
	boom := errors.New("port in use")
	m := New(time.Second, nil)
	m.Register("store", func(context.Context) error { stopped = append(stopped, "store"); return nil })
	m.Add("http", func(context.Context) error { return boom }, func(context.Context) error {
		stopped = append(stopped, "http")
		return nil
	})

	err := m.Start(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "start http")
	assert.Equal(t, []string{"store"}, stopped)
}

func TestManager_ShutdownJoinsErrors(t *testing.T) {
	first, second := errors.New("first"), errors.New("second")
	m := New(time.Second, nil)
	m.Register("a", func(context.Context) error { return first })
	m.Register("b", func(context.Context) error { return second })
	require.NoError(t, m.Start(context.Background()))

	err := m.Shutdown(context.Background())
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)

	assert.NoError(t, m.Shutdown(context.Background()), "hooks run once")
}
