package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMaterializer struct {
	calls atomic.Int32
	err   error
}

func (c *countingMaterializer) MaterializeDueInstances(context.Context) (int, error) {
	c.calls.Add(1)
	return 1, c.err
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := New(zerolog.Nop(), 0)
	err := s.Add("broken", "not a spec", func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := New(zerolog.Nop(), time.Second)
	m := &countingMaterializer{}
	require.NoError(t, NewAutoMaterializer(m, zerolog.Nop()).Register(s, "@every 1s"))

	s.Start()
	require.Eventually(t, func() bool { return m.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestAutoMaterializer_Run(t *testing.T) {
	ok := &countingMaterializer{}
	assert.NoError(t, NewAutoMaterializer(ok, zerolog.Nop()).Run(context.Background()))
	assert.Equal(t, int32(1), ok.calls.Load())

	failing := &countingMaterializer{err: errors.New("db down")}
	assert.Error(t, NewAutoMaterializer(failing, zerolog.Nop()).Run(context.Background()))
}
