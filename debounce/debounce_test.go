package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type counter struct {
	mu sync.Mutex
	n  int
}

func (c *counter) inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *counter) value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func TestTriggerCoalescesBursts(t *testing.T) {
	d := New(20 * time.Millisecond)
	var c counter
	for i := 0; i < 5; i++ {
		d.Trigger(c.inc)
	}
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 1, c.value())
}

func TestTriggerLatestWins(t *testing.T) {
	d := New(20 * time.Millisecond)
	var mu sync.Mutex
	var got string
	d.Trigger(func() { mu.Lock(); got = "first"; mu.Unlock() })
	d.Trigger(func() { mu.Lock(); got = "second"; mu.Unlock() })
	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, "second", got)
}

func TestStopCancelsPending(t *testing.T) {
	d := New(20 * time.Millisecond)
	var c counter
	d.Trigger(c.inc)
	d.Stop()
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 0, c.value())
}

func TestFlushRunsImmediately(t *testing.T) {
	d := New(time.Hour)
	var c counter
	d.Trigger(c.inc)
	d.Flush()
	require.Equal(t, 1, c.value())
	// Nothing left pending afterwards.
	d.Flush()
	require.Equal(t, 1, c.value())
}

func TestTriggerAfterStopStillWorks(t *testing.T) {
	d := New(10 * time.Millisecond)
	var c counter
	d.Trigger(c.inc)
	d.Stop()
	d.Trigger(c.inc)
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 1, c.value())
}
