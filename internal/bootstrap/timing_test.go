package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/panehost/internal/logging"
)

type stepClock struct {
	now time.Time
}

func (c *stepClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func (c *stepClock) Now() time.Time { return c.now }

func TestStartupTimer_PhasesInOrder(t *testing.T) {
	clock := &stepClock{now: time.Unix(0, 0)}
	timer := newStartupTimer(clock.Now)

	clock.advance(10 * time.Millisecond)
	timer.Mark("platform")
	clock.advance(5 * time.Millisecond)
	timer.Mark("stack")

	assert.Equal(t, []string{"platform", "stack"}, timer.Phases())
	assert.Equal(t, 15*time.Millisecond, timer.Total())
}

func TestStartupTimer_Log(t *testing.T) {
	clock := &stepClock{now: time.Unix(0, 0)}
	timer := newStartupTimer(clock.Now)
	clock.advance(3 * time.Millisecond)
	timer.Mark("ipc")

	var buf bytes.Buffer
	ctx := logging.WithContext(context.Background(), zerolog.New(&buf))
	timer.Log(ctx, zerolog.InfoLevel)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "startup timing", entry["message"])
	assert.InDelta(t, 3.0, entry["ipc"], 0.001)
	assert.InDelta(t, 3.0, entry["total"], 0.001)
}
