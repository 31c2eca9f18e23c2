package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_EmitToReachesOnlyTarget(t *testing.T) {
	h := NewHub(context.Background())

	var main, side, all []string
	h.Subscribe("main", func(ev Event) { main = append(main, ev.Name) })
	h.Subscribe("sidebar", func(ev Event) { side = append(side, ev.Name) })
	h.Observe(func(ev Event) { all = append(all, ev.Target+"/"+ev.Name) })

	require.NoError(t, h.EmitTo("main", "pane-navigated", nil))

	assert.Equal(t, []string{"pane-navigated"}, main)
	assert.Empty(t, side)
	assert.Equal(t, []string{"main/pane-navigated"}, all)
}

func TestHub_EmitToWithoutSubscriber(t *testing.T) {
	h := NewHub(context.Background())

	observed := 0
	h.Observe(func(Event) { observed++ })

	err := h.EmitTo("main", "pane-navigated", nil)
	assert.ErrorIs(t, err, ErrNoSubscriber)
	assert.Equal(t, 1, observed)

	assert.Error(t, h.EmitTo("", "pane-navigated", nil))
}

func TestHub_EmitBroadcasts(t *testing.T) {
	h := NewHub(context.Background())

	count := 0
	h.Subscribe("main", func(ev Event) {
		assert.Empty(t, ev.Target)
		count++
	})
	h.Subscribe("sidebar", func(Event) { count++ })
	h.Observe(func(Event) { count++ })

	require.NoError(t, h.Emit("pane-telemetry", map[string]any{"kind": "init"}))
	assert.Equal(t, 3, count)
}

func TestHub_PanicIsolation(t *testing.T) {
	h := NewHub(context.Background())

	reached := false
	h.Subscribe("main", func(Event) { panic("broken window") })
	h.Subscribe("main", func(Event) { reached = true })

	assert.NotPanics(t, func() {
		require.NoError(t, h.EmitTo("main", "pane-navigated", nil))
	})
	assert.True(t, reached)
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub(context.Background())

	calls := 0
	id := h.Subscribe("main", func(Event) { calls++ })
	obs := h.Observe(func(Event) { calls++ })
	assert.Equal(t, 2, h.SubscriptionCount())
	assert.Equal(t, []string{"main"}, h.Windows())

	assert.True(t, h.Unsubscribe(id))
	assert.False(t, h.Unsubscribe(id))
	assert.Empty(t, h.Windows())

	assert.ErrorIs(t, h.EmitTo("main", "x", nil), ErrNoSubscriber)
	assert.Equal(t, 1, calls)

	assert.True(t, h.Unsubscribe(obs))
	assert.Zero(t, h.SubscriptionCount())
}

func TestHub_SubscribeStarIsObserver(t *testing.T) {
	h := NewHub(context.Background())

	got := 0
	h.Subscribe("*", func(Event) { got++ })
	_ = h.EmitTo("main", "x", nil)
	assert.Equal(t, 1, got)
}
