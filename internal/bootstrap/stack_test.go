package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/panehost/internal/application/usecase"
	"github.com/bnema/panehost/internal/config"
	"github.com/bnema/panehost/internal/domain/entity"
	"github.com/bnema/panehost/internal/infrastructure/eventbus"
)

func createInput(label, url string) usecase.CreatePaneInput {
	return usecase.CreatePaneInput{Label: label, URL: url, Bounds: entity.NewRect(0, 0, 640, 480)}
}

func TestBuild_OptionalServicesFollowConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.IPC.Enabled = false
	cfg.Journal.Enabled = false

	ctx := testCtx()
	stack, err := Build(ctx, cfg, newHeadlessPlatform(ctx, cfg))
	require.NoError(t, err)
	assert.Nil(t, stack.IPC)
	assert.Nil(t, stack.Journal)
	assert.Nil(t, stack.JournalDB)
	require.NoError(t, stack.Start())
	require.NoError(t, stack.Shutdown(ctx))
}

func TestBuild_RejectsBadSettings(t *testing.T) {
	ctx := testCtx()
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"policy", func(c *config.Config) { c.Geometry.Policy = "diagonal" }},
		{"mode", func(c *config.Config) { c.Instrumentation.Mode = "loud" }},
		{"heartbeat", func(c *config.Config) { c.Instrumentation.HeartbeatInterval = "soon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			_, err := Build(ctx, cfg, newHeadlessPlatform(ctx, cfg))
			assert.Error(t, err)
		})
	}
}

func TestStack_FrontendReceivesRelayEvents(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.IPC.Enabled = false

	ctx, cancel := context.WithCancel(testCtx())
	platform := newHeadlessPlatform(ctx, cfg)
	go func() { _ = platform.Run(ctx) }()
	defer func() {
		cancel()
		<-platform.loop.Done()
	}()

	stack, err := Build(ctx, cfg, platform)
	require.NoError(t, err)

	got := make(chan eventbus.Event, 64)
	id := stack.Subscribe(cfg.Relay.Target, func(ev eventbus.Event) {
		select {
		case got <- ev:
		default:
		}
	})
	defer stack.Unsubscribe(id)

	reply := stack.DispatchJSON(ctx, []byte(`{"id":"1","cmd":"create","label":"p","url":"https://example.com","width":10,"height":10}`))
	assert.JSONEq(t, `{"id":"1","ok":true,"result":{"label":"p","url":"https://example.com/","bounds":{"x":0,"y":0,"width":10,"height":10}}}`, string(reply))

	require.Eventually(t, func() bool {
		for {
			select {
			case ev := <-got:
				if ev.Name == entity.EventPaneNavigated {
					return true
				}
			default:
				return false
			}
		}
	}, waitFor, 5*time.Millisecond)
}
