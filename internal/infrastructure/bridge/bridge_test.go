package bridge

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/grafana/sobek"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/panehost/internal/application/port"
)

func TestDecode(t *testing.T) {
	msg, err := Decode([]byte(`{"target":"main","event":"pane-telemetry","payload":{"kind":"init"}}`))
	require.NoError(t, err)
	assert.Equal(t, "main", msg.Target)
	assert.False(t, msg.Broadcast())
	assert.Equal(t, "pane-telemetry", msg.Event)
	assert.JSONEq(t, `{"kind":"init"}`, string(msg.Payload))
}

func TestDecode_StringWrapped(t *testing.T) {
	inner := `{"target":"","event":"pane-telemetry","payload":null}`
	wrapped, err := json.Marshal(inner)
	require.NoError(t, err)

	msg, err := Decode(wrapped)
	require.NoError(t, err)
	assert.True(t, msg.Broadcast())
	assert.Equal(t, "null", string(msg.Payload))
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte(`{"target":"main"}`))
	assert.ErrorIs(t, err, ErrMalformedMessage)

	_, err = Decode([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformedMessage)

	big := `{"event":"x","payload":"` + strings.Repeat("a", MaxMessageSize) + `"}`
	_, err = Decode([]byte(big))
	assert.ErrorIs(t, err, ErrMessageTooLarge)
}

func TestEncodeDecode(t *testing.T) {
	raw, err := Encode(port.ScriptMessage{Target: "main", Event: "pane-telemetry"})
	require.NoError(t, err)

	msg, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "main", msg.Target)
	assert.Equal(t, "null", string(msg.Payload))
}

func TestShimScript_PostsEnvelopes(t *testing.T) {
	vm := sobek.New()
	var posted []string
	_, err := vm.RunString(`var window = this; window.webkit = { messageHandlers: { panehost: {} } };`)
	require.NoError(t, err)

	handler := vm.Get("webkit").ToObject(vm).Get("messageHandlers").ToObject(vm).Get("panehost").ToObject(vm)
	require.NoError(t, handler.Set("postMessage", func(call sobek.FunctionCall) sobek.Value {
		posted = append(posted, call.Argument(0).String())
		return sobek.Undefined()
	}))

	shim := ShimScript("")
	_, err = vm.RunString(shim)
	require.NoError(t, err)
	_, err = vm.RunString(shim)
	require.NoError(t, err)

	_, err = vm.RunString(`
window.__panehost.emitTo("main", "pane-telemetry", { kind: "init" });
window.__panehost.emit("pane-telemetry");
window.__panehost = null;
`)
	require.NoError(t, err)
	require.Len(t, posted, 2)

	first, err := Decode([]byte(posted[0]))
	require.NoError(t, err)
	assert.Equal(t, "main", first.Target)
	assert.JSONEq(t, `{"kind":"init"}`, string(first.Payload))

	second, err := Decode([]byte(posted[1]))
	require.NoError(t, err)
	assert.True(t, second.Broadcast())

	v, err := vm.RunString(`typeof window.__panehost.emitTo`)
	require.NoError(t, err)
	assert.Equal(t, "function", v.String())
}

func TestShimScript_ThrowsWithoutHandler(t *testing.T) {
	vm := sobek.New()
	_, err := vm.RunString(`var window = this;`)
	require.NoError(t, err)
	_, err = vm.RunString(ShimScript("panehost"))
	require.NoError(t, err)

	_, err = vm.RunString(`window.__panehost.emit("x", 1)`)
	assert.Error(t, err)
}

func TestRouter(t *testing.T) {
	r := NewRouter()
	var got []string
	r.Handle("pane-telemetry", func(_ context.Context, label string, msg port.ScriptMessage) {
		got = append(got, label+":"+msg.Event)
	})

	ctx := context.Background()
	r.Route(ctx, "tab-1", port.ScriptMessage{Event: "pane-telemetry"})
	r.Route(ctx, "tab-1", port.ScriptMessage{Event: "unknown"})
	assert.Equal(t, []string{"tab-1:pane-telemetry"}, got)
	assert.Equal(t, uint64(1), r.Unrouted())

	r.HandleDefault(func(_ context.Context, label string, msg port.ScriptMessage) {
		got = append(got, "default:"+msg.Event)
	})
	r.Route(ctx, "tab-2", port.ScriptMessage{Event: "unknown"})
	assert.Equal(t, "default:unknown", got[len(got)-1])

	r.Handle("pane-telemetry", nil)
	r.Route(ctx, "tab-2", port.ScriptMessage{Event: "pane-telemetry"})
	assert.Equal(t, "default:pane-telemetry", got[len(got)-1])
}

func TestRouter_RecoversPanics(t *testing.T) {
	r := NewRouter()
	r.Handle("boom", func(context.Context, string, port.ScriptMessage) { panic("page did it") })

	assert.NotPanics(t, func() {
		r.Route(context.Background(), "tab-1", port.ScriptMessage{Event: "boom"})
	})
}
