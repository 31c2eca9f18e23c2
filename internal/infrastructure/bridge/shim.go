package bridge

import (
	"encoding/json"
	"strings"
)

const shimTemplate = `(function () {
  if (window.__panehost) {
    return;
  }
  var HANDLER = __HANDLER__;
  function post(target, event, payload) {
    var handlers = window.webkit && window.webkit.messageHandlers;
    var handler = handlers && handlers[HANDLER];
    if (!handler) {
      throw new Error("panehost bridge unavailable");
    }
    handler.postMessage(JSON.stringify({
      target: target,
      event: String(event),
      payload: payload === undefined ? null : payload
    }));
  }
  var api = Object.freeze({
    emitTo: function (target, event, payload) {
      post(String(target), event, payload);
    },
    emit: function (event, payload) {
      post("", event, payload);
    }
  });
  Object.defineProperty(window, "__panehost", { value: api, configurable: false, writable: false });
})();
`

// ShimScript returns the script that installs window.__panehost on top of
// window.webkit.messageHandlers[handler]. It must run before the pane's
// instrumentation script.
func ShimScript(handler string) string {
	if handler == "" {
		handler = HandlerName
	}
	encoded, _ := json.Marshal(handler)
	return strings.Replace(shimTemplate, "__HANDLER__", string(encoded), 1)
}
