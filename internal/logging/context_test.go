package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestContextFields(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), zerolog.New(&buf))

	ctx = WithComponent(ctx, "ipc")
	ctx = WithPaneLabel(ctx, "docs")
	FromContext(ctx).Info().Msg("hello")

	assert.Contains(t, buf.String(), `"component":"ipc"`)
	assert.Contains(t, buf.String(), `"pane":"docs"`)
}

func TestFromContext_WithoutLoggerIsDisabled(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, FromContext(context.Background()).GetLevel())
}
