package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestInjectTraceIDFrom(t *testing.T) {
	const id = "0b9e2d55-0d8e-4b25-9ad2-4a1a4b6f5e2c"

	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() {
		log.Logger = previous
	})

	ctx, got := InjectTraceIDFrom(context.Background(), id)
	assert.Equal(t, id, got)
	zerolog.Ctx(ctx).Info().Msg("hello")
	assert.Contains(t, buf.String(), `"traceId":"`+id+`"`)

	buf.Reset()
	ctx, got = InjectTraceIDFrom(context.Background(), "not-a-uuid")
	assert.NotEqual(t, "not-a-uuid", got)
	zerolog.Ctx(ctx).Info().Msg("hello")
	assert.Contains(t, buf.String(), `"traceId":"`+got+`"`)
	assert.NotContains(t, buf.String(), "not-a-uuid")
}
