package tracing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InjectTraceID attaches a logger carrying a fresh trace id to ctx
func InjectTraceID(ctx context.Context) context.Context {
	return withTraceID(ctx, uuid.New().String())
}

// InjectTraceIDFrom reuses the caller provided id when it is a valid uuid and
// returns the id the logger carries
func InjectTraceIDFrom(ctx context.Context, candidate string) (context.Context, string) {
	id, err := uuid.Parse(candidate)
	if err != nil {
		id = uuid.New()
	}
	return withTraceID(ctx, id.String()), id.String()
}

func withTraceID(ctx context.Context, id string) context.Context {
	logger := log.With().Str("traceId", id).Logger()
	return logger.WithContext(ctx)
}
