package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/dshills/herald/internal/event/listener"
)

// loggerAware is implemented by listeners that want the app logger.
type loggerAware interface {
	SetLogger(*zap.Logger)
}

// injectingResolver resolves through base and hands every loggerAware
// result a logger named after its reference.
type injectingResolver struct {
	base   listener.Resolver
	logger *zap.Logger
}

func newResolver(logger *zap.Logger) *injectingResolver {
	return &injectingResolver{base: listener.DefaultResolver{}, logger: logger}
}

// Resolve implements listener.Resolver.
func (r *injectingResolver) Resolve(ctx context.Context, ref listener.Ref) (any, error) {
	v, err := r.base.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if la, ok := v.(loggerAware); ok {
		la.SetLogger(r.logger.Named(ref.String()))
	}
	return v, nil
}
