package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/dshills/herald/internal/config"
	"github.com/dshills/herald/internal/event"
	"github.com/dshills/herald/internal/event/listener"
	"github.com/dshills/herald/internal/listener/lua"
)

// logAction logs every occurrence it receives with the configured
// payload fields. It is constructed per dispatch and gets its logger
// from the resolver.
type logAction struct {
	fields []string
	logger *zap.Logger
}

func (a *logAction) SetLogger(l *zap.Logger) { a.logger = l }

func (a *logAction) Handle(_ context.Context, occurrence any) error {
	if a.logger == nil {
		return nil
	}
	key, err := event.KeyOf(occurrence)
	if err != nil {
		return err
	}

	zf := []zap.Field{zap.String("event", key.Name())}
	if len(a.fields) > 0 {
		payload, err := payloadOf(occurrence)
		if err != nil {
			return err
		}
		for _, f := range a.fields {
			if r := gjson.Get(payload, f); r.Exists() {
				zf = append(zf, zap.Any(f, r.Value()))
			}
		}
	}
	a.logger.Info("event", zf...)
	return nil
}

// payloadOf returns the JSON form of an occurrence's data.
func payloadOf(occurrence any) (string, error) {
	switch o := occurrence.(type) {
	case event.Message:
		return o.Payload, nil
	case *event.Message:
		return o.Payload, nil
	case string:
		return "", nil
	}
	b, err := json.Marshal(occurrence)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return string(b), nil
}

// countAction counts the occurrences it receives.
type countAction struct {
	n atomic.Int64
}

func (a *countAction) Handle(context.Context, any) error {
	a.n.Add(1)
	return nil
}

// listenerRef builds the reference registered for a configured listener.
// The returned counter is non-nil for the count action.
func (a *App) listenerRef(lc config.ListenerConfig) (listener.Ref, *countAction, error) {
	switch lc.Action {
	case config.ActionLog:
		fields := lc.Fields
		return listener.Class(lc.Name, func() (any, error) {
			return &logAction{fields: fields}, nil
		}), nil, nil

	case config.ActionCount:
		c := &countAction{}
		return listener.Instance(c), c, nil

	case config.ActionFail:
		msg := lc.Message
		return listener.FuncOf(lc.Name, func(context.Context, any) error {
			return fmt.Errorf("%w: %s", ErrListenerFailed, msg)
		}), nil, nil

	case config.ActionLua:
		opt := lua.WithLogger(a.logger.Named(lc.Name))
		var (
			script *lua.Script
			err    error
		)
		if lc.ScriptFile != "" {
			script, err = lua.CompileFile(lc.ScriptFile, opt)
		} else {
			script, err = lua.Compile(lc.Name, lc.Script, opt)
		}
		if err != nil {
			return nil, nil, err
		}
		return listener.Instance(script), nil, nil
	}
	return nil, nil, fmt.Errorf("%w %q", ErrUnknownAction, lc.Action)
}
