package lua

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
	"go.uber.org/zap"
)

// HandleFunc is the name of the global function a script must define.
const HandleFunc = "handle"

// Script is a compiled Lua listener. It implements listener.Handler and is
// safe for concurrent use.
type Script struct {
	name   string
	proto  *lua.FunctionProto
	logger *zap.Logger
}

// Option configures a Script.
type Option func(*Script)

// WithLogger sets the logger behind the script's log function.
func WithLogger(l *zap.Logger) Option {
	return func(s *Script) {
		if l != nil {
			s.logger = l
		}
	}
}

// Compile parses and compiles source. name identifies the script in
// errors and logs.
func Compile(name, source string, opts ...Option) (*Script, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &ScriptError{Script: name, Err: ErrEmptyScript}
	}

	chunk, err := parse.Parse(strings.NewReader(source), name)
	if err != nil {
		return nil, &ScriptError{Script: name, Err: err}
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, &ScriptError{Script: name, Err: err}
	}

	s := &Script{
		name:   name,
		proto:  proto,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CompileFile compiles the script at path.
func CompileFile(path string, opts ...Option) (*Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lua script: %w", err)
	}
	return Compile(filepath.Base(path), string(b), opts...)
}

// Name returns the script name.
func (s *Script) Name() string {
	return s.name
}

// Handle runs the script's handle function for occurrence.
func (s *Script) Handle(ctx context.Context, occurrence any) (err error) {
	L := newState(ctx)
	defer L.Close()

	defer func() {
		if r := recover(); r != nil {
			err = &ScriptError{Script: s.name, Err: fmt.Errorf("lua panic: %v", r)}
		}
	}()

	L.SetGlobal("log", L.NewFunction(s.luaLog))

	L.Push(L.NewFunctionFromProto(s.proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return &ScriptError{Script: s.name, Err: err}
	}
	L.SetTop(0)

	fn := L.GetGlobal(HandleFunc)
	if fn.Type() != lua.LTFunction {
		return &ScriptError{Script: s.name, Err: ErrNoHandleFunc}
	}

	ev, err := occurrenceTable(L, occurrence)
	if err != nil {
		return &ScriptError{Script: s.name, Err: err}
	}

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, ev); err != nil {
		return &ScriptError{Script: s.name, Err: err}
	}

	ret := L.Get(-1)
	L.Pop(1)

	switch v := ret.(type) {
	case lua.LBool:
		if !bool(v) {
			return &ScriptError{Script: s.name, Err: ErrRejected}
		}
	case lua.LString:
		if v != "" {
			return &ScriptError{Script: s.name, Err: fmt.Errorf("%w: %s", ErrRejected, string(v))}
		}
	}
	return nil
}

// luaLog implements log(msg) for scripts.
func (s *Script) luaLog(L *lua.LState) int {
	msg := L.CheckString(1)
	s.logger.Info(msg, zap.String("script", s.name))
	return 0
}
