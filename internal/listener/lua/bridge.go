package lua

import (
	"encoding/json"

	"github.com/tidwall/gjson"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/herald/internal/event"
)

// occurrenceTable converts an occurrence into the table passed to handle.
func occurrenceTable(L *lua.LState, occurrence any) (*lua.LTable, error) {
	t := L.NewTable()

	var payload string
	switch o := occurrence.(type) {
	case string:
		L.SetField(t, "name", lua.LString(o))
		return t, nil
	case event.Message:
		L.SetField(t, "name", lua.LString(o.Name))
		payload = o.Payload
	case *event.Message:
		L.SetField(t, "name", lua.LString(o.Name))
		payload = o.Payload
	default:
		key, err := event.KeyOf(occurrence)
		if err != nil {
			return nil, err
		}
		L.SetField(t, "name", lua.LString(key.Name()))
		b, err := json.Marshal(occurrence)
		if err != nil {
			return nil, err
		}
		payload = string(b)
	}

	if payload != "" {
		L.SetField(t, "payload", jsonToLua(L, gjson.Parse(payload)))
	}
	return t, nil
}

// jsonToLua converts a parsed JSON value to a Lua value.
func jsonToLua(L *lua.LState, r gjson.Result) lua.LValue {
	switch r.Type {
	case gjson.Null:
		return lua.LNil
	case gjson.False:
		return lua.LFalse
	case gjson.True:
		return lua.LTrue
	case gjson.Number:
		return lua.LNumber(r.Num)
	case gjson.String:
		return lua.LString(r.Str)
	}

	t := L.NewTable()
	if r.IsArray() {
		for i, v := range r.Array() {
			t.RawSetInt(i+1, jsonToLua(L, v))
		}
		return t
	}
	r.ForEach(func(k, v gjson.Result) bool {
		t.RawSetString(k.String(), jsonToLua(L, v))
		return true
	})
	return t
}
