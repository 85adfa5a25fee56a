// Package lua provides event listeners written in Lua.
//
// A script defines a global function handle that receives one table per
// occurrence:
//
//	function handle(ev)
//	    if ev.payload.total > 1000 then
//	        return "order too large"
//	    end
//	    log("order " .. ev.name .. " accepted")
//	end
//
// The table has a name field (the occurrence name) and a payload field
// (the JSON payload of an event.Message, or the JSON encoding of any other
// structured occurrence). Returning nothing or true accepts the
// occurrence; returning false or a string, or raising an error, fails the
// dispatch.
//
// Scripts are compiled once. Every Handle call runs in a fresh sandboxed
// state with only the base, table, string and math libraries opened, so
// no state leaks between occurrences.
package lua
