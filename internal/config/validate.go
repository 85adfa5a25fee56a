package config

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks the configuration and returns a *ValidationError
// listing every problem, or nil.
func (c *Config) Validate() error {
	verr := &ValidationError{}

	if !validLevels[strings.ToLower(c.Logging.Level)] {
		verr.add("logging.level", "unknown level %q", c.Logging.Level)
	}
	if c.Logging.Format != FormatConsole && c.Logging.Format != FormatJSON {
		verr.add("logging.format", "must be %q or %q, got %q", FormatConsole, FormatJSON, c.Logging.Format)
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		verr.add("metrics.addr", "required when metrics are enabled")
	}

	names := make(map[string]bool, len(c.Listeners))
	for i, l := range c.Listeners {
		path := fmt.Sprintf("listeners[%d]", i)
		switch {
		case l.Name == "":
			verr.add(path+".name", "required")
		case names[l.Name]:
			verr.add(path+".name", "duplicate listener %q", l.Name)
		}
		names[l.Name] = true

		if l.Event == "" {
			verr.add(path+".event", "required")
		}

		switch l.Action {
		case ActionLog, ActionCount:
		case ActionFail:
			if l.Message == "" {
				verr.add(path+".message", "required for action %q", ActionFail)
			}
		case ActionLua:
			if (l.Script == "") == (l.ScriptFile == "") {
				verr.add(path, "exactly one of script or script_file is required for action %q", ActionLua)
			}
		default:
			verr.add(path+".action", "unknown action %q", l.Action)
		}
	}

	for i, e := range c.Events {
		path := fmt.Sprintf("events[%d]", i)
		if e.Name == "" {
			verr.add(path+".name", "required")
		}
		if e.Payload != "" && !gjson.Valid(e.Payload) {
			verr.add(path+".payload", "invalid JSON")
		}
	}

	if len(c.Expect) > 0 && !c.Fake {
		verr.add("expect", "expectations require fake mode")
	}
	for i, x := range c.Expect {
		path := fmt.Sprintf("expect[%d]", i)
		if x.Event == "" {
			verr.add(path+".event", "required")
		}
		if x.Equals != "" && x.Field == "" {
			verr.add(path+".field", "required when equals is set")
		}
		if x.Times < 0 {
			verr.add(path+".times", "must not be negative")
		}
		if x.Absent && x.Times > 0 {
			verr.add(path, "absent and times are mutually exclusive")
		}
	}

	if len(c.Watch.Paths) > 0 && c.Watch.Prefix == "" {
		verr.add("watch.prefix", "required when paths are watched")
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
