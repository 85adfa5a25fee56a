// Package app wires a configuration into a running event manager.
//
// An App registers the configured listeners, dispatches the configured
// startup events and, when asked, keeps running a file-system source and
// a Prometheus endpoint until its context is cancelled. In fake mode the
// startup events are recorded instead of delivered and the configured
// expectations are checked against the record.
package app
