// Package netstatus holds the process-wide view of network health.
//
// A Tracker stores an immutable Status snapshot. Readers call Status and
// get a value copy; writers replace the whole snapshot atomically, so a
// reader never observes a half-updated record.
//
// Connected reflects host connectivity and is set by whatever component
// watches the network interface. ServerReachable and LastChecked are
// written by the health prober after every probe.
//
// LastChecked never moves backwards. A probe result stamped earlier than
// the current LastChecked is dropped whole, so ServerReachable always
// describes the probe at LastChecked.
//
// The executor in package resilience does not consult the tracker. It is
// informational state for callers and status endpoints.
package netstatus
