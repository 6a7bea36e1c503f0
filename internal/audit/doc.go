// Package audit relays session audit events to a sink off the caller's
// goroutine.
//
// # Components
//
//   - [Sink] receives events (channel, JSON lines, slog, no-op).
//   - [Dispatcher] is a buffered async relay that either drops or blocks
//     when full.
//   - [Event] is one record: type, user, role, path, request id, outcome.
//
// # Architecture boundaries
//
// This package owns buffering and delivery. Which events exist and when they
// fire is decided by the goRate facade.
//
// # What this package must NOT do
//
//   - Filter events based on their content.
//   - Import goRate or any sibling package.
//   - Record credential tokens.
package audit
