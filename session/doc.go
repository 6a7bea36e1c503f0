// Package session holds the client's single source of truth for "who is
// signed in".
//
// # Store
//
// [Store] keeps the persisted credential token and the in-memory identity
// consistent: an identity exists if and only if a decodable token sits in the
// [Slot]. The store is created explicitly and injected where needed. Its
// lifecycle is [Store.Initialize] once at startup and [Store.Close] at
// teardown.
//
// Until Initialize completes the published [State] reports Loading, which
// callers must treat as "undecided" rather than "signed out".
//
// # Slots
//
// A [Slot] is one key-value cell holding the raw token. [MemorySlot] is
// process-local, [FileSlot] survives restarts on one machine and [RedisSlot]
// shares the slot between processes.
//
// # What this package must NOT do
//
//   - Verify token signatures (the server is the authority).
//   - Make authorization decisions (see package gate).
//   - Perform network calls other than Redis slot I/O.
package session
