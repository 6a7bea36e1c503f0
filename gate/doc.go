// Package gate decides whether the current session may open a protected
// destination.
//
// # Decisions
//
// [Authorize] is a pure function of a [session.State] and a required
// [identity.RoleSet]:
//
//   - [Pending] while the session is still loading. Callers defer and show a
//     neutral state; loading is never treated as signed out.
//   - [DenyRedirectLogin] when no identity is present.
//   - [Allow] when the requirement is empty or contains the identity's role.
//   - [DenyRedirectHome] when the identity is authenticated but lacks the role.
//
// # Architecture boundaries
//
// The gate holds no state of its own. [Gate] reads the session on every call
// so decisions follow the store without caching.
//
// # What this package must NOT do
//
//   - Decode tokens or touch the persisted slot.
//   - Map decisions onto paths (see package route).
//   - Treat a decoded identity as proof of authorization on the server side.
package gate
