// Package access provides role-based session and access-control primitives
// for dashboards backed by a hosted auth provider and a role-assignment
// store.
//
// Session lifecycle:
//   - SessionStore is the single source of truth for "who is logged in and
//     what can they do". It subscribes to AuthClient session events, resolves
//     the identity's role through RoleResolver, and publishes immutable
//     Session snapshots to subscribers. Stale role resolutions are discarded
//     (last writer wins, keyed by identity) so a slow lookup can never
//     overwrite a newer sign-in.
//
// Route gating:
//   - Evaluate is a pure decision function mapping a Session snapshot and a
//     RouteSpec to Allow, RedirectLogin, or ShowLoading. RouteGuard adapts it
//     to go-router middleware for server-rendered deployments.
//
// Demo provisioning:
//   - DemoProvisioner idempotently bootstraps a fixed list of evaluation
//     accounts, tolerating "already registered" sign-up failures and
//     upserting role assignments keyed by (identity id, role) so repeated
//     runs never create duplicate rows.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter used by SessionStore,
//     LoginFlow, and DemoProvisioner to describe sign-in, sign-out, role
//     resolution, and provisioning events. Sinks run best-effort (errors are
//     logged) so you can forward to a database or queue without blocking
//     authentication.
package access
