// Package hostedauth implements access.AuthClient against a GoTrue-style
// hosted authentication REST API (the kind that backs Supabase projects).
// Session-change notifications are delivered locally: the client emits
// SIGNED_IN after a successful password grant and SIGNED_OUT as soon as
// SignOut clears local state, before the revocation round-trip completes.
package hostedauth
