/*
Package session implements call-session management and persistence
orchestration.

It serializes concurrent access to session state, combining a per-session
in-process mutex with an optional distributed lock and a pluggable storage
adapter.
*/
package session
