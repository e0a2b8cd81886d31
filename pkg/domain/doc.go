// Package domain contains the core types of the Pitchline engine: script
// nodes, call session state, derived call metadata and lifecycle events.
//
// The types here are deliberately free of behavior beyond construction and
// diffing; navigation semantics live in the engine, and storage concerns live
// in the adapters.
package domain
