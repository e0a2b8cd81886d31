/*
Package pitchline is a call-flow navigation engine for scripted sales calls.

It models a cold-call script as a directed graph of beats (opening,
discovery, pitch, objection handling, close) and drives a rep through it:
forward navigation, history rewind, objection detours with a saved return
point, and call metadata derived by replaying the visited path. The engine
is deliberately fail-soft: a broken edge in the script degrades to a refused
move, never a crashed call.

# Concept

The core is a deterministic state machine over an immutable flow graph. The
engine owns navigation semantics; each call session owns its own State; and
everything else (storage, HTTP, MCP, the terminal panel) is an adapter. This
hexagonal layout lets the same engine back a local CLI panel, a REST + SSE
service, and an AI-agent tool surface without changes.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/pitchline/pitchline"
	)

	func main() {
		// Load the flow from a YAML file.
		eng, err := pitchline.New("./flows/cold-call.yaml")
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		state, err := eng.Start(ctx, "call-123")
		if err != nil {
			log.Fatal(err)
		}

		eng.NavigateTo(ctx, state, "disc_env")
		eng.NavigateTo(ctx, state, "obj_busy") // detour, return point saved
		eng.ReturnToFlow(ctx, state)

		log.Println(eng.Summary(state))
	}
*/
package pitchline
