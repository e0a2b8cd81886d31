/*
Package dsl provides a fluent Go builder for constructing call flows
programmatically.

It lets developers define flows with type-safe chained calls instead of
external YAML files, which is particularly useful for dynamic flow
generation, unit tests, and IDE autocompletion.

Example usage:

	b := dsl.New()

	b.Add("opening_cold").
		Opening("Cold Open").
		Script("Hi, this is Sam from Pitchline.").
		Respond("Go ahead", "disc_env").
		Respond("Too busy", "obj_busy")

	b.Add("disc_env").
		Discovery("Environment").
		Script("What system does your team chart in today?").
		EHR("Epic").
		Respond("They use Epic", "close_meeting")

	// The resulting loader can be used as a ports.GraphLoader.
	loader, err := b.Build()
	_ = loader
	_ = err
*/
package dsl
