package pitchline_test

import (
	"context"
	"fmt"
	"log"

	"github.com/pitchline/pitchline"
	"github.com/pitchline/pitchline/pkg/dsl"
)

// Example builds a minimal flow in code and walks one objection detour.
func Example() {
	b := dsl.New()
	b.Add("opening").
		Opening("Cold Open").
		Script("Hi, quick question about your charting setup.").
		Respond("Go ahead", "disc").
		Respond("Too busy", "obj_busy")
	b.Add("disc").
		Discovery("Environment").
		Script("What do you chart in today?").
		EHR("Epic")
	b.Add("obj_busy").
		Objection("Too Busy").
		Script("Thirty seconds and you decide.")

	loader, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	eng, err := pitchline.New("", pitchline.WithLoader(loader))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	state, _ := eng.Start(ctx, "demo-call")

	eng.NavigateTo(ctx, state, "obj_busy")
	fmt.Println("return point:", state.ReturnNodeID)

	eng.ReturnToFlow(ctx, state)
	eng.NavigateTo(ctx, state, "disc")
	fmt.Println("current:", state.CurrentNodeID)
	fmt.Println("ehr:", state.Metadata.EHR)

	// Output:
	// return point: opening
	// current: disc
	// ehr: Epic
}

// ExampleEngine_RewindTo shows history truncation back to an earlier beat.
func ExampleEngine_RewindTo() {
	b := dsl.New()
	b.Add("opening").Opening("Open").Script("Hello.")
	b.Add("a").Discovery("A").Script("a")
	b.Add("b").Discovery("B").Script("b")

	loader, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}
	eng, err := pitchline.New("", pitchline.WithLoader(loader))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	state, _ := eng.Start(ctx, "demo")
	eng.NavigateTo(ctx, state, "a")
	eng.NavigateTo(ctx, state, "b")

	eng.RewindTo(ctx, state, "a")
	fmt.Println(state.Path)

	// Output:
	// [opening a]
}
