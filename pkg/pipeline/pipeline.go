// Package pipeline renders a complete visualization from an interchange
// document. It is shared by the visualize command and its watch mode.
//
// # Architecture
//
// A run has three stages:
//
//  1. Tree decomposition: the highlight state machine renders one frame per
//     timeline step
//  2. Auxiliary graphs: incidence, primal, dual and general graphs render
//     their frames concurrently, one diagram per goroutine
//  3. Join: when the document asks for it, the frames of every step are
//     combined into one image
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{OutFolder: "out"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.Frames)
//
// Without a cache, [Visualize] renders directly with Graphviz.
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tdvisu/pkg/render/diagram"
)

// DefaultOutFolder is where frames go when no folder is given.
const DefaultOutFolder = "."

// Options configures a pipeline run.
type Options struct {
	// OutFolder receives the frames. It is created if missing.
	OutFolder string
	// KeepSource also writes the DOT source of every frame as <prefix><n>.gv.
	KeepSource bool
	// Renderer lays out the frames. Nil renders with Graphviz.
	Renderer diagram.Renderer
	// Parallelism bounds how many auxiliary graphs render at once. Zero
	// means GOMAXPROCS.
	Parallelism int
	Logger      *log.Logger
}

// SetDefaults fills in unset options.
func (o *Options) SetDefaults() {
	if o.OutFolder == "" {
		o.OutFolder = DefaultOutFolder
	}
	if o.Renderer == nil {
		o.Renderer = diagram.NewGraphviz()
	}
	if o.Parallelism <= 0 {
		o.Parallelism = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Result describes a finished run.
type Result struct {
	// Files maps every frame series to the number of frames written.
	Files map[string]int
	// Joined is true when the join stage wrote combined images.
	Joined bool
	Stats  Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Steps    int
	Frames   int
	TDTime   time.Duration
	AuxTime  time.Duration
	JoinTime time.Duration
}
