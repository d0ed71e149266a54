// Command svc16 runs an SVC16 guest image in a window.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"svc16/engine"
	"svc16/expansion"
	"svc16/program"
	"svc16/ui"
)

func main() {
	scale := flag.Int("scale", 2, "initial window scaling")
	cursor := flag.Bool("cursor", false, "show the cursor over the window")
	fullscreen := flag.Bool("fullscreen", false, "start in fullscreen mode")
	verbose := flag.Bool("verbose", false, "log every DEBUG instruction")
	linear := flag.Bool("linear", false, "use linear instead of nearest-neighbor filtering")
	expansionPath := flag.String("expansion", "", "path to a dynamically loaded expansion (.so/.dylib/.dll)")
	sound := flag.Bool("sound", false, "install the built-in sound expansion instead of -expansion")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <program>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		flag.Set("v", "1")
	}

	words, err := program.Load(flag.Arg(0))
	if err != nil {
		glog.Errorf("%v", err)
		os.Exit(1)
	}

	exp, closeExp, err := buildExpansion(*expansionPath, *sound)
	if err != nil {
		glog.Errorf("%v", err)
		os.Exit(1)
	}
	if closeExp != nil {
		defer closeExp()
	}

	e := engine.New(words, exp)
	defer e.Close()

	ui.Start(e, ui.Options{
		Scale:           *scale,
		Cursor:          *cursor,
		Fullscreen:      *fullscreen,
		LinearFiltering: *linear,
	})
}

// buildExpansion resolves the -expansion/-sound flags into a concrete
// engine.Expansion. At most one of them may be set; neither set means the
// engine runs with no expansion installed. The returned close func, if
// non-nil, releases resources the expansion opened (e.g. the audio
// device) and must run after the engine itself has been closed.
func buildExpansion(path string, sound bool) (engine.Expansion, func(), error) {
	switch {
	case path != "" && sound:
		return nil, nil, fmt.Errorf("only one of -expansion or -sound may be set")
	case path != "":
		p, err := expansion.LoadPlugin(path)
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	case sound:
		s, err := expansion.NewSound()
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, nil
	}
}
