// Command cutdown-sim replays a scripted balloon flight profile through
// the core decision pipeline and renders live flight state in a terminal
// UI. It is a ground-test tool, not part of the flight instrument itself.
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
)

const version = "0.1.0"

func main() {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	if len(os.Args) < 2 || os.Args[1] == "demo" {
		if err := startTUI(); err != nil {
			log.Fatalf("TUI error: %v", err)
		}
		return
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("cutdown-sim v%s\n", version)
		fmt.Printf("Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	case "help", "-h", "--help":
		usage()
	default:
		log.Fatalf("ERROR: unknown command %q (try 'cutdown-sim help')", os.Args[1])
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `cutdown-sim - Cutdown flight controller simulator

Usage:
  cutdown-sim [demo]
      Launch the interactive flight profile replay

  cutdown-sim version
      Show version and platform information

  cutdown-sim help
      Show this help message

About:
  Replays a scripted ascent/float/cut/descent altitude and pressure
  profile through the core decision pipeline at accelerated speed,
  rendering flight state and cut reason live.
`)
}
