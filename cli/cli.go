// Package cli provides the command-line interface for drawing label sheet
// guides.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Version information
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// osExit is a variable for os.Exit to allow testing
var osExit = os.Exit

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// isTerminal reports whether w is an interactive terminal.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// errUsage is returned after the usage text has been printed for bad
// arguments.
var errUsage = errors.New("usage")

// Run executes the CLI with the given arguments.
// This is the main entry point for the CLI.
func Run(args []string) {
	if len(args) < 2 {
		Usage()
		return
	}

	command := args[1]

	switch command {
	case "draw":
		DrawCommand(args)
	case "apply":
		ApplyCommand(args)
	case "presets":
		PresetsCommand(args)
	case "ingest":
		IngestCommand(args)
	case "version":
		VersionCommand()
	case "help", "-h", "--help":
		Usage()
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		Usage()
		osExit(1)
	}
}

// fail reports err and exits with a non-zero status. A help request is not
// a failure.
func fail(err error) {
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return
	case errors.Is(err, errUsage):
		osExit(1)
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		osExit(1)
	}
}

// Usage prints the CLI usage information.
func Usage() {
	name := programName()
	fmt.Fprintf(stdout, "labelguides - label sheet guides and outlines\n\n")
	fmt.Fprintf(stdout, "Usage: %s <command> [options] <args>\n\n", name)
	fmt.Fprintln(stdout, "Commands:")
	fmt.Fprintln(stdout, "  draw     Draw a new label sheet (SVG, PDF or PNG)")
	fmt.Fprintln(stdout, "  apply    Add guides and label outlines to an existing SVG")
	fmt.Fprintln(stdout, "  presets  List the label sheet presets")
	fmt.Fprintln(stdout, "  ingest   Build presets from vendor template pages")
	fmt.Fprintln(stdout, "  version  Show version information")
	fmt.Fprintln(stdout, "  help     Show this help message")
	fmt.Fprintln(stdout, "")
	fmt.Fprintf(stdout, "Use '%s <command> -h' for command-specific help\n", name)
	fmt.Fprintln(stdout, "")
	fmt.Fprintln(stdout, "Examples:")
	fmt.Fprintf(stdout, "  %s draw -preset L7160 -draw-shapes sheet.pdf\n", name)
	fmt.Fprintf(stdout, "  %s apply -preset 5160 -draw-inset-guides drawing.svg\n", name)
	fmt.Fprintf(stdout, "  %s presets -v L7160\n", name)
}

// VersionCommand prints version information.
func VersionCommand() {
	fmt.Fprintf(stdout, "labelguides version %s\n", Version)
	fmt.Fprintf(stdout, "Build time: %s\n", BuildTime)
}

func programName() string {
	if len(os.Args) > 0 {
		return os.Args[0]
	}
	return "labelguides"
}
