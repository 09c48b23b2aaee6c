package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/georgepadayatti/labelguides/catalog"
)

// PresetsOptions contains options for the presets command.
type PresetsOptions struct {
	Verbose bool
	YAML    bool
}

// PresetsCommand implements the 'presets' command.
func PresetsCommand(args []string) {
	fail(presets(args[2:]))
}

func presets(args []string) error {
	fs := flag.NewFlagSet("presets", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts PresetsOptions
	fs.BoolVar(&opts.Verbose, "v", false, "Show the full grid of every preset")
	fs.BoolVar(&opts.YAML, "yaml", false, "Print the presets as a YAML preset document")
	fs.Usage = func() {
		printUsage(fs, "presets [options] [id...]",
			"List the built-in label sheet presets, or show the named ones.",
			"presets",
			"presets -v L7160 5160",
			"presets -yaml > presets.yaml")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	cat, err := catalog.Default()
	if err != nil {
		return err
	}

	selected := cat.Presets()
	if fs.NArg() > 0 {
		selected = selected[:0:0]
		for _, id := range fs.Args() {
			p, err := cat.Lookup(id)
			if err != nil {
				return err
			}
			selected = append(selected, p)
		}
		opts.Verbose = true
	}

	if opts.YAML {
		data, err := catalog.Marshal(selected)
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}
	for _, p := range selected {
		if opts.Verbose {
			printPreset(stdout, p)
			continue
		}
		fmt.Fprintf(stdout, "%-12s %s\n", p.ID, p.Description)
	}
	return nil
}

func printPreset(w io.Writer, p catalog.Preset) {
	s := p.Spec
	fmt.Fprintf(w, "%s: %s\n", p.ID, p.Description)
	fmt.Fprintf(w, "  Family: %s\n", p.Family)
	fmt.Fprintf(w, "  Unit:   %s\n", s.Unit)
	fmt.Fprintf(w, "  Page:   %s\n", s.Page)
	fmt.Fprintf(w, "  Margin: %g left, %g top\n", s.Margin.X, s.Margin.Y)
	fmt.Fprintf(w, "  Size:   %g x %g\n", s.Size.X, s.Size.Y)
	fmt.Fprintf(w, "  Pitch:  %g x %g\n", s.Pitch.X, s.Pitch.Y)
	fmt.Fprintf(w, "  Count:  %d x %d (%d labels)\n", s.Count.X, s.Count.Y, s.Count.Cells())
	fmt.Fprintf(w, "  Shape:  %s\n", s.Shape)
}
