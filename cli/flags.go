package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/georgepadayatti/labelguides/config"
)

// commonFlags are accepted by every command that draws.
type commonFlags struct {
	ConfigPath string
	Verbose    bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML configuration file; flags override its values")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "Log every step of the layout pass")
}

// sheetFlags binds the layout options to fs. The current values of o are
// the flag defaults.
func sheetFlags(fs *flag.FlagSet, o *config.Options) {
	fs.StringVar(&o.Preset, "preset", o.Preset, "Catalog preset, or \"custom\" to use the size options")
	fs.StringVar(&o.Unit, "unit", o.Unit, "Unit of the custom lengths and the inset")
	fs.StringVar(&o.Page, "page", o.Page, "Paper of a custom sheet, e.g. a4 or letter")
	fs.Float64Var(&o.MarginLeft, "margin-left", o.MarginLeft, "Left page edge to the first label")
	fs.Float64Var(&o.MarginTop, "margin-top", o.MarginTop, "Top page edge to the first label")
	fs.Float64Var(&o.SizeX, "size-x", o.SizeX, "Label width")
	fs.Float64Var(&o.SizeY, "size-y", o.SizeY, "Label height")
	fs.Float64Var(&o.PitchX, "pitch-x", o.PitchX, "Horizontal distance between label origins")
	fs.Float64Var(&o.PitchY, "pitch-y", o.PitchY, "Vertical distance between label origins")
	fs.IntVar(&o.CountX, "count-x", o.CountX, "Labels across")
	fs.IntVar(&o.CountY, "count-y", o.CountY, "Labels down")
	fs.StringVar(&o.Shape, "shape", o.Shape, "Label outline: rect, rrect or circle")
	fs.Float64Var(&o.Inset, "inset", o.Inset, "Distance of the inset guides from the label edges")
	fs.BoolVar(&o.DeleteExistingGuides, "delete-existing-guides", o.DeleteExistingGuides, "Remove the guides already in the document")
	fs.BoolVar(&o.DrawEdgeGuides, "draw-edge-guides", o.DrawEdgeGuides, "Draw guides on the label edges")
	fs.BoolVar(&o.DrawInsetGuides, "draw-inset-guides", o.DrawInsetGuides, "Draw guides inset from the label edges")
	fs.BoolVar(&o.DrawShapes, "draw-shapes", o.DrawShapes, "Draw the label outlines")
	fs.BoolVar(&o.ResizePage, "resize-page", o.ResizePage, "Resize the page to the sheet's paper")
	fs.StringVar(&o.EdgeGuideColor, "edge-guide-color", o.EdgeGuideColor, "Colour of the edge guides")
	fs.StringVar(&o.InsetGuideColor, "inset-guide-color", o.InsetGuideColor, "Colour of the inset guides")
	fs.StringVar(&o.Style.Stroke, "stroke", o.Style.Stroke, "Outline colour, or none")
	fs.StringVar(&o.Style.Fill, "fill", o.Style.Fill, "Fill colour, or none")
	fs.Float64Var(&o.Style.StrokeWidth, "stroke-width", o.Style.StrokeWidth, "Outline width in millimetres")
}

// parseSheetArgs parses the arguments of a drawing command. The
// configuration file named by -config is loaded first so that flags given
// on the command line override it. setup registers command specific flags
// and usage prints the command help.
func parseSheetArgs(name string, args []string, setup func(*flag.FlagSet), usage func(*flag.FlagSet)) (*config.AppConfig, *flag.FlagSet, error) {
	// Find the configuration file.
	var common commonFlags
	pre := flag.NewFlagSet(name, flag.ContinueOnError)
	pre.SetOutput(io.Discard)
	pre.Usage = func() {}
	common.register(pre)
	sheetFlags(pre, &config.DefaultAppConfig().Sheet)
	setup(pre)
	_ = pre.Parse(args)

	cfg := config.DefaultAppConfig()
	if common.ConfigPath != "" {
		loaded, err := config.LoadAppConfig(common.ConfigPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(fs) }
	common.register(fs)
	sheetFlags(fs, &cfg.Sheet)
	setup(fs)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if common.Verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, fs, nil
}

// printUsage writes a command help text followed by its flags.
func printUsage(fs *flag.FlagSet, synopsis, description string, examples ...string) {
	w := fs.Output()
	fmt.Fprintf(w, "Usage: %s %s\n\n", programName(), synopsis)
	fmt.Fprintln(w, description)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Options:")
	fs.PrintDefaults()
	if len(examples) > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Examples:")
		for _, e := range examples {
			fmt.Fprintf(w, "  %s %s\n", programName(), e)
		}
	}
}

// newLogger builds the logger of a command.
func newLogger(cfg *config.AppConfig) (*slog.Logger, func() error, error) {
	return cfg.Logging.NewLogger(stdout, stderr)
}
