package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/georgepadayatti/labelguides/layout"
	"github.com/georgepadayatti/labelguides/pdf/pdfsheet"
	"github.com/georgepadayatti/labelguides/raster"
	"github.com/georgepadayatti/labelguides/sheet"
	"github.com/georgepadayatti/labelguides/svgdoc"
)

// DrawOptions contains the output options of the draw command.
type DrawOptions struct {
	Format     string
	DPI        float64
	HideGuides bool
}

// outputSurface is a surface that can be written out as a file.
type outputSurface interface {
	sheet.Surface
	io.WriterTo
}

// DrawCommand implements the 'draw' command.
func DrawCommand(args []string) {
	fail(draw(args[2:]))
}

func draw(args []string) error {
	var opts DrawOptions
	cfg, fs, err := parseSheetArgs("draw", args, func(fs *flag.FlagSet) {
		fs.StringVar(&opts.Format, "format", "", "Output format: svg, pdf or png (default from the file extension)")
		fs.Float64Var(&opts.DPI, "dpi", raster.DefaultDPI, "Resolution of PNG output")
		fs.BoolVar(&opts.HideGuides, "hide-guides", false, "Switch the PDF guides layer off when the file is opened")
	}, func(fs *flag.FlagSet) {
		printUsage(fs, "draw [options] <output.svg|output.pdf|output.png|->",
			"Draw the guides and label outlines of a sheet on a new page. The page\n"+
				"is the preset's paper, the -page option or A4. \"-\" writes to stdout.",
			"draw -preset L7160 -draw-shapes sheet.svg",
			"draw -preset 5160 -draw-inset-guides -inset 2 sheet.pdf",
			"draw -size-x 50 -size-y 30 -pitch-x 52 -pitch-y 32 -count-x 3 -count-y 8 -page a4 sheet.png")
	})
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	out := fs.Arg(0)

	format, err := outputFormat(opts.Format, out)
	if err != nil {
		return err
	}
	if out == "-" && format != "svg" && isTerminal(stdout) {
		return fmt.Errorf("refusing to write %s to a terminal", strings.ToUpper(format))
	}

	log, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	pass := &sheet.Pass{Logger: log}
	spec, err := pass.ResolveSpec(cfg.Sheet)
	if err != nil {
		return err
	}
	page := layout.A4
	p, err := spec.PageDimensions()
	if err != nil {
		return err
	}
	if p != nil {
		page = *p
	}

	surface, err := newSurface(format, page, opts, cfg.Sheet.Preset)
	if err != nil {
		return err
	}
	res, err := pass.Run(surface, cfg.Sheet)
	if err != nil {
		return err
	}

	if err := writeOutput(out, surface); err != nil {
		return err
	}
	log.Info("wrote sheet",
		"path", out,
		"format", format,
		"guides", res.Edge.Len()+res.Inset.Len(),
		"shapes", len(res.Shapes))
	return nil
}

// outputFormat returns the explicit format or the one implied by the
// output file extension.
func outputFormat(format, path string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
		if path == "-" || format == "" {
			format = "svg"
		}
	}
	format = strings.ToLower(format)
	switch format {
	case "svg", "pdf", "png":
		return format, nil
	}
	return "", fmt.Errorf("unsupported output format %q (want svg, pdf or png)", format)
}

func newSurface(format string, page layout.PageSize, opts DrawOptions, title string) (outputSurface, error) {
	switch format {
	case "pdf":
		d, err := pdfsheet.New(page)
		if err != nil {
			return nil, err
		}
		d.Title = title
		d.HideGuides = opts.HideGuides
		return d, nil
	case "png":
		c, err := raster.New(page)
		if err != nil {
			return nil, err
		}
		if opts.DPI <= 0 {
			return nil, fmt.Errorf("invalid resolution %g", opts.DPI)
		}
		c.DPI = opts.DPI
		return c, nil
	default:
		d, err := svgdoc.New(page)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

// writeOutput writes w to path, or to stdout for "-".
func writeOutput(path string, w io.WriterTo) error {
	if path == "-" {
		_, err := w.WriteTo(stdout)
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if _, err := w.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return f.Close()
}
