package cli

import (
	"flag"

	"github.com/georgepadayatti/labelguides/sheet"
	"github.com/georgepadayatti/labelguides/svgdoc"
)

// ApplyCommand implements the 'apply' command.
func ApplyCommand(args []string) {
	fail(apply(args[2:]))
}

func apply(args []string) error {
	cfg, fs, err := parseSheetArgs("apply", args, func(*flag.FlagSet) {}, func(fs *flag.FlagSet) {
		printUsage(fs, "apply [options] <input.svg> [output.svg|-]",
			"Add guides and label outlines to an existing Inkscape SVG document.\n"+
				"Without an output file the input is rewritten in place.",
			"apply -preset L7160 drawing.svg",
			"apply -preset 5160 -resize-page -delete-existing-guides drawing.svg out.svg")
	})
	if err != nil {
		return err
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return errUsage
	}
	in := fs.Arg(0)
	out := in
	if fs.NArg() == 2 {
		out = fs.Arg(1)
	}

	log, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	doc, err := svgdoc.Open(in)
	if err != nil {
		return err
	}
	pass := &sheet.Pass{Logger: log}
	res, err := pass.Run(doc, cfg.Sheet)
	if err != nil {
		return err
	}
	if out == "-" {
		if _, err := doc.WriteTo(stdout); err != nil {
			return err
		}
	} else if err := doc.Save(out); err != nil {
		return err
	}
	log.Info("updated document",
		"input", in,
		"output", out,
		"guides", len(doc.Guides()),
		"shapes", len(res.Shapes))
	return nil
}
