// Command labelguides draws the guides and label outlines of label sheets.
//
// Usage:
//
//	labelguides <command> [options] <args>
//
// Commands:
//
//	draw     Draw a new label sheet (SVG, PDF or PNG)
//	apply    Add guides and label outlines to an existing SVG
//	presets  List the label sheet presets
//	ingest   Build presets from vendor template pages
//	version  Show version information
//	help     Show help message
//
// Examples:
//
//	# Draw the outlines of an Avery L7160 sheet as a PDF
//	labelguides draw -preset L7160 -draw-shapes sheet.pdf
//
//	# Add inset guides to an existing drawing
//	labelguides apply -preset 5160 -draw-inset-guides -inset 2 drawing.svg
//
//	# Show one preset
//	labelguides presets -v L7160
package main

import (
	"os"

	"github.com/georgepadayatti/labelguides/cli"
)

// These variables are set at build time using ldflags:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/labelguides
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Set version info
	cli.Version = version
	cli.BuildTime = buildTime

	// Run the CLI
	cli.Run(os.Args)
}
