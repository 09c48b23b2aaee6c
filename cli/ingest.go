package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/georgepadayatti/labelguides/catalog"
	"github.com/georgepadayatti/labelguides/config"
	"github.com/georgepadayatti/labelguides/ingest"
)

// IngestOptions contains options for the ingest command.
type IngestOptions struct {
	Type     string
	CacheDir string
	BaseURL  string
	Timeout  time.Duration
	Retries  int
	Menu     bool
	YAML     bool
}

// IngestCommand implements the 'ingest' command.
func IngestCommand(args []string) {
	fail(ingestTemplates(args[2:]))
}

func ingestTemplates(args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var common commonFlags
	var opts IngestOptions
	common.register(fs)
	fs.StringVar(&opts.Type, "type", "", "Template kind: circ, oval, rect, rrect or square")
	fs.StringVar(&opts.CacheDir, "cache", "", "Directory caching downloaded pages")
	fs.StringVar(&opts.BaseURL, "base-url", ingest.DefaultBaseURL, "Directory of the vendor template lists")
	fs.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "Timeout of each request")
	fs.IntVar(&opts.Retries, "retries", 3, "Retries of a failed request")
	fs.BoolVar(&opts.Menu, "menu", false, "Print one menu line per template")
	fs.BoolVar(&opts.YAML, "yaml", false, "Print a YAML preset document (default unless -menu)")
	fs.Usage = func() {
		printUsage(fs, "ingest -type <kind> [options]",
			"Read the vendor template list of one kind and every template page it\n"+
				"links to, and print the layouts as presets.",
			"ingest -type rrect -cache ~/.cache/labelguides > rrect.yaml",
			"ingest -type circ -menu")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if opts.Type == "" || fs.NArg() > 0 {
		fs.Usage()
		return errUsage
	}
	kind, err := ingest.ParseKind(opts.Type)
	if err != nil {
		return err
	}

	cfg := config.DefaultAppConfig()
	if common.ConfigPath != "" {
		if cfg, err = config.LoadAppConfig(common.ConfigPath); err != nil {
			return err
		}
	}
	if common.Verbose {
		cfg.Logging.Level = "debug"
	}
	log, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	fc := ingest.DefaultConfig()
	fc.Timeout = opts.Timeout
	fc.MaxRetries = opts.Retries
	fc.CacheDir = opts.CacheDir
	fc.Logger = log
	if Version != "dev" {
		fc.UserAgent = "labelguides-ingest/" + Version
	}
	scraper := &ingest.Scraper{
		Fetcher: ingest.NewFetcher(fc),
		BaseURL: opts.BaseURL,
		Logger:  log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := scraper.Scrape(ctx, kind)
	if err != nil {
		return err
	}

	if opts.Menu {
		for _, rec := range res.Records {
			fmt.Fprintln(stdout, rec.MenuEntry())
		}
	}
	if opts.YAML || !opts.Menu {
		data, err := catalog.Marshal(res.Presets(log))
		if err != nil {
			return err
		}
		if _, err := stdout.Write(data); err != nil {
			return err
		}
	}
	if len(res.Skipped) > 0 {
		log.Warn("some templates were skipped", "count", len(res.Skipped))
	}
	return nil
}
