package ingest

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/georgepadayatti/labelguides/catalog"
)

// DefaultBaseURL is the vendor template directory.
const DefaultBaseURL = "https://www.labelplanet.co.uk/label-templates/"

// Scraper collects records of one template kind: the list page first, then
// the template page of every product on it.
type Scraper struct {
	Fetcher *Fetcher
	// BaseURL is the directory holding the list pages. Empty uses
	// DefaultBaseURL.
	BaseURL string
	Logger  *slog.Logger
}

// Result is the outcome of a scrape. Records hold a layout; products that
// could not be read are listed in Skipped.
type Result struct {
	Kind    Kind
	Records []Record
	Skipped []Skipped
}

// ListURL returns the URL of the list page of a kind.
func (s *Scraper) ListURL(k Kind) string {
	base := s.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return base + k.Page + ".php"
}

func (s *Scraper) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Scrape fetches and parses the list page of k and every template page it
// links to. A failing template page skips that product; a failing list
// page fails the scrape.
func (s *Scraper) Scrape(ctx context.Context, k Kind) (*Result, error) {
	log := s.logger()
	f := s.Fetcher
	if f == nil {
		f = NewFetcher(nil)
	}

	listURL := s.ListURL(k)
	base, err := url.Parse(listURL)
	if err != nil {
		return nil, fmt.Errorf("invalid list URL: %w", err)
	}
	log.Info("fetching template list", "kind", k.Token, "url", listURL)
	data, err := f.Fetch(ctx, listURL)
	if err != nil {
		return nil, err
	}
	list, err := ParseTemplateList(bytes.NewReader(data), k.Shape)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", listURL, err)
	}
	for _, sk := range list.Skipped {
		log.Warn("skipping list row", "row", sk.Row, "reason", sk.Reason)
	}

	res := &Result{Kind: k, Skipped: list.Skipped}
	for i, rec := range list.Records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		link, err := base.Parse(rec.Link)
		if err != nil {
			res.Skipped = append(res.Skipped, Skipped{Row: i + 1, Reason: fmt.Sprintf("%s: bad link %q", rec.VendorCode, rec.Link)})
			continue
		}
		rec.Link = link.String()

		log.Debug("scraping template", "code", rec.VendorCode, "url", rec.Link)
		page, err := f.Fetch(ctx, rec.Link)
		if err == nil {
			var p *Page
			p, err = ParseTemplatePage(bytes.NewReader(page))
			if err == nil {
				rec.Description = p.Description
				rec.Layout = &p.Layout
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn("skipping template", "code", rec.VendorCode, "error", err)
			res.Skipped = append(res.Skipped, Skipped{Row: i + 1, Reason: fmt.Sprintf("%s: %v", rec.VendorCode, err)})
			continue
		}
		res.Records = append(res.Records, rec)
	}
	log.Info("scrape finished", "kind", k.Token, "records", len(res.Records), "skipped", len(res.Skipped))
	return res, nil
}

// Presets converts the scraped records to catalog presets. Records whose
// layout does not form a valid grid are logged and left out.
func (r *Result) Presets(log *slog.Logger) []catalog.Preset {
	if log == nil {
		log = slog.Default()
	}
	out := make([]catalog.Preset, 0, len(r.Records))
	seen := make(map[string]bool, len(r.Records))
	for _, rec := range r.Records {
		p, err := rec.Preset()
		if err != nil {
			log.Warn("dropping record", "code", rec.VendorCode, "error", err)
			continue
		}
		if seen[p.ID] {
			log.Warn("dropping duplicate preset", "id", p.ID, "code", rec.VendorCode)
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}
