package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/georgepadayatti/labelguides/catalog"
)

func vendorServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/label-templates/rectangular-rounded-corners.php", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listPage))
	})
	mux.HandleFunc("/label-templates/lp21-63.php", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(templatePage))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testScraper(server *httptest.Server) *Scraper {
	config := DefaultConfig()
	config.RetryDelay = time.Millisecond
	config.MaxRetries = 1
	config.Logger = quietLogger()
	return &Scraper{
		Fetcher: NewFetcher(config),
		BaseURL: server.URL + "/label-templates/",
		Logger:  quietLogger(),
	}
}

func TestScraperListURL(t *testing.T) {
	k, _ := ParseKind("circ")
	s := &Scraper{}
	if got := s.ListURL(k); got != DefaultBaseURL+"round.php" {
		t.Errorf("ListURL = %q", got)
	}
}

func TestScrape(t *testing.T) {
	server := vendorServer(t)
	k, err := ParseKind("rrect")
	if err != nil {
		t.Fatal(err)
	}

	res, err := testScraper(server).Scrape(context.Background(), k)
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
	rec := res.Records[0]
	if rec.Link != server.URL+"/label-templates/lp21-63.php" {
		t.Errorf("link not resolved: %s", rec.Link)
	}
	if rec.Description != "Address Labels" || rec.Layout == nil || rec.Layout.CountY != 7 {
		t.Errorf("template page not applied: %+v", rec)
	}

	// 3 list rows plus the template page that does not exist
	if len(res.Skipped) != 4 {
		t.Fatalf("expected 4 skipped, got %+v", res.Skipped)
	}
	if last := res.Skipped[3].Reason; !strings.Contains(last, "LP65/38") || !strings.Contains(last, "404") {
		t.Errorf("unexpected skip reason %q", last)
	}
}

func TestScrapeListFailure(t *testing.T) {
	server := vendorServer(t)
	k, _ := ParseKind("oval")
	if _, err := testScraper(server).Scrape(context.Background(), k); err == nil {
		t.Fatal("expected an error for a missing list page")
	}
}

func TestScrapeCanceled(t *testing.T) {
	server := vendorServer(t)
	k, _ := ParseKind("rrect")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := testScraper(server).Scrape(ctx, k); err == nil {
		t.Fatal("expected an error for a canceled context")
	}
}

func TestResultPresetsRoundTrip(t *testing.T) {
	server := vendorServer(t)
	k, _ := ParseKind("rrect")
	res, err := testScraper(server).Scrape(context.Background(), k)
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}

	broken := res.Records[0]
	broken.AveryCode = ""
	broken.Layout = &Layout{SizeX: "10", SizeY: "10", PitchX: "5", PitchY: "5", MarginT: "0", MarginL: "0"}
	res.Records = append(res.Records, broken, res.Records[0])

	presets := res.Presets(quietLogger())
	if len(presets) != 1 {
		t.Fatalf("expected 1 preset, got %d", len(presets))
	}

	data, err := catalog.Marshal(presets)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	cat, err := catalog.Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v\n%s", err, data)
	}
	spec, err := cat.Resolve("L7160")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if spec.Pitch.X != 66.04 || spec.Count.X != 3 || spec.Page.Name != "a4" {
		t.Errorf("unexpected spec %+v", spec)
	}
}
