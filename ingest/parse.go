package ingest

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// Common errors
var (
	ErrNoTemplateTable = errors.New("no template table")
	ErrMissingCell     = errors.New("missing cell")
	ErrInvalidCell     = errors.New("invalid cell")
)

var (
	sizePartRE = regexp.MustCompile(`[\d.,]+`)
	vendorRE   = regexp.MustCompile(`LP\S+`)
	averyRE    = regexp.MustCompile(`Avery ([A-Z\d]+)`)
)

// Skipped is a list row that could not be turned into a record.
type Skipped struct {
	Row    int
	Reason string
}

// ListResult holds the records of a template list page.
type ListResult struct {
	Records []Record
	Skipped []Skipped
}

// ParseTemplateList reads the product rows of a vendor template list page.
// Every record gets the given shape token. Rows describing sizes the grid
// cannot express are skipped and reported in the result.
func ParseTemplateList(r io.Reader, shape string) (*ListResult, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse list page: %w", err)
	}
	tables := findAll(doc, isTemplateTable)
	if len(tables) == 0 {
		return nil, ErrNoTemplateTable
	}

	res := &ListResult{}
	row := 0
	for _, table := range tables {
		for _, tr := range rows(table) {
			if tr.Parent == nil || tr.Parent.DataAtom != atom.Tbody {
				continue
			}
			cells := elementChildren(tr)
			// product rows have 3 cells
			if len(cells) != 3 {
				continue
			}
			row++
			rec, reason := recordFromRow(tr, cells)
			if reason != "" {
				res.Skipped = append(res.Skipped, Skipped{Row: row, Reason: reason})
				continue
			}
			rec.Shape = shape
			res.Records = append(res.Records, rec)
		}
	}
	return res, nil
}

func recordFromRow(tr *html.Node, cells []*html.Node) (Record, string) {
	perSheet, err := strconv.Atoi(text(cells[0]))
	if err != nil {
		return Record{}, fmt.Sprintf("labels per sheet %q is not a number", text(cells[0]))
	}

	size := text(cells[1])
	if strings.Contains(size, "/") {
		return Record{}, fmt.Sprintf("unsupported label size %q", size)
	}
	parts := sizePartRE.FindAllString(size, -1)
	if len(parts) == 0 {
		return Record{}, fmt.Sprintf("no label size in %q", size)
	}

	codes := text(cells[2])
	vendor := vendorRE.FindString(codes)
	if vendor == "" {
		return Record{}, fmt.Sprintf("no product code in %q", codes)
	}
	var avery string
	if m := averyRE.FindStringSubmatch(codes); m != nil {
		avery = m[1]
	}

	var link string
	if a := findFirst(tr, isElement(atom.A)); a != nil {
		link = attr(a, "href")
	}
	if link == "" {
		return Record{}, fmt.Sprintf("no template link for %s", vendor)
	}

	return Record{
		Size:       parts,
		AveryCode:  avery,
		VendorCode: vendor,
		PerSheet:   perSheet,
		Link:       link,
	}, ""
}

// Layout is the grid of a product page, as printed there. Lengths are
// millimetres with the unit suffix removed.
type Layout struct {
	SizeX, SizeY     string
	CountX, CountY   int
	MarginT, MarginL string
	PitchX, PitchY   string
}

// Page is a parsed product template page.
type Page struct {
	Description string
	Layout      Layout
}

// layoutCell locates a value in the product template table by 1-based
// column and row.
type layoutCell struct {
	x, y  int
	field string
}

var layoutCells = []layoutCell{
	{2, 3, "size_x"},
	{3, 3, "size_y"},
	{4, 3, "count_x"},
	{5, 3, "count_y"},
	{1, 5, "margin_t"},
	{3, 5, "margin_l"},
	{2, 7, "pitch_x"},
	{1, 7, "pitch_y"},
}

// ParseTemplatePage reads the description and grid layout of a product
// template page.
//
// Some pages omit the <tr> of the third table row. The HTML parser
// restores the row, so cells are addressed by row and column as on a
// well formed page.
func ParseTemplatePage(r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template page: %w", err)
	}
	table := findFirst(doc, isTemplateTable)
	if table == nil {
		return nil, ErrNoTemplateTable
	}

	trs := rows(table)
	page := &Page{Description: description(doc)}
	l := &page.Layout
	for _, c := range layoutCells {
		if c.y > len(trs) {
			return nil, fmt.Errorf("%w: row %d of %d", ErrMissingCell, c.y, len(trs))
		}
		cells := elementChildren(trs[c.y-1])
		if c.x > len(cells) {
			return nil, fmt.Errorf("%w: column %d of row %d", ErrMissingCell, c.x, c.y)
		}
		txt := text(cells[c.x-1])
		switch c.field {
		case "size_x":
			l.SizeX, err = dimension(txt)
		case "size_y":
			l.SizeY, err = dimension(txt)
		case "count_x":
			l.CountX, err = count(txt)
		case "count_y":
			l.CountY, err = count(txt)
		case "margin_t":
			l.MarginT, err = dimension(txt)
		case "margin_l":
			l.MarginL, err = dimension(txt)
		case "pitch_x":
			l.PitchX, err = dimension(txt)
		case "pitch_y":
			l.PitchY, err = dimension(txt)
		}
		if err != nil {
			return nil, fmt.Errorf("%s (column %d, row %d): %w", c.field, c.x, c.y, err)
		}
	}
	return page, nil
}

// description returns the text before the dash of the first note below the
// "Notes" heading, or "" when the page has none.
func description(doc *html.Node) string {
	strong := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Strong &&
			n.Parent != nil && n.Parent.DataAtom == atom.Td &&
			strings.HasPrefix(text(n), "Notes")
	})
	if strong == nil {
		return ""
	}
	tr := strong.Parent.Parent
	if tr == nil {
		return ""
	}
	next := nextElement(tr)
	if next == nil || next.DataAtom != atom.Tr {
		return ""
	}
	li := findFirst(next, isElement(atom.Li))
	if li == nil {
		return ""
	}
	parts := strings.Split(text(li), "–")
	if len(parts) > 1 {
		return strings.TrimSpace(parts[0])
	}
	return ""
}

func dimension(txt string) (string, error) {
	txt = strings.ReplaceAll(txt, "mm", "")
	txt = strings.ReplaceAll(txt, "(diameter)", "")
	txt = strings.TrimSpace(txt)
	if _, err := strconv.ParseFloat(txt, 64); err != nil {
		return "", fmt.Errorf("%w: %q is not a length", ErrInvalidCell, txt)
	}
	return txt, nil
}

func count(txt string) (int, error) {
	n, err := strconv.Atoi(txt)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q is not a count", ErrInvalidCell, txt)
	}
	return n, nil
}

// text returns the NFKC normalised text content of n with runs of
// whitespace collapsed to single spaces.
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(norm.NFKC.String(b.String())), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func isElement(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == a
	}
}

func isTemplateTable(n *html.Node) bool {
	return n.Type == html.ElementNode && hasClass(n, "templatetable")
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// rows returns the rows of table in document order, leaving out rows of
// nested tables.
func rows(table *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Table:
				continue
			case atom.Tr:
				out = append(out, c)
			default:
				walk(c)
			}
		}
	}
	walk(table)
	return out
}

func elementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func nextElement(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}
