// Package writer writes new PDF files.
package writer

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/georgepadayatti/labelguides/pdf/generic"
)

// PdfFileWriter creates new PDF files.
type PdfFileWriter struct {
	Version string
	Objects map[int]*generic.IndirectObject
	Root    *generic.DictionaryObject
	Info    *generic.DictionaryObject
	Pages   *generic.DictionaryObject
	FileID  []byte

	// Compress selects FlateDecode for page content streams.
	Compress bool

	nextObjNum int
	rootRef    generic.Reference
	infoRef    generic.Reference
	pagesRef   generic.Reference
	pageList   []*generic.DictionaryObject
	ocgs       generic.ArrayObject
	hidden     generic.ArrayObject
}

// NewPdfFileWriter creates a new PDF writer with an empty page tree.
func NewPdfFileWriter(version string) *PdfFileWriter {
	if version == "" {
		version = "1.7"
	}

	w := &PdfFileWriter{
		Version:    version,
		Objects:    make(map[int]*generic.IndirectObject),
		Compress:   true,
		nextObjNum: 1,
	}

	// Create pages tree
	w.Pages = generic.NewDictionary()
	w.Pages.Set("Type", generic.NameObject("Pages"))
	w.Pages.Set("Kids", generic.ArrayObject{})
	w.Pages.Set("Count", generic.IntegerObject(0))
	w.pagesRef = w.AddObject(w.Pages)

	// Create document catalog
	w.Root = generic.NewDictionary()
	w.Root.Set("Type", generic.NameObject("Catalog"))
	w.Root.Set("Pages", w.pagesRef)
	w.rootRef = w.AddObject(w.Root)

	// Create info dictionary
	w.Info = generic.NewDictionary()
	w.Info.Set("Producer", generic.NewTextString("labelguides"))
	w.infoRef = w.AddObject(w.Info)

	return w
}

// AddObject adds an object and returns its reference.
func (w *PdfFileWriter) AddObject(obj generic.PdfObject) generic.Reference {
	objNum := w.nextObjNum
	w.nextObjNum++

	w.Objects[objNum] = generic.NewIndirectObject(objNum, 0, obj)
	return generic.Reference{ObjectNumber: objNum}
}

// SetInfo sets a text entry of the document information dictionary.
func (w *PdfFileWriter) SetInfo(key, value string) {
	w.Info.Set(key, generic.NewTextString(value))
}

// SetCreationDate records t as the creation date.
func (w *PdfFileWriter) SetCreationDate(t time.Time) {
	w.Info.Set("CreationDate", generic.NewLiteralString(formatPdfDate(t)))
}

// AddOptionalContentGroup registers a layer that viewers can show or hide.
// Hidden groups start switched off.
func (w *PdfFileWriter) AddOptionalContentGroup(name string, hidden bool) generic.Reference {
	ocg := generic.NewDictionary()
	ocg.Set("Type", generic.NameObject("OCG"))
	ocg.Set("Name", generic.NewTextString(name))
	ref := w.AddObject(ocg)

	w.ocgs = append(w.ocgs, ref)
	if hidden {
		w.hidden = append(w.hidden, ref)
	}
	return ref
}

// AddPage adds a page with a single content stream. Resources may be nil.
func (w *PdfFileWriter) AddPage(mediaBox *generic.Rectangle, contents []byte, resources *generic.DictionaryObject) (generic.Reference, error) {
	if mediaBox == nil || mediaBox.Width() <= 0 || mediaBox.Height() <= 0 {
		return generic.Reference{}, fmt.Errorf("invalid media box")
	}

	page := generic.NewDictionary()
	page.Set("Type", generic.NameObject("Page"))
	page.Set("Parent", w.pagesRef)
	page.Set("MediaBox", mediaBox.ToArray())
	if resources == nil {
		resources = generic.NewDictionary()
	}
	page.Set("Resources", resources)

	if contents != nil {
		stream := generic.NewStream(nil, contents)
		if w.Compress {
			var err error
			if stream, err = generic.NewFlateStream(nil, contents); err != nil {
				return generic.Reference{}, fmt.Errorf("failed to compress page contents: %w", err)
			}
		}
		page.Set("Contents", w.AddObject(stream))
	}

	pageRef := w.AddObject(page)
	w.pageList = append(w.pageList, page)

	// Update pages tree
	kids := append(w.Pages.GetArray("Kids"), pageRef)
	w.Pages.Set("Kids", kids)
	w.Pages.Set("Count", generic.IntegerObject(len(w.pageList)))

	return pageRef, nil
}

// PageCount returns the number of pages added so far.
func (w *PdfFileWriter) PageCount() int {
	return len(w.pageList)
}

// Write writes the PDF to the given writer.
func (w *PdfFileWriter) Write(out io.Writer) error {
	if len(w.ocgs) > 0 {
		w.Root.Set("OCProperties", w.ocProperties())
	}
	if !w.Info.Has("CreationDate") {
		w.SetCreationDate(time.Now())
	}

	var buf bytes.Buffer

	// Write header
	fmt.Fprintf(&buf, "%%PDF-%s\n", w.Version)
	// Binary comment (per PDF spec)
	buf.Write([]byte{0x25, 0xE2, 0xE3, 0xCF, 0xD3, 0x0A})

	// Track object offsets for xref
	offsets := make(map[int]int64)
	for objNum := 1; objNum < w.nextObjNum; objNum++ {
		obj := w.Objects[objNum]
		if obj == nil {
			continue
		}
		offsets[objNum] = int64(buf.Len())
		if err := obj.Write(&buf); err != nil {
			return fmt.Errorf("failed to write object %d: %w", objNum, err)
		}
	}

	if w.FileID == nil {
		var date bytes.Buffer
		w.Info.Get("CreationDate").Write(&date)
		w.FileID = generic.ComputeFileID(map[string]string{
			"date":    date.String(),
			"version": w.Version,
			"pages":   fmt.Sprint(len(w.pageList)),
		})
	}

	// Write xref table
	xrefOffset := int64(buf.Len())
	fmt.Fprintf(&buf, "xref\n0 %d\n", w.nextObjNum)
	fmt.Fprintf(&buf, "0000000000 65535 f \n")
	for objNum := 1; objNum < w.nextObjNum; objNum++ {
		fmt.Fprintf(&buf, "%010d %05d n \n", offsets[objNum], 0)
	}

	// Write trailer
	trailer := generic.NewDictionary()
	trailer.Set("Size", generic.IntegerObject(w.nextObjNum))
	trailer.Set("Root", w.rootRef)
	trailer.Set("Info", w.infoRef)
	trailer.Set("ID", generic.ArrayObject{
		generic.NewHexString(w.FileID),
		generic.NewHexString(w.FileID),
	})

	fmt.Fprintf(&buf, "trailer\n")
	if err := trailer.Write(&buf); err != nil {
		return err
	}
	fmt.Fprintf(&buf, "\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	_, err := out.Write(buf.Bytes())
	return err
}

func (w *PdfFileWriter) ocProperties() *generic.DictionaryObject {
	config := generic.NewDictionary()
	config.Set("Order", w.ocgs)
	if len(w.hidden) > 0 {
		config.Set("OFF", w.hidden)
	}
	props := generic.NewDictionary()
	props.Set("OCGs", w.ocgs)
	props.Set("D", config)
	return props
}

// formatPdfDate formats a time as a PDF date string.
func formatPdfDate(t time.Time) string {
	_, offset := t.Zone()
	offsetHours := offset / 3600
	offsetMinutes := (offset % 3600) / 60

	sign := "+"
	if offset < 0 {
		sign = "-"
		offsetHours = -offsetHours
		offsetMinutes = -offsetMinutes
	}

	return fmt.Sprintf("D:%04d%02d%02d%02d%02d%02d%s%02d'%02d'",
		t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(),
		sign, offsetHours, offsetMinutes)
}
