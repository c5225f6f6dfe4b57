package engine

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
)

func TestLoad_PageGeometry(t *testing.T) {
	// WHAT: a valid single-page PDF loads with its MediaBox dimensions.
	// WHY: the overlay flips the vertical axis with the page height; a wrong
	// dimension misplaces every annotation.
	e := NewHybrid(Config{})
	doc, err := e.Load(buildTextPDF("geometry check"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.PageCount() != 1 {
		t.Fatalf("pages = %d, want 1", doc.PageCount())
	}
	dim, err := doc.PageDim(0)
	if err != nil {
		t.Fatal(err)
	}
	if dim.Width != 612 || dim.Height != 792 {
		t.Fatalf("dims = %v, want 612x792", dim)
	}
}

func TestLoad_Garbage(t *testing.T) {
	// WHAT: non-PDF input fails with ErrLoad and produces no document.
	e := NewHybrid(Config{})
	doc, err := e.Load([]byte("this is not a pdf"))
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("err = %v, want ErrLoad", err)
	}
	if doc != nil {
		t.Fatal("expected nil document on failed load")
	}
}

func TestLoad_Empty(t *testing.T) {
	e := NewHybrid(Config{})
	if _, err := e.Load(nil); !errors.Is(err, ErrLoad) {
		t.Fatalf("err = %v, want ErrLoad", err)
	}
}

func TestAppendText_RoundTrip(t *testing.T) {
	// WHAT: stamping text changes the document bytes and the result is
	// itself a loadable single-page PDF.
	e := NewHybrid(Config{})
	original := buildTextPDF("base content")
	doc, err := e.Load(original)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := e.AppendText(doc, 0, 72, 100, "added note", FontSpec{}); err != nil {
		t.Fatalf("append: %v", err)
	}

	out, err := e.Serialize(doc)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if bytes.Equal(out, original) {
		t.Fatal("edit did not change the document bytes")
	}

	reloaded, err := e.Load(out)
	if err != nil {
		t.Fatalf("reload after edit: %v", err)
	}
	if reloaded.PageCount() != 1 {
		t.Fatalf("pages after edit = %d, want 1", reloaded.PageCount())
	}
}

func TestAppendText_PageOutOfRange(t *testing.T) {
	// WHAT: a bad page index fails with ErrEdit and leaves the bytes alone.
	e := NewHybrid(Config{})
	original := buildTextPDF("x")
	doc, err := e.Load(original)
	if err != nil {
		t.Fatal(err)
	}

	if err := e.AppendText(doc, 1, 10, 10, "nope", FontSpec{}); !errors.Is(err, ErrEdit) {
		t.Fatalf("err = %v, want ErrEdit", err)
	}
	out, err := e.Serialize(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, original) {
		t.Fatal("failed edit mutated the document")
	}
}

func TestSerialize_UntouchedDocument(t *testing.T) {
	// WHAT: serializing without edits returns the loaded bytes, as an
	// independent copy.
	e := NewHybrid(Config{})
	original := buildTextPDF("untouched")
	doc, err := e.Load(original)
	if err != nil {
		t.Fatal(err)
	}

	out, err := e.Serialize(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, original) {
		t.Fatal("untouched serialize differs from the loaded bytes")
	}

	out[0] = 'X'
	again, err := e.Serialize(doc)
	if err != nil {
		t.Fatal(err)
	}
	if again[0] == 'X' {
		t.Fatal("serialize must return a copy, not the internal buffer")
	}
}

func TestSerialize_NoDocument(t *testing.T) {
	e := NewHybrid(Config{})
	if _, err := e.Serialize(nil); !errors.Is(err, ErrSerialize) {
		t.Fatalf("err = %v, want ErrSerialize", err)
	}
}

func TestRender_ScalesWithZoom(t *testing.T) {
	// WHAT: the rendered bitmap's pixel size tracks the zoom factor
	// (zoom 1.0 = 72 dpi, so a 612x792pt page yields a 612x792px bitmap).
	e := NewHybrid(Config{})
	doc, err := e.Load(buildTextPDF("render me"))
	if err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct {
		zoom       float64
		wantW, wantH int
	}{
		{1.0, 612, 792},
		{2.0, 1224, 1584},
		{0.5, 306, 396},
	} {
		img, err := e.Render(doc, 0, tc.zoom)
		if err != nil {
			t.Fatalf("render at %v: %v", tc.zoom, err)
		}
		w, h := img.Bounds().Dx(), img.Bounds().Dy()
		if abs(w-tc.wantW) > 1 || abs(h-tc.wantH) > 1 {
			t.Fatalf("at zoom %v got %dx%d, want ~%dx%d", tc.zoom, w, h, tc.wantW, tc.wantH)
		}
	}
}

func TestRender_Invalid(t *testing.T) {
	e := NewHybrid(Config{})
	doc, err := e.Load(buildTextPDF("x"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := e.Render(doc, 1, 1.0); !errors.Is(err, ErrRender) {
		t.Fatalf("bad page: err = %v, want ErrRender", err)
	}
	if _, err := e.Render(doc, 0, 0); !errors.Is(err, ErrRender) {
		t.Fatalf("zero zoom: err = %v, want ErrRender", err)
	}
	if _, err := e.Render(nil, 0, 1.0); !errors.Is(err, ErrRender) {
		t.Fatalf("nil doc: err = %v, want ErrRender", err)
	}
}

func TestFontSpec_Defaults(t *testing.T) {
	// WHAT: a zero FontSpec resolves to Helvetica 12.
	f := FontSpec{}.withDefaults()
	if f.Name != "Helvetica" || f.Size != 12 {
		t.Fatalf("defaults = %+v", f)
	}
	f = FontSpec{Name: "Courier", Size: 9}.withDefaults()
	if f.Name != "Courier" || f.Size != 9 {
		t.Fatalf("explicit spec overridden: %+v", f)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// buildTextPDF assembles a minimal valid single-page PDF (612x792 MediaBox,
// one text stream, Helvetica) with correct xref offsets.
func buildTextPDF(text string) []byte {
	escaped := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(text)
	stream := "BT\n/F1 12 Tf\n72 720 Td\n(" + escaped + ") Tj\nET"

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	offsets := make([]int, 6)

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")

	offsets[3] = b.Len()
	b.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>\nendobj\n")

	offsets[4] = b.Len()
	fmt.Fprintf(&b, "4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream)

	offsets[5] = b.Len()
	b.WriteString("5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	xrefOffset := b.Len()
	b.WriteString("xref\n0 6\n")
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	b.WriteString("trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n")
	b.WriteString(strconv.Itoa(xrefOffset))
	b.WriteString("\n%%EOF\n")

	return []byte(b.String())
}
