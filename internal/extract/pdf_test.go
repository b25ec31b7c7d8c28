package extract

import (
	"bytes"
	"fmt"
	"testing"
)

// textFreePDF builds a minimal valid single-page document with no content
// stream, the shape of a scanned image-only resume. Cross-reference offsets
// are computed while writing so the fixture stays well formed.
func textFreePDF() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, 4)
	writeObj := func(n int, body string) {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, body)
	}
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	writeObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>")

	xref := buf.Len()
	buf.WriteString("xref\n0 4\n")
	buf.WriteString("0000000000 65535 f \n")
	for n := 1; n <= 3; n++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[n])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

func TestPDF_TextFreeDocumentYieldsEmptyString(t *testing.T) {
	e := PDF{}

	got, err := e.Text(textFreePDF())
	if err != nil {
		t.Fatalf("Text() error on a valid text-free document: %v", err)
	}
	if got != "" {
		t.Errorf("Text() = %q, want empty string for a document with no selectable text", got)
	}
}

func TestPDF_RejectsNonPDFData(t *testing.T) {
	e := PDF{}

	for _, data := range [][]byte{nil, []byte(""), []byte("plain text, not a pdf"), []byte("%PDF-truncated")} {
		if _, err := e.Text(data); err == nil {
			t.Errorf("Text(%q) accepted non-PDF data", data)
		}
	}
}
