package extract

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	pageTop     = 770
	lineSpacing = 16
)

// BuildPDF writes a minimal text-only PDF with one page per entry and one text
// line per string. Text is encoded as WinAnsi, so Latin accents survive.
func BuildPDF(pages ...[]string) []byte {
	return writePDF(pages, "")
}

// writePDF renders the document. trailerExtra is appended to the trailer dictionary.
func writePDF(pages [][]string, trailerExtra string) []byte {
	if len(pages) == 0 {
		pages = [][]string{{}}
	}
	var buf bytes.Buffer
	offsets := []int{}
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	for i, lines := range pages {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))

		var content bytes.Buffer
		content.WriteString("BT\n/F1 12 Tf\n")
		fmt.Fprintf(&content, "72 %d Td\n", pageTop)
		for j, line := range lines {
			if j > 0 {
				fmt.Fprintf(&content, "0 -%d Td\n", lineSpacing)
			}
			encoded, err := enc.String(line)
			if err != nil {
				encoded = line
			}
			fmt.Fprintf(&content, "(%s) Tj\n", escapePDFString(encoded))
		}
		content.WriteString("ET")
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R %s>>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, trailerExtra, xref)
	return buf.Bytes()
}

func escapePDFString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`, "\r", `\r`, "\n", `\n`).Replace(s)
}
