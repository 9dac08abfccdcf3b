package report

import (
	"bytes"

	"github.com/go-pdf/fpdf"
)

// PDF implements Renderer on top of go-pdf/fpdf, A4 portrait in
// millimeters. Automatic page breaks are disabled: pagination is the
// builder's job, and the only page breaks are its explicit AddPage ops.
type PDF struct {
	f  *fpdf.Fpdf
	tr func(string) string
}

// NewPDF creates a fresh PDF renderer for one export run.
func NewPDF() Renderer {
	f := fpdf.New("P", "mm", "A4", "")
	f.SetAutoPageBreak(false, 0)
	// Core fonts are cp1252; translate so Portuguese labels survive.
	tr := f.UnicodeTranslatorFromDescriptor("")
	return &PDF{f: f, tr: tr}
}

// SetFont selects Helvetica at the given size, optionally bold.
func (p *PDF) SetFont(size float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	p.f.SetFont("Helvetica", style, size)
}

func (p *PDF) SetTextColor(r, g, b int) { p.f.SetTextColor(r, g, b) }
func (p *PDF) SetDrawColor(r, g, b int) { p.f.SetDrawColor(r, g, b) }
func (p *PDF) SetLineWidth(w float64)   { p.f.SetLineWidth(w) }

// Text places s with its baseline at (x, y).
func (p *PDF) Text(x, y float64, s string, center bool) {
	s = p.tr(s)
	if center {
		x -= p.f.GetStringWidth(s) / 2
	}
	p.f.Text(x, y, s)
}

// SplitText wraps s to width using the active font metrics.
func (p *PDF) SplitText(s string, width float64) []string {
	return p.f.SplitText(s, width)
}

func (p *PDF) Line(x1, y1, x2, y2 float64) { p.f.Line(x1, y1, x2, y2) }
func (p *PDF) AddPage()                    { p.f.AddPage() }
func (p *PDF) PageCount() int              { return p.f.PageCount() }
func (p *PDF) SetPage(n int)               { p.f.SetPage(n) }

// Output closes the document and returns its bytes.
func (p *PDF) Output() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.f.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
