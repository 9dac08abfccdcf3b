// Package report turns a game or athlete and its notes into a paginated
// document. Building is split from drawing: pure builders produce an
// ordered instruction list, and a player executes it against a Renderer
// capability. Report content is therefore unit-testable without any PDF
// library present.
package report

// Page geometry, in millimeters on A4 portrait.
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	margin       = 20.0
	topMargin    = 20.0
	contentWidth = 170.0
)

// Op is a single drawing instruction.
type Op interface{ isOp() }

// SetFont selects the active font size and weight.
type SetFont struct {
	Size float64
	Bold bool
}

// SetTextColor selects the active text color.
type SetTextColor struct{ R, G, B int }

// SetDrawColor selects the active line color.
type SetDrawColor struct{ R, G, B int }

// SetLineWidth selects the active line width.
type SetLineWidth struct{ W float64 }

// Text places a string at (X, Y), optionally centered on X.
type Text struct {
	X, Y   float64
	S      string
	Center bool
}

// Line draws a straight line between two points.
type Line struct{ X1, Y1, X2, Y2 float64 }

// AddPage starts a new page. The first page of a document is an
// explicit AddPage too, so a document's page count is the number of
// AddPage ops in its instruction list.
type AddPage struct{}

// SetPage re-selects an already emitted page (1-based) for footer
// stamping.
type SetPage struct{ N int }

func (SetFont) isOp()      {}
func (SetTextColor) isOp() {}
func (SetDrawColor) isOp() {}
func (SetLineWidth) isOp() {}
func (Text) isOp()         {}
func (Line) isOp()         {}
func (AddPage) isOp()      {}
func (SetPage) isOp()      {}

// PageCount returns the number of pages an instruction list spans.
func PageCount(ops []Op) int {
	n := 0
	for _, op := range ops {
		if _, ok := op.(AddPage); ok {
			n++
		}
	}
	return n
}

// WrapFunc reflows text to a given width into an ordered sequence of
// lines. The renderer capability supplies the real implementation;
// tests supply a deterministic fake.
type WrapFunc func(text string, width float64) []string

// builder accumulates ops and tracks the vertical cursor. Every content
// emission goes through ensure first; crossing the bottom margin is the
// only pagination rule, applied uniformly to headers, note bodies and
// separators.
type builder struct {
	ops  []Op
	y    float64
	wrap WrapFunc
}

func newBuilder(wrap WrapFunc) *builder {
	b := &builder{wrap: wrap}
	b.addPage()
	return b
}

func (b *builder) emit(op Op) { b.ops = append(b.ops, op) }

func (b *builder) addPage() {
	b.emit(AddPage{})
	b.y = topMargin
}

// ensure starts a new page when the next element of the given height
// would cross the bottom margin.
func (b *builder) ensure(needed float64) {
	if b.y+needed > pageHeight-margin {
		b.addPage()
	}
}

func (b *builder) font(size float64, bold bool)  { b.emit(SetFont{Size: size, Bold: bold}) }
func (b *builder) textColor(r, g, bl int)        { b.emit(SetTextColor{R: r, G: g, B: bl}) }
func (b *builder) drawColor(r, g, bl int)        { b.emit(SetDrawColor{R: r, G: g, B: bl}) }
func (b *builder) lineWidth(w float64)           { b.emit(SetLineWidth{W: w}) }
func (b *builder) text(x float64, s string)      { b.emit(Text{X: x, Y: b.y, S: s}) }
func (b *builder) centered(x float64, s string)  { b.emit(Text{X: x, Y: b.y, S: s, Center: true}) }
func (b *builder) hline()                        { b.emit(Line{X1: margin, Y1: b.y, X2: pageWidth - margin, Y2: b.y}) }
