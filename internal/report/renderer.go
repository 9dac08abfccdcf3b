package report

// Renderer is the external page-rendering capability the report engine
// drives. It can place text and lines on a fixed-size page, wrap text,
// paginate, and hand back the finished document.
type Renderer interface {
	SetFont(size float64, bold bool)
	SetTextColor(r, g, b int)
	SetDrawColor(r, g, b int)
	SetLineWidth(w float64)
	// Text places s with its baseline at (x, y); when center is true, x
	// is the horizontal midpoint.
	Text(x, y float64, s string, center bool)
	// SplitText wraps s to the given width into an ordered sequence of
	// lines, using the active font.
	SplitText(s string, width float64) []string
	Line(x1, y1, x2, y2 float64)
	AddPage()
	PageCount() int
	// SetPage re-selects page n (1-based) for footer stamping.
	SetPage(n int)
	// Output returns the finished document bytes.
	Output() ([]byte, error)
}

// Play executes an instruction list against a renderer, in order.
func Play(ops []Op, r Renderer) {
	for _, op := range ops {
		switch o := op.(type) {
		case SetFont:
			r.SetFont(o.Size, o.Bold)
		case SetTextColor:
			r.SetTextColor(o.R, o.G, o.B)
		case SetDrawColor:
			r.SetDrawColor(o.R, o.G, o.B)
		case SetLineWidth:
			r.SetLineWidth(o.W)
		case Text:
			r.Text(o.X, o.Y, o.S, o.Center)
		case Line:
			r.Line(o.X1, o.Y1, o.X2, o.Y2)
		case AddPage:
			r.AddPage()
		case SetPage:
			r.SetPage(o.N)
		}
	}
}
