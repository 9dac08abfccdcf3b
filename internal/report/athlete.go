package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/coachtools/tacticalhub/internal/annotation"
	"github.com/coachtools/tacticalhub/internal/models"
)

// BuildAthleteReport computes the instruction list for a single
// athlete's notes: title, name, metadata line, divider, then the flat
// note sequence sorted by minute. Athlete notes carry no category
// grouping.
func BuildAthleteReport(a models.Athlete, now time.Time, wrap WrapFunc) []Op {
	b := newBuilder(wrap)

	b.font(20, true)
	b.textColor(0, 255, 136)
	b.centered(pageWidth/2, "NOTAS DA ATLETA")

	b.y += 12
	b.font(14, true)
	b.textColor(0, 0, 0)
	b.centered(pageWidth/2, a.Name)

	b.y += 6
	b.font(10, true)
	b.textColor(120, 120, 120)
	if meta := athleteMeta(a); meta != "" {
		b.centered(pageWidth/2, meta)
		b.y += 8
	} else {
		b.y += 4
	}

	b.drawColor(0, 255, 136)
	b.lineWidth(0.5)
	b.hline()
	b.y += 8

	for _, n := range annotation.SortedAthleteNotes(a.Notes) {
		b.ensure(20)

		b.font(11, true)
		b.textColor(0, 0, 0)
		b.text(margin, fmt.Sprintf("%d'", n.Minute))

		b.font(11, false)
		b.y += 6
		for _, line := range b.wrap(n.Text, contentWidth) {
			b.ensure(20)
			b.text(margin, line)
			b.y += 5
		}

		b.y += 3
		b.drawColor(220, 220, 220)
		b.hline()
		b.y += 6
	}

	return b.ops
}

// athleteMeta joins the optional position and number into one line,
// dropping empty fields.
func athleteMeta(a models.Athlete) string {
	var parts []string
	if a.Position != "" {
		parts = append(parts, fmt.Sprintf("Posição: %s", a.Position))
	}
	if a.Number != "" {
		parts = append(parts, fmt.Sprintf("Número: #%s", a.Number))
	}
	return strings.Join(parts, " | ")
}
