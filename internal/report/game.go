package report

import (
	"fmt"
	"time"

	"github.com/coachtools/tacticalhub/internal/annotation"
	"github.com/coachtools/tacticalhub/internal/models"
	"github.com/coachtools/tacticalhub/internal/taxonomy"
)

// videoLinkMax is how much of a video URL the note marker shows.
const videoLinkMax = 40

// BuildGameReport computes the full instruction list for a game report:
// title block, profile summary, then every occupied category group in
// first-encounter order with its notes sorted by minute, and finally a
// footer pass stamping every page once the total is known.
func BuildGameReport(g models.Game, now time.Time, wrap WrapFunc) []Op {
	b := newBuilder(wrap)

	// Title block.
	b.font(24, true)
	b.textColor(0, 255, 136)
	b.centered(pageWidth/2, "ANÁLISE TÁTICA")

	b.y += 12
	b.font(16, true)
	b.textColor(0, 0, 0)
	name := g.Name
	if name == "" {
		name = "Jogo sem nome"
	}
	b.centered(pageWidth/2, name)

	b.y += 8
	b.font(12, true)
	b.textColor(100, 100, 100)
	date := g.Date
	if date == "" {
		date = now.Format("02/01/2006")
	}
	b.centered(pageWidth/2, date)

	b.y += 8
	b.drawColor(0, 255, 136)
	b.lineWidth(0.5)
	b.hline()
	b.y += 10

	buildProfileBlock(b, g.Profile)

	for _, group := range annotation.GroupedByCategory(g) {
		buildGroup(b, group)
	}

	buildFooters(b, now)
	return b.ops
}

// profileFields is the fixed render order of the profile summary block.
// Only non-empty fields are emitted, one per line.
func profileFields(p models.GameProfile) [][2]string {
	return [][2]string{
		{"Equipa", p.TeamName},
		{"Treinador", p.CoachName},
		{"Adversário", p.OpponentName},
		{"Competição", p.CompetitionName},
		{"Local", p.GameLocation},
		{"Formação", p.Formation},
	}
}

func buildProfileBlock(b *builder, p models.GameProfile) {
	fields := profileFields(p)
	any := false
	for _, f := range fields {
		if f[1] != "" {
			any = true
			break
		}
	}
	if !any {
		return
	}

	b.ensure(20)
	b.font(14, true)
	b.textColor(0, 0, 0)
	b.text(margin, "INFORMAÇÕES")
	b.y += 7

	b.font(11, false)
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		b.text(margin, fmt.Sprintf("%s: %s", f[0], f[1]))
		b.y += 6
	}
	b.y += 5
}

func buildGroup(b *builder, group annotation.Group) {
	b.ensure(30)

	b.font(14, true)
	b.textColor(0, 255, 136)
	b.text(margin, taxonomy.CategoryLabel(group.Category))
	b.y += 7

	b.font(12, true)
	b.textColor(0, 0, 0)
	b.text(margin, taxonomy.SubcategoryLabel(group.Subcategory))
	b.y += 8

	for _, n := range annotation.SortedByMinute(group.Notes) {
		buildNote(b, n)
	}
	b.y += 5
}

func buildNote(b *builder, n models.Note) {
	b.ensure(25)

	b.font(10, true)
	b.textColor(0, 0, 0)
	b.text(margin+5, fmt.Sprintf("%d'", n.Minute))
	b.y += 6

	b.font(10, false)
	if n.Text != "" {
		for _, line := range b.wrap(n.Text, contentWidth) {
			b.ensure(20)
			b.text(margin+5, line)
			b.y += 5
		}
	}

	if n.Image != "" {
		b.textColor(100, 100, 100)
		b.font(9, false)
		b.text(margin+5, "Imagem anexada")
		b.y += 5
	}
	if n.VideoLink != "" {
		b.textColor(100, 100, 100)
		b.font(9, false)
		link := n.VideoLink
		if len(link) > videoLinkMax {
			link = link[:videoLinkMax]
		}
		b.text(margin+5, fmt.Sprintf("Vídeo: %s...", link))
		b.y += 5
	}

	b.y += 3
	b.drawColor(200, 200, 200)
	b.lineWidth(0.1)
	b.hline()
	b.y += 5
}

// buildFooters stamps every emitted page with the generation date and
// "page i/total". It runs last, once the final page count is known.
func buildFooters(b *builder, now time.Time) {
	total := PageCount(b.ops)
	b.font(9, false)
	b.textColor(150, 150, 150)
	for i := 1; i <= total; i++ {
		b.emit(SetPage{N: i})
		b.emit(Text{
			X:      pageWidth / 2,
			Y:      pageHeight - 10,
			S:      fmt.Sprintf("Gerado em: %s - Página %d/%d", now.Format("02/01/2006"), i, total),
			Center: true,
		})
		b.emit(Text{
			X:      pageWidth / 2,
			Y:      pageHeight - 5,
			S:      "Análise Tática Hub PRO v2.0",
			Center: true,
		})
	}
}
