package report

import (
	"fmt"
	"time"

	"github.com/coachtools/tacticalhub/internal/apperr"
	"github.com/coachtools/tacticalhub/internal/models"
)

// RendererFactory builds a fresh renderer per export run. A nil factory
// (or one returning nil) models the rendering capability being absent.
type RendererFactory func() Renderer

// Artifact is a finished report handed to the user; it is never
// persisted by this system.
type Artifact struct {
	FileName string
	Data     []byte
}

// Exporter runs report exports end to end: availability and emptiness
// checks, instruction building, playback, and filename policy.
type Exporter struct {
	factory RendererFactory
	now     func() time.Time
}

// NewExporter creates an exporter around a renderer factory.
func NewExporter(factory RendererFactory) *Exporter {
	return &Exporter{factory: factory, now: time.Now}
}

// ExportGame produces the paginated report for a game. Zero notes or a
// missing rendering capability abort before anything is built; both are
// user-visible conditions, not faults.
func (e *Exporter) ExportGame(g models.Game) (*Artifact, error) {
	r, err := e.renderer()
	if err != nil {
		return nil, err
	}
	if len(g.Notes) == 0 {
		return nil, fmt.Errorf("%w: game %q has no notes", apperr.ErrEmptyExport, g.Name)
	}

	now := e.now()
	Play(BuildGameReport(g, now, r.SplitText), r)

	data, err := r.Output()
	if err != nil {
		return nil, fmt.Errorf("report: render game %q: %w", g.Name, err)
	}
	return &Artifact{
		FileName: GameReportFileName(g.Name, now),
		Data:     data,
	}, nil
}

// ExportAthlete produces the flat note report for one athlete.
func (e *Exporter) ExportAthlete(a models.Athlete) (*Artifact, error) {
	r, err := e.renderer()
	if err != nil {
		return nil, err
	}
	if len(a.Notes) == 0 {
		return nil, fmt.Errorf("%w: athlete %q has no notes", apperr.ErrEmptyExport, a.Name)
	}

	now := e.now()
	Play(BuildAthleteReport(a, now, r.SplitText), r)

	data, err := r.Output()
	if err != nil {
		return nil, fmt.Errorf("report: render athlete %q: %w", a.Name, err)
	}
	return &Artifact{
		FileName: AthleteReportFileName(a.Name, now),
		Data:     data,
	}, nil
}

func (e *Exporter) renderer() (Renderer, error) {
	if e.factory == nil {
		return nil, apperr.ErrRendererUnavailable
	}
	r := e.factory()
	if r == nil {
		return nil, apperr.ErrRendererUnavailable
	}
	return r, nil
}
