// Package backup serializes the Root Document to self-describing JSON
// and validates documents coming back in. The same codec backs both the
// persistence path and user-initiated backup export/import.
package backup

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/coachtools/tacticalhub/internal/apperr"
	"github.com/coachtools/tacticalhub/internal/models"
)

// Marshal encodes the document as pretty-printed UTF-8 JSON, suitable
// for human inspection of backup files.
func Marshal(doc *models.Document) ([]byte, error) {
	blob, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("backup: encode: %w", err)
	}
	return blob, nil
}

// Unmarshal decodes and validates a document blob. A malformed or
// structurally invalid document is rejected with ErrInvalidBackup
// rather than adopted silently.
func Unmarshal(blob []byte) (*models.Document, error) {
	var doc models.Document
	if err := json.Unmarshal(blob, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidBackup, err)
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	if doc.Games == nil {
		doc.Games = []models.Game{}
	}
	if doc.Athletes == nil {
		doc.Athletes = []models.Athlete{}
	}
	if doc.Theme == "" {
		doc.Theme = models.ThemeDark
	}
	return &doc, nil
}

// Validate runs the structural shape check on a candidate document:
// non-empty names, globally unique ids per collection, a current-game
// reference that resolves, and a known theme. Unknown taxonomy pairs on
// notes are tolerated; the report falls back to raw keys.
func Validate(doc *models.Document) error {
	if doc.Theme != "" {
		if err := validation.Validate(doc.Theme,
			validation.In(models.ThemeDark, models.ThemeLight)); err != nil {
			return fmt.Errorf("%w: theme %q", apperr.ErrInvalidBackup, doc.Theme)
		}
	}

	gameIDs := make(map[string]struct{}, len(doc.Games))
	for i, g := range doc.Games {
		if g.ID == "" {
			return fmt.Errorf("%w: game %d has no id", apperr.ErrInvalidBackup, i)
		}
		if _, dup := gameIDs[g.ID]; dup {
			return fmt.Errorf("%w: duplicate game id %q", apperr.ErrInvalidBackup, g.ID)
		}
		gameIDs[g.ID] = struct{}{}
		if strings.TrimSpace(g.Name) == "" {
			return fmt.Errorf("%w: game %q has an empty name", apperr.ErrInvalidBackup, g.ID)
		}
		noteIDs := make(map[string]struct{}, len(g.Notes))
		for _, n := range g.Notes {
			if n.ID == "" {
				return fmt.Errorf("%w: note in game %q has no id", apperr.ErrInvalidBackup, g.ID)
			}
			if _, dup := noteIDs[n.ID]; dup {
				return fmt.Errorf("%w: duplicate note id %q in game %q", apperr.ErrInvalidBackup, n.ID, g.ID)
			}
			noteIDs[n.ID] = struct{}{}
			if n.Minute < 0 {
				return fmt.Errorf("%w: note %q has a negative minute", apperr.ErrInvalidBackup, n.ID)
			}
		}
	}

	if doc.CurrentGame != "" {
		if _, ok := gameIDs[doc.CurrentGame]; !ok {
			return fmt.Errorf("%w: currentGame %q does not exist", apperr.ErrInvalidBackup, doc.CurrentGame)
		}
	}

	athleteIDs := make(map[string]struct{}, len(doc.Athletes))
	for i, a := range doc.Athletes {
		if a.ID == "" {
			return fmt.Errorf("%w: athlete %d has no id", apperr.ErrInvalidBackup, i)
		}
		if _, dup := athleteIDs[a.ID]; dup {
			return fmt.Errorf("%w: duplicate athlete id %q", apperr.ErrInvalidBackup, a.ID)
		}
		athleteIDs[a.ID] = struct{}{}
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("%w: athlete %q has an empty name", apperr.ErrInvalidBackup, a.ID)
		}
		noteIDs := make(map[string]struct{}, len(a.Notes))
		for _, n := range a.Notes {
			if n.ID == "" {
				return fmt.Errorf("%w: note for athlete %q has no id", apperr.ErrInvalidBackup, a.ID)
			}
			if _, dup := noteIDs[n.ID]; dup {
				return fmt.Errorf("%w: duplicate note id %q for athlete %q", apperr.ErrInvalidBackup, n.ID, a.ID)
			}
			noteIDs[n.ID] = struct{}{}
		}
	}

	return nil
}

// FileName returns the download name for a backup taken at ts, e.g.
// backup_tactical_hub_2024-05-01.json.
func FileName(ts time.Time) string {
	return fmt.Sprintf("backup_tactical_hub_%s.json", ts.Format("2006-01-02"))
}
