// Package snapshot is the only save/restore path for a session: it projects
// progress.State into a versioned JSON document and back.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xtding233/bust-run/internal/camp"
	"github.com/xtding233/bust-run/internal/progress"
)

// CurrentVersion is written by Build. Older documents go through Migrate.
const CurrentVersion = 1

// SnapshotV1 is the persisted shape. Run and Encounter stay raw so the
// sanitizers own their validation.
type SnapshotV1 struct {
	Version           int             `json:"version"`
	SavedAt           int64           `json:"savedAt"` // epoch ms
	Mode              string          `json:"mode"`
	Run               json.RawMessage `json:"run"`
	Encounter         json.RawMessage `json:"encounter"`
	RewardOptionIDs   []string        `json:"rewardOptionIds"`
	ShopStock         []camp.ShopItem `json:"shopStock"`
	SelectionIndex    int             `json:"selectionIndex"`
	Announcement      string          `json:"announcement"`
	AnnouncementTimer float64         `json:"announcementTimer"`
}

// Build projects s. It returns nil when there is no resumable run.
func Build(s *progress.State, now time.Time) (*SnapshotV1, error) {
	if s == nil || !s.Active() {
		return nil, nil
	}
	runJSON, err := json.Marshal(s.Run)
	if err != nil {
		return nil, fmt.Errorf("encode run: %w", err)
	}
	encJSON := json.RawMessage("null")
	if s.Encounter != nil {
		if encJSON, err = json.Marshal(s.Encounter); err != nil {
			return nil, fmt.Errorf("encode encounter: %w", err)
		}
	}
	stock := s.ShopStock
	if stock == nil {
		stock = []camp.ShopItem{}
	}
	return &SnapshotV1{
		Version:           CurrentVersion,
		SavedAt:           now.UnixMilli(),
		Mode:              string(s.Mode),
		Run:               runJSON,
		Encounter:         encJSON,
		RewardOptionIDs:   camp.RelicIDs(s.RewardOptions),
		ShopStock:         append([]camp.ShopItem(nil), stock...),
		SelectionIndex:    s.SelectionIndex,
		Announcement:      s.Announcement,
		AnnouncementTimer: s.AnnouncementTimer,
	}, nil
}

// Encode serializes a snapshot for storage.
func Encode(snap *SnapshotV1) ([]byte, error) {
	if snap == nil {
		return nil, errors.New("encode snapshot: nil")
	}
	return json.Marshal(snap)
}

var modes = map[string]progress.Mode{
	"playing": progress.ModePlaying,
	"shop":    progress.ModeShop,
	"reward":  progress.ModeShop, // reward screens were folded into camps
}

// ResolveMode maps a stored mode to the mode to resume into.
// Anything unrecognized resumes as playing.
func ResolveMode(mode string) progress.Mode {
	if m, ok := modes[mode]; ok {
		return m
	}
	return progress.ModePlaying
}
