package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xtding233/bust-run/internal/camp"
	"github.com/xtding233/bust-run/internal/encounter"
	"github.com/xtding233/bust-run/internal/progress"
	"github.com/xtding233/bust-run/internal/relic"
	"github.com/xtding233/bust-run/internal/run"
)

var ErrUnresumable = errors.New("snapshot cannot be resumed")

// Collaborators are injected into Hydrate. Nil sanitizers fall back to the
// run and encounter package defaults.
type Collaborators struct {
	Registry          *relic.Registry
	Drafts            interface{ CampRelicDraftStock([]relic.Relic) []camp.ShopItem }
	SanitizeRun       func(json.RawMessage) (*run.Run, error)
	SanitizeEncounter func(json.RawMessage) (*encounter.Encounter, error)
}

// Resume is a fully rehydrated session state.
type Resume struct {
	Mode              progress.Mode
	Run               *run.Run
	Encounter         *encounter.Encounter
	RewardOptions     []relic.Relic
	ShopStock         []camp.ShopItem
	SelectionIndex    int
	Announcement      string
	AnnouncementTimer float64
	IntroActive       bool
}

// Hydrate rebuilds the object graph from a migrated snapshot. Any sanitizer
// error aborts the resume.
func Hydrate(snap SnapshotV1, col Collaborators) (*Resume, error) {
	sanitizeRun := col.SanitizeRun
	if sanitizeRun == nil {
		sanitizeRun = func(raw json.RawMessage) (*run.Run, error) { return run.Sanitize(raw, col.Registry) }
	}
	sanitizeEnc := col.SanitizeEncounter
	if sanitizeEnc == nil {
		sanitizeEnc = encounter.Sanitize
	}

	r, err := sanitizeRun(snap.Run)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnresumable, err)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: no run", ErrUnresumable)
	}
	res := &Resume{
		Mode:              ResolveMode(snap.Mode),
		Run:               r,
		Announcement:      snap.Announcement,
		AnnouncementTimer: snap.AnnouncementTimer,
	}
	if res.AnnouncementTimer < 0 {
		res.AnnouncementTimer = 0
	}

	switch res.Mode {
	case progress.ModePlaying:
		enc, err := sanitizeEnc(snap.Encounter)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnresumable, err)
		}
		if enc == nil {
			return nil, fmt.Errorf("%w: playing without an encounter", ErrUnresumable)
		}
		res.Encounter = enc
		res.RewardOptions = []relic.Relic{}
		res.ShopStock = []camp.ShopItem{}

	case progress.ModeShop:
		res.RewardOptions = make([]relic.Relic, 0, len(snap.RewardOptionIDs))
		for _, id := range snap.RewardOptionIDs {
			if def, ok := col.Registry.Lookup(id); ok {
				res.RewardOptions = append(res.RewardOptions, def)
			}
		}
		res.ShopStock = make([]camp.ShopItem, 0, len(snap.ShopStock))
		for _, it := range snap.ShopStock {
			if it.Valid(col.Registry) {
				res.ShopStock = append(res.ShopStock, it)
			}
		}
		if len(res.ShopStock) == 0 && col.Drafts != nil {
			// older documents kept only the reward list
			res.ShopStock = col.Drafts.CampRelicDraftStock(res.RewardOptions)
			if res.Run.ShopPurchaseMade {
				for i := range res.ShopStock {
					res.ShopStock[i].Sold = true
				}
			}
		}
	}

	res.SelectionIndex = clampSelection(snap.SelectionIndex, max(len(res.RewardOptions), len(res.ShopStock)))
	return res, nil
}

func clampSelection(i, n int) int {
	if i < 0 {
		return 0
	}
	if n > 0 && i >= n {
		return n - 1
	}
	if n == 0 {
		return 0
	}
	return i
}

// Apply installs the resumed graph into s, replacing it wholesale.
func (r *Resume) Apply(s *progress.State) {
	s.Mode = r.Mode
	s.Run = r.Run
	s.Encounter = r.Encounter
	s.RewardOptions = r.RewardOptions
	s.ShopStock = r.ShopStock
	s.SelectionIndex = r.SelectionIndex
	s.Announcement = r.Announcement
	s.AnnouncementTimer = r.AnnouncementTimer
}
