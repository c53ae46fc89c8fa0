package snapshot

import (
	"encoding/json"

	"github.com/xtding233/bust-run/internal/camp"
)

// migrations[v] lifts a version v document to v+1 in place.
var migrations = map[int]func(fields map[string]json.RawMessage){
	0: migrateV0,
}

// Migrate brings an envelope up to CurrentVersion and decodes it leniently:
// a field that fails to decode keeps its zero value.
func Migrate(env *Envelope) SnapshotV1 {
	if env == nil {
		return SnapshotV1{}
	}
	fields := make(map[string]json.RawMessage, len(env.Fields))
	for k, v := range env.Fields {
		fields[k] = v
	}
	for v := env.Version; v < CurrentVersion; v++ {
		if step, ok := migrations[v]; ok {
			step(fields)
		}
	}

	snap := SnapshotV1{Version: CurrentVersion}
	decodeField(fields, "savedAt", &snap.SavedAt)
	decodeField(fields, "mode", &snap.Mode)
	snap.Run = fields["run"]
	if enc, ok := fields["encounter"]; ok && !isNull(enc) {
		snap.Encounter = enc
	}
	decodeField(fields, "rewardOptionIds", &snap.RewardOptionIDs)
	decodeField(fields, "selectionIndex", &snap.SelectionIndex)
	decodeField(fields, "announcement", &snap.Announcement)
	decodeField(fields, "announcementTimer", &snap.AnnouncementTimer)
	snap.ShopStock = decodeStock(fields["shopStock"])
	return snap
}

// migrateV0 handles documents written before versioning: reward options were
// stored as whole objects and the cursor was called "selected".
func migrateV0(fields map[string]json.RawMessage) {
	if _, ok := fields["rewardOptionIds"]; !ok {
		var legacy []json.RawMessage
		if decodeField(fields, "rewardOptions", &legacy) {
			ids := make([]string, 0, len(legacy))
			for _, item := range legacy {
				var obj struct {
					ID string `json:"id"`
				}
				var id string
				switch {
				case json.Unmarshal(item, &obj) == nil && obj.ID != "":
					ids = append(ids, obj.ID)
				case json.Unmarshal(item, &id) == nil && id != "":
					ids = append(ids, id)
				}
			}
			if raw, err := json.Marshal(ids); err == nil {
				fields["rewardOptionIds"] = raw
			}
		}
	}
	if _, ok := fields["selectionIndex"]; !ok {
		if sel, ok := fields["selected"]; ok {
			fields["selectionIndex"] = sel
		}
	}
	fields["version"] = json.RawMessage("1")
}

// decodeStock keeps every shop item that decodes on its own.
func decodeStock(raw json.RawMessage) []camp.ShopItem {
	var items []json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &items) != nil {
		return []camp.ShopItem{}
	}
	out := make([]camp.ShopItem, 0, len(items))
	for _, item := range items {
		var it camp.ShopItem
		if json.Unmarshal(item, &it) == nil && it.ID != "" {
			out = append(out, it)
		}
	}
	return out
}
