package chipbook

import "strings"

// ReconcilePlayers merges an incoming roster into a local one. The identity
// key is the case-folded name: two records naming the same player are the
// same player no matter which path generated their ids. The local record
// wins every collision and keeps its id, so references held by local player
// sessions stay valid.
//
// It returns the merged roster and the remapping from incoming ids to
// surviving ids. Callers re-key any records referencing a dropped incoming
// player through the remap before adopting them.
func ReconcilePlayers(local, incoming []Player) ([]Player, map[string]string) {
	merged := make([]Player, len(local))
	copy(merged, local)
	byName := make(map[string]int, len(merged))
	for i, p := range merged {
		byName[strings.ToLower(p.name)] = i
	}
	remap := make(map[string]string, len(incoming))
	for _, p := range incoming {
		key := strings.ToLower(strings.TrimSpace(p.name))
		if i, ok := byName[key]; ok {
			remap[p.id] = merged[i].id
			continue
		}
		byName[key] = len(merged)
		merged = append(merged, p)
		remap[p.id] = p.id
	}
	return merged, remap
}

// MergePlayers adds to local the incoming players whose names are new, under
// the same case-folded identity key. Colliding incoming records are discarded
// outright rather than remapped, which is only safe when nothing references
// their ids yet, a roster seeded from a first import. Anything carrying
// player sessions goes through ReconcilePlayers instead.
func MergePlayers(local, incoming []Player) []Player {
	merged := make([]Player, len(local))
	copy(merged, local)
	seen := make(map[string]struct{}, len(merged))
	for _, p := range merged {
		seen[strings.ToLower(p.name)] = struct{}{}
	}
	for _, p := range incoming {
		key := strings.ToLower(strings.TrimSpace(p.name))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, p)
	}
	return merged
}
