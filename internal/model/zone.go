// Package model holds the engine's entity types: zones, challenges, players,
// teams, sessions and the periods that log what a team did. Every entity is
// addressed by a stable 64-bit id assigned by the store on insert; entities
// never hold pointers to each other, only ids, the way the teacher keeps
// character/item/skill references as plain ids resolved through a repository.
package model

// Zone is a node in the transit network challenges and teams are placed in.
type Zone struct {
	ID                 uint64           `json:"id"`
	DisplayNumber      int32            `json:"display_number"`
	NumConnectingZones int32            `json:"num_connecting_zones"`
	NumConnections     int32            `json:"num_connections"`
	ThroughTrain       bool             `json:"through_train"`
	FlagA              bool             `json:"flag_a"`
	IsSBahnZone        bool             `json:"is_s_bahn_zone"`
	// MinutesTo maps a reachable zone id to the travel time in minutes.
	// A missing entry is treated as distance 0, with a warning logged by
	// the caller — the zone graph is allowed to be sparse.
	MinutesTo map[uint64]uint64 `json:"minutes_to"`
}

// MinutesToZone looks up the travel time to another zone, defaulting to 0 and
// reporting whether the entry was present.
func (z *Zone) MinutesToZone(to uint64) (uint64, bool) {
	m, ok := z.MinutesTo[to]
	return m, ok
}

// ZonicKaffness returns the zone's contribution to challenge point
// calculation, a simple function of how far-flung the zone is (fewer
// connections and display number further from the network core score
// higher). Config supplies the weighting.
func (z *Zone) ZonicKaffness(pointsPerConnection, pointsPerDisplayNumber float64) int64 {
	p := float64(z.NumConnectingZones) * pointsPerConnection
	p += float64(z.DisplayNumber) * pointsPerDisplayNumber
	return int64(p)
}
