package domain

// LocationType classifies a location by purpose and determines which
// actions are offered there.
type LocationType string

const (
	LocationStart   LocationType = "START"
	LocationEmpty   LocationType = "EMPTY"
	LocationFight   LocationType = "FIGHT"
	LocationHealing LocationType = "HEALING"
	LocationShop    LocationType = "SHOP"
)

// Location is a node in the world graph. Immutable at runtime; admin
// edits land in storage and are picked up on the next process start.
type Location struct {
	ID          int64        `json:"id"`
	Type        LocationType `json:"type"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	GroupID     *int64       `json:"group_id,omitempty"`
	Enabled     bool         `json:"enabled"`
}

// Gateway is a directed edge between two locations. Two-way paths need
// two gateways. Condition is reserved for future traversal gating and is
// currently always true.
type Gateway struct {
	FromID    int64  `json:"from_id"`
	ToID      int64  `json:"to_id"`
	Condition string `json:"condition,omitempty"`
}
