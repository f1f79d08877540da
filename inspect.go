package crate

import "gopkg.in/yaml.v3"

// SlotInfo contains diagnostic information about one slot.
type SlotInfo struct {
	Position int    `yaml:"position"`
	Type     string `yaml:"type"`
	ReadOnly bool   `yaml:"read_only"`
	Strategy string `yaml:"strategy"`
	Resolved bool   `yaml:"resolved"`
}

// Inspect returns diagnostic information for every slot in declared order.
// It never resolves lazy slots.
func Inspect(c Container) []SlotInfo {
	infos := make([]SlotInfo, len(c.holders))
	for i, h := range c.holders {
		k := c.shape.keys[i]
		infos[i] = SlotInfo{
			Position: i,
			Type:     typeName(k.typ),
			ReadOnly: k.readOnly,
			Strategy: h.Strategy().String(),
			Resolved: isResolved(h),
		}
	}

	return infos
}

// SlotQuery defines criteria for querying slots.
type SlotQuery struct {
	// ReadOnly filters by const-only slots.
	// nil matches all slots.
	ReadOnly *bool

	// Resolved filters by whether the slot's instance exists yet.
	// nil matches all slots.
	Resolved *bool
}

// Query returns the slots matching the query criteria.
//
// Example:
//
//	// Find lazy slots that have not been built yet
//	pending := false
//	slots := crate.Query(c, crate.SlotQuery{Resolved: &pending})
func Query(c Container, query SlotQuery) []SlotInfo {
	var results []SlotInfo

	for _, info := range Inspect(c) {
		if query.ReadOnly != nil && info.ReadOnly != *query.ReadOnly {
			continue
		}

		if query.Resolved != nil && info.Resolved != *query.Resolved {
			continue
		}

		results = append(results, info)
	}

	return results
}

// FindPending returns all slots whose lazy instance has not been built.
func FindPending(c Container) []SlotInfo {
	resolved := false
	return Query(c, SlotQuery{Resolved: &resolved})
}

// description is the YAML document produced by DescribeYAML.
type description struct {
	Strategy string     `yaml:"strategy"`
	Slots    []SlotInfo `yaml:"slots"`
}

// DescribeYAML renders the container's strategy and slots as YAML.
func DescribeYAML(c Container) ([]byte, error) {
	return yaml.Marshal(description{
		Strategy: c.strategy.String(),
		Slots:    Inspect(c),
	})
}
