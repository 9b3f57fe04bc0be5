// types.go
package catalog

import "fmt"

// Map is one playable variant of a map group.
type Map struct {
	ID       uint16
	GroupID  uint16 // back-reference, resolve with Catalog.GroupOf
	Nickname string
	Mode     Mode
	Players  uint16 // minimum supported player count
	Gag      bool   // excluded from the normal rotation
	Disabled bool
}

// Info renders the map the way the menu and the play log show it.
func (m *Map) Info() string {
	return fmt.Sprintf("%s %s (%d)", m.Nickname, m.Mode, m.Players)
}

// Group clusters the variants of one physical map.
type Group struct {
	ID       uint16
	BaseName string
	Variants []uint16 // map ids in file order
}

// Catalog is the read-only arena of maps and groups. Maps and groups refer to
// each other by id only.
type Catalog struct {
	maps   []*Map
	groups []*Group

	mapByID   map[uint16]*Map
	groupByID map[uint16]*Group
}

func newCatalog() *Catalog {
	return &Catalog{
		mapByID:   make(map[uint16]*Map),
		groupByID: make(map[uint16]*Group),
	}
}

// New builds a catalog from already constructed groups and maps. Group
// variant lists are rebuilt from the maps' GroupID in the order given. It
// applies the same uniqueness and membership rules as Parse.
func New(groups []Group, maps []Map) (*Catalog, error) {
	c := newCatalog()
	byGroup := make(map[uint16][]*Map)
	for i := range maps {
		m := maps[i]
		if _, dup := c.mapByID[m.ID]; dup {
			gid := m.GroupID
			return nil, &ValidationError{GroupID: &gid, Field: "id", Reason: "duplicate map id", Value: m.ID}
		}
		if !m.Mode.Valid() {
			gid := m.GroupID
			return nil, &ValidationError{GroupID: &gid, MapID: &m.ID, Field: "mode", Reason: "unknown map mode", Value: m.Mode}
		}
		mp := &m
		c.mapByID[m.ID] = mp
		byGroup[m.GroupID] = append(byGroup[m.GroupID], mp)
	}
	for i := range groups {
		g := groups[i]
		if _, dup := c.groupByID[g.ID]; dup {
			return nil, &ValidationError{Field: "gid", Reason: "duplicate group gid", Value: g.ID}
		}
		members := byGroup[g.ID]
		if len(members) == 0 {
			return nil, &ValidationError{GroupID: &g.ID, Field: "variants", Reason: "group needs at least one variant"}
		}
		g.Variants = make([]uint16, 0, len(members))
		for _, m := range members {
			g.Variants = append(g.Variants, m.ID)
		}
		delete(byGroup, g.ID)
		gp := &g
		c.groupByID[g.ID] = gp
		c.groups = append(c.groups, gp)
		c.maps = append(c.maps, members...)
	}
	for gid, members := range byGroup {
		return nil, &ValidationError{GroupID: &gid, MapID: &members[0].ID, Field: "gid", Reason: "map refers to unknown group", Value: gid}
	}
	return c, nil
}

func (c *Catalog) addGroup(g *Group, members []*Map) {
	c.groups = append(c.groups, g)
	c.groupByID[g.ID] = g
	for _, m := range members {
		c.maps = append(c.maps, m)
		c.mapByID[m.ID] = m
	}
}

// Maps returns every map, groups in file order and variants in file order
// inside each group. The slice must not be modified.
func (c *Catalog) Maps() []*Map { return c.maps }

// Groups returns every group in file order.
func (c *Catalog) Groups() []*Group { return c.groups }

// Len is the number of maps.
func (c *Catalog) Len() int { return len(c.maps) }

func (c *Catalog) Map(id uint16) (*Map, bool) {
	m, ok := c.mapByID[id]
	return m, ok
}

func (c *Catalog) Group(gid uint16) (*Group, bool) {
	g, ok := c.groupByID[gid]
	return g, ok
}

// GroupOf resolves the group that owns m.
func (c *Catalog) GroupOf(m *Map) *Group {
	return c.groupByID[m.GroupID]
}
