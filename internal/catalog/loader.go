package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// DefaultPath is where the catalog is looked up when nothing else is configured.
const DefaultPath = "all_maps.json"

// Load reads and validates the catalog file at path.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog document: a list of groups, each with a gid, a
// name and a list of variants.
//
//	[{"gid": 1, "name": "Harbor", "variants": [
//	    {"id": 10, "mode": "td", "players": 16},
//	    {"id": 11, "mode": "dm", "players": 12, "nickname": "Harbor Night", "gag": true}
//	]}]
func Parse(r io.Reader) (*Catalog, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, &ValidationError{Reason: "unexpected data after the map list"}
	}
	list, ok := doc.([]any)
	if !ok {
		return nil, &ValidationError{Reason: "map file must be a list"}
	}

	c := newCatalog()
	for i, raw := range list {
		g, members, err := parseGroup(i, raw)
		if err != nil {
			return nil, err
		}
		if _, dup := c.groupByID[g.ID]; dup {
			return nil, &ValidationError{Field: "gid", Reason: "duplicate group gid", Value: g.ID}
		}
		for _, m := range members {
			if _, dup := c.mapByID[m.ID]; dup {
				return nil, &ValidationError{GroupID: &g.ID, Field: "id", Reason: "duplicate map id", Value: m.ID}
			}
		}
		c.addGroup(g, members)
	}
	return c, nil
}

func parseGroup(idx int, raw any) (*Group, []*Map, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, nil, &ValidationError{Reason: fmt.Sprintf("entry %d must be an object", idx)}
	}

	gid, ok := asUint16(obj["gid"])
	if !ok {
		return nil, nil, &ValidationError{Field: "gid", Reason: "gid not a u16", Value: obj["gid"]}
	}
	name, ok := asNonEmptyString(obj["name"])
	if !ok {
		return nil, nil, &ValidationError{GroupID: &gid, Field: "name", Reason: "basename must be a non-empty string", Value: obj["name"]}
	}
	variants, ok := obj["variants"].([]any)
	if !ok {
		return nil, nil, &ValidationError{GroupID: &gid, Field: "variants", Reason: "group needs a list of variants", Value: obj["variants"]}
	}
	if len(variants) == 0 {
		return nil, nil, &ValidationError{GroupID: &gid, Field: "variants", Reason: "group needs at least one variant"}
	}

	g := &Group{ID: gid, BaseName: name, Variants: make([]uint16, 0, len(variants))}
	members := make([]*Map, 0, len(variants))
	seen := make(map[uint16]bool, len(variants))
	for _, v := range variants {
		m, err := parseVariant(g, v)
		if err != nil {
			return nil, nil, err
		}
		if seen[m.ID] {
			return nil, nil, &ValidationError{GroupID: &gid, Field: "id", Reason: "duplicate map id", Value: m.ID}
		}
		seen[m.ID] = true
		g.Variants = append(g.Variants, m.ID)
		members = append(members, m)
	}
	return g, members, nil
}

func parseVariant(g *Group, raw any) (*Map, error) {
	gid := g.ID
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &ValidationError{GroupID: &gid, Field: "variants", Reason: "variant must be an object", Value: raw}
	}

	id, ok := asUint16(obj["id"])
	if !ok {
		return nil, &ValidationError{GroupID: &gid, Field: "id", Reason: "map id must be a u16", Value: obj["id"]}
	}
	fail := func(field, reason string) error {
		return &ValidationError{GroupID: &gid, MapID: &id, Field: field, Reason: reason, Value: obj[field]}
	}

	players, ok := asUint16(obj["players"])
	if !ok {
		return nil, fail("players", "players must be a u16")
	}
	modeStr, ok := obj["mode"].(string)
	if !ok {
		return nil, fail("mode", "map mode must be a string")
	}
	mode, err := ParseMode(modeStr)
	if err != nil {
		return nil, fail("mode", "unknown map mode")
	}
	gag, ok := optionalBool(obj, "gag")
	if !ok {
		return nil, fail("gag", "gag must be absent or a boolean")
	}
	disabled, ok := optionalBool(obj, "disabled")
	if !ok {
		return nil, fail("disabled", "disabled must be absent or a boolean")
	}

	nickname := g.BaseName
	if v, present := obj["nickname"]; present && v != nil {
		nickname, ok = asNonEmptyString(v)
		if !ok {
			return nil, fail("nickname", "nickname must be absent or a non-empty string")
		}
	}

	return &Map{
		ID:       id,
		GroupID:  gid,
		Nickname: nickname,
		Mode:     mode,
		Players:  players,
		Gag:      gag,
		Disabled: disabled,
	}, nil
}
