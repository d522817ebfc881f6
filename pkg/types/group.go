package types

import (
	"sort"

	"github.com/arthur-debert/winslim/pkg/errors"
)

// UnitKind selects the primary removal action for a unit
type UnitKind string

const (
	// UnitApp is a store app package removed through the AppX cmdlets
	UnitApp UnitKind = "app"

	// UnitComponent is a legacy package removed through the helper tool
	UnitComponent UnitKind = "component"
)

// RemovableUnit is one concrete, individually removable artifact
type RemovableUnit struct {
	Name string   `yaml:"name"`
	Kind UnitKind `yaml:"kind"`
}

// ComponentGroup is a user-facing name owning an ordered set of units
type ComponentGroup struct {
	Name  string
	Units []RemovableUnit
}

// GroupTable is the immutable mapping from group name to its units.
// Build it once with NewGroupTable and pass it to whoever needs it.
type GroupTable struct {
	groups map[string]ComponentGroup
	owners map[string]string
}

// NewGroupTable validates groups and returns the table.
// Every group must own at least one unit and every unit must belong to
// exactly one group.
func NewGroupTable(groups []ComponentGroup) (*GroupTable, error) {
	table := &GroupTable{
		groups: make(map[string]ComponentGroup, len(groups)),
		owners: make(map[string]string),
	}

	for _, g := range groups {
		if g.Name == "" {
			return nil, errors.New(errors.ErrConfigValid, "group with empty name")
		}
		if _, dup := table.groups[g.Name]; dup {
			return nil, errors.Newf(errors.ErrConfigValid, "group %q defined twice", g.Name)
		}
		if len(g.Units) == 0 {
			return nil, errors.Newf(errors.ErrConfigValid, "group %q has no units", g.Name).
				WithDetail("group", g.Name)
		}

		units := make([]RemovableUnit, len(g.Units))
		for i, u := range g.Units {
			if u.Name == "" {
				return nil, errors.Newf(errors.ErrConfigValid, "group %q has a unit with empty name", g.Name)
			}
			if u.Kind != UnitApp && u.Kind != UnitComponent {
				return nil, errors.Newf(errors.ErrConfigValid, "unit %q has unknown kind %q", u.Name, u.Kind)
			}
			if owner, taken := table.owners[u.Name]; taken {
				return nil, errors.Newf(errors.ErrConfigValid, "unit %q belongs to both %q and %q", u.Name, owner, g.Name).
					WithDetail("unit", u.Name)
			}
			table.owners[u.Name] = g.Name
			units[i] = u
		}
		table.groups[g.Name] = ComponentGroup{Name: g.Name, Units: units}
	}

	return table, nil
}

// Lookup returns a copy of the named group
func (t *GroupTable) Lookup(name string) (ComponentGroup, bool) {
	g, ok := t.groups[name]
	if !ok {
		return ComponentGroup{}, false
	}
	units := make([]RemovableUnit, len(g.Units))
	copy(units, g.Units)
	return ComponentGroup{Name: g.Name, Units: units}, true
}

// Owner returns the group a unit belongs to
func (t *GroupTable) Owner(unit string) (string, bool) {
	g, ok := t.owners[unit]
	return g, ok
}

// Names returns all group names sorted alphabetically
func (t *GroupTable) Names() []string {
	names := make([]string, 0, len(t.groups))
	for name := range t.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of groups
func (t *GroupTable) Len() int { return len(t.groups) }
