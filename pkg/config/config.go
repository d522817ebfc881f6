package config

import (
	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/types"
)

// Config is the decoded winslim configuration
type Config struct {
	AllowHelperTool bool                   `koanf:"allow_helper_tool"`
	BackupDir       string                 `koanf:"backup_dir"`
	SelectedGroups  []string               `koanf:"selected_groups"`
	Services        Services               `koanf:"services"`
	Tasks           Tasks                  `koanf:"tasks"`
	Groups          map[string]GroupConfig `koanf:"groups"`

	// Source is the user file that was loaded, empty when none was
	Source string `koanf:"-"`
}

// Services lists the services removed by the services command
type Services struct {
	Names []string `koanf:"names"`
}

// Tasks lists the scheduled tasks disabled by the tasks command
type Tasks struct {
	Paths []string `koanf:"paths"`
}

// GroupConfig declares the units of one group. Apps come before components
// in the resulting unit order.
type GroupConfig struct {
	Apps       []string `koanf:"apps"`
	Components []string `koanf:"components"`
}

// GroupTable validates the catalog and builds the immutable group table
func (c *Config) GroupTable() (*types.GroupTable, error) {
	groups := make([]types.ComponentGroup, 0, len(c.Groups))
	for name, gc := range c.Groups {
		group := types.ComponentGroup{Name: name}
		for _, app := range gc.Apps {
			group.Units = append(group.Units, types.RemovableUnit{Name: app, Kind: types.UnitApp})
		}
		for _, comp := range gc.Components {
			group.Units = append(group.Units, types.RemovableUnit{Name: comp, Kind: types.UnitComponent})
		}
		groups = append(groups, group)
	}
	return types.NewGroupTable(groups)
}

// Selection returns the groups to process: requested when not empty, then
// selected_groups, then every group in the table.
func (c *Config) Selection(requested []string, table *types.GroupTable) []string {
	if len(requested) > 0 {
		return requested
	}
	if len(c.SelectedGroups) > 0 {
		return c.SelectedGroups
	}
	return table.Names()
}

// Validate checks values that decoding cannot
func (c *Config) Validate() error {
	for i, name := range c.Services.Names {
		if name == "" {
			return errors.Newf(errors.ErrConfigValid, "services.names[%d] is empty", i)
		}
	}
	for i, path := range c.Tasks.Paths {
		if path == "" {
			return errors.Newf(errors.ErrConfigValid, "tasks.paths[%d] is empty", i)
		}
	}
	_, err := c.GroupTable()
	return err
}
