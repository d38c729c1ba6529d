package config

import (
	"os"
	"time"

	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/arthur-debert/assetdeploy/pkg/paths"
	"github.com/arthur-debert/assetdeploy/pkg/types"
)

// Config is the resolved assetdeploy configuration
type Config struct {
	Mapping     MappingConfig `koanf:"mapping"`
	Source      RootConfig    `koanf:"source"`
	Destination RootConfig    `koanf:"destination"`
	Deploy      DeployConfig  `koanf:"deploy"`
	Verify      VerifyConfig  `koanf:"verify"`
	Watch       WatchConfig   `koanf:"watch"`

	// ProjectRoot is the directory relative paths were resolved against
	ProjectRoot string `koanf:"-"`

	// File is the project config file that was loaded, if any
	File string `koanf:"-"`
}

// MappingConfig locates the mapping file
type MappingConfig struct {
	File   string       `koanf:"file"`
	Layout types.Layout `koanf:"layout"`
}

// RootConfig names a directory tree
type RootConfig struct {
	Root string `koanf:"root"`
}

// DeployConfig holds deployment behaviour
type DeployConfig struct {
	FailFast bool        `koanf:"fail_fast"`
	DirMode  os.FileMode `koanf:"dir_mode"`
	FileMode os.FileMode `koanf:"file_mode"`
}

// VerifyConfig holds post-deployment checks
type VerifyConfig struct {
	AfterDeploy   bool `koanf:"after_deploy"`
	SVG           bool `koanf:"svg"`
	CompareSource bool `koanf:"compare_source"`
}

// WatchConfig tunes watch mode
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// resolve makes every path absolute against the project root
func (c *Config) resolve(projectRoot string) {
	c.ProjectRoot = projectRoot
	c.Mapping.File = paths.ResolveAgainst(projectRoot, c.Mapping.File)
	c.Source.Root = paths.ResolveAgainst(projectRoot, c.Source.Root)
	c.Destination.Root = paths.ResolveAgainst(projectRoot, c.Destination.Root)
}

// Validate reports every invalid setting as one CONFIG_INVALID error
func (c *Config) Validate() error {
	var errs errors.List
	invalid := func(key, format string, args ...interface{}) {
		errs.Append(errors.Newf(errors.ErrConfigValid, format, args...).WithDetail("key", key))
	}

	if c.Mapping.File == "" {
		invalid("mapping.file", "mapping file is not set")
	}
	if !c.Mapping.Layout.Valid() {
		invalid("mapping.layout", "unknown layout %q (want %q or %q)",
			c.Mapping.Layout, types.LayoutCategorized, types.LayoutFlat)
	}
	if c.Source.Root == "" {
		invalid("source.root", "source root is not set")
	}
	if c.Destination.Root == "" {
		invalid("destination.root", "destination root is not set")
	}
	if c.Watch.Debounce < 0 {
		invalid("watch.debounce", "debounce must not be negative, got %s", c.Watch.Debounce)
	}
	if c.Deploy.DirMode&^os.ModePerm != 0 || c.Deploy.FileMode&^os.ModePerm != 0 {
		invalid("deploy", "dir_mode and file_mode must be permission bits")
	}
	return errs.ErrOrNil()
}
