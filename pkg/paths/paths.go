package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/go-git/go-git/v5"
)

// Environment variable names
const (
	// EnvProjectRoot pins the project root, skipping discovery
	EnvProjectRoot = "ASSETDEPLOY_ROOT"

	// EnvStateDir overrides the XDG state directory for assetdeploy
	EnvStateDir = "ASSETDEPLOY_STATE_DIR"
)

const (
	// AppDirName is the directory name used under XDG base directories
	AppDirName = "assetdeploy"

	// LogFileName is the name of the log file
	LogFileName = "assetdeploy.log"
)

// ConfigFileNames lists the project config files, in lookup order
var ConfigFileNames = []string{
	".assetdeploy.toml",
	"assetdeploy.toml",
	".assetdeploy.yaml",
	"assetdeploy.yaml",
}

// Paths provides centralized path management for assetdeploy
type Paths struct {
	projectRoot  string
	usedFallback bool
	stateDir     string
}

// New creates a Paths instance for projectRoot. If projectRoot is empty it
// is discovered starting from the current working directory.
func New(projectRoot string) (*Paths, error) {
	p := &Paths{}

	if projectRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to get current directory")
		}
		root, usedFallback, err := FindProjectRoot(cwd)
		if err != nil {
			return nil, err
		}
		p.projectRoot = root
		p.usedFallback = usedFallback
	} else {
		p.projectRoot = expandHome(projectRoot)
	}

	absRoot, err := filepath.Abs(p.projectRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for project root")
	}
	p.projectRoot = absRoot
	p.stateDir = StateDir()

	return p, nil
}

// ProjectRoot returns the directory relative paths resolve against
func (p *Paths) ProjectRoot() string {
	return p.projectRoot
}

// UsedFallback reports whether discovery fell back to the working directory
func (p *Paths) UsedFallback() bool {
	return p.usedFallback
}

// StateDir returns the state directory for assetdeploy
func (p *Paths) StateDir() string {
	return p.stateDir
}

// LogFilePath returns the path of the log file
func (p *Paths) LogFilePath() string {
	return filepath.Join(p.stateDir, LogFileName)
}

// Resolve makes path absolute, interpreting relative paths against the
// project root. A leading ~ expands to the home directory.
func (p *Paths) Resolve(path string) string {
	return ResolveAgainst(p.projectRoot, path)
}

// ResolveAgainst makes path absolute relative to base
func ResolveAgainst(base, path string) string {
	if path == "" {
		return path
	}
	path = expandHome(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// StateDir returns the assetdeploy state directory, honoring
// ASSETDEPLOY_STATE_DIR before the XDG state home.
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return expandHome(dir)
	}
	return filepath.Join(xdg.StateHome, AppDirName)
}

// LogFilePath returns the log file location without needing a Paths
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFileName)
}

// FindProjectRoot determines the project root using the following priority:
//  1. ASSETDEPLOY_ROOT environment variable (if set)
//  2. the nearest directory at or above start holding a project config file
//  3. the root of the git worktree containing start
//  4. start itself (fallback, reported through the bool)
func FindProjectRoot(start string) (string, bool, error) {
	if root := os.Getenv(EnvProjectRoot); root != "" {
		return expandHome(root), false, nil
	}

	absStart, err := filepath.Abs(start)
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrInvalidInput, "failed to resolve %s", start)
	}

	if root, ok := findConfigRoot(absStart); ok {
		return root, false, nil
	}

	if root, err := findGitRoot(absStart); err == nil && root != "" {
		return root, false, nil
	}

	return absStart, true, nil
}

// FindConfigFile returns the first project config file present in dir
func FindConfigFile(dir string) (string, bool) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

func findConfigRoot(start string) (string, bool) {
	dir := start
	for {
		if _, ok := FindConfigFile(dir); ok {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// findGitRoot returns the worktree root of the repository containing start
func findGitRoot(start string) (string, error) {
	repo, err := git.PlainOpenWithOptions(start, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", err
	}
	root := wt.Filesystem.Root()
	if root == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}
	return root, nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
