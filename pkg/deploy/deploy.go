package deploy

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/arthur-debert/assetdeploy/pkg/filesystem"
	"github.com/arthur-debert/assetdeploy/pkg/internal/hashutil"
	"github.com/arthur-debert/assetdeploy/pkg/logging"
	"github.com/arthur-debert/assetdeploy/pkg/mapping"
	"github.com/arthur-debert/assetdeploy/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultDirMode is used for created directories when DeployOptions.DirMode is zero
const DefaultDirMode os.FileMode = 0755

// DeployOptions configures a deployment run
type DeployOptions struct {
	Mapping         *types.Mapping
	SourceRoot      string
	DestinationRoot string

	// FS defaults to the OS filesystem
	FS types.FS

	// DryRun performs every check but writes nothing
	DryRun bool

	// FailFast stops at the first failing entry
	FailFast bool

	// DirMode is the permission for created directories (default 0755)
	DirMode os.FileMode

	// FileMode is the permission for written files. Zero keeps the source
	// file's permission bits.
	FileMode os.FileMode
}

// DeployAssets deploys every entry of m from sourceRoot to destinationRoot
// on the OS filesystem with the default fail-complete policy.
func DeployAssets(m *types.Mapping, sourceRoot, destinationRoot string) (*types.DeployResult, error) {
	return Deploy(DeployOptions{
		Mapping:         m,
		SourceRoot:      sourceRoot,
		DestinationRoot: destinationRoot,
	})
}

// Deploy runs a deployment. The result describes every attempted entry and
// is returned even when the error is non-nil. The error is nil only when
// every entry deployed.
func Deploy(opts DeployOptions) (*types.DeployResult, error) {
	if opts.Mapping == nil {
		return nil, errors.New(errors.ErrInvalidInput, "no mapping given")
	}
	if opts.SourceRoot == "" || opts.DestinationRoot == "" {
		return nil, errors.New(errors.ErrInvalidInput, "source and destination roots are required")
	}
	if opts.FS == nil {
		opts.FS = filesystem.NewOS()
	}
	if opts.DirMode == 0 {
		opts.DirMode = DefaultDirMode
	}

	result := &types.DeployResult{
		RunID:           uuid.NewString(),
		SourceRoot:      opts.SourceRoot,
		DestinationRoot: opts.DestinationRoot,
		DryRun:          opts.DryRun,
		StartedAt:       time.Now(),
	}

	logger := logging.GetLogger("deploy").With().
		Str("run", result.RunID).
		Bool("dryRun", opts.DryRun).
		Logger()
	done := logging.LogOperationStart(logger, "deploy")
	defer done()

	plan := Plan(opts.Mapping, opts.SourceRoot, opts.DestinationRoot)
	warnDuplicates(logger, plan)

	d := &deployer{opts: opts, logger: logger}
	var errs errors.List
	for _, entry := range plan {
		res := d.deployEntry(entry)
		result.Entries = append(result.Entries, res)
		if res.Error == nil {
			continue
		}
		errs.Append(res.Error)
		if opts.FailFast {
			logger.Debug().Str("category", entry.Category).Int("index", entry.Index).
				Msg("Stopping at first failure")
			break
		}
	}
	result.Duration = time.Since(result.StartedAt)

	logger.Info().
		Int("entries", len(plan)).
		Int("copied", result.Count(types.EntryCopied)).
		Int("unchanged", result.Count(types.EntryUnchanged)).
		Int("planned", result.Count(types.EntryPlanned)).
		Int("failed", result.Count(types.EntryFailed)).
		Msg("Deployment finished")

	return result, errs.ErrOrNil()
}

type deployer struct {
	opts   DeployOptions
	logger zerolog.Logger
}

func (d *deployer) deployEntry(e types.ResolvedEntry) types.EntryResult {
	res := types.EntryResult{ResolvedEntry: e}
	fail := func(err *errors.Error) types.EntryResult {
		res.Status = types.EntryFailed
		res.Error = withEntry(err, e)
		res.ErrorText = res.Error.Error()
		d.logger.Debug().Err(res.Error).Str("category", e.Category).Int("index", e.Index).Msg("Entry failed")
		return res
	}

	if err := mapping.ValidateEntry(e.Category, e.Index, e.Entry); err != nil {
		var appErr *errors.Error
		if stderrors.As(err, &appErr) {
			return fail(appErr)
		}
		return fail(errors.Wrap(err, errors.ErrMalformedMappingEntry, "invalid entry"))
	}

	fsys := d.opts.FS

	// The source is checked before anything is created so a missing asset
	// leaves the destination tree untouched.
	info, err := fsys.Stat(e.ResolvedSource)
	switch {
	case isNotExist(err):
		return fail(errors.Newf(errors.ErrMissingSourceAsset, "source asset %s not found", e.ResolvedSource))
	case err != nil:
		return fail(errors.Wrapf(err, errors.ErrDeploymentIO, "cannot stat source %s", e.ResolvedSource))
	case info.IsDir():
		return fail(errors.Newf(errors.ErrDeploymentIO, "source %s is a directory", e.ResolvedSource))
	}

	missing, conflict := missingDirs(fsys, e.ResolvedDest)
	if conflict != nil {
		return fail(conflict)
	}
	res.CreatedDirs = missing
	res.Bytes = info.Size()

	if d.opts.DryRun {
		res.Status = types.EntryPlanned
		d.logger.Debug().Str("source", e.ResolvedSource).Str("dest", e.ResolvedDest).Msg("Would copy")
		return res
	}

	if len(missing) > 0 {
		if err := fsys.MkdirAll(filepath.Dir(e.ResolvedDest), d.opts.DirMode); err != nil {
			if stderrors.Is(err, syscall.ENOTDIR) || stderrors.Is(err, fs.ErrExist) {
				return fail(errors.Wrapf(err, errors.ErrDestinationConflict,
					"cannot create directories for %s", e.ResolvedDest))
			}
			return fail(errors.Wrapf(err, errors.ErrDeploymentIO, "cannot create directories for %s", e.ResolvedDest))
		}
	}

	data, err := fsys.ReadFile(e.ResolvedSource)
	if err != nil {
		return fail(errors.Wrapf(err, errors.ErrDeploymentIO, "cannot read source %s", e.ResolvedSource))
	}
	res.Bytes = int64(len(data))
	res.Checksum = hashutil.Checksum(data)

	if current, err := fsys.ReadFile(e.ResolvedDest); err == nil && bytes.Equal(current, data) {
		res.Status = types.EntryUnchanged
		d.logger.Debug().Str("dest", e.ResolvedDest).Msg("Destination up to date")
		return res
	}

	mode := d.opts.FileMode
	if mode == 0 {
		mode = info.Mode().Perm()
	}
	if err := replaceFile(fsys, e.ResolvedDest, data, mode); err != nil {
		return fail(errors.Wrapf(err, errors.ErrDeploymentIO, "cannot write %s", e.ResolvedDest))
	}

	res.Status = types.EntryCopied
	d.logger.Debug().
		Str("source", e.ResolvedSource).
		Str("dest", e.ResolvedDest).
		Int64("bytes", res.Bytes).
		Msg("Copied")
	return res
}

// replaceFile writes data to dest. A read-only regular file already at
// dest, such as one a previous deploy copied from a 0444 source, is
// removed and written again. When that fails the original write error
// is returned.
func replaceFile(fsys types.FS, dest string, data []byte, mode fs.FileMode) error {
	err := fsys.WriteFile(dest, data, mode)
	if err == nil || !stderrors.Is(err, fs.ErrPermission) {
		return err
	}
	info, serr := fsys.Stat(dest)
	if serr != nil || !info.Mode().IsRegular() {
		return err
	}
	if rerr := fsys.Remove(dest); rerr != nil {
		return err
	}
	return fsys.WriteFile(dest, data, mode)
}

// missingDirs walks from the destination's parent towards the filesystem
// root and returns the directories that do not exist yet, outermost first.
// Any non-directory on that path, or a directory at the destination itself,
// is a DESTINATION_CONFLICT.
func missingDirs(fsys types.FS, dest string) ([]string, *errors.Error) {
	if info, err := fsys.Stat(dest); err == nil && info.IsDir() {
		return nil, errors.Newf(errors.ErrDestinationConflict, "destination %s is a directory", dest)
	}

	var missing []string
	dir := filepath.Dir(dest)
	for {
		info, err := fsys.Stat(dir)
		switch {
		case err == nil && !info.IsDir():
			return nil, errors.Newf(errors.ErrDestinationConflict, "%s exists and is not a directory", dir).
				WithDetail(errors.DetailPath, dir)
		case err == nil:
			reverse(missing)
			return missing, nil
		case isNotExist(err):
			missing = append(missing, dir)
		default:
			return nil, errors.Wrapf(err, errors.ErrDeploymentIO, "cannot stat %s", dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			reverse(missing)
			return missing, nil
		}
		dir = parent
	}
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// isNotExist also treats ENOTDIR as absence: a path running through a
// regular file cannot exist.
func isNotExist(err error) bool {
	return err != nil && (stderrors.Is(err, fs.ErrNotExist) || stderrors.Is(err, syscall.ENOTDIR))
}

func withEntry(err *errors.Error, e types.ResolvedEntry) *errors.Error {
	return err.WithDetails(map[string]interface{}{
		errors.DetailCategory:       e.Category,
		errors.DetailIndex:          e.Index,
		errors.DetailSource:         e.Entry.Source,
		errors.DetailDest:           e.Entry.Dest,
		errors.DetailResolvedSource: e.ResolvedSource,
		errors.DetailResolvedDest:   e.ResolvedDest,
	})
}

func warnDuplicates(logger zerolog.Logger, plan []types.ResolvedEntry) {
	dups := DuplicateDestinations(plan)
	dests := make([]string, 0, len(dups))
	for dest := range dups {
		dests = append(dests, dest)
	}
	sort.Strings(dests)

	for _, dest := range dests {
		var claimants []string
		for _, e := range dups[dest] {
			claimants = append(claimants, e.Category+"/"+e.Entry.Source)
		}
		logger.Warn().
			Str("dest", dest).
			Strs("entries", claimants).
			Msg("Several entries deploy to the same destination; the last one wins")
	}
}
