package verify

import (
	stderrors "errors"
	"io/fs"
	"time"

	"github.com/arthur-debert/assetdeploy/pkg/deploy"
	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/arthur-debert/assetdeploy/pkg/filesystem"
	"github.com/arthur-debert/assetdeploy/pkg/internal/hashutil"
	"github.com/arthur-debert/assetdeploy/pkg/logging"
	"github.com/arthur-debert/assetdeploy/pkg/types"
)

// Options selects which checks run
type Options struct {
	// FS defaults to the OS filesystem
	FS types.FS

	// SVG enables the XML checks on .svg destinations
	SVG bool

	// CompareSource flags destinations whose bytes differ from their source
	CompareSource bool
}

// DefaultOptions runs every check on the OS filesystem
func DefaultOptions() Options {
	return Options{SVG: true, CompareSource: true}
}

// EntryReport is the verification outcome of one entry
type EntryReport struct {
	types.ResolvedEntry
	OK       bool     `json:"ok"`
	Bytes    int64    `json:"bytes"`
	Checksum string   `json:"checksum,omitempty"`
	Errors   []error  `json:"-"`
	Problems []string `json:"problems,omitempty"`
}

// Report is the outcome of verifying a whole mapping
type Report struct {
	DestinationRoot string        `json:"destinationRoot"`
	Entries         []EntryReport `json:"entries"`
	Duration        time.Duration `json:"duration"`
}

// Passed returns the number of entries without problems
func (r *Report) Passed() int {
	n := 0
	for _, e := range r.Entries {
		if e.OK {
			n++
		}
	}
	return n
}

// OK reports whether every entry passed
func (r *Report) OK() bool {
	return r.Passed() == len(r.Entries)
}

// Verify checks every entry of m. The error aggregates every problem found
// and is nil when the whole tree checks out.
func Verify(m *types.Mapping, sourceRoot, destinationRoot string, opts Options) (*Report, error) {
	if m == nil {
		return nil, errors.New(errors.ErrInvalidInput, "no mapping given")
	}
	if opts.FS == nil {
		opts.FS = filesystem.NewOS()
	}

	logger := logging.GetLogger("verify")
	start := time.Now()

	report := &Report{DestinationRoot: destinationRoot}
	var errs errors.List
	for _, e := range deploy.Plan(m, sourceRoot, destinationRoot) {
		entry := CheckEntry(opts.FS, e, opts)
		for _, err := range entry.Errors {
			errs.Append(err)
		}
		report.Entries = append(report.Entries, entry)
	}
	report.Duration = time.Since(start)

	logger.Info().
		Int("entries", len(report.Entries)).
		Int("passed", report.Passed()).
		Int("problems", errs.Len()).
		Msg("Verification finished")
	return report, errs.ErrOrNil()
}

// CheckEntry runs the enabled checks against one resolved entry
func CheckEntry(fsys types.FS, e types.ResolvedEntry, opts Options) (report EntryReport) {
	report = EntryReport{ResolvedEntry: e}
	add := func(err *errors.Error) {
		err = err.WithDetails(map[string]interface{}{
			errors.DetailCategory:     e.Category,
			errors.DetailIndex:        e.Index,
			errors.DetailSource:       e.Entry.Source,
			errors.DetailDest:         e.Entry.Dest,
			errors.DetailResolvedDest: e.ResolvedDest,
		})
		report.Errors = append(report.Errors, err)
		report.Problems = append(report.Problems, err.Error())
	}
	defer func() { report.OK = len(report.Errors) == 0 }()

	info, err := fsys.Stat(e.ResolvedDest)
	switch {
	case err != nil && stderrors.Is(err, fs.ErrNotExist):
		add(errors.Newf(errors.ErrAssetMissing, "%s is missing", e.ResolvedDest))
		return report
	case err != nil:
		add(errors.Wrapf(err, errors.ErrAssetMissing, "cannot stat %s", e.ResolvedDest))
		return report
	case info.IsDir():
		add(errors.Newf(errors.ErrAssetMissing, "%s is a directory", e.ResolvedDest))
		return report
	}

	data, err := fsys.ReadFile(e.ResolvedDest)
	if err != nil {
		add(errors.Wrapf(err, errors.ErrAssetMissing, "cannot read %s", e.ResolvedDest))
		return report
	}
	report.Bytes = int64(len(data))
	report.Checksum = hashutil.Checksum(data)

	if len(data) == 0 {
		add(errors.Newf(errors.ErrAssetEmpty, "%s is empty", e.ResolvedDest))
		return report
	}

	if opts.CompareSource {
		// An unreadable source is the deployer's problem; there is nothing
		// to compare against here.
		if sourceSum, err := hashutil.FileChecksum(fsys, e.ResolvedSource); err == nil && sourceSum != report.Checksum {
			add(errors.Newf(errors.ErrAssetStale, "%s differs from %s", e.ResolvedDest, e.ResolvedSource).
				WithDetail(errors.DetailResolvedSource, e.ResolvedSource).
				WithDetail("sourceChecksum", sourceSum).
				WithDetail("checksum", report.Checksum))
		}
	}

	if opts.SVG && isSVG(e.ResolvedDest) {
		if err := CheckSVG(data); err != nil {
			var appErr *errors.Error
			if stderrors.As(err, &appErr) {
				add(appErr)
			}
		}
	}
	return report
}
