package mapping

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/arthur-debert/assetdeploy/pkg/types"
)

// Validate checks an already-built mapping: category names must be single
// path elements and unique, and every entry must pass ValidateEntry.
func Validate(m *types.Mapping) error {
	var errs errors.List
	if m == nil {
		errs.Append(errors.New(errors.ErrMalformedMapping, "mapping is nil"))
		return errs.ErrOrNil()
	}
	if !m.EffectiveLayout().Valid() {
		errs.Append(errors.Newf(errors.ErrMalformedMapping, "unknown layout %q", m.Layout))
	}

	seen := make(map[string]bool, len(m.Categories))
	for _, c := range m.Categories {
		if err := ValidateCategoryName(c.Name); err != nil {
			errs.Append(err)
			continue
		}
		if seen[c.Name] {
			errs.Append(errors.Newf(errors.ErrMalformedMapping, "duplicate category %q", c.Name).
				WithDetail(errors.DetailCategory, c.Name))
			continue
		}
		seen[c.Name] = true

		for i, e := range c.Entries {
			errs.Append(ValidateEntry(c.Name, i, e))
		}
	}
	return errs.ErrOrNil()
}

// ValidateCategoryName rejects names that cannot be used as a single
// directory under the source root.
func ValidateCategoryName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.New(errors.ErrMalformedMapping, "category name is empty")
	case name == "." || name == "..":
		return errors.Newf(errors.ErrMalformedMapping, "category name %q is not allowed", name).
			WithDetail(errors.DetailCategory, name)
	case strings.ContainsAny(name, `/\`):
		return errors.Newf(errors.ErrMalformedMapping, "category name %q must not contain path separators", name).
			WithDetail(errors.DetailCategory, name)
	}
	return nil
}

// ValidateEntry returns a MALFORMED_MAPPING_ENTRY error when e is missing a
// field, its source is not a bare filename, or its dest is not a relative
// path that stays inside the destination root. It returns nil for a valid
// entry.
func ValidateEntry(category string, index int, e types.Entry) error {
	var problems []string

	switch {
	case e.Source == "":
		problems = append(problems, `missing "source"`)
	case e.Source == "." || e.Source == "..":
		problems = append(problems, `"source" must be a filename`)
	case strings.ContainsAny(e.Source, `/\`):
		problems = append(problems, `"source" must be a bare filename without path separators`)
	}

	switch {
	case e.Dest == "":
		problems = append(problems, `missing "dest"`)
	case filepath.IsAbs(e.Dest) || strings.HasPrefix(e.Dest, "/") || strings.HasPrefix(e.Dest, `\`):
		problems = append(problems, `"dest" must be a relative path`)
	default:
		cleaned := path.Clean(filepath.ToSlash(e.Dest))
		switch {
		case cleaned == ".":
			problems = append(problems, `"dest" must name a file`)
		case cleaned == ".." || strings.HasPrefix(cleaned, "../"):
			problems = append(problems, `"dest" escapes the destination root`)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return entryError(category, index, strings.Join(problems, "; ")).
		WithDetail(errors.DetailSource, e.Source).
		WithDetail(errors.DetailDest, e.Dest)
}

func entryError(category string, index int, problem string) *errors.Error {
	return errors.Newf(errors.ErrMalformedMappingEntry, "category %q entry %d: %s", category, index, problem).
		WithDetail(errors.DetailCategory, category).
		WithDetail(errors.DetailIndex, index)
}
