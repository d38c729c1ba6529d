package mapping

import (
	"fmt"
	"sort"

	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/arthur-debert/assetdeploy/pkg/types"
)

// FromValue converts a generically decoded mapping (nested maps and
// slices, as produced by TOML or JSON decoders) into a typed mapping.
// Categories are sorted by name since the input carries no order.
func FromValue(v interface{}) (*types.Mapping, error) {
	m := &types.Mapping{Layout: types.LayoutCategorized}
	if v == nil {
		return m, nil
	}

	root, ok := asStringMap(v)
	if !ok {
		return nil, errors.Newf(errors.ErrMalformedMapping, "mapping must be a map of categories, got %T", v)
	}

	names := make([]string, 0, len(root))
	for name := range root {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs errors.List
	for _, name := range names {
		if err := ValidateCategoryName(name); err != nil {
			errs.Append(err)
			continue
		}

		category := types.Category{Name: name}
		items, ok := asSlice(root[name])
		if !ok {
			errs.Append(errors.Newf(errors.ErrMalformedMapping,
				"category %q must be a list of entries, got %T", name, root[name]).
				WithDetail(errors.DetailCategory, name))
			continue
		}

		for index, item := range items {
			entry, err := entryFromValue(name, index, item)
			if err != nil {
				errs.Append(err)
				continue
			}
			category.Entries = append(category.Entries, entry)
		}
		m.Categories = append(m.Categories, category)
	}

	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return m, nil
}

func entryFromValue(category string, index int, item interface{}) (types.Entry, error) {
	var entry types.Entry

	fields, ok := asStringMap(item)
	if !ok {
		return entry, entryError(category, index,
			fmt.Sprintf("entry must be a map with %q and %q, got %T", keySource, keyDest, item))
	}

	for _, key := range []string{keySource, keyDest} {
		raw, present := fields[key]
		if !present || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return entry, entryError(category, index, fmt.Sprintf("%q must be a string, got %T", key, raw))
		}
		if key == keySource {
			entry.Source = s
		} else {
			entry.Dest = s
		}
	}

	if err := ValidateEntry(category, index, entry); err != nil {
		return entry, err
	}
	return entry, nil
}

func asStringMap(v interface{}) (map[string]interface{}, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		return t, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

func asSlice(v interface{}) ([]interface{}, bool) {
	switch t := v.(type) {
	case nil:
		return nil, true
	case []interface{}:
		return t, true
	case []map[string]interface{}:
		out := make([]interface{}, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	}
	return nil, false
}
