package mapping

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"db-compare/internal/platform"
)

// ErrNoTablesSelected is returned when tables are chosen manually but none were named.
var ErrNoTablesSelected = errors.New("no tables selected: an include list is required when not using the catalog")

// DefaultConfigTablePrefix marks the replication runtime's own tables.
const DefaultConfigTablePrefix = "sym_"

// FilterTables applies the include then exclude lists to candidates. Names are
// compared trimmed and case-insensitively; survivors keep the include list's order.
func FilterTables(candidates, include, exclude []string) []string {
	var filtered []string
	if len(include) > 0 {
		seen := make(map[string]bool)
		for _, inc := range include {
			for _, name := range candidates {
				if sameName(name, inc) && !seen[name] {
					seen[name] = true
					filtered = append(filtered, name)
				}
			}
		}
	} else {
		filtered = append(filtered, candidates...)
	}

	if len(exclude) == 0 {
		return filtered
	}
	kept := filtered[:0:0]
	for _, name := range filtered {
		excluded := false
		for _, exc := range exclude {
			if sameName(name, exc) {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, name)
		}
	}
	return kept
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Candidates returns the table names a run starts from. With useCatalog the source
// catalog is listed, minus tables carrying configPrefix; otherwise the include list
// itself is the candidate set and must not be empty.
func Candidates(ctx context.Context, source platform.Adapter, useCatalog bool, include []string, configPrefix string) ([]string, error) {
	if !useCatalog {
		var names []string
		for _, n := range include {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		if len(names) == 0 {
			return nil, ErrNoTablesSelected
		}
		return names, nil
	}

	all, err := source.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source tables: %w", err)
	}
	prefix := strings.ToLower(configPrefix)
	var names []string
	for _, n := range all {
		if prefix != "" && strings.HasPrefix(strings.ToLower(n), prefix) {
			continue
		}
		names = append(names, n)
	}
	return names, nil
}
