package mapping

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrAmbiguousColumn is returned for column overrides whose source names differ only in case.
var ErrAmbiguousColumn = errors.New("column override listed twice")

// Transform redirects a source table to a differently named target table and may
// rename individual columns on the way.
type Transform struct {
	SourceNodeGroup string            `mapstructure:"source_node_group" json:"source_node_group" yaml:"source_node_group"`
	TargetNodeGroup string            `mapstructure:"target_node_group" json:"target_node_group" yaml:"target_node_group"`
	SourceTable     string            `mapstructure:"source_table" json:"source_table" yaml:"source_table"`
	TargetCatalog   string            `mapstructure:"target_catalog" json:"target_catalog,omitempty" yaml:"target_catalog,omitempty"`
	TargetSchema    string            `mapstructure:"target_schema" json:"target_schema,omitempty" yaml:"target_schema,omitempty"`
	TargetTable     string            `mapstructure:"target_table" json:"target_table" yaml:"target_table"`
	Columns         map[string]string `mapstructure:"columns" json:"columns,omitempty" yaml:"columns,omitempty"` // source column -> target column
}

// TargetColumn returns the override for a source column, if any.
func (t *Transform) TargetColumn(source string) (string, bool) {
	if t == nil {
		return "", false
	}
	for src, tgt := range t.Columns {
		if strings.EqualFold(src, source) {
			return tgt, true
		}
	}
	return "", false
}

// Validate rejects column overrides that would make TargetColumn ambiguous.
func (t *Transform) Validate() error {
	names := make([]string, 0, len(t.Columns))
	for src := range t.Columns {
		names = append(names, src)
	}
	sort.Strings(names)
	seen := make(map[string]string, len(names))
	for _, src := range names {
		key := strings.ToLower(strings.TrimSpace(src))
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("transform %s: %w: %q and %q", t.SourceTable, ErrAmbiguousColumn, prev, src)
		}
		seen[key] = src
	}
	return nil
}

// TransformLookup finds the transform applying to a source table between two node groups.
type TransformLookup interface {
	FindTransform(sourceNodeGroup, targetNodeGroup, sourceTable string) *Transform
}

// StaticTransforms is a TransformLookup over a fixed list. An empty node group
// matches any group. The first match wins, and only if it names a target table.
type StaticTransforms []Transform

func (s StaticTransforms) FindTransform(sourceNodeGroup, targetNodeGroup, sourceTable string) *Transform {
	for i := range s {
		t := &s[i]
		if !groupMatches(t.SourceNodeGroup, sourceNodeGroup) || !groupMatches(t.TargetNodeGroup, targetNodeGroup) {
			continue
		}
		if !strings.EqualFold(t.SourceTable, sourceTable) {
			continue
		}
		if strings.TrimSpace(t.TargetTable) == "" {
			return nil
		}
		return t
	}
	return nil
}

// Validate checks every transform in the list.
func (s StaticTransforms) Validate() error {
	for i := range s {
		if err := s[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

func groupMatches(want, got string) bool {
	return want == "" || strings.EqualFold(want, got)
}
