package mapping

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"db-compare/internal/platform"
)

// Resolver turns candidate table names into pairings. It reads metadata only.
type Resolver struct {
	Source platform.Adapter
	Target platform.Adapter

	SourceNodeGroup string
	TargetNodeGroup string
	Transforms      TransformLookup // optional

	Logger *zap.Logger
}

// Resolve filters candidates and pairs every survivor with its target table.
// Tables that cannot be paired are logged and left out.
func (r *Resolver) Resolve(ctx context.Context, candidates, include, exclude []string) ([]*Pairing, error) {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var pairings []*Pairing
	for _, name := range FilterTables(candidates, include, exclude) {
		if err := ctx.Err(); err != nil {
			return pairings, err
		}
		p, reason, err := r.resolveOne(ctx, strings.TrimSpace(name))
		if err != nil {
			return pairings, err
		}
		if p == nil {
			log.Warn("Skipping table", zap.String("table", name), zap.String("reason", reason))
			continue
		}
		log.Debug("Resolved table pairing",
			zap.String("source_table", p.Source.FullyQualifiedName()),
			zap.String("target_table", p.Target.FullyQualifiedName()),
			zap.Int("columns", len(p.Columns)))
		pairings = append(pairings, p)
	}
	return pairings, nil
}

func (r *Resolver) resolveOne(ctx context.Context, name string) (*Pairing, string, error) {
	src, err := r.Source.TableMetadata(ctx, "", "", name)
	if err != nil {
		return nil, "", fmt.Errorf("source metadata for %s: %w", name, err)
	}
	if src == nil {
		return nil, "no source table found", nil
	}
	if !src.HasPrimaryKey() {
		return nil, fmt.Sprintf("source table %s has no primary key columns", src.FullyQualifiedName()), nil
	}

	var transform *Transform
	if r.Transforms != nil {
		transform = r.Transforms.FindTransform(r.SourceNodeGroup, r.TargetNodeGroup, src.Name)
	}

	catalog, schemaName, targetName := "", "", src.Name
	if transform != nil {
		catalog, schemaName, targetName = transform.TargetCatalog, transform.TargetSchema, transform.TargetTable
	}
	tgt, err := r.Target.TableMetadata(ctx, catalog, schemaName, targetName)
	if err != nil {
		return nil, "", fmt.Errorf("target metadata for %s: %w", targetName, err)
	}
	if tgt == nil {
		return nil, fmt.Sprintf("no target table found for %s", targetName), nil
	}
	if !tgt.HasPrimaryKey() {
		return nil, fmt.Sprintf("target table %s has no primary key columns", tgt.FullyQualifiedName()), nil
	}

	p := NewPairing(src, tgt, transform)
	if _, unmapped := p.KeyPairs(); len(unmapped) > 0 {
		return nil, fmt.Sprintf("primary key columns %s have no target counterpart", strings.Join(unmapped, ", ")), nil
	}
	if _, ok := p.TargetKeyOrder(); !ok {
		return nil, fmt.Sprintf("target primary key of %s does not match the mapped source key", tgt.FullyQualifiedName()), nil
	}
	return p, "", nil
}
