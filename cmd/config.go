package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"db-compare/internal/database"
	"db-compare/internal/mapping"
	"db-compare/internal/platform"
)

// dataSources holds both sides of a comparison.
type dataSources struct {
	sourceCfg *database.Config
	targetCfg *database.Config
	source    *platform.Database
	target    *platform.Database
}

func (d *dataSources) Close() {
	if d.source != nil {
		d.source.DB().Close()
	}
	if d.target != nil {
		d.target.DB().Close()
	}
}

// openDataSources connects to the databases named by compare.source and compare.target.
func openDataSources(ctx context.Context) (*dataSources, error) {
	if Cfg.Compare.Source == "" || Cfg.Compare.Target == "" {
		return nil, fmt.Errorf("compare.source and compare.target are required (via flag or config)")
	}
	srcCfg, err := Cfg.Database(Cfg.Compare.Source)
	if err != nil {
		return nil, err
	}
	tgtCfg, err := Cfg.Database(Cfg.Compare.Target)
	if err != nil {
		return nil, err
	}

	ds := &dataSources{sourceCfg: srcCfg, targetCfg: tgtCfg}
	if ds.source, err = database.Open(ctx, *srcCfg); err != nil {
		return nil, err
	}
	if ds.target, err = database.Open(ctx, *tgtCfg); err != nil {
		ds.Close()
		return nil, err
	}
	Log.Info("Connected",
		zap.String("source", srcCfg.Name), zap.String("source_driver", ds.source.Name()),
		zap.String("target", tgtCfg.Name), zap.String("target_driver", ds.target.Name()))
	return ds, nil
}

// resolvePairings lists the candidate tables and pairs them with their targets.
func resolvePairings(ctx context.Context, ds *dataSources) ([]*mapping.Pairing, error) {
	cc := Cfg.Compare
	candidates, err := mapping.Candidates(ctx, ds.source, cc.UseCatalog, cc.Include, cc.ConfigTablePrefix)
	if err != nil {
		return nil, err
	}

	resolver := &mapping.Resolver{
		Source:          ds.source,
		Target:          ds.target,
		SourceNodeGroup: ds.sourceCfg.NodeGroup,
		TargetNodeGroup: ds.targetCfg.NodeGroup,
		Transforms:      mapping.StaticTransforms(Cfg.Transforms),
		Logger:          Log,
	}
	pairings, err := resolver.Resolve(ctx, candidates, cc.Include, cc.Exclude)
	if err != nil {
		return nil, err
	}
	if len(pairings) == 0 {
		return nil, fmt.Errorf("no comparable tables found for inputs: %v", candidates)
	}
	return pairings, nil
}

// applySelectionFlags overrides the table selection with the flags shared by the
// compare and tables commands. Flag > Config.
func applySelectionFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("source") {
		Cfg.Compare.Source, _ = flags.GetString("source")
	}
	if flags.Changed("target") {
		Cfg.Compare.Target, _ = flags.GetString("target")
	}
	if flags.Changed("tables") {
		Cfg.Compare.Include = tables
	}
	if flags.Changed("exclude") {
		Cfg.Compare.Exclude = excludeTables
	}
}
