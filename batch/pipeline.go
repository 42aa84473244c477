package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/emptyOVO/tazagg-go/batch/mysql_batch"
	"github.com/emptyOVO/tazagg-go/taz"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// RunPipeline executes MySQL source -> parallel TAZ aggregation -> MySQL sink
// in-process: load the zone listing, build the lookup table, export trip
// visits into shard files, count them, import the histogram.
func RunPipeline(ctx context.Context, cfg PipelineConfig) error {
	cfg.withDefaults()
	if cfg.Source.Table == "" {
		return fmt.Errorf("source table is required")
	}
	if cfg.Zones.Table == "" {
		return fmt.Errorf("zone table is required")
	}
	if cfg.Sink.TargetTable == "" {
		return fmt.Errorf("target table is required")
	}

	sourceDBCfg := cfg.SourceDB
	if sourceDBCfg.Database == "" {
		sourceDBCfg = cfg.DB
	}
	sinkDBCfg := cfg.SinkDB
	if sinkDBCfg.Database == "" {
		sinkDBCfg = cfg.DB
	}

	sourceDB, err := openDB(ctx, sourceDBCfg)
	if err != nil {
		return err
	}
	defer sourceDB.Close()

	sinkDB, err := openDB(ctx, sinkDBCfg)
	if err != nil {
		return err
	}
	defer sinkDB.Close()

	nodeZones, err := mysql_batch.LoadZoneRows(ctx, sourceDB, cfg.Zones)
	if err != nil {
		return err
	}
	table, err := taz.BuildTable(nodeZones, cfg.MaxNode, cfg.Width)
	if err != nil {
		return err
	}
	log.Infof("[Pipeline] lookup table ready: %d nodes x %d slots, max TAZ %d", table.Nodes(), table.Width(), table.MaxZone())

	files, err := mysql_batch.ExportTripsByPKRange(ctx, sourceDB, cfg.Source)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Infof("[Pipeline] source %s is empty, nothing to aggregate", cfg.Source.Table)
		return nil
	}
	log.Infof("[Pipeline] exported %d trip shard files from %s", len(files), cfg.Source.Table)

	cleanupHistogramOutputs(cfg.Sink.InputGlob)

	if err := RunAggregation(ctx, AggregateRunConfig{
		Files:      files,
		Table:      table,
		Workers:    cfg.Workers,
		OutputPath: outputPathFor(cfg.Sink.InputGlob),
	}); err != nil {
		return err
	}

	log.Infof("[Pipeline] importing histogram into %s", cfg.Sink.TargetTable)
	return mysql_batch.ImportZoneCounts(ctx, sinkDB, cfg.Sink)
}

// outputPathFor derives a concrete histogram path matching the sink's input
// glob, tagged with a fresh run id.
func outputPathFor(glob string) string {
	if strings.Contains(glob, "*") {
		return strings.Replace(glob, "*", uuid.New().String()[:8], 1)
	}
	return glob
}

func cleanupHistogramOutputs(inputGlob string) {
	if outs, err := filepath.Glob(inputGlob); err == nil {
		for _, out := range outs {
			_ = os.Remove(out)
		}
	}
}
