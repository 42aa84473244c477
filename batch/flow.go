package batch

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/emptyOVO/tazagg-go/batch/mysql_batch"
	"github.com/emptyOVO/tazagg-go/batch/redis_batch"
	"github.com/emptyOVO/tazagg-go/taz"
	log "github.com/sirupsen/logrus"
)

// FlowConfig describes a config-driven source/zones/aggregate/sink pipeline.
type FlowConfig struct {
	Version   string              `json:"version" yaml:"version"`
	Source    FlowSourceConfig    `json:"source" yaml:"source"`
	Zones     FlowZonesConfig     `json:"zones" yaml:"zones"`
	Aggregate FlowAggregateConfig `json:"aggregate" yaml:"aggregate"`
	Sink      FlowSinkConfig      `json:"sink" yaml:"sink"`
}

type FlowSourceConfig struct {
	Type        string            `json:"type" yaml:"type"`
	DB          DBConfig          `json:"db" yaml:"db"`
	Redis       RedisConnConfig   `json:"redis" yaml:"redis"`
	Config      SourceConfig      `json:"config" yaml:"config"`
	RedisConfig RedisSourceConfig `json:"redis_config" yaml:"redis_config"`
}

type FlowZonesConfig struct {
	Type   string      `json:"type" yaml:"type"` // mysql | file
	DB     DBConfig    `json:"db" yaml:"db"`
	Config ZonesConfig `json:"config" yaml:"config"`
	Path   string      `json:"path" yaml:"path"`
}

type FlowAggregateConfig struct {
	Workers int   `json:"workers" yaml:"workers"`
	Width   int   `json:"width" yaml:"width"`
	MaxNode int64 `json:"max_node" yaml:"max_node"`
}

type FlowSinkConfig struct {
	Type        string          `json:"type" yaml:"type"` // mysql | redis | file
	DB          DBConfig        `json:"db" yaml:"db"`
	Redis       RedisConnConfig `json:"redis" yaml:"redis"`
	Config      SinkConfig      `json:"config" yaml:"config"`
	RedisConfig RedisSinkConfig `json:"redis_config" yaml:"redis_config"`
	Path        string          `json:"path" yaml:"path"`
}

func (c *FlowConfig) withDefaults() {
	if c.Source.Type == "" {
		c.Source.Type = "mysql"
	}
	if c.Zones.Type == "" {
		c.Zones.Type = "mysql"
	}
	if c.Sink.Type == "" {
		c.Sink.Type = "mysql"
	}
	if c.Aggregate.Workers <= 0 {
		c.Aggregate.Workers = 16
	}
	if c.Aggregate.Width <= 0 {
		c.Aggregate.Width = taz.DefaultWidth
	}
	c.Source.Config.WithDefaults()
	c.Source.RedisConfig.WithDefaults()
	c.Zones.Config.WithDefaults()
	c.Sink.Config.WithDefaults()
	c.Sink.RedisConfig.WithDefaults()
}

// FlowBenchmarkResult captures source/aggregate/sink stage durations.
type FlowBenchmarkResult struct {
	SourceDuration    time.Duration
	AggregateDuration time.Duration
	SinkDuration      time.Duration
	TotalDuration     time.Duration
}

// RunFlow executes source -> aggregate -> sink defined by FlowConfig.
func RunFlow(ctx context.Context, cfg FlowConfig) error {
	_, err := runFlowInternal(ctx, cfg, false)
	return err
}

// RunFlowBenchmark executes a config-driven flow and reports stage durations.
func RunFlowBenchmark(ctx context.Context, cfg FlowConfig) (FlowBenchmarkResult, error) {
	return runFlowInternal(ctx, cfg, true)
}

func runFlowInternal(ctx context.Context, cfg FlowConfig, collectDur bool) (FlowBenchmarkResult, error) {
	var bench FlowBenchmarkResult
	started := time.Now()

	cfg.withDefaults()
	if err := ValidateFlowConfig(cfg); err != nil {
		return bench, err
	}

	table, err := loadFlowZones(ctx, cfg)
	if err != nil {
		return bench, err
	}

	sSource := time.Now()
	var files []string
	switch cfg.Source.Type {
	case "mysql":
		sourceDB, err := openDB(ctx, cfg.Source.DB)
		if err != nil {
			return bench, err
		}
		files, err = mysql_batch.NewSourceAdapter(cfg.Source.Config).Export(ctx, sourceDB)
		sourceDB.Close()
		if err != nil {
			return bench, err
		}
	case "redis":
		files, err = redis_batch.NewSourceAdapter(cfg.Source.Redis, cfg.Source.RedisConfig).Export(ctx)
		if err != nil {
			return bench, err
		}
	}
	if collectDur {
		bench.SourceDuration = time.Since(sSource)
	}
	if len(files) == 0 {
		log.Infof("[Flow] %s source produced no trips, nothing to aggregate", cfg.Source.Type)
		return bench, nil
	}
	log.Infof("[Flow] %s source produced %d shard files", cfg.Source.Type, len(files))

	var outputPath string
	switch cfg.Sink.Type {
	case "mysql":
		glob := mysql_batch.NewSinkAdapter(cfg.Sink.Config).InputGlob()
		cleanupHistogramOutputs(glob)
		outputPath = outputPathFor(glob)
	case "redis":
		glob := redis_batch.NewSinkAdapter(cfg.Sink.Redis, cfg.Sink.RedisConfig).InputGlob()
		cleanupHistogramOutputs(glob)
		outputPath = outputPathFor(glob)
	case "file":
		outputPath = cfg.Sink.Path
	}

	sAggregate := time.Now()
	if err := RunAggregation(ctx, AggregateRunConfig{
		Files:      files,
		Table:      table,
		Workers:    cfg.Aggregate.Workers,
		OutputPath: outputPath,
	}); err != nil {
		return bench, err
	}
	if collectDur {
		bench.AggregateDuration = time.Since(sAggregate)
	}

	sSink := time.Now()
	switch cfg.Sink.Type {
	case "mysql":
		sinkDB, err := openDB(ctx, cfg.Sink.DB)
		if err != nil {
			return bench, err
		}
		err = mysql_batch.NewSinkAdapter(cfg.Sink.Config).Import(ctx, sinkDB)
		sinkDB.Close()
		if err != nil {
			return bench, err
		}
	case "redis":
		if err := redis_batch.NewSinkAdapter(cfg.Sink.Redis, cfg.Sink.RedisConfig).Import(ctx); err != nil {
			return bench, err
		}
	case "file":
		// The runner already wrote the histogram to cfg.Sink.Path.
	}
	if collectDur {
		bench.SinkDuration = time.Since(sSink)
		bench.TotalDuration = time.Since(started)
	}
	return bench, nil
}

func loadFlowZones(ctx context.Context, cfg FlowConfig) (*taz.Table, error) {
	var nodeZones map[int64][]int32
	switch cfg.Zones.Type {
	case "mysql":
		zonesDB, err := openDB(ctx, cfg.Zones.DB)
		if err != nil {
			return nil, err
		}
		nodeZones, err = mysql_batch.LoadZoneRows(ctx, zonesDB, cfg.Zones.Config)
		zonesDB.Close()
		if err != nil {
			return nil, err
		}
	case "file":
		raw, err := os.ReadFile(cfg.Zones.Path)
		if err != nil {
			return nil, err
		}
		nodeZones = taz.DecodeZoneMap(string(raw))
	default:
		return nil, fmt.Errorf("unsupported zones.type: %s", cfg.Zones.Type)
	}
	return taz.BuildTable(nodeZones, cfg.Aggregate.MaxNode, cfg.Aggregate.Width)
}
