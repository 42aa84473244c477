package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/emptyOVO/tazagg-go/batch"
	"github.com/emptyOVO/tazagg-go/taz"
	"gopkg.in/yaml.v3"
)

func getenvInt(name string, d int) int {
	v := os.Getenv(name)
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return d
	}
	return n
}

func getenvInt64(name string, d int64) int64 {
	v := os.Getenv(name)
	if v == "" {
		return d
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return d
	}
	return n
}

func getenvBool(name string, d bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return d
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return d
	}
	return b
}

func main() {
	mode := flag.String("mode", "pipeline", "pipeline|prepare|validate|benchmark")
	configPath := flag.String("config", "", "Flow config file path (JSON or YAML)")
	checkOnly := flag.Bool("check", false, "Validate flow config schema only (requires -config)")
	flag.Parse()

	if *configPath != "" {
		cfg, err := loadFlowConfig(*configPath)
		must(err)
		must(batch.ValidateFlowConfig(cfg))
		if *checkOnly {
			fmt.Println("config check pass")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
		defer cancel()
		switch *mode {
		case "pipeline":
			must(batch.RunFlow(ctx, cfg))
			fmt.Println("flow done")
		case "benchmark":
			result, err := batch.RunFlowBenchmark(ctx, cfg)
			must(err)
			fmt.Printf("source=%s aggregate=%s sink=%s total=%s\n", result.SourceDuration, result.AggregateDuration, result.SinkDuration, result.TotalDuration)
		default:
			must(fmt.Errorf("mode %s is not supported with -config (use pipeline|benchmark)", *mode))
		}
		return
	}
	if *checkOnly {
		must(fmt.Errorf("-check requires -config"))
	}

	baseDB := batch.DBConfig{
		Host:     getenvDefault("MYSQL_HOST", "127.0.0.1"),
		Port:     getenvInt("MYSQL_PORT", 3306),
		User:     getenvDefault("MYSQL_USER", "root"),
		Password: os.Getenv("MYSQL_PASSWORD"),
		Database: os.Getenv("MYSQL_DB"),
	}
	sourceDB := batch.DBConfig{
		Host:     getenvDefault("MYSQL_SOURCE_HOST", baseDB.Host),
		Port:     getenvInt("MYSQL_SOURCE_PORT", baseDB.Port),
		User:     getenvDefault("MYSQL_SOURCE_USER", baseDB.User),
		Password: getenvDefault("MYSQL_SOURCE_PASSWORD", baseDB.Password),
		Database: getenvDefault("MYSQL_SOURCE_DB", baseDB.Database),
	}
	targetDB := batch.DBConfig{
		Host:     getenvDefault("MYSQL_TARGET_HOST", baseDB.Host),
		Port:     getenvInt("MYSQL_TARGET_PORT", baseDB.Port),
		User:     getenvDefault("MYSQL_TARGET_USER", baseDB.User),
		Password: getenvDefault("MYSQL_TARGET_PASSWORD", baseDB.Password),
		Database: getenvDefault("MYSQL_TARGET_DB", baseDB.Database),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	tripTable := getenvDefault("TRIP_TABLE", "trip_nodes")
	zoneTable := getenvDefault("ZONE_TABLE", "node_taz")
	targetTable := getenvDefault("TARGET_TABLE", "taz_visits")

	sourceCfg := batch.SourceConfig{
		Table:      tripTable,
		PKColumn:   getenvDefault("PK_COL", "id"),
		TripColumn: getenvDefault("TRIP_COL", "trip_id"),
		SeqColumn:  getenvDefault("SEQ_COL", "seq"),
		NodeColumn: getenvDefault("NODE_COL", "node_id"),
		Where:      getenvDefault("SOURCE_WHERE", "1=1"),
		Shards:     getenvInt("SOURCE_SHARDS", 16),
		Parallel:   getenvInt("SOURCE_PARALLEL", 4),
		OutputDir:  getenvDefault("SOURCE_OUT_DIR", filepath.Join("txt", "trip_source")),
	}
	zonesCfg := batch.ZonesConfig{
		Table:      zoneTable,
		NodeColumn: getenvDefault("ZONE_NODE_COL", "node_id"),
		ZoneColumn: getenvDefault("ZONE_TAZ_COL", "taz_id"),
	}
	sinkCfg := batch.SinkConfig{
		TargetTable: targetTable,
		ZoneColumn:  getenvDefault("TARGET_KEY_COL", "taz_id"),
		ValColumn:   getenvDefault("TARGET_VALUE_COL", "visits"),
		InputGlob:   getenvDefault("HISTOGRAM_GLOB", "taz-out-*.txt"),
		Replace:     getenvBool("SINK_REPLACE", true),
		BatchSize:   getenvInt("SINK_BATCH_SIZE", 2000),
	}

	switch *mode {
	case "pipeline":
		err := batch.RunPipeline(ctx, batch.PipelineConfig{
			DB:       baseDB,
			SourceDB: sourceDB,
			SinkDB:   targetDB,
			Source:   sourceCfg,
			Zones:    zonesCfg,
			Sink:     sinkCfg,
			Workers:  getenvInt("AGG_WORKERS", 16),
			Width:    getenvInt("ZONE_WIDTH", taz.DefaultWidth),
			MaxNode:  getenvInt64("MAX_NODE", 0),
		})
		must(err)
		fmt.Println("pipeline done")
	case "prepare":
		dbc, err := batch.OpenForApp(ctx, sourceDB)
		must(err)
		defer dbc.Close()
		err = batch.PrepareSyntheticDataset(ctx, dbc, batch.PrepareConfig{
			TripTable: tripTable,
			ZoneTable: zoneTable,
			Trips:     getenvInt64("TRIPS", 1000000),
			TripLen:   getenvInt("TRIP_LEN", 20),
			MaxNode:   getenvInt64("MAX_NODE", 100000),
			MaxZone:   int32(getenvInt("MAX_ZONE", 2000)),
			Width:     getenvInt("ZONE_WIDTH", taz.DefaultWidth),
		})
		must(err)
		fmt.Println("prepare done")
	case "validate":
		dbc, err := batch.OpenForApp(ctx, baseDB)
		must(err)
		defer dbc.Close()
		err = batch.ValidateAggregation(ctx, dbc, batch.ValidateConfig{
			TripTable:   tripTable,
			TripNodeCol: getenvDefault("NODE_COL", "node_id"),
			ZoneTable:   zoneTable,
			ZoneNodeCol: getenvDefault("ZONE_NODE_COL", "node_id"),
			ZoneCol:     getenvDefault("ZONE_TAZ_COL", "taz_id"),
			TargetTable: targetTable,
			TargetKey:   getenvDefault("TARGET_KEY_COL", "taz_id"),
			TargetVal:   getenvDefault("TARGET_VALUE_COL", "visits"),
		})
		must(err)
		fmt.Println("validate pass")
	case "benchmark":
		result, err := batch.RunBenchmark(ctx, batch.BenchmarkConfig{
			DB:      baseDB,
			Prepare: getenvBool("PREPARE_DATA", false),
			PrepareC: batch.PrepareConfig{
				TripTable: tripTable,
				ZoneTable: zoneTable,
				Trips:     getenvInt64("TRIPS", 1000000),
				TripLen:   getenvInt("TRIP_LEN", 20),
				MaxNode:   getenvInt64("MAX_NODE", 100000),
				MaxZone:   int32(getenvInt("MAX_ZONE", 2000)),
				Width:     getenvInt("ZONE_WIDTH", taz.DefaultWidth),
			},
			Pipeline: batch.PipelineConfig{
				SourceDB: sourceDB,
				SinkDB:   targetDB,
				Source:   sourceCfg,
				Zones:    zonesCfg,
				Sink:     sinkCfg,
				Workers:  getenvInt("AGG_WORKERS", 16),
				Width:    getenvInt("ZONE_WIDTH", taz.DefaultWidth),
				MaxNode:  getenvInt64("MAX_NODE", 0),
			},
			Validate: batch.ValidateConfig{
				TripTable:   tripTable,
				ZoneTable:   zoneTable,
				TargetTable: targetTable,
			},
		})
		must(err)
		fmt.Printf("prepare=%s pipeline=%s validate=%s total=%s\n", result.PrepareDuration, result.PipelineDuration, result.ValidateDuration, result.TotalDuration)
	default:
		must(fmt.Errorf("unsupported mode: %s", *mode))
	}
}

func getenvDefault(name, d string) string {
	v := os.Getenv(name)
	if v == "" {
		return d
	}
	return v
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadFlowConfig(path string) (batch.FlowConfig, error) {
	var cfg batch.FlowConfig
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, err
		}
	default:
		dec := json.NewDecoder(f)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}
