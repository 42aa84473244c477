package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/emptyOVO/tazagg-go/batch"
)

func getenvDefault(name, d string) string {
	v := os.Getenv(name)
	if v == "" {
		return d
	}
	return v
}

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

func main() {
	baseDB := batch.DBConfig{
		Host:     getenvDefault("MYSQL_HOST", "localhost"),
		Port:     getenvInt("MYSQL_PORT", 3306),
		User:     getenvDefault("MYSQL_USER", "root"),
		Password: getenvDefault("MYSQL_PASSWORD", "123456"),
		Database: getenvDefault("MYSQL_DB", "mysql"),
	}

	cfg := batch.PipelineConfig{
		DB: baseDB,
		Source: batch.SourceConfig{
			Table:    getenvDefault("TRIP_TABLE", "trip_nodes"),
			Shards:   getenvInt("SOURCE_SHARDS", 8),
			Parallel: getenvInt("SOURCE_PARALLEL", 4),
		},
		Zones: batch.ZonesConfig{
			Table: getenvDefault("ZONE_TABLE", "node_taz"),
		},
		Sink: batch.SinkConfig{
			TargetTable: getenvDefault("TARGET_TABLE", "taz_visits"),
			Replace:     true,
		},
		Workers: getenvInt("AGG_WORKERS", 8),
	}

	if err := batch.RunPipeline(context.Background(), cfg); err != nil {
		log.Fatal(err)
	}
}
