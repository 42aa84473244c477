package batch

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/emptyOVO/tazagg-go/batch/mysql_batch"
	"github.com/emptyOVO/tazagg-go/batch/redis_batch"
	"github.com/emptyOVO/tazagg-go/taz"
	_ "github.com/go-sql-driver/mysql"
)

var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// DBConfig defines MySQL connection parameters.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Params   map[string]string
}

func (c DBConfig) dsn() string {
	host := c.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := c.Port
	if port == 0 {
		port = 3306
	}
	params := map[string]string{
		"parseTime": "true",
		"charset":   "utf8mb4",
	}
	for k, v := range c.Params {
		params[k] = v
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, params[k]))
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.User,
		c.Password,
		host,
		port,
		c.Database,
		strings.Join(parts, "&"),
	)
}

func openDB(ctx context.Context, cfg DBConfig) (*sql.DB, error) {
	if cfg.User == "" {
		return nil, fmt.Errorf("db user is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("db database is required")
	}
	db, err := sql.Open("mysql", cfg.dsn())
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenForApp opens a MySQL connection for advanced/custom flows.
func OpenForApp(ctx context.Context, cfg DBConfig) (*sql.DB, error) {
	return openDB(ctx, cfg)
}

func quoteIdentifier(s string) (string, error) {
	if !identifierRe.MatchString(s) {
		return "", fmt.Errorf("invalid identifier: %s", s)
	}
	return "`" + s + "`", nil
}

// Unified source/sink config aliases exposed by batch package.
type SourceConfig = mysql_batch.SourceConfig
type ZonesConfig = mysql_batch.ZonesConfig
type SinkConfig = mysql_batch.SinkConfig
type RedisConnConfig = redis_batch.ConnConfig
type RedisSourceConfig = redis_batch.SourceConfig
type RedisSinkConfig = redis_batch.SinkConfig

// PipelineConfig describes an end-to-end MySQL -> TAZ aggregation -> MySQL job.
type PipelineConfig struct {
	DB       DBConfig // fallback when SourceDB/SinkDB are not set
	SourceDB DBConfig
	SinkDB   DBConfig
	Source   SourceConfig
	Zones    ZonesConfig
	Sink     SinkConfig
	Workers  int
	Width    int   // TAZ slots per node row, defaults to taz.DefaultWidth
	MaxNode  int64 // exclusive node id bound; 0 derives it from the zone listing
}

func (c *PipelineConfig) withDefaults() {
	if c.Workers <= 0 {
		c.Workers = 16
	}
	if c.Width <= 0 {
		c.Width = taz.DefaultWidth
	}
	c.Source.WithDefaults()
	c.Zones.WithDefaults()
	c.Sink.WithDefaults()
}

// PrepareConfig configures synthetic trip/zone table generation for benchmarking.
type PrepareConfig struct {
	TripTable string
	ZoneTable string
	Trips     int64
	TripLen   int
	MaxNode   int64
	MaxZone   int32
	Width     int
}

func (c *PrepareConfig) withDefaults() {
	if c.TripTable == "" {
		c.TripTable = "trip_nodes"
	}
	if c.ZoneTable == "" {
		c.ZoneTable = "node_taz"
	}
	if c.Trips <= 0 {
		c.Trips = 1000000
	}
	if c.TripLen <= 0 {
		c.TripLen = 20
	}
	if c.MaxNode <= 0 {
		c.MaxNode = 100000
	}
	if c.MaxZone <= 0 {
		c.MaxZone = 2000
	}
	if c.Width <= 0 {
		c.Width = taz.DefaultWidth
	}
}

// ValidateConfig compares a direct SQL join aggregation with the sink table.
type ValidateConfig struct {
	TripTable   string
	TripNodeCol string
	ZoneTable   string
	ZoneNodeCol string
	ZoneCol     string
	TargetTable string
	TargetKey   string
	TargetVal   string
}

func (c *ValidateConfig) withDefaults() {
	if c.TripNodeCol == "" {
		c.TripNodeCol = "node_id"
	}
	if c.ZoneNodeCol == "" {
		c.ZoneNodeCol = "node_id"
	}
	if c.ZoneCol == "" {
		c.ZoneCol = "taz_id"
	}
	if c.TargetKey == "" {
		c.TargetKey = "taz_id"
	}
	if c.TargetVal == "" {
		c.TargetVal = "visits"
	}
}
