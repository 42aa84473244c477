package mysql_batch

import (
	"fmt"
	"regexp"
)

// SourceConfig configures trip visit export from a MySQL table into text shards.
// The source table holds one row per visit: (pk, trip_id, seq, node_id).
type SourceConfig struct {
	Table      string `json:"table"`
	PKColumn   string `json:"pkcolumn"`
	TripColumn string `json:"tripcolumn"`
	SeqColumn  string `json:"seqcolumn"`
	NodeColumn string `json:"nodecolumn"`
	Where      string `json:"where"`
	Shards     int    `json:"shards"`
	Parallel   int    `json:"parallel"`
	OutputDir  string `json:"outputdir"`
	FilePrefix string `json:"fileprefix"`
}

func (c *SourceConfig) WithDefaults() {
	if c.PKColumn == "" {
		c.PKColumn = "id"
	}
	if c.TripColumn == "" {
		c.TripColumn = "trip_id"
	}
	if c.SeqColumn == "" {
		c.SeqColumn = "seq"
	}
	if c.NodeColumn == "" {
		c.NodeColumn = "node_id"
	}
	if c.Where == "" {
		c.Where = "1=1"
	}
	if c.Shards <= 0 {
		c.Shards = 16
	}
	if c.Parallel <= 0 {
		c.Parallel = 4
	}
	if c.OutputDir == "" {
		c.OutputDir = "txt/trip_source"
	}
	if c.FilePrefix == "" {
		c.FilePrefix = "chunk"
	}
}

// ZonesConfig configures the node -> TAZ listing load.
// The zone table holds one row per (node, TAZ) pair.
type ZonesConfig struct {
	Table      string `json:"table"`
	NodeColumn string `json:"nodecolumn"`
	ZoneColumn string `json:"zonecolumn"`
}

func (c *ZonesConfig) WithDefaults() {
	if c.NodeColumn == "" {
		c.NodeColumn = "node_id"
	}
	if c.ZoneColumn == "" {
		c.ZoneColumn = "taz_id"
	}
}

// SinkConfig configures histogram import into a MySQL zone-count table.
type SinkConfig struct {
	TargetTable string `json:"targettable"`
	ZoneColumn  string `json:"zonecolumn"`
	ValColumn   string `json:"valcolumn"`
	InputGlob   string `json:"inputglob"`
	Replace     bool   `json:"replace"`
	BatchSize   int    `json:"batchsize"`
}

func (c *SinkConfig) WithDefaults() {
	if c.ZoneColumn == "" {
		c.ZoneColumn = "taz_id"
	}
	if c.ValColumn == "" {
		c.ValColumn = "visits"
	}
	if c.InputGlob == "" {
		c.InputGlob = "taz-out-*.txt"
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 2000
	}
}

var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func quoteIdentifier(s string) (string, error) {
	if !identifierRe.MatchString(s) {
		return "", fmt.Errorf("invalid identifier: %s", s)
	}
	return "`" + s + "`", nil
}
