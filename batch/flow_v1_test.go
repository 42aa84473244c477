package batch

import (
	"strings"
	"testing"
)

func validFileFlow() FlowConfig {
	return FlowConfig{
		Version: FlowVersionV1,
		Source: FlowSourceConfig{
			Type: "mysql",
			DB:   DBConfig{User: "root", Database: "transit"},
			Config: SourceConfig{
				Table: "trip_nodes",
			},
		},
		Zones: FlowZonesConfig{
			Type: "file",
			Path: "zones.txt",
		},
		Sink: FlowSinkConfig{
			Type: "file",
			Path: "taz-out.txt",
		},
	}
}

func TestValidateFlowConfigAccepts(t *testing.T) {
	if err := ValidateFlowConfig(validFileFlow()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateFlowConfigRejects(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*FlowConfig)
		wantSub string
	}{
		{
			name:    "bad version",
			mutate:  func(c *FlowConfig) { c.Version = "v2" },
			wantSub: "unsupported version",
		},
		{
			name:    "bad source type",
			mutate:  func(c *FlowConfig) { c.Source.Type = "csv" },
			wantSub: "unsupported source.type",
		},
		{
			name:    "mysql source without table",
			mutate:  func(c *FlowConfig) { c.Source.Config.Table = "" },
			wantSub: "source.config.table",
		},
		{
			name: "redis source without pattern",
			mutate: func(c *FlowConfig) {
				c.Source.Type = "redis"
				c.Source.RedisConfig.KeyPattern = " "
			},
			wantSub: "key_pattern",
		},
		{
			name:    "file zones without path",
			mutate:  func(c *FlowConfig) { c.Zones.Path = "" },
			wantSub: "zones.path",
		},
		{
			name: "mysql zones without credentials",
			mutate: func(c *FlowConfig) {
				c.Zones.Type = "mysql"
				c.Zones.Config.Table = "node_taz"
			},
			wantSub: "zones.db.user",
		},
		{
			name:    "file sink without path",
			mutate:  func(c *FlowConfig) { c.Sink.Path = "" },
			wantSub: "sink.path",
		},
		{
			name: "mysql sink without target table",
			mutate: func(c *FlowConfig) {
				c.Sink.Type = "mysql"
				c.Sink.DB = DBConfig{User: "root", Database: "transit"}
			},
			wantSub: "sink.config.targettable",
		},
	}

	for _, tc := range cases {
		cfg := validFileFlow()
		tc.mutate(&cfg)
		err := ValidateFlowConfig(cfg)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.wantSub) {
			t.Fatalf("%s: error %q does not mention %q", tc.name, err, tc.wantSub)
		}
	}
}

func TestValidateFlowConfigRedisSourceDefaults(t *testing.T) {
	cfg := validFileFlow()
	cfg.Source = FlowSourceConfig{Type: "redis"}
	// Defaults fill in the key pattern, so a bare redis source is valid.
	if err := ValidateFlowConfig(cfg); err != nil {
		t.Fatalf("expected defaults to satisfy redis source, got %v", err)
	}
}
