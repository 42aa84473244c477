package batch

import (
	"fmt"
	"strings"
)

const FlowVersionV1 = "v1"

// ValidateFlowConfig validates v1 flow schema and required fields.
func ValidateFlowConfig(cfg FlowConfig) error {
	cfg.withDefaults()

	if strings.TrimSpace(cfg.Version) != FlowVersionV1 {
		return fmt.Errorf("unsupported version: %q (expected %q)", cfg.Version, FlowVersionV1)
	}
	if cfg.Source.Type != "mysql" && cfg.Source.Type != "redis" {
		return fmt.Errorf("unsupported source.type: %s", cfg.Source.Type)
	}
	if cfg.Zones.Type != "mysql" && cfg.Zones.Type != "file" {
		return fmt.Errorf("unsupported zones.type: %s", cfg.Zones.Type)
	}
	if cfg.Sink.Type != "mysql" && cfg.Sink.Type != "redis" && cfg.Sink.Type != "file" {
		return fmt.Errorf("unsupported sink.type: %s", cfg.Sink.Type)
	}

	switch cfg.Source.Type {
	case "mysql":
		if cfg.Source.DB.User == "" || cfg.Source.DB.Database == "" {
			return fmt.Errorf("source.db.user and source.db.database are required for mysql source")
		}
		if strings.TrimSpace(cfg.Source.Config.Table) == "" {
			return fmt.Errorf("source.config.table is required for mysql source")
		}
	case "redis":
		if strings.TrimSpace(cfg.Source.RedisConfig.KeyPattern) == "" {
			return fmt.Errorf("source.redis_config.key_pattern is required for redis source")
		}
	}

	switch cfg.Zones.Type {
	case "mysql":
		if cfg.Zones.DB.User == "" || cfg.Zones.DB.Database == "" {
			return fmt.Errorf("zones.db.user and zones.db.database are required for mysql zones")
		}
		if strings.TrimSpace(cfg.Zones.Config.Table) == "" {
			return fmt.Errorf("zones.config.table is required for mysql zones")
		}
	case "file":
		if strings.TrimSpace(cfg.Zones.Path) == "" {
			return fmt.Errorf("zones.path is required for file zones")
		}
	}

	switch cfg.Sink.Type {
	case "mysql":
		if cfg.Sink.DB.User == "" || cfg.Sink.DB.Database == "" {
			return fmt.Errorf("sink.db.user and sink.db.database are required for mysql sink")
		}
		if strings.TrimSpace(cfg.Sink.Config.TargetTable) == "" {
			return fmt.Errorf("sink.config.targettable is required for mysql sink")
		}
	case "redis":
		if strings.TrimSpace(cfg.Sink.RedisConfig.KeyPrefix) == "" {
			return fmt.Errorf("sink.redis_config.key_prefix is required for redis sink")
		}
	case "file":
		if strings.TrimSpace(cfg.Sink.Path) == "" {
			return fmt.Errorf("sink.path is required for file sink")
		}
	}

	if cfg.Aggregate.MaxNode < 0 {
		return fmt.Errorf("aggregate.max_node must be >= 0")
	}
	return nil
}
