package batch

import (
	"context"
	"database/sql"

	"github.com/emptyOVO/tazagg-go/batch/mysql_batch"
	"github.com/emptyOVO/tazagg-go/batch/redis_batch"
)

func ExportTripsByPKRange(ctx context.Context, db *sql.DB, cfg SourceConfig) ([]string, error) {
	return mysql_batch.ExportTripsByPKRange(ctx, db, cfg)
}

func LoadZoneRows(ctx context.Context, db *sql.DB, cfg ZonesConfig) (map[int64][]int32, error) {
	return mysql_batch.LoadZoneRows(ctx, db, cfg)
}

func ImportZoneCounts(ctx context.Context, db *sql.DB, cfg SinkConfig) error {
	return mysql_batch.ImportZoneCounts(ctx, db, cfg)
}

func ExportTripsFromRedis(ctx context.Context, connCfg RedisConnConfig, cfg RedisSourceConfig) ([]string, error) {
	return redis_batch.ExportTrips(ctx, connCfg, cfg)
}

func ImportZoneCountsToRedis(ctx context.Context, connCfg RedisConnConfig, cfg RedisSinkConfig) error {
	return redis_batch.ImportZoneCounts(ctx, connCfg, cfg)
}
