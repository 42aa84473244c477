package batch

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// PrepareSyntheticDataset creates synthetic trip and zone tables for
// benchmarking. Node n is listed in 1 + n%Width zones, chosen with a fixed
// stride so every run produces the same dataset.
func PrepareSyntheticDataset(ctx context.Context, db *sql.DB, cfg PrepareConfig) error {
	cfg.withDefaults()
	tripTable, err := quoteIdentifier(cfg.TripTable)
	if err != nil {
		return err
	}
	zoneTable, err := quoteIdentifier(cfg.ZoneTable)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, zoneTable)); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf(`
CREATE TABLE %s (
  node_id BIGINT NOT NULL,
  taz_id INT NOT NULL,
  PRIMARY KEY (node_id, taz_id)
) ENGINE=InnoDB
`, zoneTable)); err != nil {
		return err
	}

	const batchSize int64 = 5000
	for start := int64(0); start < cfg.MaxNode; start += batchSize {
		end := start + batchSize
		if end > cfg.MaxNode {
			end = cfg.MaxNode
		}

		placeholders := make([]string, 0, (end-start)*int64(cfg.Width))
		args := make([]interface{}, 0, cap(placeholders)*2)
		for node := start; node < end; node++ {
			zoneN := 1 + int(node)%cfg.Width
			for j := 0; j < zoneN; j++ {
				zone := 1 + (node*7+int64(j)*13)%int64(cfg.MaxZone)
				placeholders = append(placeholders, "(?, ?)")
				args = append(args, node, zone)
			}
		}
		insertSQL := fmt.Sprintf(
			"INSERT IGNORE INTO %s (node_id, taz_id) VALUES %s",
			zoneTable,
			strings.Join(placeholders, ","),
		)
		if _, err := db.ExecContext(ctx, insertSQL, args...); err != nil {
			return err
		}
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tripTable)); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf(`
CREATE TABLE %s (
  id BIGINT NOT NULL,
  trip_id BIGINT NOT NULL,
  seq INT NOT NULL,
  node_id BIGINT NOT NULL,
  PRIMARY KEY (id),
  KEY idx_trip (trip_id)
) ENGINE=InnoDB
`, tripTable)); err != nil {
		return err
	}

	log.Infof("[Prepare] zone table %s ready: %d nodes, up to %d zones each", cfg.ZoneTable, cfg.MaxNode, cfg.Width)

	totalRows := cfg.Trips * int64(cfg.TripLen)
	for start := int64(0); start < totalRows; start += batchSize {
		end := start + batchSize
		if end > totalRows {
			end = totalRows
		}

		placeholders := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*4)
		for i := start; i < end; i++ {
			trip := i / int64(cfg.TripLen)
			seq := i % int64(cfg.TripLen)
			node := (trip*31 + seq*17) % cfg.MaxNode
			placeholders = append(placeholders, "(?, ?, ?, ?)")
			args = append(args, i+1, trip, seq, node)
		}
		insertSQL := fmt.Sprintf(
			"INSERT INTO %s (id, trip_id, seq, node_id) VALUES %s",
			tripTable,
			strings.Join(placeholders, ","),
		)
		if _, err := db.ExecContext(ctx, insertSQL, args...); err != nil {
			return err
		}
	}

	log.Infof("[Prepare] trip table %s ready: %d trips x %d visits", cfg.TripTable, cfg.Trips, cfg.TripLen)

	if _, err := db.ExecContext(ctx, fmt.Sprintf(`ANALYZE TABLE %s`, zoneTable)); err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, fmt.Sprintf(`ANALYZE TABLE %s`, tripTable))
	return err
}

// ValidateAggregation checks the sink table against a direct SQL join count:
// every (visit row, zone row) pair contributes one to its TAZ.
func ValidateAggregation(ctx context.Context, db *sql.DB, cfg ValidateConfig) error {
	cfg.withDefaults()
	if cfg.TripTable == "" || cfg.ZoneTable == "" || cfg.TargetTable == "" {
		return fmt.Errorf("trip table, zone table and target table are required")
	}

	tripTable, err := quoteIdentifier(cfg.TripTable)
	if err != nil {
		return err
	}
	tripNode, err := quoteIdentifier(cfg.TripNodeCol)
	if err != nil {
		return err
	}
	zoneTable, err := quoteIdentifier(cfg.ZoneTable)
	if err != nil {
		return err
	}
	zoneNode, err := quoteIdentifier(cfg.ZoneNodeCol)
	if err != nil {
		return err
	}
	zoneCol, err := quoteIdentifier(cfg.ZoneCol)
	if err != nil {
		return err
	}
	tgtTable, err := quoteIdentifier(cfg.TargetTable)
	if err != nil {
		return err
	}
	tgtKey, err := quoteIdentifier(cfg.TargetKey)
	if err != nil {
		return err
	}
	tgtVal, err := quoteIdentifier(cfg.TargetVal)
	if err != nil {
		return err
	}

	expectedSQL := fmt.Sprintf(`
SELECT z.%s, COUNT(*) AS total
FROM %s t
JOIN %s z ON t.%s = z.%s
GROUP BY z.%s
ORDER BY z.%s`, zoneCol, tripTable, zoneTable, tripNode, zoneNode, zoneCol, zoneCol)
	actualSQL := fmt.Sprintf(`
SELECT %s, %s
FROM %s
ORDER BY %s`, tgtKey, tgtVal, tgtTable, tgtKey)

	expectedRows, err := db.QueryContext(ctx, expectedSQL)
	if err != nil {
		return err
	}
	defer expectedRows.Close()

	actualRows, err := db.QueryContext(ctx, actualSQL)
	if err != nil {
		return err
	}
	defer actualRows.Close()

	idx := 0
	for {
		eNext := expectedRows.Next()
		aNext := actualRows.Next()
		if !eNext || !aNext {
			if eNext != aNext {
				return fmt.Errorf("row count mismatch in validation")
			}
			break
		}
		idx++
		var ek, ev int64
		if err := expectedRows.Scan(&ek, &ev); err != nil {
			return err
		}
		var ak, av int64
		if err := actualRows.Scan(&ak, &av); err != nil {
			return err
		}
		if ek != ak || ev != av {
			return fmt.Errorf("validation mismatch at row %d: expected (%d,%d), actual (%d,%d)", idx, ek, ev, ak, av)
		}
	}
	if err := expectedRows.Err(); err != nil {
		return err
	}
	if err := actualRows.Err(); err != nil {
		return err
	}
	log.Infof("[Validate] %s matches the SQL join aggregation: %d zones", cfg.TargetTable, idx)
	return nil
}
