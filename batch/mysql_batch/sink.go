package mysql_batch

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ImportZoneCounts imports taz-out-* histogram files into the target table
// with batch upsert through a staging table.
func ImportZoneCounts(ctx context.Context, db *sql.DB, cfg SinkConfig) error {
	cfg.WithDefaults()
	if cfg.TargetTable == "" {
		return fmt.Errorf("target table is required")
	}

	table, err := quoteIdentifier(cfg.TargetTable)
	if err != nil {
		return err
	}
	zoneCol, err := quoteIdentifier(cfg.ZoneColumn)
	if err != nil {
		return err
	}
	valCol, err := quoteIdentifier(cfg.ValColumn)
	if err != nil {
		return err
	}

	files, err := filepath.Glob(cfg.InputGlob)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no histogram files matched: %s", cfg.InputGlob)
	}
	log.Infof("[MySQL-Sink] importing %d histogram files into %s", len(files), cfg.TargetTable)

	stageName := cfg.TargetTable + "_staging_tmp"
	stageTable, err := quoteIdentifier(stageName)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  %s INT NOT NULL,
  %s BIGINT NOT NULL,
  PRIMARY KEY (%s)
)`, table, zoneCol, valCol, zoneCol)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, stageTable)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
CREATE TABLE %s (
  %s INT NOT NULL,
  %s BIGINT NOT NULL,
  KEY idx_zone (%s)
)`, stageTable, zoneCol, valCol, zoneCol)); err != nil {
		return err
	}

	if err := loadHistogramFilesIntoStage(ctx, tx, files, stageTable, zoneCol, valCol, cfg.BatchSize); err != nil {
		return err
	}

	if cfg.Replace {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`TRUNCATE TABLE %s`, table)); err != nil {
			return err
		}
	}

	upsertSQL := fmt.Sprintf(`
INSERT INTO %s (%s, %s)
SELECT %s, SUM(%s) AS total
FROM %s
GROUP BY %s
ON DUPLICATE KEY UPDATE %s=VALUES(%s)
`, table, zoneCol, valCol, zoneCol, valCol, stageTable, zoneCol, valCol, valCol)
	if _, err := tx.ExecContext(ctx, upsertSQL); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE %s`, stageTable)); err != nil {
		return err
	}

	return tx.Commit()
}

func loadHistogramFilesIntoStage(ctx context.Context, tx *sql.Tx, files []string, stageTable string, zoneCol string, valCol string, batchSize int) error {
	batch := make([][2]int64, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		args := make([]interface{}, 0, len(batch)*2)
		valueSQL := make([]string, 0, len(batch))
		for _, row := range batch {
			valueSQL = append(valueSQL, "(?, ?)")
			args = append(args, row[0], row[1])
		}
		sqlStr := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES %s", stageTable, zoneCol, valCol, strings.Join(valueSQL, ","))
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			zone, err := strconv.ParseInt(fields[0], 10, 64)
			if err != nil || zone < 1 {
				continue
			}
			visits, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				continue
			}
			batch = append(batch, [2]int64{zone, visits})
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					f.Close()
					return err
				}
			}
		}
		if err := scanner.Err(); err != nil {
			f.Close()
			return err
		}
		f.Close()
	}

	return flush()
}
