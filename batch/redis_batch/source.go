package redis_batch

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// SourceConfig configures trip export from redis hashes. Each matched hash
// stores one trip; NodesField holds the visited node ids as a comma-joined
// list, e.g. "1,2,4,5".
type SourceConfig struct {
	KeyPattern string `json:"key_pattern" yaml:"key_pattern"`
	NodesField string `json:"nodes_field" yaml:"nodes_field"`
	ScanCount  int    `json:"scan_count" yaml:"scan_count"`
	OutputDir  string `json:"outputdir" yaml:"outputdir"`
	FilePrefix string `json:"fileprefix" yaml:"fileprefix"`
}

func (c *SourceConfig) WithDefaults() {
	if c.KeyPattern == "" {
		c.KeyPattern = "trip:*"
	}
	if c.NodesField == "" {
		c.NodesField = "nodes"
	}
	if c.ScanCount <= 0 {
		c.ScanCount = 500
	}
	if c.OutputDir == "" {
		c.OutputDir = "txt/redis_source"
	}
	if c.FilePrefix == "" {
		c.FilePrefix = "chunk"
	}
}

// ExportTrips scans trip hashes and writes them as a shard text file in the
// same trip_id\tseq\tnode_id format as the MySQL exporter. The trip id is
// taken from the numeric suffix of the hash key when present.
func ExportTrips(ctx context.Context, connCfg ConnConfig, cfg SourceConfig) ([]string, error) {
	cfg.WithDefaults()
	c, err := openRedis(ctx, connCfg)
	if err != nil {
		return nil, err
	}
	defer c.close()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, err
	}
	pattern := filepath.Join(cfg.OutputDir, cfg.FilePrefix+"-*.txt")
	oldFiles, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	for _, f := range oldFiles {
		_ = os.Remove(f)
	}

	outFile := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s-%05d.txt", cfg.FilePrefix, 0))
	f, err := os.Create(outFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	w := bufio.NewWriterSize(f, 1<<20)
	defer w.Flush()

	cursor := "0"
	tripCount := int64(0)
	for {
		v, err := c.do("SCAN", cursor, "MATCH", cfg.KeyPattern, "COUNT", strconv.Itoa(cfg.ScanCount))
		if err != nil {
			return nil, err
		}
		arr, ok := v.([]interface{})
		if !ok || len(arr) != 2 {
			return nil, fmt.Errorf("unexpected SCAN response")
		}
		cursor = toString(arr[0])
		keysRaw, ok := arr[1].([]interface{})
		if !ok {
			return nil, fmt.Errorf("unexpected SCAN keys response")
		}
		for _, kv := range keysRaw {
			keyName := toString(kv)
			if keyName == "" {
				continue
			}
			hv, err := c.do("HGET", keyName, cfg.NodesField)
			if err != nil {
				continue
			}
			nodesRaw := toString(hv)
			if nodesRaw == "" {
				continue
			}

			tripCount++
			tripID := tripIDFromKey(keyName, tripCount)
			seq := 0
			for _, field := range strings.Split(nodesRaw, ",") {
				node, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
				if err != nil {
					continue
				}
				if _, err := fmt.Fprintf(w, "%d\t%d\t%d\n", tripID, seq, node); err != nil {
					return nil, err
				}
				seq++
			}
		}
		if cursor == "0" {
			break
		}
	}

	if tripCount == 0 {
		return []string{}, nil
	}
	log.Infof("[Redis-Source] exported %d trips matching %s", tripCount, cfg.KeyPattern)
	return []string{outFile}, nil
}

func tripIDFromKey(key string, fallback int64) int64 {
	if i := strings.LastIndexByte(key, ':'); i >= 0 {
		if id, err := strconv.ParseInt(key[i+1:], 10, 64); err == nil {
			return id
		}
	}
	return fallback
}
