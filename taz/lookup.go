package taz

import "fmt"

// DefaultWidth is the highest number of TAZs observed for a single node.
const DefaultWidth = 7

// Sentinel pads zone rows narrower than the table width. TAZ id 0 is
// reserved for it: listed zone ids must be > 0 and bin 0 never appears in
// reported counts.
const Sentinel int32 = 0

// Table maps every node id in [0, Nodes()) to a fixed-width TAZ row,
// Sentinel-padded on the right. It is built once and read-only afterwards,
// so concurrent CountPartition calls share it without locking.
type Table struct {
	width   int
	nodes   int64
	maxZone int32
	rows    []int32
}

// BuildTable constructs the dense node -> TAZ lookup table.
//
// nodeZones holds the ordered TAZ list per node id. nodes fixes the table
// bound; when nodes <= 0 the bound is derived from the highest listed node.
// width <= 0 falls back to DefaultWidth. A node without a listing gets an
// all-Sentinel row: it is a legitimate "no zones" case and contributes
// nothing to any histogram.
func BuildTable(nodeZones map[int64][]int32, nodes int64, width int) (*Table, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if nodes <= 0 {
		for node := range nodeZones {
			if node+1 > nodes {
				nodes = node + 1
			}
		}
	}
	if nodes <= 0 {
		return nil, &ConfigError{Node: -1, Reason: "empty zone listing and no node bound"}
	}

	t := &Table{
		width: width,
		nodes: nodes,
		rows:  make([]int32, nodes*int64(width)),
	}
	for node, zones := range nodeZones {
		if node < 0 || node >= nodes {
			return nil, &ConfigError{Node: node, Reason: fmt.Sprintf("node id outside [0,%d)", nodes)}
		}
		if len(zones) > width {
			return nil, &ConfigError{Node: node, Reason: fmt.Sprintf("%d zones exceed table width %d", len(zones), width)}
		}
		row := t.rows[node*int64(width):]
		for i, z := range zones {
			if z <= Sentinel {
				return nil, &ConfigError{Node: node, Reason: fmt.Sprintf("zone id %d is reserved", z)}
			}
			row[i] = z
			if z > t.maxZone {
				t.maxZone = z
			}
		}
	}
	return t, nil
}

// Width returns the number of TAZ slots per node row.
func (t *Table) Width() int { return t.width }

// Nodes returns the exclusive upper bound on representable node ids.
func (t *Table) Nodes() int64 { return t.nodes }

// MaxZone returns the highest TAZ id listed anywhere in the table.
func (t *Table) MaxZone() int32 { return t.maxZone }

// Row returns the Sentinel-padded TAZ row for node. The slice aliases the
// table and must not be modified.
func (t *Table) Row(node int64) ([]int32, error) {
	if node < 0 || node >= t.nodes {
		return nil, &OutOfRangeError{Node: node, Limit: t.nodes}
	}
	off := node * int64(t.width)
	return t.rows[off : off+int64(t.width)], nil
}
