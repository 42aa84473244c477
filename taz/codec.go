package taz

import (
	"sort"
	"strconv"
	"strings"
)

// EncodeTrips renders trips as shard text, one visit per line:
//
//	trip_id\tseq\tnode_id
//
// A trip with no visits produces no lines and decodes away entirely, which
// is fine: empty trips contribute nothing to any histogram.
func EncodeTrips(trips []Trip) string {
	if len(trips) == 0 {
		return ""
	}
	var b strings.Builder
	// Rough pre-size to reduce reallocations for hot path.
	b.Grow(len(trips) * 256)
	for _, trip := range trips {
		for seq, node := range trip.Nodes {
			b.WriteString(strconv.FormatInt(trip.ID, 10))
			b.WriteByte('\t')
			b.WriteString(strconv.Itoa(seq))
			b.WriteByte('\t')
			b.WriteString(strconv.FormatInt(node, 10))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// DecodeTrips parses shard text back into trips, grouping consecutive lines
// that share a trip id. Malformed lines are skipped.
func DecodeTrips(raw string) []Trip {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")
	out := make([]Trip, 0, len(lines)/8+1)
	for _, line := range lines {
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) != 3 {
			continue
		}
		id, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			continue
		}
		node, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			continue
		}
		if n := len(out); n > 0 && out[n-1].ID == id {
			out[n-1].Nodes = append(out[n-1].Nodes, node)
			continue
		}
		out = append(out, Trip{ID: id, Nodes: []int64{node}})
	}
	return out
}

// EncodeZoneMap renders a node -> TAZ listing, one node per line:
//
//	node_id\ttaz,taz,...
//
// Nodes are written in ascending order.
func EncodeZoneMap(nodeZones map[int64][]int32) string {
	nodes := make([]int64, 0, len(nodeZones))
	for node := range nodeZones {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	var b strings.Builder
	for _, node := range nodes {
		zones := nodeZones[node]
		if len(zones) == 0 {
			continue
		}
		b.WriteString(strconv.FormatInt(node, 10))
		b.WriteByte('\t')
		for i, z := range zones {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatInt(int64(z), 10))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// DecodeZoneMap parses a zone listing body written by EncodeZoneMap.
// Malformed lines and zone fields are skipped.
func DecodeZoneMap(raw string) map[int64][]int32 {
	out := make(map[int64][]int32)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out
	}
	for _, line := range strings.Split(raw, "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		node, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			continue
		}
		fields := strings.Split(parts[1], ",")
		zones := make([]int32, 0, len(fields))
		for _, f := range fields {
			z, err := strconv.ParseInt(strings.TrimSpace(f), 10, 32)
			if err != nil {
				continue
			}
			zones = append(zones, int32(z))
		}
		if len(zones) > 0 {
			out[node] = zones
		}
	}
	return out
}
