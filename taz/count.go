package taz

// Trip is one traversal: an ordered node id sequence of variable length.
type Trip struct {
	ID    int64
	Nodes []int64
}

// Histogram counts TAZ visit contributions, indexed by TAZ id. Bin 0 is the
// Sentinel bin and is always zero in returned histograms.
type Histogram []int64

// CountPartition tallies TAZ visits for one partition of trips.
//
// It is a pure function of (trips, t) and touches no shared state, so the
// driver invokes it concurrently, once per partition. The local histogram is
// pre-sized to t.MaxZone()+1, which the table knows since build time, and is
// filled with one slice increment per (node, zone slot) pair: a partition of
// N trips with average length M costs N*M*Width() increments, independent of
// the number of distinct zones.
func CountPartition(trips []Trip, t *Table) (Histogram, error) {
	h := make(Histogram, int(t.MaxZone())+1)
	for _, trip := range trips {
		for _, node := range trip.Nodes {
			row, err := t.Row(node)
			if err != nil {
				return nil, err
			}
			for _, z := range row {
				h[z]++
			}
		}
	}
	// Padding slots all landed in bin 0; discard them.
	h[0] = 0
	return h, nil
}
