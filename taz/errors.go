package taz

import "fmt"

// ConfigError reports an invalid zone listing handed to BuildTable.
type ConfigError struct {
	Node   int64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("zone listing for node %d: %s", e.Node, e.Reason)
}

// OutOfRangeError reports a trip node id the lookup table cannot represent.
// It indicates a data-integrity mismatch between the trip and zone datasets,
// so it is never silently dropped.
type OutOfRangeError struct {
	Node  int64
	Limit int64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("node %d outside lookup table range [0,%d)", e.Node, e.Limit)
}
