package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/ecsaccess/internal/ir"
)

// marshalReport converts a report to canonical JSON TEXT for storage.
func marshalReport(r ir.Report) (string, error) {
	data, err := ir.MarshalCanonical(r.Value())
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}

// marshalNameSet converts a name set to canonical JSON TEXT.
func marshalNameSet(n ir.NameSet) (string, error) {
	data, err := ir.MarshalCanonical(n.Value())
	if err != nil {
		return "", fmt.Errorf("marshal name set: %w", err)
	}
	return string(data), nil
}

// unmarshalReport parses canonical JSON TEXT back into a report. Canonical
// JSON is plain JSON, so the struct tags on ir.Report apply.
func unmarshalReport(data string) (ir.Report, error) {
	var r ir.Report
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return ir.Report{}, fmt.Errorf("unmarshal report: %w", err)
	}
	return r, nil
}

// unmarshalNameSet parses JSON TEXT to a NameSet. Names is never nil.
func unmarshalNameSet(data string) (ir.NameSet, error) {
	var n ir.NameSet
	if err := json.Unmarshal([]byte(data), &n); err != nil {
		return ir.NameSet{}, fmt.Errorf("unmarshal name set: %w", err)
	}
	if n.Names == nil {
		n.Names = []string{}
	}
	return n, nil
}
