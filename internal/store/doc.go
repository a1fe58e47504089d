// Package store provides SQLite-backed storage for analysis runs.
//
// Each run records one schedule report:
//   - Runs: schedule name, content hashes, versions and the canonical report
//   - Conflicts: one row per conflicting system pair, in report order
//
// # Ordering
//
// Runs are ordered by seq INTEGER (a logical counter assigned on write),
// never by timestamps. Every query orders by seq ASC, id ASC COLLATE BINARY
// so results are identical across machines.
//
// # Content Identity
//
// schedule_hash and report_hash are computed by internal/ir/hash.go from
// canonical JSON with domain-separated SHA-256. Two runs over the same
// schedule with the same analyzer share a report_hash.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
