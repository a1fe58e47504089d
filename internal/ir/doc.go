// Package ir provides the declarative schedule types and the conflict report
// types shared by every other ecsaccess package.
//
// This package contains type definitions, canonical encoding and content
// hashing only. All other internal packages import ir; ir imports nothing
// internal.
//
// Key design constraints:
//   - Declarations name components and resources by string; dense indices
//     are assigned later by the registry and never appear here
//   - All JSON tags use snake_case
//   - Identity hashes are computed over canonical JSON (RFC 8785 subset:
//     sorted keys, NFC strings, no floats, no null)
//   - Runs are ordered by a logical sequence number, never wall-clock time
package ir
