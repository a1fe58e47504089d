package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix leaves
// room for a future encoding change.
const (
	DomainSchedule = "ecsaccess/schedule/v1"
	DomainSystem   = "ecsaccess/system/v1"
	DomainReport   = "ecsaccess/report/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data) as lowercase hex.
// The null separator keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func hashValue(domain string, v Value) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", err
	}
	return hashWithDomain(domain, canonical), nil
}

// ScheduleHash identifies a schedule declaration. Two loads of the same
// declaration hash equally regardless of file layout or key order.
func ScheduleHash(s Schedule) (string, error) {
	h, err := hashValue(DomainSchedule, s.Value())
	if err != nil {
		return "", fmt.Errorf("ScheduleHash: %w", err)
	}
	return h, nil
}

// SystemHash identifies one system declaration.
func SystemHash(s SystemSpec) (string, error) {
	h, err := hashValue(DomainSystem, s.Value())
	if err != nil {
		return "", fmt.Errorf("SystemHash: %w", err)
	}
	return h, nil
}

// ReportHash identifies an analysis outcome. Re-running an unchanged
// schedule yields the same hash.
func ReportHash(r Report) (string, error) {
	h, err := hashValue(DomainReport, r.Value())
	if err != nil {
		return "", fmt.Errorf("ReportHash: %w", err)
	}
	return h, nil
}

// MustScheduleHash is like ScheduleHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustScheduleHash(s Schedule) string {
	h, err := ScheduleHash(s)
	if err != nil {
		panic(err)
	}
	return h
}
