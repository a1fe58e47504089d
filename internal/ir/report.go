package ir

// Report is the outcome of analyzing one schedule.
type Report struct {
	Schedule     string          `json:"schedule"`
	ScheduleHash string          `json:"schedule_hash"`
	Systems      []SystemReport  `json:"systems"`
	Conflicts    []ConflictEntry `json:"conflicts"`
	Warnings     []string        `json:"warnings,omitempty"`
}

// SystemReport summarizes one system's combined access by name.
type SystemReport struct {
	Name       string        `json:"name"`
	Components AccessSummary `json:"components"`
	Resources  AccessSummary `json:"resources"`
}

// AccessSummary lists the names read and written in one index domain.
// Reads includes every written name.
type AccessSummary struct {
	Reads  NameSet `json:"reads"`
	Writes NameSet `json:"writes"`
}

// NameSet is a finite list of names, or (All) every name except Names.
type NameSet struct {
	All   bool     `json:"all"`
	Names []string `json:"names"`
}

// IsEmpty reports whether the set names nothing.
func (n NameSet) IsEmpty() bool {
	return !n.All && len(n.Names) == 0
}

// ConflictEntry records that two systems cannot run at the same time.
// Ordered is true when an explicit before/after chain already keeps them
// apart; unordered entries are ambiguities.
type ConflictEntry struct {
	A          string  `json:"a"`
	B          string  `json:"b"`
	Components NameSet `json:"components"`
	Resources  NameSet `json:"resources"`
	Ordered    bool    `json:"ordered"`
}

// Ambiguities returns the conflicts not resolved by ordering.
func (r Report) Ambiguities() []ConflictEntry {
	var out []ConflictEntry
	for _, c := range r.Conflicts {
		if !c.Ordered {
			out = append(out, c)
		}
	}
	return out
}
