package ir

// Value conversions mirror the JSON tags: optional fields are omitted when
// empty, required lists always encode (as [] when empty).

// Value converts the schedule for canonical encoding.
func (s Schedule) Value() Object {
	systems := make(Array, len(s.Systems))
	for i, sys := range s.Systems {
		systems[i] = sys.Value()
	}
	obj := Object{
		"name":    String(s.Name),
		"systems": systems,
	}
	if len(s.Components) > 0 {
		obj["components"] = Strings(s.Components)
	}
	if len(s.Resources) > 0 {
		obj["resources"] = Strings(s.Resources)
	}
	return obj
}

// Value converts the system for canonical encoding.
func (s SystemSpec) Value() Object {
	params := make(Array, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.Value()
	}
	obj := Object{
		"name":   String(s.Name),
		"params": params,
	}
	if len(s.Before) > 0 {
		obj["before"] = Strings(s.Before)
	}
	if len(s.After) > 0 {
		obj["after"] = Strings(s.After)
	}
	return obj
}

// Value converts the parameter for canonical encoding.
func (p Param) Value() Object {
	obj := Object{"kind": String(p.Kind)}
	if p.Query != nil {
		obj["query"] = p.Query.Value()
	}
	if p.Resource != "" {
		obj["resource"] = String(p.Resource)
	}
	return obj
}

// Value converts the query for canonical encoding.
func (q QuerySpec) Value() Object {
	data := make(Array, len(q.Data))
	for i, d := range q.Data {
		term := Object{"kind": String(d.Kind)}
		if d.Component != "" {
			term["component"] = String(d.Component)
		}
		data[i] = term
	}
	obj := Object{"data": data}
	if q.Filter != nil {
		obj["filter"] = q.Filter.Value()
	}
	return obj
}

// Value converts the filter node for canonical encoding.
func (n FilterNode) Value() Object {
	obj := Object{"op": String(n.Op)}
	if n.Component != "" {
		obj["component"] = String(n.Component)
	}
	if len(n.Args) > 0 {
		args := make(Array, len(n.Args))
		for i, a := range n.Args {
			args[i] = a.Value()
		}
		obj["args"] = args
	}
	return obj
}

// Value converts the report for canonical encoding.
func (r Report) Value() Object {
	systems := make(Array, len(r.Systems))
	for i, s := range r.Systems {
		systems[i] = s.Value()
	}
	conflicts := make(Array, len(r.Conflicts))
	for i, c := range r.Conflicts {
		conflicts[i] = c.Value()
	}
	obj := Object{
		"schedule":      String(r.Schedule),
		"schedule_hash": String(r.ScheduleHash),
		"systems":       systems,
		"conflicts":     conflicts,
	}
	if len(r.Warnings) > 0 {
		obj["warnings"] = Strings(r.Warnings)
	}
	return obj
}

// Value converts the system summary for canonical encoding.
func (s SystemReport) Value() Object {
	return Object{
		"name":       String(s.Name),
		"components": s.Components.Value(),
		"resources":  s.Resources.Value(),
	}
}

// Value converts the access summary for canonical encoding.
func (a AccessSummary) Value() Object {
	return Object{
		"reads":  a.Reads.Value(),
		"writes": a.Writes.Value(),
	}
}

// Value converts the name set for canonical encoding.
func (n NameSet) Value() Object {
	return Object{
		"all":   Bool(n.All),
		"names": Strings(n.Names),
	}
}

// Value converts the conflict entry for canonical encoding.
func (c ConflictEntry) Value() Object {
	return Object{
		"a":          String(c.A),
		"b":          String(c.B),
		"components": c.Components.Value(),
		"resources":  c.Resources.Value(),
		"ordered":    Bool(c.Ordered),
	}
}
