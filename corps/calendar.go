/*
calendar.go - Ordinary-duty rotation calendar

PURPOSE:
  The fixed schedule of which duty group covers ordinary service on
  each day of a month. This is hand-authored data (the rotation is
  drawn up by the command, not computed), so the type is a plain table
  the rest of the system receives as an opaque input.

SEE ALSO:
  - roster/conflict.go: Cross-references extra-duty slots against this
  - factory/: Loads authored calendars from JSON
*/
package corps

// OrdinaryCalendar maps a day of the month to the group(s) on ordinary
// rotation that day. Implements roster.OrdinaryCalendar.
type OrdinaryCalendar map[int][]GroupTag

// GroupsOn returns the groups rotating on a day, nil when none.
func (c OrdinaryCalendar) GroupsOn(day int) []string {
	if c == nil {
		return nil
	}
	return c[day]
}

// Merge overlays other onto c, returning a new calendar. Days present
// in both keep the union of groups, duplicates removed.
func (c OrdinaryCalendar) Merge(other OrdinaryCalendar) OrdinaryCalendar {
	out := make(OrdinaryCalendar, len(c)+len(other))
	for day, groups := range c {
		out[day] = append([]GroupTag(nil), groups...)
	}
	for day, groups := range other {
		for _, g := range groups {
			if !hasTag(out[day], g) {
				out[day] = append(out[day], g)
			}
		}
	}
	return out
}

func hasTag(tags []GroupTag, tag GroupTag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// RotationCycle builds a calendar by repeating a group cycle from day 1
// through days. Convenience for authoring the common four-group pattern;
// the produced table remains fully editable afterwards.
func RotationCycle(cycle []GroupTag, days int) OrdinaryCalendar {
	if len(cycle) == 0 || days <= 0 {
		return OrdinaryCalendar{}
	}
	out := make(OrdinaryCalendar, days)
	for day := 1; day <= days; day++ {
		out[day] = []GroupTag{cycle[(day-1)%len(cycle)]}
	}
	return out
}
