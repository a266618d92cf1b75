package domain

import "time"

// Retention tiers, measured back from the newest entry of a log.
const (
	MinuteTierSpan   = time.Hour
	HourTierSpan     = 25 * time.Hour
	MinuteResolution = 5
	// DayTierDays is how many calendar days before the newest entry's day,
	// on top of the hour tier, are kept at day resolution.
	DayTierDays = 7
)

// Retag recomputes the tag of every entry relative to the newest one and
// drops entries that fell out of the day tier:
//
//   - younger than 1h: Minute, rounded down to 5 minutes
//   - younger than 25h: Hour
//   - otherwise: Day (Monday is 0), unless the entry's date is before the
//     newest entry's date minus 8 days, in which case it is removed
//
// All calendar arithmetic is done in UTC.
func (p *ProbeHistory) Retag() {
	latest, ok := p.Latest()
	if !ok {
		return
	}
	ref := latest.Timestamp.UTC()
	cutoff := dateOf(ref).AddDate(0, 0, -(1 + DayTierDays))

	kept := p.Entries[:0]
	for _, e := range p.Entries {
		ts := e.Timestamp.UTC()
		age := ref.Sub(ts)
		switch {
		case age < MinuteTierSpan:
			e.Tag = MinuteTag(uint8(ts.Minute() / MinuteResolution * MinuteResolution))
		case age < HourTierSpan:
			e.Tag = HourTag(uint8(ts.Hour()))
		default:
			day := dateOf(ts)
			if day.Before(cutoff) {
				continue
			}
			e.Tag = DayTag(weekdayIndex(day.Weekday()))
		}
		kept = append(kept, e)
	}
	clear(p.Entries[len(kept):])
	p.Entries = kept
}

// Rotate collapses each run of adjacent entries sharing a tag into the run's
// oldest slot, folding newer entries in with mergeNewer. Equal tags separated
// by a different tag stay apart.
func (p *ProbeHistory) Rotate() {
	if len(p.Entries) < 2 {
		return
	}
	out := p.Entries[:1]
	for _, e := range p.Entries[1:] {
		acc := &out[len(out)-1]
		if acc.Tag == e.Tag {
			acc.mergeNewer(e)
			continue
		}
		out = append(out, e)
	}
	clear(p.Entries[len(out):])
	p.Entries = out
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weekdayIndex(w time.Weekday) uint8 {
	return uint8((int(w) + 6) % 7)
}
