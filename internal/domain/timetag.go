package domain

import "fmt"

// TagKind names the retention tier of a TimeTag.
type TagKind string

const (
	TagMinute TagKind = "minute"
	TagHour   TagKind = "hour"
	TagDay    TagKind = "day"
)

var dayLabels = [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// TimeTag is the bucket an entry belongs to, relative to the newest entry of
// its log. Value is a 5-minute-aligned minute (0-55), an hour (0-23) or a
// weekday (0-6, Monday is 0) depending on Kind.
//
// Tags of different kinds are never equal and have no ordering between them.
type TimeTag struct {
	Kind  TagKind `yaml:"kind" json:"kind"`
	Value uint8   `yaml:"value" json:"value"`
}

// MinuteTag returns a minute-tier tag.
func MinuteTag(m uint8) TimeTag { return TimeTag{Kind: TagMinute, Value: m} }

// HourTag returns an hour-tier tag.
func HourTag(h uint8) TimeTag { return TimeTag{Kind: TagHour, Value: h} }

// DayTag returns a day-tier tag.
func DayTag(d uint8) TimeTag { return TimeTag{Kind: TagDay, Value: d} }

// Label renders the tag the way the status page shows it: "05" for minutes
// and hours, "Mo".."Su" for days.
func (t TimeTag) Label() string {
	switch t.Kind {
	case TagMinute, TagHour:
		return fmt.Sprintf("%02d", t.Value)
	case TagDay:
		if int(t.Value) < len(dayLabels) {
			return dayLabels[t.Value]
		}
		return dayLabels[len(dayLabels)-1]
	default:
		return "??"
	}
}

// ShortKind returns the single-letter kind used by main.json.
func (t TimeTag) ShortKind() string {
	switch t.Kind {
	case TagMinute:
		return "m"
	case TagHour:
		return "h"
	case TagDay:
		return "d"
	default:
		return "?"
	}
}

func (t TimeTag) String() string {
	return fmt.Sprintf("%s(%d)", t.Kind, t.Value)
}
