package utils

import (
	"fmt"
	"time"
)

// LoadLocation loads an IANA time zone, treating an empty name as UTC.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", name, err)
	}
	return loc, nil
}

// TimeNowIn returns the current time in loc.
func TimeNowIn(loc *time.Location) time.Time {
	if loc == nil {
		return time.Now()
	}
	return time.Now().In(loc)
}

// PrettyDate formats t as "02.01.2006 15:04".
func PrettyDate(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// ShortDate formats t as "02.01.2006".
func ShortDate(t time.Time) string {
	return t.Format("02.01.2006")
}
