package domain

// Hour-of-day buckets used by the classifier, the daily score, and the
// time-specific message pools. Ranges are inclusive.

// IsLateNight reports whether hour falls in the 00:00–05:59 window.
func IsLateNight(hour int) bool { return hour >= 0 && hour <= 5 }

// IsMorning reports whether hour falls in the 06:00–08:59 window.
func IsMorning(hour int) bool { return hour >= 6 && hour <= 8 }

// IsLunch reports whether hour falls in the 12:00–13:59 window.
func IsLunch(hour int) bool { return hour >= 12 && hour <= 13 }

// IsPreBed reports whether hour falls in the 22:00–23:59 window.
func IsPreBed(hour int) bool { return hour >= 22 && hour <= 23 }
