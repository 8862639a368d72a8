package models

// Stats holds local usage counters per day (YYYY-MM-DD -> counter -> count).
type Stats struct {
	Daily map[string]map[string]int `json:"daily"`
}

// Count returns the value of counter on date.
func (s Stats) Count(date, counter string) int {
	if s.Daily == nil {
		return 0
	}
	return s.Daily[date][counter]
}

// Increment returns a copy of s with counter on date increased by one.
func (s Stats) Increment(date, counter string) Stats {
	next := Stats{Daily: make(map[string]map[string]int, len(s.Daily)+1)}
	for d, counters := range s.Daily {
		c := make(map[string]int, len(counters))
		for k, v := range counters {
			c[k] = v
		}
		next.Daily[d] = c
	}
	if next.Daily[date] == nil {
		next.Daily[date] = make(map[string]int)
	}
	next.Daily[date][counter]++
	return next
}
