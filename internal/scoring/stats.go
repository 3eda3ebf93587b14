package scoring

import "time"

// Stats aggregates score events over a play session. Derived metrics are
// computed on read.
type Stats struct {
	TotalScore    int
	Correct       int
	Incorrect     int
	CurrentStreak int
	BestStreak    int
	ResponseTimes []time.Duration
}

// Record applies one score event.
func (s *Stats) Record(ev Event, responseTime time.Duration) {
	if ev.Correct {
		s.Correct++
		s.CurrentStreak++
		if s.CurrentStreak > s.BestStreak {
			s.BestStreak = s.CurrentStreak
		}
	} else {
		s.Incorrect++
		s.CurrentStreak = 0
	}
	s.ResponseTimes = append(s.ResponseTimes, responseTime)
	s.TotalScore += ev.Value
}

// Reset zeroes every field.
func (s *Stats) Reset() {
	*s = Stats{}
}

// Answered is the number of recorded events.
func (s Stats) Answered() int {
	return s.Correct + s.Incorrect
}

// Accuracy is correct/(correct+incorrect), or 0 before any answer.
func (s Stats) Accuracy() float64 {
	n := s.Answered()
	if n == 0 {
		return 0
	}
	return float64(s.Correct) / float64(n)
}

// AverageResponseTime is the mean of the recorded response times.
func (s Stats) AverageResponseTime() time.Duration {
	if len(s.ResponseTimes) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range s.ResponseTimes {
		sum += d
	}
	return sum / time.Duration(len(s.ResponseTimes))
}

// Snapshot returns a deep copy safe to hand to other goroutines.
func (s Stats) Snapshot() Stats {
	out := s
	out.ResponseTimes = append([]time.Duration(nil), s.ResponseTimes...)
	return out
}
