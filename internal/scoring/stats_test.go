package scoring

import (
	"math/rand"
	"testing"
	"time"
)

func TestStats_Record(t *testing.T) {
	e := NewEngine(DefaultConfig())
	var s Stats

	s.Record(e.Score(time.Second, false, 0), time.Second)
	s.Record(e.Score(3*time.Second, false, 1), 3*time.Second)
	s.Record(e.Penalty(), 2*time.Second)
	s.Record(e.Score(time.Second, false, 0), 2*time.Second)

	if s.Correct != 3 || s.Incorrect != 1 {
		t.Errorf("expected 3 correct / 1 incorrect, got %d / %d", s.Correct, s.Incorrect)
	}
	if s.CurrentStreak != 1 {
		t.Errorf("expected streak 1 after reset, got %d", s.CurrentStreak)
	}
	if s.BestStreak != 2 {
		t.Errorf("expected best streak 2, got %d", s.BestStreak)
	}
	// 15 + 11 - 5 + 15
	if s.TotalScore != 36 {
		t.Errorf("expected total 36, got %d", s.TotalScore)
	}
	if s.Accuracy() != 0.75 {
		t.Errorf("expected accuracy 0.75, got %v", s.Accuracy())
	}
	if s.AverageResponseTime() != 2*time.Second {
		t.Errorf("expected average 2s, got %v", s.AverageResponseTime())
	}
}

func TestStats_EmptyMetrics(t *testing.T) {
	var s Stats
	if s.Accuracy() != 0 || s.AverageResponseTime() != 0 {
		t.Errorf("empty stats should report zero metrics")
	}
}

func TestStats_Reset(t *testing.T) {
	s := Stats{TotalScore: 40, Correct: 4, CurrentStreak: 4, BestStreak: 4, ResponseTimes: []time.Duration{time.Second}}
	s.Reset()
	if s.TotalScore != 0 || s.Correct != 0 || s.BestStreak != 0 || len(s.ResponseTimes) != 0 {
		t.Errorf("Reset left data behind: %+v", s)
	}
}

// TestStats_Consistency drives random outcomes and checks the derived
// invariants after every step.
func TestStats_Consistency(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := NewEngine(DefaultConfig())
	var s Stats

	for i := 0; i < 500; i++ {
		if rng.Intn(3) == 0 {
			s.Record(e.Penalty(), time.Duration(rng.Intn(5000))*time.Millisecond)
		} else {
			s.Record(e.Score(time.Second, rng.Intn(2) == 0, s.CurrentStreak), time.Second)
		}

		want := float64(s.Correct) / float64(s.Correct+s.Incorrect)
		if s.Accuracy() != want {
			t.Fatalf("step %d: accuracy %v != %v", i, s.Accuracy(), want)
		}
		if s.BestStreak < s.CurrentStreak {
			t.Fatalf("step %d: best streak %d < current %d", i, s.BestStreak, s.CurrentStreak)
		}
		if len(s.ResponseTimes) != s.Answered() {
			t.Fatalf("step %d: %d response times for %d answers", i, len(s.ResponseTimes), s.Answered())
		}
	}
}

func TestStats_SnapshotIsIndependent(t *testing.T) {
	s := Stats{ResponseTimes: []time.Duration{time.Second}}
	snap := s.Snapshot()
	s.ResponseTimes[0] = time.Minute
	if snap.ResponseTimes[0] != time.Second {
		t.Error("snapshot shares the response time slice")
	}
}
