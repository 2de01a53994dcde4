package history

import (
	"fmt"
	"testing"
	"time"
)

func TestAddNewestFirst(t *testing.T) {
	s := NewStore()
	s.Add("sess", Entry{Diagnosis: "first"})
	s.Add("sess", Entry{Diagnosis: "second"})

	got := s.List("sess")
	if len(got) != 2 {
		t.Fatalf("len=%d", len(got))
	}
	if got[0].Diagnosis != "second" || got[1].Diagnosis != "first" {
		t.Fatalf("order wrong: %+v", got)
	}
}

func TestAddEvictsPastCap(t *testing.T) {
	s := NewStore()
	for i := 0; i < MaxEntries+10; i++ {
		s.Add("sess", Entry{Diagnosis: fmt.Sprintf("d%d", i), Timestamp: time.Now()})
	}
	got := s.List("sess")
	if len(got) != MaxEntries {
		t.Fatalf("len=%d, want %d", len(got), MaxEntries)
	}
	if got[0].Diagnosis != fmt.Sprintf("d%d", MaxEntries+9) {
		t.Fatalf("newest missing: %+v", got[0])
	}
	if got[len(got)-1].Diagnosis != "d10" {
		t.Fatalf("oldest survivor wrong: %+v", got[len(got)-1])
	}
}

func TestSessionsIsolated(t *testing.T) {
	s := NewStore()
	s.Add("a", Entry{Diagnosis: "for a"})
	if got := s.List("b"); len(got) != 0 {
		t.Fatalf("session b leaked entries: %+v", got)
	}
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.Add("sess", Entry{Diagnosis: "x"})
	s.Clear("sess")
	if got := s.List("sess"); len(got) != 0 {
		t.Fatalf("clear left entries: %+v", got)
	}
}

func TestListReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Add("sess", Entry{Diagnosis: "original"})
	got := s.List("sess")
	got[0].Diagnosis = "mutated"
	if again := s.List("sess"); again[0].Diagnosis != "original" {
		t.Fatalf("store mutated through List: %+v", again)
	}
}
