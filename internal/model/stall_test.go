package model

import "testing"

func TestStallCongestion(t *testing.T) {
	tests := []struct {
		queue int
		want  string
		wait  int
	}{
		{0, CongestionLow, 0},
		{5, CongestionLow, 10},
		{6, CongestionMedium, 12},
		{10, CongestionMedium, 20},
		{11, CongestionHigh, 22},
	}
	for _, tt := range tests {
		s := Stall{QueueLength: tt.queue}
		if got := s.Congestion(); got != tt.want {
			t.Errorf("queue %d: congestion %s, want %s", tt.queue, got, tt.want)
		}
		if got := s.EstimatedWaitMinutes(); got != tt.wait {
			t.Errorf("queue %d: wait %d, want %d", tt.queue, got, tt.wait)
		}
	}
}
