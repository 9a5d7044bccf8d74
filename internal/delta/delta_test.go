package delta

import "testing"

func TestSummary(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		want     Stat
		str      string
	}{
		{"unchanged", "graph TD\nA-->B\n", "graph TD\nA-->B\n", Stat{}, ""},
		{"added line", "graph TD\n", "graph TD\nA-->B\n", Stat{Added: 1}, "+1 -0"},
		{"removed line", "graph TD\nA-->B\n", "graph TD\n", Stat{Removed: 1}, "+0 -1"},
		{"edited line", "graph TD\nA-->B\n", "graph TD\nA-->C\n", Stat{Added: 1, Removed: 1}, "+1 -1"},
		{"from empty", "", "graph TD\nA-->B\n", Stat{Added: 2}, "+2 -0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summary(tt.old, tt.new)
			if got != tt.want {
				t.Errorf("Summary = %+v, want %+v", got, tt.want)
			}
			if got.String() != tt.str {
				t.Errorf("String = %q, want %q", got.String(), tt.str)
			}
		})
	}
}
