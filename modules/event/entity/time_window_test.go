package entity

import "testing"

func TestParseTimeWindow(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{name: "valid", start: "09:00", end: "10:30"},
		{name: "postgres time with seconds", start: "09:00:00", end: "10:30:00"},
		{name: "end equals start", start: "10:00", end: "10:00", wantErr: true},
		{name: "end before start", start: "11:00", end: "10:00", wantErr: true},
		{name: "bad hour", start: "25:00", end: "26:00", wantErr: true},
		{name: "bad minute", start: "09:61", end: "10:00", wantErr: true},
		{name: "not a clock", start: "morning", end: "noon", wantErr: true},
		{name: "empty", start: "", end: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w, err := ParseTimeWindow(tt.start, tt.end)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s-%s, got %v", tt.start, tt.end, w)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w.EndMinutes <= w.StartMinutes {
				t.Fatalf("window not normalized: %v", w)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	t.Parallel()
	if got := FormatClock(9 * 60); got != "09:00" {
		t.Fatalf("FormatClock(540) = %s, want 09:00", got)
	}
	if got := FormatClock(13*60 + 5); got != "13:05" {
		t.Fatalf("FormatClock(785) = %s, want 13:05", got)
	}
}

func TestWindowRoundTrip(t *testing.T) {
	t.Parallel()
	w, err := ParseTimeWindow("10:30", "11:45")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Start() != "10:30" || w.End() != "11:45" {
		t.Fatalf("round trip = %s-%s", w.Start(), w.End())
	}
}
