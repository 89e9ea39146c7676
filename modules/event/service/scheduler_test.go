package service

import (
	"testing"

	"campus-events/modules/event/entity"
)

func window(t *testing.T, start, end string) entity.TimeWindow {
	t.Helper()
	w, err := entity.ParseTimeWindow(start, end)
	if err != nil {
		t.Fatalf("ParseTimeWindow(%s, %s): %v", start, end, err)
	}
	return w
}

func defaultScheduler() *Scheduler {
	return NewScheduler(WorkingHours{StartMinutes: 9 * 60, EndMinutes: 18 * 60})
}

func TestDetectConflict(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		candidate [2]string
		existing  [][2]string
		want      bool
	}{
		{name: "no existing events", candidate: [2]string{"10:00", "11:00"}, existing: nil, want: false},
		{name: "touching at candidate start", candidate: [2]string{"10:00", "11:00"}, existing: [][2]string{{"09:00", "10:00"}}, want: false},
		{name: "touching at candidate end", candidate: [2]string{"10:00", "11:00"}, existing: [][2]string{{"11:00", "12:00"}}, want: false},
		{name: "containment", candidate: [2]string{"10:00", "11:00"}, existing: [][2]string{{"10:30", "10:45"}}, want: true},
		{name: "partial overlap", candidate: [2]string{"10:00", "11:00"}, existing: [][2]string{{"10:30", "11:30"}}, want: true},
		{name: "candidate inside existing", candidate: [2]string{"10:15", "10:30"}, existing: [][2]string{{"10:00", "11:00"}}, want: true},
		{name: "identical windows", candidate: [2]string{"10:00", "11:00"}, existing: [][2]string{{"10:00", "11:00"}}, want: true},
		{name: "one minute overlap", candidate: [2]string{"10:00", "11:00"}, existing: [][2]string{{"10:59", "12:00"}}, want: true},
		{name: "conflict against any element", candidate: [2]string{"10:00", "11:00"}, existing: [][2]string{{"08:00", "09:00"}, {"12:00", "13:00"}, {"10:30", "10:45"}}, want: true},
		{name: "no conflict against any element", candidate: [2]string{"10:00", "11:00"}, existing: [][2]string{{"08:00", "09:00"}, {"11:00", "12:00"}}, want: false},
	}

	s := defaultScheduler()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			candidate := window(t, tt.candidate[0], tt.candidate[1])
			existing := make([]entity.TimeWindow, 0, len(tt.existing))
			for _, e := range tt.existing {
				existing = append(existing, window(t, e[0], e[1]))
			}
			if got := s.DetectConflict(candidate, existing); got != tt.want {
				t.Fatalf("DetectConflict = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectConflictSymmetry(t *testing.T) {
	t.Parallel()
	s := defaultScheduler()
	pairs := [][2][2]string{
		{{"10:00", "11:00"}, {"10:30", "11:30"}},
		{{"09:00", "10:00"}, {"10:00", "11:00"}},
		{{"10:00", "12:00"}, {"10:30", "11:00"}},
		{{"08:00", "09:00"}, {"15:00", "16:00"}},
	}

	for _, p := range pairs {
		a := window(t, p[0][0], p[0][1])
		b := window(t, p[1][0], p[1][1])
		ab := s.DetectConflict(a, []entity.TimeWindow{b})
		ba := s.DetectConflict(b, []entity.TimeWindow{a})
		if ab != ba {
			t.Fatalf("symmetry broken for %v vs %v: %v != %v", a, b, ab, ba)
		}
	}
}

func TestDecideApproval(t *testing.T) {
	t.Parallel()
	s := defaultScheduler()
	if got := s.DecideApproval(false); got != entity.ApprovalStatusApproved {
		t.Fatalf("DecideApproval(false) = %s, want approved", got)
	}
	if got := s.DecideApproval(true); got != entity.ApprovalStatusPending {
		t.Fatalf("DecideApproval(true) = %s, want pending", got)
	}
}

func TestSuggestSlotsEmptyDay(t *testing.T) {
	t.Parallel()
	s := defaultScheduler()
	got := s.SuggestSlots(nil)
	if len(got) != 1 {
		t.Fatalf("expected single full-day slot, got %d", len(got))
	}
	if got[0].Start() != "09:00" || got[0].End() != "18:00" {
		t.Fatalf("slot = %s-%s, want 09:00-18:00", got[0].Start(), got[0].End())
	}
}

func TestSuggestSlotsGapThreshold(t *testing.T) {
	t.Parallel()
	s := defaultScheduler()

	// 59-minute gap between the two events does not qualify.
	existing := []entity.TimeWindow{
		window(t, "09:00", "10:00"),
		window(t, "10:59", "17:30"),
	}
	for _, slot := range s.SuggestSlots(existing) {
		if slot.Start() == "10:00" {
			t.Fatalf("59-minute gap must not be suggested, got %s-%s", slot.Start(), slot.End())
		}
	}

	// Exactly 60 minutes qualifies (inclusive threshold).
	existing = []entity.TimeWindow{
		window(t, "09:00", "10:00"),
		window(t, "11:00", "17:30"),
	}
	got := s.SuggestSlots(existing)
	if len(got) != 1 {
		t.Fatalf("expected exactly one suggestion, got %d: %v", len(got), got)
	}
	if got[0].Start() != "10:00" || got[0].End() != "11:00" {
		t.Fatalf("slot = %s-%s, want 10:00-11:00", got[0].Start(), got[0].End())
	}
}

func TestSuggestSlotsFrontGap(t *testing.T) {
	t.Parallel()
	s := defaultScheduler()

	// First event exactly at working-hours start: zero-width front gap, skipped.
	got := s.SuggestSlots([]entity.TimeWindow{window(t, "09:00", "17:00")})
	if len(got) != 1 || got[0].Start() != "17:00" || got[0].End() != "18:00" {
		t.Fatalf("expected only end gap 17:00-18:00, got %v", got)
	}

	// Front gap qualifies and is emitted first.
	got = s.SuggestSlots([]entity.TimeWindow{window(t, "11:00", "17:30")})
	if len(got) != 1 || got[0].Start() != "09:00" || got[0].End() != "11:00" {
		t.Fatalf("expected front gap 09:00-11:00, got %v", got)
	}
}

func TestSuggestSlotsOrderAndCap(t *testing.T) {
	t.Parallel()
	s := defaultScheduler()

	// Four qualifying gaps: front, two inter-event, end. FIFO truncation keeps
	// the first three chronologically, even though the end gap is the widest.
	existing := []entity.TimeWindow{
		window(t, "10:30", "11:00"),
		window(t, "12:00", "12:30"),
		window(t, "13:30", "14:00"),
	}
	got := s.SuggestSlots(existing)
	if len(got) != 3 {
		t.Fatalf("expected 3 suggestions, got %d: %v", len(got), got)
	}
	want := [][2]string{{"09:00", "10:30"}, {"11:00", "12:00"}, {"12:30", "13:30"}}
	for i, w := range want {
		if got[i].Start() != w[0] || got[i].End() != w[1] {
			t.Fatalf("slot[%d] = %s-%s, want %s-%s", i, got[i].Start(), got[i].End(), w[0], w[1])
		}
	}
}

func TestSuggestSlotsUnsortedInput(t *testing.T) {
	t.Parallel()
	s := defaultScheduler()
	existing := []entity.TimeWindow{
		window(t, "13:00", "14:00"),
		window(t, "09:00", "10:00"),
	}
	got := s.SuggestSlots(existing)
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d: %v", len(got), got)
	}
	if got[0].Start() != "10:00" || got[0].End() != "13:00" {
		t.Fatalf("slot[0] = %s-%s, want 10:00-13:00", got[0].Start(), got[0].End())
	}
	if got[1].Start() != "14:00" || got[1].End() != "18:00" {
		t.Fatalf("slot[1] = %s-%s, want 14:00-18:00", got[1].Start(), got[1].End())
	}
}

func TestSuggestSlotsCustomWorkingHours(t *testing.T) {
	t.Parallel()
	s := NewScheduler(WorkingHours{StartMinutes: 8 * 60, EndMinutes: 20 * 60})
	got := s.SuggestSlots(nil)
	if len(got) != 1 || got[0].Start() != "08:00" || got[0].End() != "20:00" {
		t.Fatalf("expected 08:00-20:00, got %v", got)
	}
}

// TestSchedulingEndToEnd walks the full create-event decision for a day with
// two approved events, 09:00-10:00 and 13:00-14:00.
func TestSchedulingEndToEnd(t *testing.T) {
	t.Parallel()
	s := defaultScheduler()
	existing := []entity.TimeWindow{
		window(t, "09:00", "10:00"),
		window(t, "13:00", "14:00"),
	}

	// Free candidate auto-approves.
	free := window(t, "10:30", "11:30")
	if s.DetectConflict(free, existing) {
		t.Fatal("10:30-11:30 should be free")
	}
	if got := s.DecideApproval(false); got != entity.ApprovalStatusApproved {
		t.Fatalf("expected approved, got %s", got)
	}

	// Colliding candidate routes to pending with two suggestions: the
	// zero-width front gap is excluded, 10:00-13:00 and 14:00-18:00 qualify.
	busy := window(t, "09:30", "10:15")
	if !s.DetectConflict(busy, existing) {
		t.Fatal("09:30-10:15 should conflict")
	}
	if got := s.DecideApproval(true); got != entity.ApprovalStatusPending {
		t.Fatalf("expected pending, got %s", got)
	}

	slots := s.SuggestSlots(existing)
	if len(slots) != 2 {
		t.Fatalf("expected 2 suggestions, got %d: %v", len(slots), slots)
	}
	if slots[0].Start() != "10:00" || slots[0].End() != "13:00" {
		t.Fatalf("slot[0] = %s-%s, want 10:00-13:00", slots[0].Start(), slots[0].End())
	}
	if slots[1].Start() != "14:00" || slots[1].End() != "18:00" {
		t.Fatalf("slot[1] = %s-%s, want 14:00-18:00", slots[1].Start(), slots[1].End())
	}
}
