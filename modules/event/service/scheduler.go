package service

import (
	"sort"

	"campus-events/core/constants"
	"campus-events/modules/event/entity"
)

// WorkingHours bounds the slot-suggestion search, in minutes since midnight.
type WorkingHours struct {
	StartMinutes int
	EndMinutes   int
}

// Scheduler decides whether a proposed event window collides with the
// approved events already on that date, routes the submission to auto-approval
// or admin review, and proposes free slots when it collides.
//
// It is pure: no I/O, no caching. The caller owns freshness of the existing
// set — after a date change it must re-fetch the approved events for the new
// date before calling back in. The database-side overlap guard remains the
// final arbiter under concurrent submissions; this verdict is advisory.
type Scheduler struct {
	WorkingHours WorkingHours
	// MinGapMinutes is the smallest gap worth suggesting, inclusive.
	MinGapMinutes int
	// MaxSuggestions caps the suggestion list (FIFO truncation, not best-fit).
	MaxSuggestions int
}

// NewScheduler creates a scheduler bounded by the given working hours.
func NewScheduler(wh WorkingHours) *Scheduler {
	if wh.EndMinutes <= wh.StartMinutes {
		wh = WorkingHours{
			StartMinutes: constants.SchedulerWorkingHoursStart,
			EndMinutes:   constants.SchedulerWorkingHoursEnd,
		}
	}
	return &Scheduler{
		WorkingHours:   wh,
		MinGapMinutes:  constants.SchedulerMinGapMinutes,
		MaxSuggestions: constants.SchedulerMaxSuggestions,
	}
}

// DetectConflict reports whether the candidate shares any instant with an
// existing window. Intervals are half-open, so windows that merely touch at
// an endpoint do not conflict. Short-circuits on the first match.
func (s *Scheduler) DetectConflict(candidate entity.TimeWindow, existing []entity.TimeWindow) bool {
	for _, other := range existing {
		if candidate.StartMinutes < other.EndMinutes && candidate.EndMinutes > other.StartMinutes {
			return true
		}
	}
	return false
}

// DecideApproval routes a conflict-free submission straight to approved and
// everything else to pending admin review. This is the sole routing rule.
func (s *Scheduler) DecideApproval(hasConflict bool) entity.ApprovalStatus {
	if hasConflict {
		return entity.ApprovalStatusPending
	}
	return entity.ApprovalStatusApproved
}

// SuggestSlots proposes up to MaxSuggestions free windows inside working
// hours, in chronological order: the gap before the first event, the gaps
// between consecutive events, then the gap after the last event. Only gaps of
// at least MinGapMinutes qualify. The list is truncated first-in-first-out; a
// wider gap appearing later never displaces an earlier qualifying one.
func (s *Scheduler) SuggestSlots(existing []entity.TimeWindow) []entity.TimeWindow {
	if len(existing) == 0 {
		return []entity.TimeWindow{{
			StartMinutes: s.WorkingHours.StartMinutes,
			EndMinutes:   s.WorkingHours.EndMinutes,
		}}
	}

	sorted := make([]entity.TimeWindow, len(existing))
	copy(sorted, existing)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartMinutes < sorted[j].StartMinutes
	})

	slots := make([]entity.TimeWindow, 0, len(sorted)+1)

	if gap := sorted[0].StartMinutes - s.WorkingHours.StartMinutes; gap >= s.MinGapMinutes {
		slots = append(slots, entity.TimeWindow{
			StartMinutes: s.WorkingHours.StartMinutes,
			EndMinutes:   sorted[0].StartMinutes,
		})
	}

	for i := 0; i < len(sorted)-1; i++ {
		if gap := sorted[i+1].StartMinutes - sorted[i].EndMinutes; gap >= s.MinGapMinutes {
			slots = append(slots, entity.TimeWindow{
				StartMinutes: sorted[i].EndMinutes,
				EndMinutes:   sorted[i+1].StartMinutes,
			})
		}
	}

	last := sorted[len(sorted)-1]
	if gap := s.WorkingHours.EndMinutes - last.EndMinutes; gap >= s.MinGapMinutes {
		slots = append(slots, entity.TimeWindow{
			StartMinutes: last.EndMinutes,
			EndMinutes:   s.WorkingHours.EndMinutes,
		})
	}

	if len(slots) > s.MaxSuggestions {
		slots = slots[:s.MaxSuggestions]
	}
	return slots
}
