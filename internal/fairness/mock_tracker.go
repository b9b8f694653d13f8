package fairness

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/belphemur/week-routine/internal/constants"
)

// MockTracker is an in-memory implementation of TrackerInterface for testing
type MockTracker struct {
	mu          sync.Mutex
	assignments []*Assignment
	nextID      int64
}

// NewMockTracker creates a new MockTracker
func NewMockTracker() *MockTracker {
	return &MockTracker{
		assignments: []*Assignment{},
		nextID:      1,
	}
}

func dayKey(date time.Time) string {
	return date.Format(constants.DateFormat)
}

func (m *MockTracker) find(routineID int64, date time.Time) *Assignment {
	key := dayKey(date)
	for _, a := range m.assignments {
		if a.RoutineID == routineID && dayKey(a.Date) == key {
			return a
		}
	}
	return nil
}

func (m *MockTracker) upsert(routineID int64, participant string, date time.Time, reason DecisionReason, override bool) *Assignment {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if existing := m.find(routineID, date); existing != nil {
		existing.Participant = participant
		existing.DecisionReason = reason
		existing.Override = override
		existing.UpdatedAt = now
		copied := *existing
		return &copied
	}

	day, _ := time.Parse(constants.DateFormat, dayKey(date))
	a := &Assignment{
		ID:             m.nextID,
		RoutineID:      routineID,
		Participant:    participant,
		Date:           day,
		DecisionReason: reason,
		Override:       override,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.assignments = append(m.assignments, a)
	m.nextID++

	copied := *a
	return &copied
}

// RecordAssignment records a new assignment or replaces the one on the same date
func (m *MockTracker) RecordAssignment(_ context.Context, routineID int64, participant string, date time.Time, reason DecisionReason) (*Assignment, error) {
	return m.upsert(routineID, participant, date, reason, false), nil
}

// OverrideAssignment pins a participant to a date
func (m *MockTracker) OverrideAssignment(_ context.Context, routineID int64, participant string, date time.Time) (*Assignment, error) {
	return m.upsert(routineID, participant, date, DecisionReasonOverride, true), nil
}

// filter returns copies of the assignments of a routine accepted by keep, ordered by date
func (m *MockTracker) filter(routineID int64, keep func(day string) bool) []*Assignment {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := []*Assignment{}
	for _, a := range m.assignments {
		if a.RoutineID == routineID && keep(dayKey(a.Date)) {
			copied := *a
			result = append(result, &copied)
		}
	}
	slices.SortFunc(result, func(a, b *Assignment) int {
		return a.Date.Compare(b.Date)
	})
	return result
}

// GetLastAssignmentsUntil returns the last n assignments before a specific date
func (m *MockTracker) GetLastAssignmentsUntil(_ context.Context, routineID int64, n int, until time.Time) ([]*Assignment, error) {
	untilStr := dayKey(until)
	filtered := m.filter(routineID, func(day string) bool { return day < untilStr })
	slices.Reverse(filtered)
	return filtered[:min(n, len(filtered))], nil
}

// GetParticipantStatsUntil returns statistics for each participant before a specific date
func (m *MockTracker) GetParticipantStatsUntil(_ context.Context, routineID int64, until time.Time) (map[string]Stats, error) {
	untilStr := dayKey(until)
	recentStr := dayKey(until.AddDate(0, 0, -30))

	stats := make(map[string]Stats)
	for _, a := range m.filter(routineID, func(day string) bool { return day < untilStr }) {
		s := stats[a.Participant]
		s.TotalAssignments++
		if dayKey(a.Date) >= recentStr {
			s.Last30Days++
		}
		stats[a.Participant] = s
	}
	return stats, nil
}

// GetAssignmentByDate retrieves an assignment for a specific date
func (m *MockTracker) GetAssignmentByDate(_ context.Context, routineID int64, date time.Time) (*Assignment, error) {
	key := dayKey(date)
	found := m.filter(routineID, func(day string) bool { return day == key })
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

// GetAssignmentsInRange retrieves all assignments in a date range
func (m *MockTracker) GetAssignmentsInRange(_ context.Context, routineID int64, start, end time.Time) ([]*Assignment, error) {
	startStr, endStr := dayKey(start), dayKey(end)
	return m.filter(routineID, func(day string) bool { return day >= startStr && day <= endStr }), nil
}

// DeleteAssignment removes an assignment
func (m *MockTracker) DeleteAssignment(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments = slices.DeleteFunc(m.assignments, func(a *Assignment) bool { return a.ID == id })
	return nil
}
