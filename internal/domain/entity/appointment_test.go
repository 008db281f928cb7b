package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentStatusValid(t *testing.T) {
	assert.True(t, AppointmentStatusScheduled.Valid())
	assert.True(t, AppointmentStatusCompleted.Valid())
	assert.True(t, AppointmentStatusCancelled.Valid())
	assert.False(t, AppointmentStatus("PENDING").Valid())
	assert.False(t, AppointmentStatus("").Valid())
}

func TestAppointmentStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{"scheduled to completed", AppointmentStatusScheduled, AppointmentStatusCompleted, true},
		{"scheduled to cancelled", AppointmentStatusScheduled, AppointmentStatusCancelled, true},
		{"scheduled to scheduled", AppointmentStatusScheduled, AppointmentStatusScheduled, false},
		{"completed to cancelled", AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{"completed to scheduled", AppointmentStatusCompleted, AppointmentStatusScheduled, false},
		{"completed to completed", AppointmentStatusCompleted, AppointmentStatusCompleted, false},
		{"cancelled to completed", AppointmentStatusCancelled, AppointmentStatusCompleted, false},
		{"cancelled to scheduled", AppointmentStatusCancelled, AppointmentStatusScheduled, false},
		{"cancelled to cancelled", AppointmentStatusCancelled, AppointmentStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestAppointmentStatusIsTerminal(t *testing.T) {
	assert.False(t, AppointmentStatusScheduled.IsTerminal())
	assert.True(t, AppointmentStatusCompleted.IsTerminal())
	assert.True(t, AppointmentStatusCancelled.IsTerminal())
}

func TestWithinWorkingHours(t *testing.T) {
	day := func(hour, min int) time.Time {
		return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
	}

	tests := []struct {
		name   string
		at     time.Time
		within bool
	}{
		{"opening boundary", day(8, 0), true},
		{"mid morning", day(10, 30), true},
		{"last valid hour", day(17, 59), true},
		{"closing boundary", day(18, 0), false},
		{"just before opening", day(7, 59), false},
		{"midnight", day(0, 0), false},
		{"late evening", day(22, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.within, WithinWorkingHours(tt.at, time.UTC))
		})
	}
}

func TestWithinWorkingHoursRespectsTimezone(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 02:00 UTC is 09:00 in Jakarta (UTC+7).
	at := time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)
	assert.False(t, WithinWorkingHours(at, time.UTC))
	assert.True(t, WithinWorkingHours(at, jakarta))
}

func TestTimesConflict(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		other    time.Time
		conflict bool
	}{
		{"same time", base, true},
		{"15 minutes after", base.Add(15 * time.Minute), true},
		{"29 minutes after", base.Add(29 * time.Minute), true},
		{"exactly 30 minutes after", base.Add(30 * time.Minute), false},
		{"exactly 30 minutes before", base.Add(-30 * time.Minute), false},
		{"29 minutes before", base.Add(-29 * time.Minute), true},
		{"one hour after", base.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.conflict, TimesConflict(base, tt.other))
			assert.Equal(t, tt.conflict, TimesConflict(tt.other, base))
		})
	}
}

func TestCancellationNote(t *testing.T) {
	actorID := uuid.New()
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("no existing notes", func(t *testing.T) {
		note := CancellationNote(nil, at, actorID, "patient request")
		assert.Equal(t, "[2026-03-10T09:00:00Z] cancelled by "+actorID.String()+": patient request", note)
	})

	t.Run("empty reason", func(t *testing.T) {
		note := CancellationNote(nil, at, actorID, "")
		assert.Equal(t, "[2026-03-10T09:00:00Z] cancelled by "+actorID.String(), note)
		assert.False(t, strings.HasSuffix(note, ":"))
	})

	t.Run("appends to existing notes", func(t *testing.T) {
		existing := "bring previous scans"
		note := CancellationNote(&existing, at, actorID, "doctor unavailable")
		lines := strings.Split(note, "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "bring previous scans", lines[0])
		assert.Contains(t, lines[1], "cancelled by "+actorID.String())
	})

	t.Run("empty existing notes treated as absent", func(t *testing.T) {
		existing := ""
		note := CancellationNote(&existing, at, actorID, "")
		assert.NotContains(t, note, "\n")
	})
}

func TestAppointmentStateHelpers(t *testing.T) {
	appointment := &Appointment{Status: AppointmentStatusScheduled}
	assert.True(t, appointment.IsScheduled())
	assert.False(t, appointment.IsCancelled())

	appointment.Status = AppointmentStatusCancelled
	assert.False(t, appointment.IsScheduled())
	assert.True(t, appointment.IsCancelled())
}
