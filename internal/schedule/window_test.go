package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWindow(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		startHour int
		endHour   int
		wantErr   bool
	}{
		{name: "standard working day", date: "2025-03-10", startHour: 9, endHour: 17},
		{name: "full day", date: "2025-03-10", startHour: 0, endHour: 23},
		{name: "one hour window", date: "2025-12-31", startHour: 8, endHour: 9},
		{name: "unparsable date", date: "10/03/2025", startHour: 9, endHour: 17, wantErr: true},
		{name: "empty date", date: "", startHour: 9, endHour: 17, wantErr: true},
		{name: "start hour negative", date: "2025-03-10", startHour: -1, endHour: 17, wantErr: true},
		{name: "end hour too large", date: "2025-03-10", startHour: 9, endHour: 24, wantErr: true},
		{name: "start equals end", date: "2025-03-10", startHour: 9, endHour: 9, wantErr: true},
		{name: "start after end", date: "2025-03-10", startHour: 17, endHour: 9, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWindow(tt.date, tt.startHour, tt.endHour)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.date, w.Date())
			assert.True(t, w.Start().Before(w.End()))
		})
	}
}

func TestWindowBounds(t *testing.T) {
	w, err := NewWindow("2025-03-10", 9, 17)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10 09:00:00", w.Start().Format("2006-01-02 15:04:05"))
	assert.Equal(t, "2025-03-10 17:00:00", w.End().Format("2006-01-02 15:04:05"))
}
