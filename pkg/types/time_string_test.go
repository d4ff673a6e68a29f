package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{name: "morning", in: "09:00", want: 540},
		{name: "with minutes", in: "17:45", want: 1065},
		{name: "midnight end", in: "24:00", want: 1440},
		{name: "single digit hour", in: "9:00", wantErr: true},
		{name: "garbage", in: "nine", wantErr: true},
		{name: "out of range", in: "25:00", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Minutes())
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	start := MustTimeString("17:00")

	end, err := start.AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, "18:00", end.String())
	assert.True(t, start.IsBefore(end))
	assert.True(t, end.IsAfter(start))

	_, err = start.AddMinutes(8 * 60)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("10:30:00"))
	assert.Equal(t, "10:30", ts.String())

	require.NoError(t, ts.Scan([]byte("08:15")))
	assert.Equal(t, "08:15", ts.String())

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_On(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	got := MustTimeString("09:30").On(2026, time.March, 10, loc)
	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, 30, got.Minute())
	assert.Equal(t, loc, got.Location())
}
