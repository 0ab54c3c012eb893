package drain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/sendflow/internal/domain"
)

func draftOf(minorUnits int64) domain.TransferDraft {
	return domain.TransferDraft{AmountMinorUnits: minorUnits}
}

func TestEaseInOutCubic(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "Start", in: 0, want: 0},
		{name: "Quarter", in: 0.25, want: 0.0625},
		{name: "Midpoint", in: 0.5, want: 0.5},
		{name: "Three quarters", in: 0.75, want: 0.9375},
		{name: "End", in: 1, want: 1},
		{name: "Clamped below", in: -0.3, want: 0},
		{name: "Clamped above", in: 1.7, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EaseInOutCubic(tt.in), 1e-9)
		})
	}
}

func TestEaseInOutCubic_Monotonic(t *testing.T) {
	prev := 0.0
	for i := 0; i <= 100; i++ {
		got := EaseInOutCubic(float64(i) / 100)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0.0, Progress(0, 3*time.Second))
	assert.InDelta(t, 0.5, Progress(1500*time.Millisecond, 3*time.Second), 1e-9)
	assert.Equal(t, 1.0, Progress(4*time.Second, 3*time.Second))
	assert.Equal(t, 1.0, Progress(time.Second, 0))
}

func TestSplit_WholeUnitAmount(t *testing.T) {
	// $2,000.00 has no cents, so both sides round to whole dollars
	got, err := Split(draftOf(200000), 0.3333)
	require.NoError(t, err)

	assert.True(t, got.WholeUnits)
	assert.Equal(t, int32(0), got.Places())
	assert.True(t, got.Receiver.Equal(decimal.NewFromInt(667)), "receiver = %s", got.Receiver)
	assert.True(t, got.Sender.Equal(decimal.NewFromInt(1333)), "sender = %s", got.Sender)
}

func TestSplit_FractionalAmount(t *testing.T) {
	got, err := Split(draftOf(1250), 0.5)
	require.NoError(t, err)

	assert.False(t, got.WholeUnits)
	assert.Equal(t, int32(2), got.Places())
	assert.True(t, got.Receiver.Equal(decimal.RequireFromString("6.25")))
	assert.True(t, got.Sender.Equal(decimal.RequireFromString("6.25")))
}

func TestSplit_Endpoints(t *testing.T) {
	start, err := Split(draftOf(200000), 0)
	require.NoError(t, err)
	assert.True(t, start.Sender.Equal(decimal.NewFromInt(2000)))
	assert.True(t, start.Receiver.IsZero())
	assert.True(t, start.DimReceiver)

	end, err := Split(draftOf(200000), 1)
	require.NoError(t, err)
	assert.True(t, end.Sender.IsZero())
	assert.True(t, end.Receiver.Equal(decimal.NewFromInt(2000)))
	assert.False(t, end.DimReceiver)
}

func TestSplit_DimOnlyAtTheStart(t *testing.T) {
	early, err := Split(draftOf(5000), 0.019)
	require.NoError(t, err)
	assert.True(t, early.DimReceiver)

	later, err := Split(draftOf(5000), 0.02)
	require.NoError(t, err)
	assert.False(t, later.DimReceiver)
}

func TestSplit_Conservation(t *testing.T) {
	amounts := []int64{0, 1, 99, 100, 1250, 12345, 200000, 987654321}
	for _, full := range amounts {
		want := decimal.NewFromInt(full).Div(decimal.NewFromInt(100))
		for i := 0; i <= 50; i++ {
			p := EaseInOutCubic(float64(i) / 50)
			got, err := Split(draftOf(full), p)
			require.NoError(t, err)
			assert.True(t, got.Sender.Add(got.Receiver).Equal(want),
				"full=%d progress=%f sender=%s receiver=%s", full, p, got.Sender, got.Receiver)
			assert.False(t, got.Sender.IsNegative())
			assert.False(t, got.Receiver.IsNegative())
		}
	}
}

func TestSplit_InvalidInput(t *testing.T) {
	_, err := Split(draftOf(-1), 0.5)
	assert.EqualError(t, err, "full amount cannot be negative")

	_, err = Split(draftOf(100), 1.5)
	assert.EqualError(t, err, "progress must be between 0 and 1")

	_, err = Split(draftOf(100), -0.1)
	assert.EqualError(t, err, "progress must be between 0 and 1")
}
