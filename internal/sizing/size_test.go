package sizing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUint32(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      int64
		want    uint32
		wantErr bool
	}{
		{"zero", 0, 0, false},
		{"max", math.MaxUint32, math.MaxUint32, false},
		{"too large", math.MaxUint32 + 1, 0, true},
		{"negative", -1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ToUint32(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrOverflow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddUint64(t *testing.T) {
	t.Parallel()

	sum, ok := AddUint64(1, 2)
	assert.True(t, ok)
	assert.Equal(t, uint64(3), sum)

	_, ok = AddUint64(math.MaxUint64, 1)
	assert.False(t, ok)
}

func TestToInt64(t *testing.T) {
	t.Parallel()

	got, err := ToInt64(42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	_, err = ToInt64(math.MaxUint64)
	assert.ErrorIs(t, err, ErrOverflow)
}
