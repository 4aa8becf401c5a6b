package numbering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{name: "empty collection", existing: nil, want: "COT-0001"},
		{name: "maximum wins", existing: []string{"COT-0003", "COT-0007", "COT-0002"}, want: "COT-0008"},
		{name: "unparseable ignored", existing: []string{"COT-ABCD", "", "COT-0004"}, want: "COT-0005"},
		{name: "overflows padding", existing: []string{"COT-9999"}, want: "COT-10000"},
		{name: "beyond padding", existing: []string{"COT-10000"}, want: "COT-10001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.existing)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNext_Exhausted(t *testing.T) {
	for _, existing := range [][]string{
		{"COT-0001", "COT-9223372036854775807"},
		{"COT-99999999999999999999"},
	} {
		got, err := Next(existing)
		assert.ErrorIs(t, err, ErrSequenceExhausted, existing)
		assert.Empty(t, got)
	}
}

func TestFormat(t *testing.T) {
	got, err := Format("COT-", 4, 42)
	require.NoError(t, err)
	assert.Equal(t, "COT-0042", got)

	got, err = Format("Q", 6, 7)
	require.NoError(t, err)
	assert.Equal(t, "Q000007", got)

	_, err = Format("COT-", 4, 0)
	assert.Error(t, err)

	_, err = Format("COT-", 0, 1)
	assert.Error(t, err)
}

func TestSequence(t *testing.T) {
	seq, ok := Sequence("COT-0012")
	assert.True(t, ok)
	assert.Equal(t, int64(12), seq)

	_, ok = Sequence("COT-")
	assert.False(t, ok)

	_, ok = Sequence("COT--3")
	assert.False(t, ok)
}
