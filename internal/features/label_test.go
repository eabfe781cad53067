package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "pvcli/internal/errors"
)

func TestLabelCodec_FitEncode(t *testing.T) {
	codec := NewLabelCodec()
	require.NoError(t, codec.Fit([]string{"B", "A", "B", "A", "A"}))

	// sorted, so class order does not depend on row order
	assert.Equal(t, []string{"A", "B"}, codec.Labels())
	assert.Equal(t, 2, codec.Classes())

	encoded, err := codec.Encode([]string{"B", "A", "B"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 1}, encoded)

	label, err := codec.Decode(1)
	require.NoError(t, err)
	assert.Equal(t, "B", label)
}

func TestLabelCodec_Fit_Errors(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		wantType apperrors.ErrorType
	}{
		{name: "missing target", values: []string{"A", ""}, wantType: apperrors.ErrTypeDataQuality},
		{name: "no values", values: nil, wantType: apperrors.ErrTypeDataQuality},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewLabelCodec().Fit(tt.values)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
		})
	}
}

func TestLabelCodec_EncodeUnseen(t *testing.T) {
	codec := NewLabelCodec()
	require.NoError(t, codec.Fit([]string{"A", "B"}))

	_, err := codec.Encode([]string{"C"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchemaMismatch), "got %v", err)
}

func TestLabelCodec_DecodeOutOfRange(t *testing.T) {
	codec, err := NewLabelCodecFromLabels([]string{"A", "B"})
	require.NoError(t, err)

	_, err = codec.Decode(2)
	require.Error(t, err)
	_, err = codec.Decode(-1)
	require.Error(t, err)
}

func TestLabelCodec_FromLabels(t *testing.T) {
	codec, err := NewLabelCodecFromLabels([]string{"A", "B", "C"})
	require.NoError(t, err)

	encoded, err := codec.Encode([]string{"C", "A"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, encoded)

	_, err = NewLabelCodecFromLabels(nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchemaMismatch))
}
