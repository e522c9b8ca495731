package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSource(t *testing.T) {
	s, err := ParseSource("")
	require.NoError(t, err)
	require.Equal(t, SourceUpload, s)

	s, err = ParseSource("camera")
	require.NoError(t, err)
	require.Equal(t, SourceCamera, s)

	_, err = ParseSource("scanner")
	require.Error(t, err)
}

func TestColorModeChannels(t *testing.T) {
	require.Equal(t, 1, ModeGray.Channels())
	require.Equal(t, 3, ModeRGB.Channels())
	require.Equal(t, 4, ModeRGBA.Channels())
}

func TestTensorCHW(t *testing.T) {
	// 2x1 пикселя, 3 канала
	tensor := Tensor{Height: 1, Width: 2, Channels: 3, Data: []float32{1, 2, 3, 4, 5, 6}}
	require.Equal(t, []float32{1, 4, 2, 5, 3, 6}, tensor.CHW())
	require.Equal(t, float32(5), tensor.At(1, 0, 1))
}
