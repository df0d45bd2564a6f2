package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImageSample_MediaType(t *testing.T) {
	require.Equal(t, "image/jpeg", (&ImageSample{Format: "jpeg"}).MediaType())
	require.Equal(t, "image/gif", (&ImageSample{Format: "gif"}).MediaType())

	// Неопознанный формат считаем png
	require.Equal(t, "image/png", (&ImageSample{}).MediaType())
}
