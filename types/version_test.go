package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAPIVersion(t *testing.T) {
	for _, s := range []string{"7.1", "7_1", "v7_1", "V7.1", " 7.1 "} {
		v, err := ParseAPIVersion(s)
		require.NoError(t, err, s)
		assert.Equal(t, APIv7_1, v, s)
	}
	v, err := ParseAPIVersion("6.1")
	require.NoError(t, err)
	assert.Equal(t, APIv6_1, v)

	_, err = ParseAPIVersion("5.2")
	require.Error(t, err)
}

func TestAPIVersionFromRelease(t *testing.T) {
	assert.Equal(t, APIv6_1, APIVersionFromRelease(6_001_050))
	assert.Equal(t, APIv7_0, APIVersionFromRelease(7_000_020))
	assert.Equal(t, APIv7_1, APIVersionFromRelease(7_001_004))
	assert.Equal(t, APIUnknown, APIVersionFromRelease(7_002_000))
	assert.Equal(t, APIUnknown, APIVersionFromRelease(0))
}

func TestAPIVersionText(t *testing.T) {
	var v APIVersion
	require.NoError(t, v.UnmarshalText([]byte("7.0")))
	assert.Equal(t, APIv7_0, v)
	bz, err := v.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "v7_0", string(bz))
	assert.Error(t, v.UnmarshalText([]byte("latest")))
}
