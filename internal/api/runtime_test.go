package api

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vboxgo/vboxapi/internal/api/nativetest"
	"github.com/vboxgo/vboxapi/types"
)

func TestCheckVersion(t *testing.T) {
	cases := []struct {
		name     string
		expected types.APIVersion
		release  uint32
		api      uint32
		ok       bool
	}{
		{"7.1 matches", types.APIv7_1, 7_001_004, 7001, true},
		{"7.0 matches", types.APIv7_0, 7_000_018, 7000, true},
		{"6.1 matches", types.APIv6_1, 6_001_050, 6001, true},
		{"release mismatch", types.APIv7_1, 7_000_018, 7001, false},
		{"api mismatch", types.APIv7_1, 7_001_004, 7000, false},
		{"old library", types.APIv7_0, 5_002_044, 5002, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckVersion(tc.expected, tc.release, tc.api)
			if tc.ok {
				require.NoError(t, err)
				return
			}
			ve := requireKind(t, err, types.KindIncorrectVersion)
			require.NotNil(t, ve.Ver)
			assert.Equal(t, tc.expected, ve.Ver.Expected)
			assert.Equal(t, tc.release, ve.Ver.Version)
			assert.Equal(t, tc.api, ve.Ver.APIVersion)
			assert.True(t, errors.Is(err, types.ErrIncorrectVersion))
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger("", &buf)
	require.NoError(t, err)
	logger.Error().Msg("hidden")
	assert.Empty(t, buf.String())

	logger, err = NewLogger("warn", &buf)
	require.NoError(t, err)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)
	assert.Contains(t, buf.String(), `"module":"vboxapi"`)

	_, err = NewLogger("loud", &buf)
	require.Error(t, err)
}

func TestRuntimeLogsCalls(t *testing.T) {
	layouts, err := LoadLayouts(types.APIv7_0, "")
	require.NoError(t, err)
	w := nativetest.NewWorld(layouts)
	var buf bytes.Buffer
	logger, err := NewLogger("debug", &buf)
	require.NoError(t, err)
	rt, err := NewRuntime(Options{Caller: w, Freer: w, Layouts: layouts, Logger: &logger})
	require.NoError(t, err)
	assert.Equal(t, types.APIv7_0, rt.Version())

	fake := w.NewObject("ISession").On("UnlockMachine", nativetest.Returning(types.VBOX_E_INVALID_SESSION_STATE))
	err = CallUnit(NewObject(rt, "ISession", fake.Ptr), "UnlockMachine")
	requireKind(t, err, types.KindNative)
	assert.Contains(t, buf.String(), `"op":"ISession.UnlockMachine"`)
}

func TestNewRuntimeRequires(t *testing.T) {
	layouts, err := LoadLayouts(types.APIv7_1, "")
	require.NoError(t, err)
	w := nativetest.NewWorld(layouts)

	_, err = NewRuntime(Options{Freer: w, Layouts: layouts})
	require.Error(t, err)
	_, err = NewRuntime(Options{Caller: w, Layouts: layouts})
	require.Error(t, err)
	_, err = NewRuntime(Options{Caller: w, Freer: w})
	require.Error(t, err)
}

func TestOpenRejectsBadConfig(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.APIVersion = types.APIUnknown
	_, _, err := Open(cfg, zerolog.Nop())
	requireKind(t, err, types.KindInitFailed)
}
