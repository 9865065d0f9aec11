package app_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/graphcache/internal/app"
)

func TestNewApp_Success(t *testing.T) {
	components, err := app.NewApp(t.Context())
	require.NoError(t, err)

	require.NotNil(t, components)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
}
