package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	expected := []string{"fetch", "regions", "nearest", "unlock", "export", "serve"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "coronalert", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestFetchCommand_Flags(t *testing.T) {
	for _, name := range []string{"iso", "province", "region", "city", "date", "q", "search"} {
		require.NotNil(t, fetchCmd.Flags().Lookup(name), "fetch should have --%s", name)
	}

	format := fetchCmd.Flags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "table", format.DefValue)

	retries := fetchCmd.Flags().Lookup("retries")
	require.NotNil(t, retries)
	assert.Equal(t, "0", retries.DefValue)
}

func TestNearestCommand_Flags(t *testing.T) {
	for _, name := range []string{"lat", "lon", "top", "iso"} {
		require.NotNil(t, nearestCmd.Flags().Lookup(name), "nearest should have --%s", name)
	}
}

func TestUnlockCommand_Flags(t *testing.T) {
	require.NotNil(t, unlockCmd.Flags().Lookup("txn"))
	restore := unlockCmd.Flags().Lookup("restore")
	require.NotNil(t, restore)
	assert.Equal(t, "false", restore.DefValue)
}

func TestExportCommand_Flags(t *testing.T) {
	require.NotNil(t, exportCmd.Flags().Lookup("geojson"))
	require.NotNil(t, exportCmd.Flags().Lookup("xlsx"))
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)

	refresh := serveCmd.Flags().Lookup("refresh")
	require.NotNil(t, refresh)
	assert.Equal(t, "15m0s", refresh.DefValue)
}
