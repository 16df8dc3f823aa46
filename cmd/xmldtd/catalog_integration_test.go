//go:build integration
// +build integration

package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogSaveAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	require.NoError(t, execRootCmd([]string{"xmldtd", "catalog", "save", "--sqlite", path, tvSchedulePath, newspaperPath}, "1.0.0"))
	require.NoError(t, execRootCmd([]string{"xmldtd", "catalog", "list", "--url", "sqlite://" + path}, "1.0.0"))
}
