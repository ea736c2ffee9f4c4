package migration

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Create Students Table")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(mf.UpPath, "_create_students_table.up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, "_create_students_table.down.sql"))

	for _, path := range []string{mf.UpPath, mf.DownPath} {
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "Create Students Table")
	}
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	_, err := CreateMigration(dir, "first")
	require.NoError(t, err)

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, migrations, 1)
	assert.True(t, strings.HasSuffix(migrations[0], "_first"))
}

func TestListMigrations_MissingDir(t *testing.T) {
	migrations, err := ListMigrations("/nonexistent/path")
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "add_fee_ledger", sanitizeName("Add Fee Ledger"))
	assert.Equal(t, "v2_schema", sanitizeName("v2 schema!"))
}
