package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"add stock counts", "add_stock_counts"},
		{"Add-Pick-Lists", "add_pick_lists"},
		{"ADD__TAX__RATES", "add_tax_rates"},
		{"  lots  ", "lots"},
		{"special!@#$chars", "specialchars"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.input))
		})
	}
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("-- test"), 0o644))
	}
}

func TestCreate_NumbersAfterExisting(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"000001_identity.up.sql", "000001_identity.down.sql",
		"000004_sales_and_jobs.up.sql", "000004_sales_and_jobs.down.sql",
	)

	f, err := Create(dir, "Add serial history", "track serial moves")
	require.NoError(t, err)
	assert.Equal(t, uint(5), f.Version)
	assert.Equal(t, "000005_add_serial_history", f.Base())

	up, err := os.ReadFile(f.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Add serial history (up)")
	assert.Contains(t, string(up), "track serial moves")

	down, err := os.ReadFile(f.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(down)")
}

func TestCreate_EmptyDirectoryStartsAtOne(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	f, err := Create(dir, "init", "")
	require.NoError(t, err)
	assert.Equal(t, uint(1), f.Version)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreate_RejectsBlankName(t *testing.T) {
	_, err := Create(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"000002_customers.up.sql", "000002_customers.down.sql",
		"000001_identity.up.sql", "000001_identity.down.sql",
		"000003_orphan.down.sql",
		"README.md", "notes_without_version.up.sql",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "000009_dir.up.sql"), 0o755))

	files, err := List(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "000001_identity", files[0].Base())
	assert.Equal(t, "000002_customers", files[1].Base())
	assert.NotEmpty(t, files[1].DownPath)
}

func TestList_MissingDirectory(t *testing.T) {
	files, err := List(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestList_ProjectMigrationsArePaired(t *testing.T) {
	files, err := List("../../../migrations")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for i, f := range files {
		assert.Equal(t, uint(i+1), f.Version, "gap before %s", f.Base())
		assert.NotEmpty(t, f.DownPath, "%s has no down file", f.Base())
	}
}
