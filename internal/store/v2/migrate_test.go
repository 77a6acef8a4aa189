package store

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExec struct {
	versions []int
	execs    []string
}

func (r *recordingExec) ExecSQL(ctx context.Context, query string, args ...any) error {
	r.execs = append(r.execs, query)
	return nil
}

func (r *recordingExec) QueryVersions(ctx context.Context, query string) ([]int, error) {
	return r.versions, nil
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"sqlite/0002_index.sql":    {Data: []byte("CREATE INDEX b;")},
		"sqlite/0001_accounts.sql": {Data: []byte("CREATE TABLE a;")},
		"sqlite/README.md":         {Data: []byte("ignored")},
	}
}

func TestMigrator_ParseMigrationsSorted(t *testing.T) {
	migs, err := NewMigrator(testFS(), "sqlite", "sqlite").ParseMigrations()

	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, 1, migs[0].Version)
	assert.Equal(t, "accounts", migs[0].Name)
	assert.Equal(t, 2, migs[1].Version)
}

func TestMigrator_RunSkipsApplied(t *testing.T) {
	exec := &recordingExec{versions: []int{1}}

	res, err := NewMigrator(testFS(), "sqlite", "sqlite").Run(context.Background(), exec)

	require.NoError(t, err)
	assert.Equal(t, []int{2}, res.Applied)
	assert.Equal(t, []int{1}, res.Skipped)
	assert.Contains(t, exec.execs, "CREATE INDEX b;")
	assert.NotContains(t, exec.execs, "CREATE TABLE a;")
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "cassandra"})
	assert.True(t, IsUnknownDriver(err))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@x.com", NormalizeEmail("  Jane@X.com "))
}
