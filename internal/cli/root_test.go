package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library-api/internal/database"
)

const fixturesYAML = `
authors:
  - name: Frank Herbert
    birth_date: 1920-10-08
publishers:
  - name: Chilton Books
genres:
  - name: Science Fiction
books:
  - title: Dune
    isbn: 0-441-17271-7
    publish_date: 1965-08-01
    author: Frank Herbert
    publisher: Chilton Books
    genres: [Science Fiction]
`

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(BuildInfo{Version: "1.2.3", Commit: "abc123"})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(BuildInfo{})
	require.NotNil(t, cmd)
	assert.Equal(t, "library-api", cmd.Use)
	assert.NotNil(t, cmd.RunE, "serving is the default action")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(BuildInfo{})

	for _, name := range []string{"serve", "migrate", "seed", "version"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestServeFlags(t *testing.T) {
	cmd := NewRootCommand(BuildInfo{})
	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	port := serve.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "p", port.Shorthand)
	assert.NotNil(t, serve.Flags().Lookup("read-only"))

	// the root command accepts the same flags for the default serve action
	assert.NotNil(t, cmd.Flags().Lookup("port"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("database-path"))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Equal(t, "library-api 1.2.3 (commit abc123)\n", out)
}

func TestMigrateCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")

	out, err := execute(t, "migrate", "--database-path", dbPath)

	require.NoError(t, err)
	assert.Contains(t, out, "Schema is up to date")
	assert.FileExists(t, dbPath)
}

func TestSeedCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "library.db")
	fixtures := filepath.Join(dir, "fixtures.yaml")
	require.NoError(t, os.WriteFile(fixtures, []byte(fixturesYAML), 0o644))

	out, err := execute(t, "seed", "--database-path", dbPath, "--file", fixtures)
	require.NoError(t, err)
	assert.Equal(t, "Seeded 4 records, skipped 0 existing\n", out)

	out, err = execute(t, "seed", "--database-path", dbPath, "-f", fixtures)
	require.NoError(t, err)
	assert.Equal(t, "Seeded 0 records, skipped 4 existing\n", out)

	db, err := database.NewSQLiteDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int64
	require.NoError(t, db.DB.Table("books").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSeedCommand_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("file flag is required", func(t *testing.T) {
		_, err := execute(t, "seed", "--database-path", filepath.Join(dir, "a.db"))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, "seed", "--database-path", filepath.Join(dir, "b.db"), "--file", filepath.Join(dir, "nope.yaml"))
		assert.ErrorContains(t, err, "open fixtures")
	})

	t.Run("unknown keys", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("magazines:\n  - name: X\n"), 0o644))

		_, err := execute(t, "seed", "--database-path", filepath.Join(dir, "c.db"), "--file", bad)
		assert.ErrorContains(t, err, "decode fixtures")
	})
}
