package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/on-the-ground/effectdeps/effect"
	"github.com/on-the-ground/effectdeps/services/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLite_ExecAndQuery(t *testing.T) {
	ctx := context.Background()
	s, err := store.OpenSQLite(ctx, store.MemoryPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Exec(ctx, `CREATE TABLE users (id TEXT PRIMARY KEY, name TEXT NOT NULL, age INTEGER)`)
	require.NoError(t, err)

	n, err := s.Exec(ctx, `INSERT INTO users (id, name, age) VALUES (?, ?, ?), (?, ?, ?)`,
		"u1", "Ada", 36, "u2", "Grace", 45)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	rows, err := s.Query(ctx, `SELECT id, name, age FROM users ORDER BY id`)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "u1", rows[0]["id"])
	assert.Equal(t, "Ada", rows[0]["name"])
	assert.EqualValues(t, 45, rows[1]["age"])

	rows, err = s.Query(ctx, `SELECT id FROM users WHERE id = ?`, "nobody")
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = s.Exec(ctx, `INSERT INTO users (id, name) VALUES (?, ?)`, "u1", "dup")
	assert.Error(t, err)
}

func TestSQLite_AsEffectStore(t *testing.T) {
	ctx := context.Background()
	s, err := store.OpenSQLite(ctx, store.MemoryPath)
	require.NoError(t, err)
	defer s.Close()

	count := effect.Then(
		effect.WithStore(func(ctx context.Context, st effect.Store) (int64, error) {
			return st.Exec(ctx, `CREATE TABLE t (v INTEGER)`)
		}),
		effect.WithStore(func(ctx context.Context, st effect.Store) (int, error) {
			if _, err := st.Exec(ctx, `INSERT INTO t (v) VALUES (1), (2), (3)`); err != nil {
				return 0, err
			}
			rows, err := st.Query(ctx, `SELECT v FROM t`)
			return len(rows), err
		}),
	)

	n, err := count.Run(ctx, effect.Dependencies{effect.KeyStore: s})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestOpenSQLite_RequiresPath(t *testing.T) {
	_, err := store.OpenSQLite(context.Background(), "  ")
	assert.Error(t, err)
}

func TestSQLite_FileDatabase(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/effectdeps.db"
	s, err := store.OpenSQLite(ctx, path)
	require.NoError(t, err)
	_, err = s.Exec(ctx, `CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)`)
	require.NoError(t, err)
	_, err = s.Exec(ctx, `INSERT INTO kv (k, v) VALUES (?, ?)`, "a", "b")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := store.OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()
	rows, err := reopened.Query(ctx, `SELECT v FROM kv WHERE k = ?`, "a")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "b", rows[0]["v"])
}

func TestPostgres_ExecAndQuery(t *testing.T) {
	dsn := os.Getenv("EFFECTDEPS_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("EFFECTDEPS_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	p, err := store.OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Exec(ctx, `CREATE TABLE IF NOT EXISTS effectdeps_t (id TEXT PRIMARY KEY, n INT)`)
	require.NoError(t, err)
	defer p.Exec(ctx, `DROP TABLE effectdeps_t`)

	n, err := p.Exec(ctx, `INSERT INTO effectdeps_t (id, n) VALUES ($1, $2)`, "a", 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	rows, err := p.Query(ctx, `SELECT id, n FROM effectdeps_t WHERE id = $1`, "a")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0]["id"])
	assert.EqualValues(t, 1, rows[0]["n"])
}
