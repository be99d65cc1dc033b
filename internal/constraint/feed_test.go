package constraint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFeedFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadObservations(t *testing.T) {
	ctx := context.Background()

	t.Run("well formed feed", func(t *testing.T) {
		path := writeFeedFile(t, "prices.csv", `timestamp,zone,total,energy,congestion,loss
2025-06-01 13:00:00,NORTH,45.5,40.0,4.5,1.0
2025-06-01 14:00:00,NORTH,50.0,41.0,8.0,1.0
2025-06-01 13:00:00,SOUTH,39.0,40.0,-2.0,1.0
`)

		obs, err := LoadObservations(ctx, path)
		require.NoError(t, err)
		require.Len(t, obs, 3)

		assert.Equal(t, "NORTH", obs[0].Zone)
		assert.InDelta(t, 4.5, obs[0].Congestion, 1e-9)
		// hour and month derived from the timestamp
		assert.Equal(t, 13, obs[0].Hour)
		assert.Equal(t, 6, obs[0].Month)
	})

	t.Run("explicit hour and month columns win", func(t *testing.T) {
		path := writeFeedFile(t, "prices.csv", `timestamp,zone,total,energy,congestion,loss,hour,month
2025-06-01 13:00:00,NORTH,45.5,40.0,4.5,1.0,5,2
`)

		obs, err := LoadObservations(ctx, path)
		require.NoError(t, err)
		require.Len(t, obs, 1)
		assert.Equal(t, 5, obs[0].Hour)
		assert.Equal(t, 2, obs[0].Month)
	})

	t.Run("node columns are optional", func(t *testing.T) {
		path := writeFeedFile(t, "nodes.csv", `timestamp,zone,total,energy,congestion,loss,node_id,node_name
2025-06-01 13:00:00,NORTH,45.5,40.0,4.5,1.0,U77,BUS_ALPHA
`)

		obs, err := LoadObservations(ctx, path)
		require.NoError(t, err)
		require.Len(t, obs, 1)
		assert.Equal(t, "U77", obs[0].NodeID)
		assert.Equal(t, "BUS_ALPHA", obs[0].NodeName)
	})

	t.Run("missing required column yields empty result", func(t *testing.T) {
		path := writeFeedFile(t, "prices.csv", `timestamp,zone,total,energy,loss
2025-06-01 13:00:00,NORTH,45.5,40.0,1.0
`)

		obs, err := LoadObservations(ctx, path)
		require.NoError(t, err)
		assert.Empty(t, obs)
	})

	t.Run("malformed rows are skipped", func(t *testing.T) {
		path := writeFeedFile(t, "prices.csv", `timestamp,zone,total,energy,congestion,loss
2025-06-01 13:00:00,NORTH,45.5,40.0,4.5,1.0
not-a-timestamp,NORTH,45.5,40.0,4.5,1.0
2025-06-01 15:00:00,NORTH,bad,40.0,4.5,1.0
2025-06-01 16:00:00,,45.5,40.0,4.5,1.0
2025-06-01 17:00:00,NORTH,45.5,40.0,4.5,1.0
`)

		obs, err := LoadObservations(ctx, path)
		require.NoError(t, err)
		assert.Len(t, obs, 2)
	})

	t.Run("header only", func(t *testing.T) {
		path := writeFeedFile(t, "prices.csv", "timestamp,zone,total,energy,congestion,loss\n")

		obs, err := LoadObservations(ctx, path)
		require.NoError(t, err)
		assert.Empty(t, obs)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadObservations(ctx, filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, err)
	})
}

func TestDirectoryNodeSource(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	content := `timestamp,zone,total,energy,congestion,loss,node_id,node_name
2025-06-01 13:00:00,NORTH,45.5,40.0,4.5,1.0,U1,BUS1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "NORTH.csv"), []byte(content), 0o644))

	source := DirectoryNodeSource{Dir: dir}

	obs, err := source.NodeObservations(ctx, "NORTH")
	require.NoError(t, err)
	assert.Len(t, obs, 1)

	// zones without a file are not an error
	obs, err = source.NodeObservations(ctx, "SOUTH")
	require.NoError(t, err)
	assert.Empty(t, obs)
}

func TestStaticNodeSource(t *testing.T) {
	source := StaticNodeSource{"NORTH": {nodeObs("BUS1", "U1", 0, 5)}}

	obs, err := source.NodeObservations(context.Background(), "NORTH")
	require.NoError(t, err)
	assert.Len(t, obs, 1)

	obs, err = source.NodeObservations(context.Background(), "SOUTH")
	require.NoError(t, err)
	assert.Empty(t, obs)
}
