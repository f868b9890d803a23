package source

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topowatch/internal/codec"
	"topowatch/internal/metrics"
)

const labFixture = `topologies:
  - name: lab
    nodes:
      - key: router
        endpoints:
          - {address: 10.0.0.1, name: eth0}
      - key: switch
        endpoints:
          - {address: 10.0.0.2, name: sw0}
    links:
      - {from: router, to: switch, id: r1, type: loopback}
      - {from: router, to: switch, id: r2}
  - name: edge
    nodes:
      - key: gw
        endpoints:
          - {address: 192.168.0.1, name: gw}
`

func writeFixture(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "topologies.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFixtureRepository(t *testing.T) {
	path := writeFixture(t, t.TempDir(), labFixture)

	repo, err := NewFixtureRepository(path, metrics.NewRegistry())
	require.NoError(t, err)

	snap, err := repo.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"lab", "edge"}, snap.Order)

	lab, _ := snap.Get("lab")
	assert.Len(t, lab.Nodes, 2)
	assert.Len(t, lab.Links, 2)
}

func TestFixtureReloadKeepsLastGood(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, labFixture)

	repo, err := NewFixtureRepository(path, metrics.NewRegistry())
	require.NoError(t, err)

	writeFixture(t, dir, "topologies:\n  - nodes: []\n")
	assert.Error(t, repo.Reload())

	snap, _ := repo.Snapshot(context.Background())
	assert.Equal(t, 2, snap.Len(), "a bad fixture must not replace the loaded one")
}

func TestFixtureMissingFile(t *testing.T) {
	_, err := NewFixtureRepository(filepath.Join(t.TempDir(), "missing.yaml"), metrics.NewRegistry())
	assert.Error(t, err)
}

func TestFixtureWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, labFixture)

	repo, err := NewFixtureRepository(path, metrics.NewRegistry())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watching := make(chan error, 1)
	go func() { watching <- repo.Watch(ctx, 20*time.Millisecond) }()

	// Give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	writeFixture(t, dir, "topologies:\n  - name: core\n    nodes:\n      - key: a\n")

	require.Eventually(t, func() bool {
		snap, _ := repo.Snapshot(context.Background())
		_, ok := snap.Get("core")
		return ok
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-watching:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func newTestServer(t *testing.T, format codec.Format) *httptest.Server {
	t.Helper()
	snap, err := codec.NewYAMLCodec().Decode(stringsReader(labFixture))
	require.NoError(t, err)

	s, err := NewServer(NewStaticRepository(snap), format, "data", metrics.NewRegistry())
	require.NoError(t, err)

	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return srv
}

func TestServerFormats(t *testing.T) {
	for _, format := range []codec.Format{codec.FormatDelta, codec.FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			srv := newTestServer(t, format)

			resp, err := http.Get(srv.URL + "/data")
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, format, codec.Detect(body))

			snap, err := codec.Parse(body, codec.FormatAuto)
			require.NoError(t, err)
			assert.Equal(t, []string{"lab", "edge"}, snap.Order)

			lab, _ := snap.Get("lab")
			require.Len(t, lab.Links, 2)
			assert.Equal(t, -0.5, lab.Links[0].Offset)
			assert.Equal(t, 0.5, lab.Links[1].Offset)
		})
	}
}

func TestServerContentType(t *testing.T) {
	srv := newTestServer(t, codec.FormatJSON)

	resp, err := http.Get(srv.URL + "/data")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestServerNotFound(t *testing.T) {
	srv := newTestServer(t, codec.FormatDelta)

	for _, path := range []string{"/", "/data/", "/index.html", "/dat"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestServerMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, codec.FormatDelta)

	resp, err := http.Post(srv.URL+"/data", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServerRejectsUnknownFormat(t *testing.T) {
	_, err := NewServer(NewStaticRepository(nil), codec.Format("xml"), "", nil)
	assert.Error(t, err)
}

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}
