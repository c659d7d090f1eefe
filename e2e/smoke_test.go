//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const repoRootRel = ".."   // relative to ./e2e
const mainPkgRel = "./cmd" // main.go lives in cmd/
const fixtureRel = "internal/modules/climate/repository/testdata/fixture.sql"

func TestSmoke_API(t *testing.T) {
	repoRoot := repoRootPath(t)

	// SQLite "loader" container fills a store file in a host temp dir; the
	// server only ever opens it read-only.
	sqlitePath := startSQLite(t, filepath.Join(repoRoot, fixtureRel))

	bin := buildBinary(t, repoRoot)
	addr := pickFreeAddr(t)

	cmd := exec.Command(bin)
	cmd.Env = append(os.Environ(),
		"APP_ENV=dev",
		"LOG_LEVEL=info",
		"HTTP_ADDR="+addr,
		"DB_DRIVER=sqlite3",
		"SQLITE_PATH="+sqlitePath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	require.NoError(t, cmd.Start(), "start server")
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	})

	client := &http.Client{Timeout: 2 * time.Second}
	base := "http://" + addr

	waitForOK(t, client, base+"/healthz", 5*time.Second)

	t.Run("healthz", func(t *testing.T) {
		var body map[string]string
		getJSON(t, client, base+"/healthz", &body)
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("home", func(t *testing.T) {
		resp, err := client.Get(base + "/")
		require.NoError(t, err)
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(b), "Available Routes:")
	})

	t.Run("stations", func(t *testing.T) {
		var body []map[string]any
		getJSON(t, client, base+"/api/v1.0/stations", &body)
		assert.Len(t, body, 3)
	})

	t.Run("precipitation", func(t *testing.T) {
		var body []map[string]any
		getJSON(t, client, base+"/api/v1.0/precipitation", &body)
		assert.Len(t, body, 11)
	})

	t.Run("tobs", func(t *testing.T) {
		var body []map[string]any
		getJSON(t, client, base+"/api/v1.0/tobs", &body)
		assert.Len(t, body, 5)
	})

	t.Run("summary", func(t *testing.T) {
		var body []map[string]*float64
		getJSON(t, client, base+"/api/v1.0/2017-01-01/2017-01-03", &body)
		require.Len(t, body, 1)
		require.NotNil(t, body[0]["max"])
		assert.Equal(t, 0.5, *body[0]["max"])
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := client.Get(base + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(b), "climate_http_requests_total")
	})

	stopServer(t, cmd)
}

func getJSON(t *testing.T, client *http.Client, url string, v any) {
	t.Helper()

	resp, err := client.Get(url)
	require.NoError(t, err, "GET %s", url)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode, "GET %s", url)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v), "decode json")
}

func startSQLite(t *testing.T, fixturePath string) string {
	t.Helper()

	hostDir := t.TempDir()
	dbPath := filepath.Join(hostDir, "hawaii.sqlite")

	fixture, err := os.ReadFile(fixturePath)
	require.NoError(t, err, "read fixture")
	require.NoError(t, os.WriteFile(filepath.Join(hostDir, "fixture.sql"), fixture, 0o644), "stage fixture")

	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:      "nouchka/sqlite3:latest",
		WorkingDir: "/data",
		Entrypoint: []string{"sh", "-c"},
		Cmd: []string{
			"sqlite3 /data/hawaii.sqlite < /data/fixture.sql && " +
				"chmod 644 /data/hawaii.sqlite && " +
				"echo 'sqlite ready' && " +
				"tail -f /dev/null",
		},

		HostConfigModifier: func(hc *container.HostConfig) {
			hc.Binds = append(hc.Binds, hostDir+":/data")
		},
		WaitingFor: wait.ForLog("sqlite ready").WithStartupTimeout(30 * time.Second),
	}

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "start sqlite container")

	t.Cleanup(func() {
		_ = c.Terminate(ctx)
	})

	_, err = os.Stat(dbPath)
	require.NoError(t, err, "sqlite db file not created")

	return dbPath
}

func repoRootPath(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)

	repo := filepath.Clean(filepath.Join(wd, repoRootRel))
	_, err = os.Stat(filepath.Join(repo, "go.mod"))
	require.NoError(t, err, "repo root %q does not contain go.mod", repo)

	return repo
}

func buildBinary(t *testing.T, repoRoot string) string {
	t.Helper()

	tmp := t.TempDir()
	out := filepath.Join(tmp, "climate-server")

	build := exec.Command("go", "build", "-o", out, mainPkgRel)
	build.Dir = repoRoot
	build.Env = os.Environ()

	b, err := build.CombinedOutput()
	require.NoError(t, err, "go build failed:\n%s", string(b))

	return out
}

func pickFreeAddr(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	return ln.Addr().String()
}

func waitForOK(t *testing.T, client *http.Client, url string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	require.FailNowf(t, "server not healthy", "after %s: %s", timeout, url)
}

func stopServer(t *testing.T, cmd *exec.Cmd) {
	t.Helper()

	_ = cmd.Process.Signal(syscall.SIGTERM)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		require.FailNow(t, "server did not exit in time")
	case err := <-done:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			require.FailNow(t, "server exited non-zero", err.Error())
		}
		require.NoError(t, err, "server wait error")
	}
}
