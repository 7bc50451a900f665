package server_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/alexanderramin/workweek/internal/config"
	"github.com/alexanderramin/workweek/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBareServer() *server.Server {
	cfg := config.Config{Host: "127.0.0.1", Port: 0, WriteTimeout: 30 * time.Second}
	return server.New(cfg, nil, nil, server.WithVersion(server.VersionInfo{Version: "1.2.3"}))
}

func TestServer_ListenServeShutdown(t *testing.T) {
	srv := newBareServer()
	ln, err := srv.Listen()
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/v1/version")
	require.NoError(t, err)
	var v server.VersionInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	resp.Body.Close()
	assert.Equal(t, "1.2.3", v.Version)

	require.NoError(t, srv.Shutdown(context.Background()))
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}
}

func TestServer_ShutdownBeforeServeStopsIt(t *testing.T) {
	srv := newBareServer()
	ln, err := srv.Listen()
	require.NoError(t, err)

	require.NoError(t, srv.Shutdown(context.Background()))

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve kept running after an earlier Shutdown")
	}
}

func TestServer_ShutdownBeforeListenIsNoop(t *testing.T) {
	assert.NoError(t, newBareServer().Shutdown(context.Background()))
}

func TestServer_SetPort(t *testing.T) {
	srv := newBareServer()
	srv.SetPort(9123)
	assert.Equal(t, "127.0.0.1:9123", srv.Addr())
}

func TestFindAvailablePort_SkipsBusyPort(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()
	port := busy.Addr().(*net.TCPAddr).Port

	got := server.FindAvailablePort("127.0.0.1", port)
	assert.NotEqual(t, port, got)
	assert.Greater(t, got, port)

	srv := newBareServer()
	srv.SetPort(got)
	ln, err := srv.Listen()
	require.NoError(t, err)
	defer ln.Close()
	assert.Equal(t, strconv.Itoa(got), portOf(t, ln.Addr().String()))
}

func portOf(t *testing.T, addr string) string {
	t.Helper()
	_, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	return port
}
