package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPIServer(t *testing.T) *httptest.Server {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v3.1/name/japan":
			fmt.Fprintf(w, `[{"name":{"common":"Japan","official":"Japan"},"capital":["Tokyo"],"flags":{"png":"%s/flags/jp.png"}}]`, server.URL)
		case r.URL.Path == "/flags/jp.png":
			w.Write([]byte("\x89PNG jp"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLookupCommand_PrintsCapital(t *testing.T) {
	server := newAPIServer(t)
	t.Setenv("LOG_LEVEL", "error")

	out, err := executeCommand(t, "lookup", "--base-url", server.URL+"/v3.1", "  Japan ")

	require.NoError(t, err)
	assert.Contains(t, out, "Country: Japan")
	assert.Contains(t, out, "Official name: Japan")
	assert.Contains(t, out, "Capital: Tokyo")
	assert.Contains(t, out, "Flag: "+server.URL+"/flags/jp.png")
}

func TestLookupCommand_WritesFlag(t *testing.T) {
	server := newAPIServer(t)
	t.Setenv("LOG_LEVEL", "error")
	target := filepath.Join(t.TempDir(), "jp.png")

	out, err := executeCommand(t, "lookup", "--base-url", server.URL+"/v3.1", "--flag-out", target, "japan")

	require.NoError(t, err)
	assert.Contains(t, out, "Flag written to")
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG jp"), data)
}

func TestLookupCommand_NotFound(t *testing.T) {
	server := newAPIServer(t)
	t.Setenv("LOG_LEVEL", "error")

	_, err := executeCommand(t, "lookup", "--base-url", server.URL+"/v3.1", "atlantis")

	require.Error(t, err)
	assert.Equal(t, "Not found:\nCountry not found", err.Error())
}

func TestLookupCommand_RequiresName(t *testing.T) {
	_, err := executeCommand(t, "lookup")
	assert.Error(t, err)
}

func TestLoadConfig_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("COUNTRY_API_BASE_URL", "http://env.example/v3.1")
	t.Setenv("COUNTRY_API_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "warn")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--base-url", "http://flag.example/v3.1", "--log-level", "debug"}))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "http://flag.example/v3.1", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_RejectsInvalid(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--base-url", "not a url"}))

	_, err := loadConfig(cmd)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid configuration"))
}
