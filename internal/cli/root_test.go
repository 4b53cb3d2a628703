package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformconfig "github.com/qolzam/telar/apps/photo-comments/internal/platform/config"
	"github.com/qolzam/telar/apps/photo-comments/internal/testutil"
)

// executeCommand runs a command with the given args and captures output.
func executeCommand(args ...string) (string, error) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := executeCommand("--help")
	require.NoError(t, err)
	assert.Contains(t, out, "serve")
	assert.Contains(t, out, "migrate")
}

func TestFlags(t *testing.T) {
	root := NewRootCmd()

	debugFlag := root.PersistentFlags().Lookup("debug")
	require.NotNil(t, debugFlag)
	assert.Equal(t, "false", debugFlag.DefValue)

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	require.NotNil(t, serve.Flags().Lookup("port"))
	require.NotNil(t, root.Flags().Lookup("port"))
}

func TestOpenStore_UnsupportedType(t *testing.T) {
	_, err := openStore(context.Background(), platformconfig.DatabaseConfig{Type: "sqlite"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestNewApp_ServesRoutes(t *testing.T) {
	cfg, err := platformconfig.LoadFromMap(map[string]string{})
	require.NoError(t, err)
	cfg.Server.RequestTimeout = time.Second

	app := newApp(cfg, testutil.NewMemoryCommentRepository(), &testutil.FakePhotoChecker{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = app.Test(httptest.NewRequest("GET", "/api/comments?photoId=1", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
