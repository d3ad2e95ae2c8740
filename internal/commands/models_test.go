package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brandbuilder/smokecheck/internal/api"
	"github.com/brandbuilder/smokecheck/internal/console"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelsCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.ListModelsResp{
			Object: "list",
			Data: []api.Model{
				{ID: "gpt-4o-mini", Object: "model", Created: 1715367049, OwnedBy: "system"},
			},
		})
	}))
	defer server.Close()

	buf := new(bytes.Buffer)

	cmd := &ModelsCmd{Endpoint: server.URL, APIKey: "test-key"}

	err := cmd.Run(context.Background(), &Globals{Version: "test", Printer: console.NewPrinter(buf)})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "gpt-4o-mini")
	assert.Contains(t, out, "API key has access to 1 models")
}

func TestModelsCmd_BadKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer server.Close()

	cmd := &ModelsCmd{Endpoint: server.URL, APIKey: "bad-key"}

	err := cmd.Run(context.Background(), &Globals{Version: "test", Printer: console.NewPrinter(new(bytes.Buffer))})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key rejected")
}
