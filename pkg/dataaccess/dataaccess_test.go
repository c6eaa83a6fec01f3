package dataaccess

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/azorva/warden/pkg/kvstore"
	"github.com/azorva/warden/pkg/logging"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory stand-in for the remote KV service, speaking its
// HTTP API so the real client is exercised.
type fakeStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeStore(t *testing.T) (*kvstore.Client, *slog.Logger, *fakeStore) {
	t.Helper()

	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	fs := &fakeStore{data: make(map[string]string)}

	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		defer fs.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/get/"):
			key := strings.TrimPrefix(r.URL.Path, "/get/")
			value, ok := fs.data[key]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"value": value})
		case r.Method == http.MethodPost && r.URL.Path == "/set":
			body := struct {
				Key   string `json:"key"`
				Value string `json:"value"`
			}{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			fs.data[body.Key] = body.Value
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(svr.Close)

	return kvstore.NewClient(l, svr.URL, ""), l, fs
}

func (f *fakeStore) get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeStore) set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}
