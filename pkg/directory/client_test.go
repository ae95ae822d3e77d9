package directory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/bbmri-tools/directory-sync/pkg/common/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestFetchDecodesPayload(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		gotQuery = body["query"]

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"Biobanks":[{"id":"bbmri-eric:ID:AT_MUG"}]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	payload, err := client.FetchBiobanks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery == "" {
		t.Fatal("expected a query document in the request body")
	}

	data, ok := payload["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object, got %T", payload["data"])
	}
	records, ok := data["Biobanks"].([]interface{})
	if !ok || len(records) != 1 {
		t.Fatalf("expected one biobank record, got %v", data["Biobanks"])
	}
}

func TestFetchSurfacesStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("directory down for maintenance"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.FetchCollections(context.Background())
	if err == nil {
		t.Fatal("expected fetch error")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fetchErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", fetchErr.StatusCode)
	}
	if fetchErr.Body != "directory down for maintenance" {
		t.Fatalf("expected response body in error, got %q", fetchErr.Body)
	}
}

func TestFetchTransportError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond)
	if _, err := client.FetchNetworks(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
}
