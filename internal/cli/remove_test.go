package cli

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// visitServer serves one visit and records whether a DELETE arrived.
func visitServer(t *testing.T) (*httptest.Server, *bool) {
	t.Helper()

	deleted := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/api/v1/visits/v1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"v1","place":"Satlok Ashram","date":"2024-05-01"}`))
		case r.Method == "DELETE" && r.URL.Path == "/api/v1/visits/v1":
			deleted = true
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"v1","removed":true}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	t.Setenv("YATRA_SERVER_URL", srv.URL)
	t.Setenv("YATRA_ACCESS_TOKEN", "test-token")

	return srv, &deleted
}

func TestRemoveDeclinedSendsNoRequest(t *testing.T) {
	_, deleted := visitServer(t)

	in := bufio.NewReader(strings.NewReader("n\n"))
	if err := runRemove(in, "v1", false); err != nil {
		t.Fatalf("runRemove() error = %v", err)
	}
	if *deleted {
		t.Error("declined confirmation still sent a delete request")
	}
}

func TestRemoveConfirmedDeletes(t *testing.T) {
	_, deleted := visitServer(t)

	in := bufio.NewReader(strings.NewReader("y\n"))
	if err := runRemove(in, "v1", false); err != nil {
		t.Fatalf("runRemove() error = %v", err)
	}
	if !*deleted {
		t.Error("confirmed removal sent no delete request")
	}
}

func TestRemoveYesFlagSkipsPrompt(t *testing.T) {
	_, deleted := visitServer(t)

	in := bufio.NewReader(strings.NewReader(""))
	if err := runRemove(in, "v1", true); err != nil {
		t.Fatalf("runRemove() error = %v", err)
	}
	if !*deleted {
		t.Error("--yes removal sent no delete request")
	}
}
