package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			http.Error(w, "bad agent", http.StatusForbidden)
			return
		}
		w.Write([]byte("<html>ok</html>"))
	})
	mux.HandleFunc("/audio.mp3", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("0123456789"))
	})
	mux.HandleFunc("/missing.mp3", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetString(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient("test-agent", 0)

	html, err := client.GetString(context.Background(), srv.URL+"/page")
	if err != nil {
		t.Fatalf("GetString: %v", err)
	}
	if html != "<html>ok</html>" {
		t.Errorf("GetString = %q", html)
	}
}

func TestClient_StatusError(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient("test-agent", 0)

	_, err := client.Get(context.Background(), srv.URL+"/missing.mp3")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", statusErr.StatusCode)
	}
}

func TestClient_DownloadFile(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient("test-agent", 0)
	dir := t.TempDir()
	dest := filepath.Join(dir, "01 - Song.mp3")

	var reported int64
	n, err := client.DownloadFile(context.Background(), srv.URL+"/audio.mp3", dest, func(delta, written int64) {
		reported += delta
	})
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	if n != 10 || reported != 10 {
		t.Errorf("bytes = %d, reported = %d, want 10", n, reported)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "0123456789" {
		t.Errorf("content = %q", data)
	}

	assertOnlyFiles(t, dir, "01 - Song.mp3")
}

func TestClient_DownloadFile_FailureLeavesNothing(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient("test-agent", 0)
	dir := t.TempDir()

	_, err := client.DownloadFile(context.Background(), srv.URL+"/missing.mp3", filepath.Join(dir, "x.mp3"), nil)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	assertOnlyFiles(t, dir)
}

func TestClient_DownloadFile_MissingDirectory(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient("test-agent", 0)

	dest := filepath.Join(t.TempDir(), "no", "such", "dir", "x.mp3")
	if _, err := client.DownloadFile(context.Background(), srv.URL+"/audio.mp3", dest, nil); err == nil {
		t.Fatal("expected error when the parent directory does not exist")
	}
}

func assertOnlyFiles(t *testing.T, dir string, want ...string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(want) {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("directory contains %v, want %v", names, want)
	}
	for i, e := range entries {
		if e.Name() != want[i] {
			t.Errorf("entry %d = %q, want %q", i, e.Name(), want[i])
		}
	}
}
