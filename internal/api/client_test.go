package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/simdrive/driveclient/pkg/core"
)

func TestNew(t *testing.T) {
	c := New("http://localhost:5000", "secret123")

	if c == nil {
		t.Fatal("New returned nil")
	}
	if c.baseURL != "http://localhost:5000" {
		t.Errorf("expected baseURL=http://localhost:5000, got %s", c.baseURL)
	}
	if c.apiKey != "secret123" {
		t.Errorf("expected apiKey=secret123, got %s", c.apiKey)
	}
	if c.httpClient == nil {
		t.Error("httpClient is nil")
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:5000/", "secret")
	if c.baseURL != "http://localhost:5000" {
		t.Errorf("expected trailing slash trimmed, got %s", c.baseURL)
	}
}

func TestHealthcheck_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthcheck" {
			t.Errorf("expected path /healthcheck, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL, "")
	err := c.Healthcheck()
	if err != nil {
		t.Errorf("Healthcheck failed: %v", err)
	}
}

func TestHealthcheck_ServerDown(t *testing.T) {
	c := New("http://localhost:59999", "") // unlikely to be listening
	err := c.Healthcheck()
	if err == nil {
		t.Error("expected error for unreachable server")
	}
}

func TestHealthcheck_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL, "")
	err := c.Healthcheck()
	if err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestUploadRun_Success(t *testing.T) {
	var receivedSecret, receivedFilename, receivedMap string
	var receivedBlueprint, receivedTicks, receivedDistance string
	var receivedFileContent []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/runs/add" {
			t.Errorf("expected path /api/v1/runs/add, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		err := r.ParseMultipartForm(10 << 20)
		if err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}

		receivedSecret = r.FormValue("secret")
		receivedFilename = r.FormValue("filename")
		receivedMap = r.FormValue("mapName")
		receivedBlueprint = r.FormValue("blueprint")
		receivedTicks = r.FormValue("ticks")
		receivedDistance = r.FormValue("distanceM")

		file, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("failed to get file: %v", err)
		}
		defer file.Close()

		receivedFileContent = make([]byte, 1024)
		n, _ := file.Read(receivedFileContent)
		receivedFileContent = receivedFileContent[:n]

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tmpDir := t.TempDir()
	testFile := tmpDir + "/run_20260101_120000.json.gz"
	if err := os.WriteFile(testFile, []byte("test content"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	c := New(server.URL, "mysecret")
	run := &core.RunInfo{MapName: "Town01", BlueprintID: "vehicle.tesla.model3"}
	sum := &core.Summary{Ticks: 50, DistanceM: 42.5}

	err := c.UploadRun(testFile, run, sum)
	if err != nil {
		t.Fatalf("UploadRun failed: %v", err)
	}

	if receivedSecret != "mysecret" {
		t.Errorf("expected secret=mysecret, got %s", receivedSecret)
	}
	if receivedFilename != "run_20260101_120000.json.gz" {
		t.Errorf("expected filename=run_20260101_120000.json.gz, got %s", receivedFilename)
	}
	if receivedMap != "Town01" {
		t.Errorf("expected mapName=Town01, got %s", receivedMap)
	}
	if receivedBlueprint != "vehicle.tesla.model3" {
		t.Errorf("expected blueprint=vehicle.tesla.model3, got %s", receivedBlueprint)
	}
	if receivedTicks != "50" {
		t.Errorf("expected ticks=50, got %s", receivedTicks)
	}
	if receivedDistance != "42.500000" {
		t.Errorf("expected distanceM=42.500000, got %s", receivedDistance)
	}
	if string(receivedFileContent) != "test content" {
		t.Errorf("expected file content 'test content', got '%s'", string(receivedFileContent))
	}
}

func TestUploadRun_FileNotFound(t *testing.T) {
	c := New("http://localhost:5000", "secret")
	err := c.UploadRun("/nonexistent/run.json.gz", &core.RunInfo{}, &core.Summary{})
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestUploadRun_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	tmpDir := t.TempDir()
	testFile := tmpDir + "/run.json.gz"
	_ = os.WriteFile(testFile, []byte("content"), 0644)

	c := New(server.URL, "wrong-secret")
	err := c.UploadRun(testFile, &core.RunInfo{}, &core.Summary{})
	if err == nil {
		t.Error("expected error for 403 response")
	}
}
