package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testPublisher(serverURL string) *Publisher {
	p := NewPublisher("swaroop", "dress-images", "main", "images", "test-token")
	p.APIBaseURL = serverURL
	p.RawBaseURL = "https://raw.githubusercontent.com"
	return p
}

func TestFolderSizeSumsBlobsUnderDir(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/swaroop/dress-images/git/trees/main" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("recursive") != "1" {
			t.Error("tree listing must be recursive")
		}
		json.NewEncoder(w).Encode(treeResponse{Tree: []treeEntry{
			{Path: "images/a.jpg", Type: "blob", Size: 1000},
			{Path: "images/sub/b.jpg", Type: "blob", Size: 250},
			{Path: "images", Type: "tree", Size: 0},
			{Path: "README.md", Type: "blob", Size: 9999},
		}})
	}))
	defer server.Close()

	got := testPublisher(server.URL).FolderSize(context.Background())
	if got != 1250 {
		t.Errorf("FolderSize: got %d, want 1250", got)
	}
}

func TestFolderSizeDegradesToZero(t *testing.T) {
	t.Parallel()

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()
		p := testPublisher("http://127.0.0.1:1") // nothing listens here
		if got := p.FolderSize(context.Background()); got != 0 {
			t.Errorf("FolderSize on transport failure: got %d, want 0", got)
		}
	})

	t.Run("non-success response", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		}))
		defer server.Close()
		if got := testPublisher(server.URL).FolderSize(context.Background()); got != 0 {
			t.Errorf("FolderSize on 404: got %d, want 0", got)
		}
	})
}

func TestPublishNewFile(t *testing.T) {
	t.Parallel()
	var putBody putContentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		case http.MethodPut:
			if r.URL.Path != "/repos/swaroop/dress-images/contents/images/dress.jpg" {
				t.Errorf("unexpected PUT path %q", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("Authorization: got %q", got)
			}
			if err := json.NewDecoder(r.Body).Decode(&putBody); err != nil {
				t.Errorf("decode PUT body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"content":{"path":"images/dress.jpg"}}`))
		}
	}))
	defer server.Close()

	data := []byte("jpeg bytes")
	url, err := testPublisher(server.URL).Publish(context.Background(), data, "dress.jpg")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	want := "https://raw.githubusercontent.com/swaroop/dress-images/main/images/dress.jpg"
	if url != want {
		t.Errorf("public URL: got %q, want %q", url, want)
	}
	if putBody.SHA != "" {
		t.Errorf("new file must not carry a revision sha, got %q", putBody.SHA)
	}
	if putBody.Branch != "main" {
		t.Errorf("branch: got %q, want main", putBody.Branch)
	}
	decoded, err := base64.StdEncoding.DecodeString(putBody.Content)
	if err != nil || string(decoded) != string(data) {
		t.Errorf("content round-trip: got %q (err %v), want %q", decoded, err, data)
	}
}

func TestPublishOverwritesWithRevisionSHA(t *testing.T) {
	t.Parallel()
	var putBody putContentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if got := r.URL.Query().Get("ref"); got != "main" {
				t.Errorf("ref: got %q, want main", got)
			}
			w.Write([]byte(`{"sha":"abc123"}`))
		case http.MethodPut:
			json.NewDecoder(r.Body).Decode(&putBody)
			w.Write([]byte(`{}`)) // 200 on update
		}
	}))
	defer server.Close()

	if _, err := testPublisher(server.URL).Publish(context.Background(), []byte("x"), "dress.jpg"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if putBody.SHA != "abc123" {
		t.Errorf("overwrite sha: got %q, want abc123", putBody.SHA)
	}
}

func TestPublishReportsUpstreamFailure(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			http.Error(w, `{"message":"repository is archived"}`, http.StatusForbidden)
			return
		}
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testPublisher(server.URL).Publish(context.Background(), []byte("x"), "dress.jpg")
	if err == nil {
		t.Fatal("Publish against a 403: got nil error, want error")
	}
}
