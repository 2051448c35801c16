package media

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestUploadNotConfigured verifies an empty endpoint short-circuits.
func TestUploadNotConfigured(t *testing.T) {
	c := NewClient("", "workouts", "")
	_, err := c.Upload(context.Background(), "a.jpg", strings.NewReader("data"))
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
	if c.Configured() {
		t.Error("Configured() = true for empty url")
	}
}

// TestUploadSuccess verifies the multipart request and URL extraction.
func TestUploadSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/buckets/workouts/objects" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing multipart: %v", err)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"url":"https://cdn.example.com/a.jpg"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "workouts", "tok")
	url, err := c.Upload(context.Background(), "a.jpg", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://cdn.example.com/a.jpg" {
		t.Errorf("url = %q", url)
	}
}

// TestUploadClassifiesErrors verifies status codes map to sentinel errors.
func TestUploadClassifiesErrors(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrBucketMissing},
		{http.StatusUnauthorized, ErrAccessDenied},
		{http.StatusForbidden, ErrAccessDenied},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		c := NewClient(srv.URL, "workouts", "tok")
		_, err := c.Upload(context.Background(), "a.jpg", strings.NewReader("x"))
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: err = %v, want %v", tc.status, err, tc.want)
		}
		srv.Close()
	}
}
