package r2

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bremray/bremray-backend/pkg/config"
)

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	cfg := config.R2Config{
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret",
		Endpoint:        srv.URL,
		BucketName:      "bremray-photos",
		PublicURL:       "https://photos.example.com",
	}
	client, err := NewClient(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.now = func() time.Time {
		return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	}
	return client
}

func TestPutObjectSendsSignedRequest(t *testing.T) {
	var got *http.Request
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	err := client.PutObject(context.Background(), "jobs/abc/photo.jpg", "image/jpeg", []byte("payload"))
	if err != nil {
		t.Fatalf("PutObject: %v", err)
	}

	if got.Method != http.MethodPut {
		t.Errorf("method = %s, want PUT", got.Method)
	}
	if got.URL.Path != "/bremray-photos/jobs/abc/photo.jpg" {
		t.Errorf("path = %s", got.URL.Path)
	}
	if ct := got.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("content type = %q", ct)
	}
	if string(gotBody) != "payload" {
		t.Errorf("body = %q", gotBody)
	}
	auth := got.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "AWS4-HMAC-SHA256 Credential=test-access-key/20250314/auto/s3/aws4_request") {
		t.Errorf("authorization = %q", auth)
	}
	if !strings.Contains(auth, "SignedHeaders=host;x-amz-content-sha256;x-amz-date") {
		t.Errorf("authorization missing signed headers: %q", auth)
	}
	if got.Header.Get("x-amz-date") != "20250314T092653Z" {
		t.Errorf("x-amz-date = %q", got.Header.Get("x-amz-date"))
	}
	if got.Header.Get("x-amz-content-sha256") == "" {
		t.Error("x-amz-content-sha256 not set")
	}
}

func TestPutObjectReportsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("SignatureDoesNotMatch"))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	err := client.PutObject(context.Background(), "jobs/abc/photo.jpg", "image/jpeg", []byte("payload"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "SignatureDoesNotMatch") {
		t.Errorf("error = %v", err)
	}
}

func TestDeleteObjectAcceptsNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	if err := client.DeleteObject(context.Background(), "jobs/abc/photo.jpg"); err != nil {
		t.Fatalf("DeleteObject: %v", err)
	}
}

func TestDeleteObjectEmptyKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	if err := client.DeleteObject(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestPublicObjectURL(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	client := newTestClient(t, srv)
	got := client.PublicObjectURL("jobs/abc/photo.jpg")
	want := "https://photos.example.com/jobs/abc/photo.jpg"
	if got != want {
		t.Errorf("PublicObjectURL = %q, want %q", got, want)
	}
}

func TestPingFailsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}
}
