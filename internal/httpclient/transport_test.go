package httpclient

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

func TestCompressionTransport_Gzip(t *testing.T) {
	testData := []byte("1\n00:00:01,000 --> 00:00:02,000\ngzip encoded caption\n")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept-Encoding") != "gzip, br, zstd" {
			t.Errorf("Expected Accept-Encoding header to be 'gzip, br, zstd', got %q", r.Header.Get("Accept-Encoding"))
		}

		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(http.StatusOK)

		gzWriter := gzip.NewWriter(w)
		_, _ = gzWriter.Write(testData)
		_ = gzWriter.Close()
	}))
	defer server.Close()

	client := &http.Client{
		Transport: NewCompressionTransport(nil),
	}

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	if !bytes.Equal(body, testData) {
		t.Errorf("Expected body %q, got %q", testData, body)
	}

	if resp.Header.Get("Content-Encoding") != "" {
		t.Errorf("Expected Content-Encoding header to be removed, got %q", resp.Header.Get("Content-Encoding"))
	}
}

func TestCompressionTransport_Brotli(t *testing.T) {
	testData := []byte("brotli encoded payload")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "br")
		w.WriteHeader(http.StatusOK)

		brWriter := brotli.NewWriter(w)
		_, _ = brWriter.Write(testData)
		_ = brWriter.Close()
	}))
	defer server.Close()

	client := &http.Client{
		Transport: NewCompressionTransport(nil),
	}

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	if !bytes.Equal(body, testData) {
		t.Errorf("Expected body %q, got %q", testData, body)
	}
}

func TestCompressionTransport_Zstd(t *testing.T) {
	testData := []byte("zstd encoded payload")

	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("Failed to create zstd writer: %v", err)
	}
	_, _ = zw.Write(testData)
	_ = zw.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "zstd")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	client := &http.Client{
		Transport: NewCompressionTransport(nil),
	}

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	if !bytes.Equal(body, testData) {
		t.Errorf("Expected body %q, got %q", testData, body)
	}
}

func TestCompressionTransport_Uncompressed(t *testing.T) {
	testData := []byte("plain payload")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(testData)
	}))
	defer server.Close()

	client := &http.Client{
		Transport: NewCompressionTransport(nil),
	}

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	if !bytes.Equal(body, testData) {
		t.Errorf("Expected body %q, got %q", testData, body)
	}
}

func TestParseContentEncoding(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"gzip", "gzip", "gzip"},
		{"uppercase", "GZIP", "gzip"},
		{"whitespace", "  br  ", "br"},
		{"list takes outermost", "gzip, br", "br"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := parseContentEncoding(tt.header); got != tt.want {
				t.Errorf("parseContentEncoding(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
