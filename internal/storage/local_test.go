package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/salehdz/mangarid/internal/storage"
)

func TestLocalPut(t *testing.T) {
	root := t.TempDir()
	store := storage.NewLocal(root, "/static/")

	url, err := store.Put(context.Background(), "covers/test-series/cover-abc.jpg", []byte("fake-jpeg"), "image/jpeg")
	if err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if url != "/static/covers/test-series/cover-abc.jpg" {
		t.Errorf("unexpected url %q", url)
	}

	data, err := os.ReadFile(filepath.Join(root, "covers", "test-series", "cover-abc.jpg"))
	if err != nil {
		t.Fatalf("asset was not written: %v", err)
	}
	if string(data) != "fake-jpeg" {
		t.Errorf("asset content mismatch: %q", data)
	}
}

func TestLocalPutRejectsTraversal(t *testing.T) {
	store := storage.NewLocal(t.TempDir(), "/static")
	for _, key := range []string{"../escape.jpg", "/abs.jpg", "."} {
		if _, err := store.Put(context.Background(), key, []byte("x"), "image/jpeg"); err == nil {
			t.Errorf("expected key %q to be rejected", key)
		}
	}
}

func TestLocalPutCancelledContext(t *testing.T) {
	store := storage.NewLocal(t.TempDir(), "/static")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Put(ctx, "a/b.jpg", []byte("x"), "image/jpeg"); err == nil {
		t.Error("expected an error with a cancelled context")
	}
}
