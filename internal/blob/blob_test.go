package blob

import (
	"context"
	"io"
	"strings"
	"testing"
)

func drivers(t *testing.T) map[string]Store {
	t.Helper()
	fsStore, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new filesystem store: %v", err)
	}
	return map[string]Store{
		"fs":     fsStore,
		"memory": NewMemory(),
	}
}

func TestPutGetHeadDeleteList(t *testing.T) {
	ctx := context.Background()
	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			obj, err := store.Put(ctx, "exports/job-1/products.csv", strings.NewReader("id,name\n"), PutOptions{
				ContentType: "text/csv",
				Metadata:    map[string]string{"kind": "products"},
			})
			if err != nil {
				t.Fatalf("put: %v", err)
			}
			if obj.Size != 8 || obj.ContentType != "text/csv" || obj.ETag == "" {
				t.Fatalf("put object = %+v", obj)
			}

			head, err := store.Head(ctx, "exports/job-1/products.csv")
			if err != nil {
				t.Fatalf("head: %v", err)
			}
			if head.Metadata["kind"] != "products" {
				t.Fatalf("head metadata = %v", head.Metadata)
			}

			got, rc, err := store.Get(ctx, "exports/job-1/products.csv")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			payload, err := io.ReadAll(rc)
			rc.Close()
			if err != nil || string(payload) != "id,name\n" {
				t.Fatalf("payload = %q, err = %v", payload, err)
			}
			if got.ETag != obj.ETag {
				t.Fatalf("etag changed between put and get: %s vs %s", got.ETag, obj.ETag)
			}

			objects, err := store.List(ctx, "exports/")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(objects) != 1 || objects[0].Key != "exports/job-1/products.csv" {
				t.Fatalf("list = %+v", objects)
			}
			if objects, _ := store.List(ctx, "other/"); len(objects) != 0 {
				t.Fatalf("prefix miss returned %+v", objects)
			}

			existed, err := store.Delete(ctx, "exports/job-1/products.csv")
			if err != nil || !existed {
				t.Fatalf("delete = %v, %v", existed, err)
			}
			existed, err = store.Delete(ctx, "exports/job-1/products.csv")
			if err != nil || existed {
				t.Fatalf("second delete = %v, %v", existed, err)
			}
		})
	}
}

func TestPutOverwritesExisting(t *testing.T) {
	ctx := context.Background()
	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Put(ctx, "a/b.json", strings.NewReader("v1"), PutOptions{}); err != nil {
				t.Fatalf("first put: %v", err)
			}
			if _, err := store.Put(ctx, "a/b.json", strings.NewReader("v2-longer"), PutOptions{}); err != nil {
				t.Fatalf("second put: %v", err)
			}
			_, rc, err := store.Get(ctx, "a/b.json")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			payload, _ := io.ReadAll(rc)
			rc.Close()
			if string(payload) != "v2-longer" {
				t.Fatalf("payload = %q, want overwrite to win", payload)
			}
		})
	}
}

func TestPutRejectsBadKeys(t *testing.T) {
	ctx := context.Background()
	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "  ", "/abs", "../escape", "a/../../b"} {
				if _, err := store.Put(ctx, key, strings.NewReader("x"), PutOptions{}); err == nil {
					t.Fatalf("key %q accepted", key)
				}
			}
		})
	}
}

func TestOpenSelectsDriverFromEnv(t *testing.T) {
	ctx := context.Background()
	t.Setenv("CATALOGCORE_BLOB_DRIVER", "memory")
	store, err := Open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Driver() != DriverMemory {
		t.Fatalf("driver = %s, want memory", store.Driver())
	}

	t.Setenv("CATALOGCORE_BLOB_DRIVER", "fs")
	t.Setenv("CATALOGCORE_BLOB_FS_ROOT", t.TempDir())
	store, err = Open(ctx)
	if err != nil {
		t.Fatalf("open fs: %v", err)
	}
	if store.Driver() != DriverFilesystem {
		t.Fatalf("driver = %s, want fs", store.Driver())
	}

	t.Setenv("CATALOGCORE_BLOB_DRIVER", "carrier-pigeon")
	if _, err := Open(ctx); err == nil {
		t.Fatal("expected error for unknown driver")
	}

	// the s3 driver refuses to start without a bucket
	t.Setenv("CATALOGCORE_BLOB_DRIVER", "s3")
	t.Setenv("CATALOGCORE_BLOB_S3_BUCKET", "")
	if _, err := Open(ctx); err == nil {
		t.Fatal("expected error for s3 driver without bucket")
	}
}

func TestSignedURL(t *testing.T) {
	ctx := context.Background()
	fsStore, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new filesystem store: %v", err)
	}
	url, err := fsStore.SignedURL(ctx, "exports/a.csv", 0)
	if err != nil {
		t.Fatalf("signed url: %v", err)
	}
	if !strings.Contains(url, "exports/a.csv") {
		t.Fatalf("url = %s", url)
	}
	if _, err := NewMemory().SignedURL(ctx, "x", 0); err != ErrUnsupported {
		t.Fatalf("memory signed url err = %v, want ErrUnsupported", err)
	}
}
