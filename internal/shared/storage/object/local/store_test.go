package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveListOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "excels")
	store := New(dir)
	ctx := context.Background()

	for _, name := range []string{"week2.csv", "week1.xlsx"} {
		if _, _, err := store.Save(ctx, name, strings.NewReader("body-"+name)); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}
	key, size, err := store.Save(ctx, "week1.xlsx", strings.NewReader("replaced"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if key != "week1.xlsx" || size != int64(len("replaced")) {
		t.Fatalf("unexpected key/size %q %d", key, size)
	}

	objs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(objs) != 2 || objs[0].Key != "week1.xlsx" || objs[1].Key != "week2.csv" {
		t.Fatalf("unexpected listing: %+v", objs)
	}

	rc, err := store.Open(ctx, "week1.xlsx")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "replaced" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestListMissingDirIsEmpty(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "missing"))
	objs, err := store.List(context.Background())
	if err != nil || len(objs) != 0 {
		t.Fatalf("expected empty listing, got %v %v", objs, err)
	}
}

func TestListSkipsDirectoriesAndHidden(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".upload-123"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	objs, err := New(dir).List(context.Background())
	if err != nil || len(objs) != 0 {
		t.Fatalf("expected no objects, got %+v %v", objs, err)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	if _, err := New(t.TempDir()).Open(context.Background(), "../etc/passwd"); err == nil {
		t.Fatalf("expected traversal error")
	}
}
