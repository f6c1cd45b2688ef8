package receipts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveKeepsExtensionAndURL(t *testing.T) {
	store, err := NewStore(t.TempDir(), "/receipts/")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	url, name, err := store.Save("chucknorris.JPG", strings.NewReader("fake image bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Fatalf("stored name should keep a lowercased extension, got %q", name)
	}
	if url != "/receipts/"+name {
		t.Fatalf("url %q does not point at stored name %q", url, name)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	if err != nil {
		t.Fatalf("read stored receipt: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Fatalf("stored content mismatch: %q", data)
	}
}

func TestSaveDistinctNames(t *testing.T) {
	store, err := NewStore(t.TempDir(), "/receipts")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	_, a, err := store.Save("x.png", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	_, b, err := store.Save("x.png", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if a == b {
		t.Fatal("two uploads of the same file name must not collide")
	}
}
