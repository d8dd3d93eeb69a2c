package memfs_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/petasbytes/memory-agent/internal/memfs"
	"github.com/petasbytes/memory-agent/internal/safety"
)

// newStore returns a Store over a fresh memory root plus the root path.
// No shared sandbox: the root is constructor-injected, so each test gets its own.
func newStore(t *testing.T) (*memfs.Store, string) {
	t.Helper()
	root, err := safety.InitMemoryRoot(t.TempDir())
	if err != nil {
		t.Fatalf("InitMemoryRoot: %v", err)
	}
	return memfs.New(root), root
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected ToolError with code %s, got nil", code)
	}
	var te safety.ToolError
	if !errors.As(err, &te) {
		t.Fatalf("expected ToolError, got %T: %v", err, err)
	}
	if te.Code != code {
		t.Fatalf("unexpected code: got %s want %s (message %q)", te.Code, code, te.Message)
	}
}

func TestCreate_WritesVerbatim(t *testing.T) {
	s, root := newStore(t)
	p := filepath.Join(root, "test.txt")
	if err := s.Create(p, "Hello, World!"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("verify read: %v", err)
	}
	if string(b) != "Hello, World!" {
		t.Fatalf("content mismatch: %q", string(b))
	}
}

func TestCreate_MakesParentDirectories(t *testing.T) {
	s, root := newStore(t)
	p := filepath.Join(root, "sub", "deep", "note.md")
	if err := s.Create(p, "nested"); err != nil {
		t.Fatalf("Create nested: %v", err)
	}
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}
}

func TestCreate_RejectsUnknownExtension(t *testing.T) {
	s, root := newStore(t)
	for _, name := range []string{"noext", "prog.exe", "image.png"} {
		err := s.Create(filepath.Join(root, name), "content")
		wantCode(t, err, "ERR_CONSTRAINT")
	}
}

func TestCreate_OverwritesExisting(t *testing.T) {
	s, root := newStore(t)
	p := filepath.Join(root, "test.txt")
	if err := s.Create(p, "original"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Create(p, "updated"); err != nil {
		t.Fatalf("Create overwrite: %v", err)
	}
	b, _ := os.ReadFile(p)
	if string(b) != "updated" {
		t.Fatalf("expected overwrite, got %q", string(b))
	}
}

func TestLines_SplitsWithoutPhantomTrailingLine(t *testing.T) {
	s, root := newStore(t)
	p := filepath.Join(root, "a.txt")
	if err := s.Create(p, "one\ntwo\n"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	lines, err := s.Lines(p)
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two" {
		t.Fatalf("unexpected lines: %v", lines)
	}
}

func TestLines_MissingFile(t *testing.T) {
	s, root := newStore(t)
	_, err := s.Lines(filepath.Join(root, "absent.txt"))
	wantCode(t, err, "ERR_NOT_FOUND")
}

func TestEntries_SortedWithDirSuffix(t *testing.T) {
	s, root := newStore(t)
	if err := s.Create(filepath.Join(root, "b.txt"), "x"); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := s.Create(filepath.Join(root, "sub", "a.txt"), "x"); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	names, err := s.Entries(root)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(names) != 2 || names[0] != "b.txt" || names[1] != "sub/" {
		t.Fatalf("unexpected entries: %v", names)
	}
}

func TestStrReplace_SingleOccurrence(t *testing.T) {
	s, root := newStore(t)
	p := filepath.Join(root, "test.txt")
	if err := s.Create(p, "Hello World"); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := s.StrReplace(p, "World", "Universe"); err != nil {
		t.Fatalf("StrReplace: %v", err)
	}
	b, _ := os.ReadFile(p)
	if string(b) != "Hello Universe" {
		t.Fatalf("unexpected content: %q", string(b))
	}
}

func TestStrReplace_ZeroOccurrences(t *testing.T) {
	s, root := newStore(t)
	p := filepath.Join(root, "test.txt")
	if err := s.Create(p, "Hello World"); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	err := s.StrReplace(p, "Missing", "Text")
	wantCode(t, err, "ERR_NOT_FOUND")
	// Nothing written on rejection.
	b, _ := os.ReadFile(p)
	if string(b) != "Hello World" {
		t.Fatalf("file modified on rejected replace: %q", string(b))
	}
}

func TestStrReplace_MultipleOccurrences(t *testing.T) {
	s, root := newStore(t)
	p := filepath.Join(root, "test.txt")
	if err := s.Create(p, "Hello World Hello World"); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	err := s.StrReplace(p, "Hello", "Hi")
	wantCode(t, err, "ERR_CONFLICT")
	var te safety.ToolError
	errors.As(err, &te)
	if te.Message != "old_str appears 2 times; it must appear exactly once" {
		t.Fatalf("unexpected message: %q", te.Message)
	}
}

func TestInsert_Bounds(t *testing.T) {
	s, root := newStore(t)
	p := filepath.Join(root, "test.txt")
	if err := s.Create(p, "line 1\nline 2"); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	if err := s.Insert(p, 0, "new line"); err != nil {
		t.Fatalf("Insert at 0: %v", err)
	}
	b, _ := os.ReadFile(p)
	if string(b) != "new line\nline 1\nline 2\n" {
		t.Fatalf("unexpected content after head insert: %q", string(b))
	}

	if err := s.Insert(p, 3, "last line"); err != nil {
		t.Fatalf("Insert at end: %v", err)
	}
	b, _ = os.ReadFile(p)
	if string(b) != "new line\nline 1\nline 2\nlast line\n" {
		t.Fatalf("unexpected content after tail insert: %q", string(b))
	}

	err := s.Insert(p, 99, "text")
	wantCode(t, err, "ERR_CONSTRAINT")
	err = s.Insert(p, -1, "text")
	wantCode(t, err, "ERR_CONSTRAINT")
}

func TestDelete_FileAndDirectory(t *testing.T) {
	s, root := newStore(t)
	f := filepath.Join(root, "test.txt")
	if err := s.Create(f, "content"); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := s.Delete(f); err != nil {
		t.Fatalf("Delete file: %v", err)
	}
	if _, err := os.Stat(f); !os.IsNotExist(err) {
		t.Fatal("expected file to be gone")
	}

	nested := filepath.Join(root, "subdir", "inner.txt")
	if err := s.Create(nested, "content"); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := s.Delete(filepath.Join(root, "subdir")); err != nil {
		t.Fatalf("Delete dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "subdir")); !os.IsNotExist(err) {
		t.Fatal("expected directory to be gone")
	}
}

func TestDelete_RootIsProtected(t *testing.T) {
	s, root := newStore(t)
	// Empty root
	wantCode(t, s.Delete(root), "ERR_CONSTRAINT")
	// Populated root
	if err := s.Create(filepath.Join(root, "a.txt"), "x"); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	wantCode(t, s.Delete(root), "ERR_CONSTRAINT")
	if _, err := os.Stat(root); err != nil {
		t.Fatalf("root must survive: %v", err)
	}
}

func TestDelete_Missing(t *testing.T) {
	s, root := newStore(t)
	wantCode(t, s.Delete(filepath.Join(root, "absent.txt")), "ERR_NOT_FOUND")
}

func TestRename_MovesAndCreatesParents(t *testing.T) {
	s, root := newStore(t)
	src := filepath.Join(root, "old.txt")
	if err := s.Create(src, "content"); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	dst := filepath.Join(root, "archive", "new.txt")
	if err := s.Rename(src, dst); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("source still present")
	}
	b, err := os.ReadFile(dst)
	if err != nil || string(b) != "content" {
		t.Fatalf("destination content wrong: %q err=%v", string(b), err)
	}
}

func TestRename_SourceMissing(t *testing.T) {
	s, root := newStore(t)
	dst := filepath.Join(root, "new.txt")
	wantCode(t, s.Rename(filepath.Join(root, "absent.txt"), dst), "ERR_NOT_FOUND")
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatal("destination must not be created on failed rename")
	}
}

func TestRename_DestinationOccupied(t *testing.T) {
	s, root := newStore(t)
	a := filepath.Join(root, "a.txt")
	b := filepath.Join(root, "b.txt")
	if err := s.Create(a, "one"); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := s.Create(b, "two"); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	wantCode(t, s.Rename(a, b), "ERR_CONFLICT")
	// Neither endpoint modified.
	ba, _ := os.ReadFile(a)
	bb, _ := os.ReadFile(b)
	if string(ba) != "one" || string(bb) != "two" {
		t.Fatalf("files modified by failed rename: %q %q", string(ba), string(bb))
	}
}

func TestClearAll_PreservesRoot(t *testing.T) {
	s, root := newStore(t)
	if err := s.Create(filepath.Join(root, "a.txt"), "x"); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := s.Create(filepath.Join(root, "sub", "b.txt"), "y"); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := s.ClearAll(); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("root must survive: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty root, got %d entries", len(entries))
	}
}
