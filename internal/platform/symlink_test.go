package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func skipWithoutSymlinks(t *testing.T) {
	t.Helper()
	if !IsSymlinkSupported() {
		t.Skip("symbolic links unavailable")
	}
}

func TestCreateSymlink(t *testing.T) {
	skipWithoutSymlinks(t)
	tmp := t.TempDir()

	targetPath := filepath.Join(tmp, "settings.json")
	if err := os.WriteFile(targetPath, []byte(`{"theme":"dark"}`), 0644); err != nil {
		t.Fatal(err)
	}

	linkPath := filepath.Join(tmp, "link.json")
	if err := CreateSymlink(targetPath, linkPath); err != nil {
		t.Fatalf("CreateSymlink failed: %v", err)
	}

	data, err := os.ReadFile(linkPath)
	if err != nil {
		t.Fatalf("reading link: %v", err)
	}
	if string(data) != `{"theme":"dark"}` {
		t.Errorf("link content = %q", string(data))
	}
	if !IsSymlink(linkPath) {
		t.Error("IsSymlink = false for a created link")
	}
}

func TestCreateSymlinkExisting(t *testing.T) {
	skipWithoutSymlinks(t)
	tmp := t.TempDir()

	linkPath := filepath.Join(tmp, "CLAUDE.md")
	if err := os.WriteFile(linkPath, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := CreateSymlink(filepath.Join(tmp, "AGENTS.md"), linkPath); err == nil {
		t.Fatal("CreateSymlink over an existing file should fail")
	}
}

func TestRemoveSymlink(t *testing.T) {
	skipWithoutSymlinks(t)
	tmp := t.TempDir()

	targetDir := filepath.Join(tmp, "agents")
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(targetDir, "reviewer.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	linkPath := filepath.Join(tmp, "link")
	if err := CreateSymlink(targetDir, linkPath); err != nil {
		t.Fatal(err)
	}

	if err := RemoveSymlink(linkPath); err != nil {
		t.Fatalf("RemoveSymlink failed: %v", err)
	}
	if _, err := os.Lstat(linkPath); !os.IsNotExist(err) {
		t.Error("link still exists after RemoveSymlink")
	}
	if _, err := os.Stat(filepath.Join(targetDir, "reviewer.md")); err != nil {
		t.Errorf("link target contents removed: %v", err)
	}
}

func TestRemoveSymlinkRegularFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "plain.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := RemoveSymlink(path); err == nil {
		t.Error("RemoveSymlink on a regular file should fail")
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("regular file was removed")
	}
}

func TestReadSymlinkTarget(t *testing.T) {
	skipWithoutSymlinks(t)
	tmp := t.TempDir()

	linkPath := filepath.Join(tmp, "active")
	if err := CreateSymlink("settings.json", linkPath); err != nil {
		t.Fatal(err)
	}

	got, err := ReadSymlinkTarget(linkPath)
	if err != nil {
		t.Fatalf("ReadSymlinkTarget failed: %v", err)
	}
	if got != "settings.json" {
		t.Errorf("ReadSymlinkTarget = %q, want %q", got, "settings.json")
	}
}

func TestIsSymlinkSupported(t *testing.T) {
	if runtime.GOOS != "windows" && !IsSymlinkSupported() {
		t.Error("IsSymlinkSupported returned false on Unix")
	}
}
