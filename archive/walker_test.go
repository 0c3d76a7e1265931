package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

type zipEntry struct {
	name    string
	content string
}

func makeZip(t *testing.T, files []zipEntry) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	for _, f := range files {
		fw, err := w.Create(f.name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", f.name, err)
		}
		if _, err := fw.Write([]byte(f.content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", f.name, err)
		}
	}
	w.Close()
	return zipPath
}

func TestWalk(t *testing.T) {
	zipPath := makeZip(t, []zipEntry{
		{"docs/book.xml", "<doc/>"},
		{"docs/notes.yaml", "annotations:"},
		{"extra/cover.png", "png"},
	})

	t.Run("prefix match", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, "docs/", func(archive string, file *zip.File) error {
			if archive != zipPath {
				t.Errorf("archive = %s, want %s", archive, zipPath)
			}
			visited = append(visited, file.Name)
			return nil
		})
		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		if len(visited) != 2 {
			t.Errorf("visited %d files, want 2: %v", len(visited), visited)
		}
	})

	t.Run("walkFn error stops the walk", func(t *testing.T) {
		stopErr := errors.New("stop walking")
		var visited int
		err := Walk(zipPath, "", func(archive string, file *zip.File) error {
			visited++
			return stopErr
		})
		if err != stopErr {
			t.Errorf("Walk() error = %v, want %v", err, stopErr)
		}
		if visited != 1 {
			t.Errorf("visited %d files, want 1", visited)
		}
	})

	t.Run("nonexistent archive", func(t *testing.T) {
		err := Walk("/nonexistent/file.zip", "", func(archive string, file *zip.File) error {
			return nil
		})
		if err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid archive", func(t *testing.T) {
		invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}
		err := Walk(invalidZip, "", func(archive string, file *zip.File) error {
			return nil
		})
		if err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})
}

func TestOpenDocument(t *testing.T) {
	zipPath := makeZip(t, []zipEntry{
		{"mimetype", "application/epub+zip"},
		{"text/book.XML", "<doc><p>content</p></doc>"},
		{"text/extra.xml", "<doc/>"},
	})

	t.Run("first matching extension", func(t *testing.T) {
		rc, name, err := OpenDocument(zipPath, ".xml", ".xhtml")
		if err != nil {
			t.Fatalf("OpenDocument() error = %v", err)
		}

		if name != "text/book.XML" {
			t.Errorf("entry = %s, want text/book.XML", name)
		}
		// the archive must stay open until the caller is done with the entry
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("Failed to read entry: %v", err)
		}
		if !bytes.Equal(data, []byte("<doc><p>content</p></doc>")) {
			t.Errorf("content = %s", data)
		}
		if err := rc.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	t.Run("no matching entry", func(t *testing.T) {
		_, _, err := OpenDocument(zipPath, ".html")
		if !errors.Is(err, ErrNoDocument) {
			t.Errorf("OpenDocument() error = %v, want ErrNoDocument", err)
		}
	})
}
