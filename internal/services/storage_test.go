package services

import (
	"bytes"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("resume", filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(content)
	w.Close()

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["resume"][0]
}

func TestStorageSaveAndDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	storage := NewStorageService(dir)
	if err := storage.EnsureUploadDir(); err != nil {
		t.Fatalf("EnsureUploadDir() error = %v", err)
	}

	path, err := storage.SaveUpload(fileHeader(t, "Jane CV.DOCX", []byte("resume bytes")))
	if err != nil {
		t.Fatalf("SaveUpload() error = %v", err)
	}
	if filepath.Dir(path) != dir || filepath.Ext(path) != ".docx" {
		t.Errorf("saved to %s, want a .docx under %s", path, dir)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "resume bytes" {
		t.Fatalf("stored content = %q, %v", data, err)
	}

	if err := storage.DeleteFile(path); err != nil {
		t.Fatalf("DeleteFile() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still exists after DeleteFile")
	}
	if err := storage.DeleteFile(path); err != nil {
		t.Errorf("second DeleteFile() error = %v, want nil", err)
	}
}

func TestStorageRejectsExtension(t *testing.T) {
	storage := NewStorageService(t.TempDir())

	_, err := storage.SaveUpload(fileHeader(t, "photo.png", []byte("png")))
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Errorf("error = %v, want ErrUnsupportedFileType", err)
	}
}
