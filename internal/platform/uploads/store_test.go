package uploads

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func fileHeader(t *testing.T, fieldName string, fileName string, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="` + fieldName + `"; filename="` + fileName + `"`},
		"Content-Type":        {contentType},
	})
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	headers := req.MultipartForm.File[fieldName]
	if len(headers) != 1 {
		t.Fatalf("expected 1 file header, got %d", len(headers))
	}
	return headers[0]
}

func TestSaveAcceptedImage(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	header := fileHeader(t, "image", "desk lamp.png", "image/png", []byte("png-bytes"))
	fileName, err := store.Save(header)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(fileName, "desk-lamp-") {
		t.Fatalf("expected sanitized name prefix, got %q", fileName)
	}
	if !strings.HasSuffix(fileName, ".png") {
		t.Fatalf("expected png extension, got %q", fileName)
	}

	content, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(content) != "png-bytes" {
		t.Fatalf("stored content mismatch: %q", content)
	}
}

func TestSaveRejectsDisallowedType(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	header := fileHeader(t, "image", "evil.sh", "application/x-sh", []byte("#!/bin/sh"))
	if _, err := store.Save(header); !errors.Is(err, ErrInvalidFileType) {
		t.Fatalf("expected invalid file type, got %v", err)
	}

	header = fileHeader(t, "image", "page.html", "text/html", []byte("<html>"))
	if _, err := store.Save(header); !errors.Is(err, ErrInvalidFileType) {
		t.Fatalf("expected invalid file type for html, got %v", err)
	}
}

func TestSaveStripsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	header := fileHeader(t, "image", "../../escape.png", "image/png", []byte("x"))
	fileName, err := store.Save(header)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if strings.Contains(fileName, "/") || strings.Contains(fileName, "..") {
		t.Fatalf("expected path-free file name, got %q", fileName)
	}
	if _, err := os.Stat(filepath.Join(dir, fileName)); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
}
