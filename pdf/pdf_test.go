package pdf

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
)

func TestRender_MissingHTML(t *testing.T) {
	dir := t.TempDir()

	err := Render(context.Background(), filepath.Join(dir, "missing.html"), filepath.Join(dir, "out.pdf"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}
