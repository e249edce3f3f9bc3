// Package docx fills Word templates with the weekly report context.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/rs/zerolog"
)

const Extension = ".docx"

// Renderer writes one .docx per report context into a dump folder.
type Renderer struct {
	templatePath string
	dumpFolder   string
}

func NewRenderer(templatePath, dumpFolder string) *Renderer {
	return &Renderer{templatePath: templatePath, dumpFolder: dumpFolder}
}

// OutputPath is where the document of rc is written.
func (r *Renderer) OutputPath(rc domain.ReportContext) string {
	return filepath.Join(r.dumpFolder, rc.FileStem()+Extension)
}

// Render fills the template with rc and writes {dumpFolder}/{FileStem}.docx.
// An existing file of the same name is replaced.
func (r *Renderer) Render(ctx context.Context, rc domain.ReportContext) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrRender, err)
	}
	logger := zerolog.Ctx(ctx)

	src, err := zip.OpenReader(r.templatePath)
	if err != nil {
		return "", fmt.Errorf("%w: open template %s: %w", domain.ErrRender, r.templatePath, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close report template")
		}
	}()

	if err := os.MkdirAll(r.dumpFolder, 0o755); err != nil {
		return "", fmt.Errorf("%w: create dump folder: %w", domain.ErrRender, err)
	}
	out, err := os.CreateTemp(r.dumpFolder, rc.FileStem()+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: create output: %w", domain.ErrRender, err)
	}
	tmpPath := out.Name()
	defer func() {
		if _, err := os.Stat(tmpPath); err == nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := fill(&src.Reader, out, rc); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("%w: %w", domain.ErrRender, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("%w: write output: %w", domain.ErrRender, err)
	}

	path := r.OutputPath(rc)
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("%w: move output: %w", domain.ErrRender, err)
	}
	logger.Debug().Str("file", path).Msg("report document written")
	return path, nil
}

// fill copies the package from src to dst, executing every Word part that
// carries template actions.
func fill(src *zip.Reader, dst io.Writer, rc domain.ReportContext) error {
	zw := zip.NewWriter(dst)
	for _, f := range src.File {
		if !isTemplatedPart(f.Name) {
			if err := zw.Copy(f); err != nil {
				return fmt.Errorf("copy %s: %w", f.Name, err)
			}
			continue
		}

		raw, err := readPart(f)
		if err != nil {
			return err
		}
		rendered := raw
		if bytes.Contains(raw, []byte("{")) {
			tmpl, err := parsePart(f.Name, string(raw))
			if err != nil {
				return fmt.Errorf("parse %s: %w", f.Name, err)
			}
			var buf bytes.Buffer
			if err := tmpl.Execute(&buf, rc); err != nil {
				return fmt.Errorf("execute %s: %w", f.Name, err)
			}
			rendered = buf.Bytes()
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: f.Modified,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", f.Name, err)
		}
		if _, err := w.Write(rendered); err != nil {
			return fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	return zw.Close()
}

func isTemplatedPart(name string) bool {
	if !strings.HasPrefix(name, "word/") || !strings.HasSuffix(name, ".xml") {
		return false
	}
	base := strings.TrimPrefix(name, "word/")
	return base == "document.xml" ||
		strings.HasPrefix(base, "header") ||
		strings.HasPrefix(base, "footer")
}

func readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return data, nil
}
