// Package tesseract is the default conversion engine: pages are rendered with
// pdftoppm (poppler-utils) and recognized with Tesseract through gosseract.
package tesseract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/TetianaBovanenko/OmniDocScan/internal/convert"
)

// Engine implements convert.Engine.
type Engine struct {
	Languages []string // Tesseract language codes, default "eng"
	DPI       int      // render resolution, default 300

	clientFactory func() *gosseract.Client
	render        func(ctx context.Context, pdfPath string, page, dpi int) ([]byte, error)
}

// New returns an Engine with the given languages and resolution.
func New(languages []string, dpi int) *Engine {
	return &Engine{
		Languages:     languages,
		DPI:           dpi,
		clientFactory: gosseract.NewClient,
		render:        renderPage,
	}
}

var _ convert.Engine = (*Engine)(nil)

// Recognize implements convert.Engine.
func (e *Engine) Recognize(ctx context.Context, pdfPath string) ([]string, error) {
	count, err := PageCount(pdfPath)
	if err != nil {
		return nil, err
	}

	dpi := e.DPI
	if dpi <= 0 {
		dpi = 300
	}
	client := e.clientFactory()
	defer client.Close()

	if len(e.Languages) > 0 {
		if err := client.SetLanguage(e.Languages...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}
	if err := client.SetVariable(gosseract.SettableVariable("user_defined_dpi"), strconv.Itoa(dpi)); err != nil {
		return nil, fmt.Errorf("set dpi: %w", err)
	}

	texts := make([]string, 0, count)
	for page := 1; page <= count; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := e.render(ctx, pdfPath, page, dpi)
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", page, err)
		}
		if err := client.SetImageFromBytes(img); err != nil {
			return nil, fmt.Errorf("set image for page %d: %w", page, err)
		}
		text, err := client.Text()
		if err != nil {
			return nil, fmt.Errorf("recognize page %d: %w", page, err)
		}
		texts = append(texts, strings.TrimSpace(text))
	}
	return texts, nil
}

// PageCount returns the number of pages of a PDF.
func PageCount(pdfPath string) (int, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	n, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return n, nil
}

// renderPage renders one page to PNG using pdftoppm.
func renderPage(ctx context.Context, pdfPath string, page, dpi int) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "omnidocscan-page-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	pageStr := strconv.Itoa(page)
	cmd := exec.CommandContext(ctx, "pdftoppm",
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", strconv.Itoa(dpi),
		"-singlefile",
		pdfPath,
		prefix,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w (output: %s)", err, string(output))
	}

	data, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("pdftoppm did not create expected output: %w", err)
	}
	return data, nil
}
