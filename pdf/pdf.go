package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/playwright-community/playwright-go"
)

// B5 paper with a 15mm margin on every side
const (
	pageWidth  = "176mm"
	pageHeight = "250mm"
	pageMargin = "15mm"
)

// Render prints the HTML file at htmlPath into a PDF at pdfPath using a
// headless Chromium. The browser is installed on first use.
func Render(ctx context.Context, htmlPath, pdfPath string) error {
	absPath, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("could not get absolute path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("could not open HTML file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := playwright.Install(&playwright.RunOptions{
		Browsers: []string{"chromium"},
	}); err != nil {
		return fmt.Errorf("could not install playwright: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("could not start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch()
	if err != nil {
		return fmt.Errorf("could not launch browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return fmt.Errorf("could not create page: %w", err)
	}
	defer page.Close()

	if _, err = page.Goto("file://" + absPath); err != nil {
		return fmt.Errorf("could not navigate to HTML file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(pdfPath), 0755); err != nil {
		return fmt.Errorf("failed to create PDF directory: %w", err)
	}
	_, err = page.PDF(playwright.PagePdfOptions{
		Path:            playwright.String(pdfPath),
		Width:           playwright.String(pageWidth),
		Height:          playwright.String(pageHeight),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String(pageMargin),
			Right:  playwright.String(pageMargin),
			Bottom: playwright.String(pageMargin),
			Left:   playwright.String(pageMargin),
		},
	})
	if err != nil {
		return fmt.Errorf("could not generate PDF: %w", err)
	}

	return nil
}
