package browser

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/playwright-community/playwright-go"
)

// CapturePDF renders the session's current page to a PDF artifact at path.
// The capture is validated and optimized before it is written, so a partial
// or corrupt render never lands on disk.
//
// Chromium only renders PDFs in headless mode.
func (m *Manager) CapturePDF(sessionID, path string) error {
	session, err := m.GetSession(sessionID)
	if err != nil {
		return err
	}
	if !session.Headless {
		return fmt.Errorf("PDF capture requires a headless session")
	}
	session.UpdateLastUsed()

	data, err := session.Page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return fmt.Errorf("rendered PDF failed validation: %w", err)
	}

	var optimized bytes.Buffer
	if err := api.Optimize(bytes.NewReader(data), &optimized, conf); err != nil {
		// The raw render already validated; keep it rather than fail the capture.
		m.logger.Warnf("PDF optimization failed, writing raw render: %v", err)
		optimized.Reset()
		optimized.Write(data)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create artifact directory: %w", err)
		}
	}
	if err := os.WriteFile(path, optimized.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write PDF artifact: %w", err)
	}

	m.logger.Infof("captured %s (%d bytes) from %s", path, optimized.Len(), session.CurrentURL)
	return nil
}
