// Package actions implements the secondary, result-scoped operations of the
// workflow: webhook resend, JSON export, proof-of-payment printing, clipboard
// copy and sharing. Platform side effects (file writes, print contexts,
// clipboards) sit behind capability interfaces so front ends and tests can
// substitute their own.
package actions

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileExporter persists a generated export document and returns where it
// landed. Implementations must not touch the network.
type FileExporter interface {
	WriteFile(name string, data []byte) (string, error)
}

// PrintSink receives a fully self-contained HTML document for printing.
type PrintSink interface {
	Print(name string, html []byte) error
}

// Clipboard copies text into the host clipboard. Implementations report
// platform failures as errors; callers surface them without aborting the
// workflow.
type Clipboard interface {
	Copy(text string) error
}

// ShareTarget is a native share capability. When unavailable, the dispatcher
// falls back to copying the page URL to the clipboard.
type ShareTarget interface {
	CanShare() bool
	Share(title, text, url string) error
}

// DirExporter writes export documents into a directory on local disk.
type DirExporter struct {
	Dir string
}

// WriteFile stores the document under the exporter's directory.
func (e DirExporter) WriteFile(name string, data []byte) (string, error) {
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(e.Dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// FilePrinter materializes print documents as HTML files in a directory,
// standing in for a detached print context.
type FilePrinter struct {
	Dir string
}

// Print writes the document to disk.
func (p FilePrinter) Print(name string, html []byte) error {
	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create print directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(p.Dir, name), html, 0644); err != nil {
		return fmt.Errorf("failed to write print document: %w", err)
	}
	return nil
}

// NoClipboard is the fallback clipboard for headless environments; every copy
// fails with a descriptive error that the UI turns into a toast.
type NoClipboard struct{}

// Copy always fails.
func (NoClipboard) Copy(string) error {
	return fmt.Errorf("clipboard is not available in this environment")
}

// NoShare is the fallback share target; CanShare is false so the dispatcher
// uses the clipboard fallback path.
type NoShare struct{}

// CanShare reports that native sharing is unavailable.
func (NoShare) CanShare() bool { return false }

// Share always fails; unreachable through the dispatcher.
func (NoShare) Share(string, string, string) error {
	return fmt.Errorf("native share is not available in this environment")
}
