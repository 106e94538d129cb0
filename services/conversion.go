package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"document-review-api/config"
	"document-review-api/logger"

	"github.com/gabriel-vasile/mimetype"
)

// ReportFile is the review report uploaded by a reviewer.
type ReportFile struct {
	Filename string
	Data     []byte
}

// Converter turns accepted report formats into PDF.
type Converter interface {
	IsCanonicalFormat(filename string) bool
	ConvertToCanonical(ctx context.Context, filename string, data []byte) ([]byte, error)
}

const canonicalExt = ".pdf"

var convertibleExts = map[string]bool{
	".doc":  true,
	".docx": true,
	".odt":  true,
	".rtf":  true,
}

var pdfMimes = []string{"application/pdf"}

// Containers are accepted for word formats because older or minimal files sniff as their
// container rather than the specific format.
var wordMimes = []string{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/msword",
	"application/vnd.oasis.opendocument.text",
	"text/rtf",
	"application/zip",
	"application/x-ole-storage",
}

func reportExt(filename string) string {
	return strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
}

func mimeMatches(m *mimetype.MIME, allowed []string) bool {
	for ; m != nil; m = m.Parent() {
		for _, a := range allowed {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}

// ValidateReport checks the report extension and sniffed content before any conversion or
// upload. It reports whether the file is already a PDF.
func ValidateReport(report *ReportFile) (bool, error) {
	if report == nil || len(report.Data) == 0 {
		return false, invalidRequest("report file is required")
	}
	ext := reportExt(report.Filename)

	var allowed []string
	switch {
	case ext == canonicalExt:
		allowed = pdfMimes
	case convertibleExts[ext]:
		allowed = wordMimes
	default:
		return false, invalidRequest("unsupported report format %q: only PDF or Word documents are accepted", report.Filename)
	}

	detected := mimetype.Detect(report.Data)
	if !mimeMatches(detected, allowed) {
		return false, invalidRequest("report %q content (%s) does not match its extension", report.Filename, detected.String())
	}
	return ext == canonicalExt, nil
}

// ReportObjectName builds the stored name of one submission's review report.
func ReportObjectName(requestID, resultID fmt.Stringer, filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		case r > 127:
			return r
		}
		return '_'
	}, base)
	if base == "" || base == "." {
		base = "report"
	}
	return fmt.Sprintf("review_%s_%s_%s%s", requestID.String(), resultID.String(), base, canonicalExt)
}

// LibreOfficeConverter shells out to a headless LibreOffice.
type LibreOfficeConverter struct {
	Binary  string
	Timeout time.Duration
	log     *logger.Logger
}

func NewLibreOfficeConverter(binary string, timeout time.Duration, log *logger.Logger) *LibreOfficeConverter {
	if binary == "" {
		binary = "soffice"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &LibreOfficeConverter{
		Binary:  binary,
		Timeout: timeout,
		log:     log.With("service", "LibreOfficeConverter"),
	}
}

// NewLibreOfficeConverterFromEnv reads LIBREOFFICE_PATH and CONVERSION_TIMEOUT_SECONDS.
func NewLibreOfficeConverterFromEnv(log *logger.Logger) *LibreOfficeConverter {
	return NewLibreOfficeConverter(
		config.EnvString("LIBREOFFICE_PATH", "soffice"),
		config.EnvSeconds("CONVERSION_TIMEOUT_SECONDS", 60*time.Second),
		log,
	)
}

func (c *LibreOfficeConverter) IsCanonicalFormat(filename string) bool {
	return reportExt(filename) == canonicalExt
}

func (c *LibreOfficeConverter) ConvertToCanonical(ctx context.Context, filename string, data []byte) ([]byte, error) {
	ext := reportExt(filename)
	if !convertibleExts[ext] {
		return nil, fmt.Errorf("cannot convert %q to pdf", filename)
	}

	workDir, err := os.MkdirTemp("", "review-convert-*")
	if err != nil {
		return nil, fmt.Errorf("create conversion dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	input := filepath.Join(workDir, "report"+ext)
	if err := os.WriteFile(input, data, 0o600); err != nil {
		return nil, fmt.Errorf("write conversion input: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	started := time.Now()
	cmd := exec.CommandContext(ctx, c.Binary,
		"--headless", "--norestore", "--convert-to", "pdf", "--outdir", workDir, input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = 2 * time.Second

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("conversion of %q timed out after %s", filename, c.Timeout)
		}
		return nil, fmt.Errorf("libreoffice failed for %q: %w: %s", filename, err, strings.TrimSpace(stderr.String()))
	}

	out, err := os.ReadFile(filepath.Join(workDir, "report"+canonicalExt))
	if err != nil {
		return nil, fmt.Errorf("read converted pdf: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("libreoffice produced an empty pdf for %q", filename)
	}

	c.log.Debug("report converted", "filename", filename, "bytes_in", len(data), "bytes_out", len(out), "took", time.Since(started))
	return out, nil
}
