package services

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"document-review-api/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReport(t *testing.T) {
	docx := sampleDOCX(t)
	rtf := []byte("{\\rtf1\\ansi\\deff0 {\\fonttbl {\\f0 Times;}} Review notes}")

	cases := []struct {
		name    string
		report  *ReportFile
		wantPDF bool
		wantErr bool
	}{
		{"pdf", &ReportFile{Filename: "Report.PDF", Data: samplePDF}, true, false},
		{"docx", &ReportFile{Filename: "notes.docx", Data: docx}, false, false},
		{"rtf", &ReportFile{Filename: "notes.rtf", Data: rtf}, false, false},
		{"nil", nil, false, true},
		{"empty", &ReportFile{Filename: "a.pdf"}, false, true},
		{"image", &ReportFile{Filename: "scan.png", Data: []byte("\x89PNG\r\n\x1a\n0000")}, false, true},
		{"docx named pdf", &ReportFile{Filename: "notes.pdf", Data: docx}, false, true},
		{"pdf named docx", &ReportFile{Filename: "notes.docx", Data: samplePDF}, false, true},
		{"no extension", &ReportFile{Filename: "README", Data: samplePDF}, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			isPDF, err := ValidateReport(tc.report)
			if tc.wantErr {
				requireKind(t, err, KindInvalidRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantPDF, isPDF)
		})
	}
}

func TestReportObjectName(t *testing.T) {
	id := uuid.MustParse("7d3c3f7e-0d4a-4a4c-9a51-6c0f2b0f8d11")
	res := uuid.MustParse("0b8e2d51-3f0c-4f7e-8c1a-2d9e5b7a6c40")
	prefix := "review_" + id.String() + "_" + res.String()
	assert.Equal(t, prefix+"_findings.pdf", ReportObjectName(id, res, "findings.docx"))
	assert.Equal(t, prefix+"_my_notes_v2.pdf", ReportObjectName(id, res, "../my notes v2.pdf"))
	assert.Equal(t, prefix+"_report.pdf", ReportObjectName(id, res, ".pdf"))

	other := uuid.MustParse("5a1f7c9e-2b4d-4e6f-9a8b-1c3d5e7f9a0b")
	assert.NotEqual(t, ReportObjectName(id, res, "findings.pdf"), ReportObjectName(id, other, "findings.pdf"))
}

func writeFakeSoffice(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script converter stub needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "soffice")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestLibreOfficeConverterProducesPDF(t *testing.T) {
	// args: --headless --norestore --convert-to pdf --outdir DIR INPUT
	bin := writeFakeSoffice(t, `out="$6"; in="$7"; base=$(basename "$in"); printf '%%PDF-1.4 converted' > "$out/${base%.*}.pdf"`+"\n")
	c := NewLibreOfficeConverter(bin, 5*time.Second, logger.NewNop())

	assert.True(t, c.IsCanonicalFormat("x.Pdf"))
	assert.False(t, c.IsCanonicalFormat("x.docx"))

	out, err := c.ConvertToCanonical(context.Background(), "notes.docx", sampleDOCX(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF-1.4"))
}

func TestLibreOfficeConverterFailures(t *testing.T) {
	failing := writeFakeSoffice(t, "echo 'source file could not be loaded' >&2\nexit 1\n")
	c := NewLibreOfficeConverter(failing, 5*time.Second, logger.NewNop())
	_, err := c.ConvertToCanonical(context.Background(), "notes.docx", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not be loaded")

	slow := writeFakeSoffice(t, "exec sleep 5\n")
	c = NewLibreOfficeConverter(slow, 100*time.Millisecond, logger.NewNop())
	_, err = c.ConvertToCanonical(context.Background(), "notes.odt", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")

	silent := writeFakeSoffice(t, "exit 0\n")
	c = NewLibreOfficeConverter(silent, 5*time.Second, logger.NewNop())
	_, err = c.ConvertToCanonical(context.Background(), "notes.rtf", []byte("x"))
	require.Error(t, err)

	_, err = c.ConvertToCanonical(context.Background(), "notes.txt", []byte("x"))
	require.Error(t, err)
}
