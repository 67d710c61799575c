package attach

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplenotezy/email-timeline-and-llm-analysis/internal/corpus"
)

func writeAttachment(t *testing.T, dir, name string, content []byte) corpus.Attachment {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return corpus.Attachment{Filename: name, Path: path}
}

func newCanonicalizer(t *testing.T, ignored map[string]struct{}) *Canonicalizer {
	t.Helper()
	c := NewCanonicalizer(filepath.Join(t.TempDir(), "out"), ignored, nil)
	require.NoError(t, c.PrepareOutputDir())
	return c
}

func TestProcessExportsFirstOccurrence(t *testing.T) {
	src := t.TempDir()
	c := newCanonicalizer(t, nil)

	att := writeAttachment(t, src, "contract.pdf", []byte("pdf bytes"))
	res, err := c.Process(att)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "contract.pdf", res.Ref)
	assert.Equal(t, "contract.pdf", res.Canonical)
	assert.False(t, res.Duplicate)

	data, err := os.ReadFile(filepath.Join(c.outDir, "contract.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), data)
	assert.Equal(t, 1, c.Stats().Exported)
}

func TestProcessDeduplicatesByContent(t *testing.T) {
	src := t.TempDir()
	c := newCanonicalizer(t, nil)

	first := writeAttachment(t, src, "a.pdf", []byte("identical content"))
	second := writeAttachment(t, src, "b.pdf", []byte("identical content"))

	res1, err := c.Process(first)
	require.NoError(t, err)
	require.NotNil(t, res1)
	assert.Equal(t, "a.pdf", res1.Ref)

	res2, err := c.Process(second)
	require.NoError(t, err)
	require.NotNil(t, res2)
	assert.True(t, res2.Duplicate)
	assert.Equal(t, "b.pdf (See: a.pdf)", res2.Ref)
	assert.Equal(t, "a.pdf", res2.Canonical)

	// Exactly one file exported.
	entries, err := os.ReadDir(c.outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestProcessDuplicateUnderSameName(t *testing.T) {
	src1 := t.TempDir()
	src2 := t.TempDir()
	c := newCanonicalizer(t, nil)

	_, err := c.Process(writeAttachment(t, src1, "scan.pdf", []byte("same")))
	require.NoError(t, err)

	res, err := c.Process(writeAttachment(t, src2, "scan.pdf", []byte("same")))
	require.NoError(t, err)
	require.NotNil(t, res)

	// Same name as the canonical copy: reference it plain, no "(See: ...)".
	assert.Equal(t, "scan.pdf", res.Ref)
	assert.True(t, res.Duplicate)
}

func TestProcessFilenameCollision(t *testing.T) {
	src1 := t.TempDir()
	src2 := t.TempDir()
	src3 := t.TempDir()
	c := newCanonicalizer(t, nil)

	res1, err := c.Process(writeAttachment(t, src1, "invoice.pdf", []byte("january invoice")))
	require.NoError(t, err)
	assert.Equal(t, "invoice.pdf", res1.Ref)

	res2, err := c.Process(writeAttachment(t, src2, "invoice.pdf", []byte("february invoice")))
	require.NoError(t, err)
	assert.Equal(t, "invoice_1.pdf", res2.Ref)

	res3, err := c.Process(writeAttachment(t, src3, "invoice.pdf", []byte("march invoice")))
	require.NoError(t, err)
	assert.Equal(t, "invoice_2.pdf", res3.Ref)

	entries, err := os.ReadDir(c.outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestProcessMissingFile(t *testing.T) {
	c := newCanonicalizer(t, nil)

	res, err := c.Process(corpus.Attachment{Filename: "gone.pdf", Path: "/nonexistent/gone.pdf"})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 1, c.Stats().SkippedMissing)
}

func TestProcessJunkImage(t *testing.T) {
	src := t.TempDir()
	c := newCanonicalizer(t, nil)

	// 3 KB png: signature logo, skipped.
	small := writeAttachment(t, src, "logo.png", make([]byte, 3*1024))
	res, err := c.Process(small)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 1, c.Stats().SkippedJunk)

	// 10 KB png: real content, kept.
	big := writeAttachment(t, src, "diagram.png", make([]byte, 10*1024))
	res, err = c.Process(big)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "diagram.png", res.Ref)
}

func TestProcessJunkHeuristicImagesOnly(t *testing.T) {
	src := t.TempDir()
	c := newCanonicalizer(t, nil)

	// A tiny PDF is not junk, only image extensions are.
	tiny := writeAttachment(t, src, "note.pdf", []byte("x"))
	res, err := c.Process(tiny)
	require.NoError(t, err)
	require.NotNil(t, res)
}

func TestProcessIgnoredFingerprint(t *testing.T) {
	src := t.TempDir()

	att := writeAttachment(t, src, "blocked.pdf", []byte("ignore me"))
	c := newCanonicalizer(t, nil)
	res, err := c.Process(att)
	require.NoError(t, err)
	require.NotNil(t, res)

	fp, err := fingerprintFile(att.Path)
	require.NoError(t, err)

	ignored := map[string]struct{}{fp: {}}
	c2 := newCanonicalizer(t, ignored)
	res, err = c2.Process(att)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 1, c2.Stats().SkippedIgnored)
}

func TestProcessPrefersTextSurrogate(t *testing.T) {
	src := t.TempDir()
	c := newCanonicalizer(t, nil)

	pdfPath := filepath.Join(src, "report.pdf")
	txtPath := pdfPath + "_to_text.txt"
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF binary"), 0o644))
	require.NoError(t, os.WriteFile(txtPath, []byte("extracted report text"), 0o644))

	res, err := c.Process(corpus.Attachment{
		Filename: "report.pdf",
		Path:     pdfPath,
		HasText:  true,
		TextPath: txtPath,
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "report.pdf.txt", res.Ref)
	assert.Equal(t, "extracted report text", res.Text)

	data, err := os.ReadFile(filepath.Join(c.outDir, "report.pdf.txt"))
	require.NoError(t, err)
	assert.Equal(t, "extracted report text", string(data))
}

func TestProcessTextSurrogateMissingFallsBack(t *testing.T) {
	src := t.TempDir()
	c := newCanonicalizer(t, nil)

	pdfPath := filepath.Join(src, "scan.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF binary"), 0o644))

	res, err := c.Process(corpus.Attachment{
		Filename: "scan.pdf",
		Path:     pdfPath,
		HasText:  true,
		TextPath: filepath.Join(src, "missing.txt"),
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	// Binary copy under the original name; no inline text.
	assert.Equal(t, "scan.pdf", res.Ref)
	assert.Empty(t, res.Text)
}

func TestProcessDuplicateCarriesNoText(t *testing.T) {
	src := t.TempDir()
	c := newCanonicalizer(t, nil)

	pdfPath := filepath.Join(src, "report.pdf")
	txtPath := pdfPath + "_to_text.txt"
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF binary"), 0o644))
	require.NoError(t, os.WriteFile(txtPath, []byte("extracted"), 0o644))
	att := corpus.Attachment{Filename: "report.pdf", Path: pdfPath, HasText: true, TextPath: txtPath}

	_, err := c.Process(att)
	require.NoError(t, err)

	res, err := c.Process(att)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.Duplicate)
	assert.Empty(t, res.Text, "extracted text must not be re-inlined for duplicates")
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "_etc_passwd", sanitizeName("/etc/passwd"))
	assert.Equal(t, "__secret.pdf", sanitizeName("../secret.pdf"))
	assert.Equal(t, "plain.pdf", sanitizeName("plain.pdf"))
}

func TestPrepareOutputDirClearsStaleFiles(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "stale.pdf"), []byte("old"), 0o644))

	c := NewCanonicalizer(out, nil, nil)
	require.NoError(t, c.PrepareOutputDir())

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
