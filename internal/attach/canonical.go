package attach

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/simplenotezy/email-timeline-and-llm-analysis/internal/corpus"
	"github.com/simplenotezy/email-timeline-and-llm-analysis/internal/logging"
)

// junkImageMaxSize is the size floor for image attachments. Images below it
// are almost always signature logos and social icons, not content.
const junkImageMaxSize = 5 * 1024

// junkImageExts are the extensions the junk heuristic applies to.
var junkImageExts = map[string]struct{}{
	".gif":  {},
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".tiff": {},
	".bmp":  {},
}

// Result describes how one attachment should appear in the transcripts.
type Result struct {
	// Ref is the transcript reference: the canonical filename, or
	// "<original> (See: <canonical>)" when this occurrence arrived under a
	// different name than the canonical copy.
	Ref string
	// Canonical is the canonical filename for the content.
	Canonical string
	// Text holds the extracted text for inline inclusion in the
	// machine-oriented transcript. Populated only on the first encounter of
	// a content, and only when a text surrogate exists.
	Text string
	// Duplicate reports whether the content had been exported before.
	Duplicate bool
}

// Stats counts what happened to the attachments of a run.
type Stats struct {
	Exported       int
	Duplicates     int
	SkippedMissing int
	SkippedIgnored int
	SkippedJunk    int
	BytesWritten   int64
}

// Canonicalizer deduplicates attachment content across the whole corpus and
// maintains the canonical-name registries. It must see attachments in
// chronological order: the first occurrence of a content wins the canonical
// name, and collision counters advance in encounter order. All state is
// explicit so the component stays testable in isolation.
type Canonicalizer struct {
	outDir  string
	ignored map[string]struct{}
	log     logging.Logger

	// canonical maps content fingerprint → canonical filename. Write-once:
	// an entry is never overwritten.
	canonical map[string]string
	// nameUses counts how many distinct contents claimed an export name,
	// used to disambiguate filename collisions.
	nameUses map[string]int

	stats Stats
}

// NewCanonicalizer returns a Canonicalizer that exports into outDir.
// ignoredFingerprints may be nil.
func NewCanonicalizer(outDir string, ignoredFingerprints map[string]struct{}, log logging.Logger) *Canonicalizer {
	if log == nil {
		log = logging.DefaultLogger()
	}
	if ignoredFingerprints == nil {
		ignoredFingerprints = map[string]struct{}{}
	}
	return &Canonicalizer{
		outDir:    outDir,
		ignored:   ignoredFingerprints,
		log:       log,
		canonical: map[string]string{},
		nameUses:  map[string]int{},
	}
}

// PrepareOutputDir clears and recreates the export directory. Outputs are
// fully regenerated each run, so stale files from previous runs must go.
func (c *Canonicalizer) PrepareOutputDir() error {
	if err := os.RemoveAll(c.outDir); err != nil {
		return fmt.Errorf("failed to clear attachment output dir %s: %w", c.outDir, err)
	}
	if err := os.MkdirAll(c.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create attachment output dir %s: %w", c.outDir, err)
	}
	return nil
}

// Stats returns the counters accumulated so far.
func (c *Canonicalizer) Stats() Stats {
	return c.stats
}

// Process handles one attachment occurrence. A nil Result (with nil error)
// means the attachment is skipped entirely: missing on disk, fingerprint on
// the ignore list, or junk. Errors are reserved for failures writing the
// export copy; callers may degrade those to omission as well.
func (c *Canonicalizer) Process(att corpus.Attachment) (*Result, error) {
	info, err := os.Stat(att.Path)
	if errors.Is(err, fs.ErrNotExist) {
		c.stats.SkippedMissing++
		c.log.Debug("attachment missing on disk", logging.Attachment(att.Filename))
		return nil, nil
	}
	if err != nil {
		c.stats.SkippedMissing++
		c.log.Warn("attachment unreadable", logging.Attachment(att.Filename), logging.Err(err))
		return nil, nil
	}

	if isJunkImage(att.Filename, info.Size()) {
		c.stats.SkippedJunk++
		c.log.Debug("attachment skipped as junk image", logging.Attachment(att.Filename))
		return nil, nil
	}

	fp, err := fingerprintFile(att.Path)
	if err != nil {
		c.stats.SkippedMissing++
		c.log.Warn("failed to fingerprint attachment",
			logging.Attachment(att.Filename),
			logging.Status(logging.StatusError),
			logging.Err(err))
		return nil, nil
	}

	if _, ok := c.ignored[fp]; ok {
		c.stats.SkippedIgnored++
		c.log.Debug("attachment on ignore list", logging.Attachment(att.Filename), logging.Fingerprint(fp))
		return nil, nil
	}

	if canonical, seen := c.canonical[fp]; seen {
		c.stats.Duplicates++
		res := &Result{Ref: canonical, Canonical: canonical, Duplicate: true}
		if name := sanitizeName(att.Filename); name != canonical {
			res.Ref = fmt.Sprintf("%s (See: %s)", name, canonical)
		}
		c.log.Debug("attachment deduplicated",
			logging.Attachment(att.Filename),
			logging.Fingerprint(fp),
			logging.Status(logging.StatusSkipped))
		return res, nil
	}

	return c.export(att, fp)
}

// export writes the first occurrence of a content and registers its
// canonical name.
func (c *Canonicalizer) export(att corpus.Attachment, fp string) (*Result, error) {
	srcPath := att.Path
	exportName := sanitizeName(att.Filename)

	var text string
	if att.HasText && att.TextPath != "" {
		if data, err := os.ReadFile(att.TextPath); err == nil {
			// Prefer the text surrogate; the .txt suffix marks the swap.
			srcPath = att.TextPath
			exportName += ".txt"
			text = string(data)
		} else {
			c.log.Warn("text sidecar unreadable, falling back to binary copy",
				logging.Attachment(att.Filename), logging.Err(err))
		}
	}

	resolved := c.resolveName(exportName)

	written, err := copyFile(srcPath, filepath.Join(c.outDir, resolved))
	if err != nil {
		return nil, fmt.Errorf("failed to export attachment %s: %w", att.Filename, err)
	}

	c.canonical[fp] = resolved
	c.stats.Exported++
	c.stats.BytesWritten += written

	c.log.Debug("attachment exported",
		logging.Attachment(resolved),
		logging.Fingerprint(fp),
		logging.Status(logging.StatusSuccess))

	return &Result{Ref: resolved, Canonical: resolved, Text: text}, nil
}

// resolveName disambiguates export names claimed by distinct contents. The
// first use of a name is unsuffixed; later uses get an incrementing counter
// before the extension (invoice.pdf → invoice_1.pdf → invoice_2.pdf).
func (c *Canonicalizer) resolveName(name string) string {
	uses := c.nameUses[name]
	c.nameUses[name]++
	if uses == 0 {
		return name
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%d%s", base, uses, ext)
}

// fingerprintFile hashes the full byte stream in chunks. SHA-256 is overkill
// for integrity but cheap, and hex output doubles as the on-disk ignore-list
// format.
func fingerprintFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, err
	}
	return n, out.Close()
}

func isJunkImage(filename string, size int64) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := junkImageExts[ext]; !ok {
		return false
	}
	return size < junkImageMaxSize
}

// sanitizeName strips path separators and traversal sequences so an
// attachment filename can never escape the export directory.
func sanitizeName(filename string) string {
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.ReplaceAll(filename, "..", "_")
	return filename
}
