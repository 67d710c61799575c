package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation   = "operation"
	KeyThread      = "thread"
	KeyMessage     = "message"
	KeyAttachment  = "attachment"
	KeyFingerprint = "fingerprint"
	KeyStatus      = "status"
	KeyError       = "error"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// Thread returns a slog attribute for a thread identifier.
func Thread(id string) slog.Attr {
	return slog.String(KeyThread, id)
}

// Message returns a slog attribute for a message identifier.
func Message(id string) slog.Attr {
	return slog.String(KeyMessage, id)
}

// Attachment returns a slog attribute for an attachment filename.
func Attachment(name string) slog.Attr {
	return slog.String(KeyAttachment, name)
}

// Fingerprint returns a slog attribute for an attachment content fingerprint.
// Only the first 12 hex characters are logged; that is enough to correlate
// entries without flooding the output.
func Fingerprint(fp string) slog.Attr {
	if len(fp) > 12 {
		fp = fp[:12]
	}
	return slog.String(KeyFingerprint, fp)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
// This allows safely passing Err(maybeNilErr) without adding empty attributes.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		// Return an empty Group that slog will omit from output
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeEmail returns a hashed representation of an email for logging purposes.
// This allows correlation of log entries without exposing PII.
func AnonymizeEmail(email string) string {
	if email == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(email))
	return "user:" + hex.EncodeToString(hash[:8])
}

// Sender returns a slog attribute with the anonymized sender address.
// Transcript bodies necessarily contain addresses; the logs do not have to.
func Sender(email string) slog.Attr {
	return slog.String("sender_hash", AnonymizeEmail(email))
}
