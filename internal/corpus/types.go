package corpus

// AttachmentOnlyBody is the placeholder the upstream extraction stage writes
// when a message carried nothing but attachments. It keeps the message alive
// for attachment processing but contributes no transcript text.
const AttachmentOnlyBody = "[Attachment Only]"

// Attachment describes a single attachment as recorded by the upstream
// extraction stage. Identity for deduplication is the content fingerprint of
// the bytes at Path, never the filename.
type Attachment struct {
	Filename   string `json:"filename"`
	Path       string `json:"path"`
	HasText    bool   `json:"has_text_file,omitempty"`
	TextPath   string `json:"text_file_path,omitempty"`
	IsImagePDF bool   `json:"is_image_pdf,omitempty"`
	Size       int64  `json:"size,omitempty"`
}

// Message is one email within a thread. Messages are immutable once loaded;
// all filtering happens on copies of the body text.
type Message struct {
	ID          string       `json:"id"`
	Date        string       `json:"date"`
	From        string       `json:"from"`
	To          string       `json:"to,omitempty"`
	Subject     string       `json:"subject,omitempty"`
	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// DateOnly returns the date-only projection of the message timestamp
// (the first 10 characters of an ISO-8601 value, e.g. "2023-01-15").
func (m *Message) DateOnly() string {
	if len(m.Date) < 10 {
		return m.Date
	}
	return m.Date[:10]
}

// Thread is an ordered conversation. Messages are already chronological as
// produced by the upstream stage.
type Thread struct {
	ID       string    `json:"id"`
	Subject  string    `json:"subject"`
	Messages []Message `json:"messages"`
}

// StartDate returns the timestamp of the thread's first message, or the
// empty string for a message-less thread. Used for chronological thread
// ordering; the ISO-8601 form sorts correctly as a plain string.
func (t *Thread) StartDate() string {
	if len(t.Messages) == 0 {
		return ""
	}
	return t.Messages[0].Date
}
