package transcript

import (
	"fmt"
	"strings"

	"github.com/simplenotezy/email-timeline-and-llm-analysis/internal/alias"
	"github.com/simplenotezy/email-timeline-and-llm-analysis/internal/attach"
	"github.com/simplenotezy/email-timeline-and-llm-analysis/internal/corpus"
	"github.com/simplenotezy/email-timeline-and-llm-analysis/internal/logging"
	"github.com/simplenotezy/email-timeline-and-llm-analysis/internal/textfilter"
)

const (
	threadBanner    = "=================================================="
	messageDivider  = "--------------------"
	emptyBodyMarker = "(Empty body / All text was repeated content)"
)

// Stats counts what the assembler emitted.
type Stats struct {
	Threads         int
	Messages        int
	IgnoredMessages int
	LLMEntries      int
}

// Output holds the two rendered transcripts and the flattened timeline rows
// for the CSV export.
type Output struct {
	LLM   string
	Human string
	Rows  []TimelineRow
	Stats Stats
}

// TimelineRow is one message flattened for the CSV timeline.
type TimelineRow struct {
	Date        string
	From        string
	Subject     string
	Body        string
	Attachments string
}

// csvBodyLimit caps the body column so the CSV stays manageable in a
// spreadsheet while remaining useful.
const csvBodyLimit = 1000

// Builder assembles the transcripts. It owns the per-thread dedup state and
// drives the attachment canonicalizer in chronological order; a Builder is
// single-use per run.
type Builder struct {
	Filter          *textfilter.Filter
	Aliases         *alias.Resolver
	Attachments     *attach.Canonicalizer
	IgnoredMessages map[string]struct{}
	Log             logging.Logger
}

// Run processes all threads and renders both transcripts. Threads are
// ordered ascending by first-message date; threads whose messages are all
// ignored are dropped from both outputs.
func (b *Builder) Run(threads []corpus.Thread) *Output {
	log := b.Log
	if log == nil {
		log = logging.DefaultLogger()
	}

	out := &Output{}
	var llm, human strings.Builder
	deduper := textfilter.NewDeduper()

	for _, thread := range corpus.Sort(threads) {
		deduper.Reset()

		var llmBody, humanBody strings.Builder
		emitted := 0

		for i := range thread.Messages {
			msg := &thread.Messages[i]
			if _, ignored := b.IgnoredMessages[msg.ID]; ignored {
				out.Stats.IgnoredMessages++
				log.Debug("message ignored", logging.Thread(thread.ID), logging.Message(msg.ID))
				continue
			}
			emitted++
			out.Stats.Messages++
			b.renderMessage(log, &thread, msg, deduper, &llmBody, &humanBody, out)
		}

		if emitted == 0 {
			log.Debug("thread dropped, no retained messages", logging.Thread(thread.ID))
			continue
		}
		out.Stats.Threads++

		fmt.Fprintf(&llm, "# THREAD: %s\n", thread.Subject)
		llm.WriteString(llmBody.String())
		llm.WriteString("\n")

		fmt.Fprintf(&human, "%s\nTHREAD ID: %s\nSUBJECT: %s\n%s\n", threadBanner, thread.ID, thread.Subject, threadBanner)
		human.WriteString(humanBody.String())
		human.WriteString("\n")
	}

	out.LLM = llm.String()
	out.Human = human.String()
	return out
}

func (b *Builder) renderMessage(log logging.Logger, thread *corpus.Thread, msg *corpus.Message, deduper *textfilter.Deduper, llm, human *strings.Builder, out *Output) {
	body := msg.Body
	if body == corpus.AttachmentOnlyBody {
		// Upstream placeholder for attachment-only messages; the message
		// stays alive for attachment processing but carries no text.
		body = ""
	}

	lines := deduper.Apply(b.Filter.FilterBody(body))
	bodyText := strings.Join(lines, " ")
	resolved := b.Aliases.Resolve(msg.From)

	var refs []string
	var inline []attach.Result
	for _, att := range msg.Attachments {
		res, err := b.Attachments.Process(att)
		if err != nil {
			// Degrade to omission; one broken attachment must not sink the run.
			log.Warn("attachment export failed",
				logging.Thread(thread.ID),
				logging.Message(msg.ID),
				logging.Attachment(att.Filename),
				logging.Err(err))
			continue
		}
		if res == nil {
			continue
		}
		refs = append(refs, res.Ref)
		if res.Text != "" {
			inline = append(inline, *res)
		}
	}

	log.Debug("message rendered",
		logging.Thread(thread.ID),
		logging.Message(msg.ID),
		logging.Sender(msg.From))

	// Machine-oriented entry: only when there is something to say.
	if bodyText != "" || len(refs) > 0 {
		out.Stats.LLMEntries++
		fmt.Fprintf(llm, "[%s] %s: %s", msg.DateOnly(), resolved, bodyText)
		if len(refs) > 0 {
			fmt.Fprintf(llm, " <Attachments: %s>", strings.Join(refs, ", "))
		}
		llm.WriteString("\n")
		for _, res := range inline {
			fmt.Fprintf(llm, "--- Attachment: %s ---\n%s\n--- End attachment ---\n", res.Canonical, strings.TrimRight(res.Text, "\n"))
		}
	}

	// Human-oriented block: always emitted for a non-ignored message.
	fmt.Fprintf(human, "MSG ID: %s\n", msg.ID)
	fmt.Fprintf(human, "Date:   %s\n", msg.Date)
	if resolved != msg.From && msg.From != "" {
		fmt.Fprintf(human, "From:   %s (%s)\n", msg.From, resolved)
	} else {
		fmt.Fprintf(human, "From:   %s\n", resolved)
	}
	if msg.To != "" {
		fmt.Fprintf(human, "To:     %s\n", msg.To)
	}
	human.WriteString(messageDivider + "\n")
	if bodyText != "" {
		human.WriteString(bodyText + "\n")
	} else {
		human.WriteString(emptyBodyMarker + "\n")
	}
	if len(refs) > 0 {
		human.WriteString("\nAttachments:\n")
		for _, ref := range refs {
			fmt.Fprintf(human, "  - %s\n", ref)
		}
	}
	human.WriteString("\n")

	subject := thread.Subject
	if msg.Subject != "" {
		subject = msg.Subject
	}
	out.Rows = append(out.Rows, TimelineRow{
		Date:        msg.DateOnly(),
		From:        resolved,
		Subject:     subject,
		Body:        truncate(bodyText, csvBodyLimit),
		Attachments: strings.Join(refs, "; "),
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
