package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.json")

	data := `[
		{"id": "t1", "subject": "March", "messages": [
			{"id": "m1", "date": "2023-03-01T09:00:00+01:00", "from": "a@example.com", "body": "hello"}
		]},
		{"id": "t2", "subject": "Empty", "messages": []},
		{"id": "t3", "subject": "January", "messages": [
			{"id": "m2", "date": "2023-01-15T08:00:00+01:00", "from": "b@example.com", "body": "hi",
			 "attachments": [{"filename": "doc.pdf", "path": "/tmp/doc.pdf", "has_text_file": true, "text_file_path": "/tmp/doc.pdf_to_text.txt"}]}
		]},
		{"id": "t4", "subject": "February", "messages": [
			{"id": "m3", "date": "2023-02-10T10:00:00+01:00", "from": "c@example.com", "body": "hey"}
		]}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	threads, err := Load(path)
	require.NoError(t, err)

	// Empty thread dropped, remainder in chronological order.
	require.Len(t, threads, 3)
	assert.Equal(t, "t3", threads[0].ID)
	assert.Equal(t, "t4", threads[1].ID)
	assert.Equal(t, "t1", threads[2].ID)

	att := threads[0].Messages[0].Attachments[0]
	assert.Equal(t, "doc.pdf", att.Filename)
	assert.True(t, att.HasText)
	assert.Equal(t, "/tmp/doc.pdf_to_text.txt", att.TextPath)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDateOnly(t *testing.T) {
	m := Message{Date: "2023-01-15T08:00:00+01:00"}
	assert.Equal(t, "2023-01-15", m.DateOnly())

	short := Message{Date: "2023"}
	assert.Equal(t, "2023", short.DateOnly())

	empty := Message{}
	assert.Equal(t, "", empty.DateOnly())
}

func TestSortStable(t *testing.T) {
	threads := []Thread{
		{ID: "a", Messages: []Message{{Date: "2023-05-01T00:00:00Z"}}},
		{ID: "b", Messages: []Message{{Date: "2023-05-01T00:00:00Z"}}},
	}
	sorted := Sort(threads)
	require.Len(t, sorted, 2)
	assert.Equal(t, "a", sorted[0].ID)
	assert.Equal(t, "b", sorted[1].ID)
}
