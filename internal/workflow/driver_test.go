package workflow

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mdocx/internal/client"
	"mdocx/internal/download"
	"mdocx/internal/errors"
	"mdocx/internal/intake"
	"mdocx/internal/probe"
	"mdocx/internal/testutil"
	"mdocx/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDriver(t *testing.T, fake *testutil.FakeService) (*Driver, string) {
	t.Helper()
	out := t.TempDir()
	svc := client.New(fake.URL(), client.WithProbeTimeout(time.Second))
	s := New(Deps{
		Converter:  svc,
		Downloader: download.New(out, download.CollisionRename),
		Probe:      svc,
	}, 10*1024*1024, "")
	return NewDriver(s), out
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestDriverConvertFile(t *testing.T) {
	fake := testutil.NewFakeService(t)
	d, out := newDriver(t, fake)
	ctx := testContext(t)
	d.Dispatch(TemplateSelectedMsg{Name: "corporate"})
	_, err := d.Run(ctx, func(s State) bool { return s.Templates.Selected() == "corporate" })
	require.NoError(t, err)

	cand, err := intake.FromPath(writeFile(t, "notes.md", "# Notes\n\nSome text.\n"))
	require.NoError(t, err)

	s, err := d.ConvertFile(ctx, cand)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "document.docx"), s.LastPath())
	got, err := os.ReadFile(s.LastPath())
	require.NoError(t, err)
	assert.Equal(t, testutil.FakeDocument, got)

	uploads := fake.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "notes.md", uploads[0].Filename)
	assert.Equal(t, "# Notes\n\nSome text.\n", string(uploads[0].Content))
	assert.Equal(t, "corporate", uploads[0].Template)
}

func TestDriverConvertFileServiceError(t *testing.T) {
	fake := testutil.NewFakeService(t)
	fake.ConvertStatus = http.StatusInternalServerError
	fake.ConvertBody = []byte(`{"error":"pandoc not found"}`)
	fake.ConvertContentType = "application/json"
	d, out := newDriver(t, fake)

	cand, err := intake.FromPath(writeFile(t, "notes.md", "# Notes\n"))
	require.NoError(t, err)

	s, err := d.ConvertFile(testContext(t), cand)
	require.Error(t, err)
	assert.True(t, errors.IsService(err))
	assert.Equal(t, "conversion failed: pandoc not found", errors.UserMessage(err))
	assert.False(t, s.Busy())
	assert.Equal(t, "notes.md", s.Intake.File().Name)

	entries, _ := os.ReadDir(out)
	assert.Empty(t, entries)
}

func TestDriverConvertFileRejected(t *testing.T) {
	fake := testutil.NewFakeService(t)
	d, _ := newDriver(t, fake)

	cand, err := intake.FromPath(writeFile(t, "image.png", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	require.NoError(t, err)

	_, err = d.ConvertFile(testContext(t), cand)
	require.Error(t, err)
	assert.Equal(t, intake.MsgInvalidFile, errors.UserMessage(err))
	assert.Empty(t, fake.Uploads())
}

func TestDriverDropsSubmitWhileAwaiting(t *testing.T) {
	fake := testutil.NewFakeService(t)
	hold := make(chan struct{})
	fake.Hold = hold
	d, _ := newDriver(t, fake)
	ctx := testContext(t)

	cand, err := intake.FromPath(writeFile(t, "notes.md", "# Notes\n"))
	require.NoError(t, err)

	d.Dispatch(FileChosenMsg{Candidate: cand})
	d.Dispatch(SubmitMsg{})
	_, err = d.Run(ctx, func(s State) bool { return s.Phase() == AwaitingResponse })
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(fake.Uploads()) == 1 }, 5*time.Second, 10*time.Millisecond)

	// The drag marker is queued behind the submission, so seeing it means
	// the submission was handled.
	d.Dispatch(SubmitMsg{})
	d.Dispatch(DragMsg{Active: true})
	s, err := d.Run(ctx, func(s State) bool { return s.Intake.Dragging() })
	require.NoError(t, err)
	assert.True(t, s.Busy())
	assert.Equal(t, AwaitingResponse, s.Phase())

	close(hold)
	s, err = d.Run(ctx, func(s State) bool { return s.Finished() == 1 })
	require.NoError(t, err)
	assert.Equal(t, Succeeded, s.LastOutcome())
	assert.Len(t, fake.Uploads(), 1, "no duplicate request")
}

func TestDriverStartRunsProbe(t *testing.T) {
	fake := testutil.NewFakeService(t)
	fake.PandocAvailable = false
	fake.Templates = []string{"corporate", "letter", "corporate"}
	d, _ := newDriver(t, fake)

	var changes int
	d.OnChange(func(State) { changes++ })
	d.Start()

	s, err := d.Run(testContext(t), func(s State) bool {
		return s.Templates.Len() > 0 && s.Status.Pending()
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"corporate", "letter"}, s.Templates.Names())
	assert.Equal(t, types.StatusMessage{Text: probe.MsgPandocMissing, Severity: types.SeverityWarning}, s.Status.Current())
	assert.Equal(t, 2, changes)
}

func TestDriverRunHonoursContext(t *testing.T) {
	fake := testutil.NewFakeService(t)
	d, _ := newDriver(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
