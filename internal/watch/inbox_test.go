package watch_test

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"mdocx/internal/client"
	"mdocx/internal/config"
	"mdocx/internal/download"
	"mdocx/internal/errors"
	"mdocx/internal/testutil"
	"mdocx/internal/watch"
	"mdocx/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInbox(t *testing.T, fake *testutil.FakeService) (*watch.Inbox, *config.Config, <-chan watch.Result) {
	t.Helper()
	tmp := t.TempDir()
	cfg := config.NewTestConfig(fake.URL(), filepath.Join(tmp, "out"))
	cfg.Inbox.Directory = filepath.Join(tmp, "inbox")
	require.NoError(t, os.Mkdir(cfg.Inbox.Directory, 0755))

	svc := client.New(cfg.Service.URL)
	d := workflow.NewDriver(workflow.New(workflow.Deps{
		Converter:  svc,
		Downloader: download.NewWithConfig(cfg),
	}, cfg.Intake.MaxSize, ""))

	inbox, err := watch.NewInbox(cfg, d)
	require.NoError(t, err)
	inbox.Watcher().SetSettle(50 * time.Millisecond)

	results := make(chan watch.Result, 4)
	inbox.SetCallback(func(r watch.Result) { results <- r })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- inbox.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.Eventually(t, func() bool { return inbox.Status().Running }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	return inbox, cfg, results
}

func waitResult(t *testing.T, results <-chan watch.Result) watch.Result {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for inbox result")
		return watch.Result{}
	}
}

func TestInboxConvertsDroppedFiles(t *testing.T) {
	fake := testutil.NewFakeService(t)
	inbox, cfg, results := newInbox(t, fake)

	src := filepath.Join(cfg.Inbox.Directory, "notes.md")
	require.NoError(t, os.WriteFile(src, []byte("# Notes\n"), 0644))

	r := waitResult(t, results)
	require.NoError(t, r.Err)
	assert.Equal(t, src, r.Source)
	assert.Equal(t, filepath.Join(cfg.Output.Directory, "document.docx"), r.Output)

	data, err := os.ReadFile(r.Output)
	require.NoError(t, err)
	assert.Equal(t, testutil.FakeDocument, data)

	testutil.WriteFiles(t, cfg.Inbox.Directory, map[string]string{"more.markdown": "# More\n"})
	r = waitResult(t, results)
	require.NoError(t, r.Err)
	assert.Equal(t, filepath.Join(cfg.Output.Directory, "document (1).docx"), r.Output)

	st := inbox.Status()
	assert.Equal(t, 2, st.Converted)
	assert.Zero(t, st.Failed)
	assert.False(t, st.LastActivity.IsZero())
	assert.Len(t, fake.Uploads(), 2)
}

func TestInboxReportsFailures(t *testing.T) {
	fake := testutil.NewFakeService(t)
	fake.ConvertStatus = http.StatusInternalServerError
	fake.ConvertBody = []byte(`{"error":"pandoc not found"}`)
	inbox, cfg, results := newInbox(t, fake)

	testutil.WriteFiles(t, cfg.Inbox.Directory, map[string]string{"notes.md": "# Notes\n"})

	r := waitResult(t, results)
	require.Error(t, r.Err)
	assert.Equal(t, "conversion failed: pandoc not found", errors.UserMessage(r.Err))
	assert.Empty(t, r.Output)
	assert.Equal(t, 1, inbox.Status().Failed)
}

func TestInboxQueuesFilesDuringConversion(t *testing.T) {
	fake := testutil.NewFakeService(t)
	hold := make(chan struct{})
	fake.Hold = hold
	release := sync.OnceFunc(func() { close(hold) })
	t.Cleanup(release)
	inbox, cfg, results := newInbox(t, fake)

	first := filepath.Join(cfg.Inbox.Directory, "a00.md")
	require.NoError(t, os.WriteFile(first, []byte("# First\n"), 0644))
	require.Eventually(t, func() bool { return len(fake.Uploads()) == 1 }, 3*time.Second, 10*time.Millisecond)

	want := map[string]bool{first: true}
	files := make(map[string]string)
	for i := 1; i <= 20; i++ {
		name := fmt.Sprintf("f%02d.md", i)
		files[name] = "# Queued\n"
		want[filepath.Join(cfg.Inbox.Directory, name)] = true
	}
	testutil.WriteFiles(t, cfg.Inbox.Directory, files)
	// Every queued file settles while the first conversion is still held.
	time.Sleep(500 * time.Millisecond)
	release()

	got := make(map[string]bool, len(want))
	for len(got) < len(want) {
		r := waitResult(t, results)
		require.NoError(t, r.Err, r.Source)
		got[r.Source] = true
	}
	assert.Equal(t, want, got)
	assert.Equal(t, len(want), inbox.Status().Converted)
	assert.Len(t, fake.Uploads(), len(want))
}

func TestNewInboxRequiresDirectory(t *testing.T) {
	cfg := config.NewTestConfig("http://localhost:5000", t.TempDir())
	_, err := watch.NewInbox(cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfig(err))
}
