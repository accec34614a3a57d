package sitebaymcp

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"cdr.dev/slog"
	"cdr.dev/slog/sloggers/slogtest"
	"github.com/stretchr/testify/require"

	"github.com/sitebay/sitebay-mcp/testutil"
)

func TestServeStdioStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstreamServer(t)
	logger := slogtest.Make(t, nil).Leveled(slog.LevelDebug)
	srv, err := New(Config{Token: "test-token", BaseURL: upstream.URL}, logger, nil, nil)
	require.NoError(t, err)

	in, inW := io.Pipe()
	t.Cleanup(func() {
		// Unblock the transport's stdin reader.
		_ = inW.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.serveStdio(ctx, in, &bytes.Buffer{})
	}()

	cancel()
	select {
	case err := <-done:
		// Cancellation is a normal shutdown, not an error.
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("stdio server did not stop on context cancellation")
	}
}
