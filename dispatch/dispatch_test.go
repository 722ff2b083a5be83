package dispatch_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"simdisk/dispatch"
	"simdisk/fs"
	"simdisk/mailbox"
)

func newRunningDispatcher(t *testing.T) (*mailbox.Transport, context.CancelFunc) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.img")
	fsys, err := fs.Format(path)
	require.NoError(t, err)
	t.Cleanup(func() { fsys.Close() })

	transport := mailbox.NewTransport(8)
	d := dispatch.New(fsys, transport)

	ctx, cancel := context.WithCancel(context.Background())
	go d.Ingress(ctx)
	go d.Worker(ctx)
	return transport, cancel
}

func roundTrip(t *testing.T, transport *mailbox.Transport, req mailbox.Request) mailbox.Response {
	t.Helper()
	ch := transport.AwaitResponse(req.ID)
	require.NoError(t, transport.Send(context.Background(), req))
	select {
	case resp := <-ch:
		return resp
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatcher response")
		return mailbox.Response{}
	}
}

func TestNewSessionThenCommandThenExit(t *testing.T) {
	transport, cancel := newRunningDispatcher(t)
	defer cancel()

	resp := roundTrip(t, transport, mailbox.Request{PID: 100, ID: 1, Option: mailbox.OptionNew})
	require.Equal(t, mailbox.Success, resp.Code)

	resp = roundTrip(t, transport, mailbox.Request{PID: 100, ID: 2, Data: "info"})
	require.Equal(t, mailbox.Success, resp.Code)
	require.NotEmpty(t, resp.Data)

	resp = roundTrip(t, transport, mailbox.Request{PID: 100, ID: 3, Data: "exit"})
	require.Equal(t, mailbox.Success, resp.Code)

	resp = roundTrip(t, transport, mailbox.Request{PID: 100, ID: 4, Data: "info"})
	require.Equal(t, mailbox.Failure, resp.Code)
}

func TestExternalEditorCheckoutWriteBack(t *testing.T) {
	transport, cancel := newRunningDispatcher(t)
	defer cancel()

	roundTrip(t, transport, mailbox.Request{PID: 500, ID: 1, Option: mailbox.OptionNew})
	roundTrip(t, transport, mailbox.Request{PID: 500, ID: 2, Data: "newfile /root/edited.txt"})
	roundTrip(t, transport, mailbox.Request{PID: 501, ID: 1, Option: mailbox.OptionNew})

	resp := roundTrip(t, transport, mailbox.Request{PID: 500, ID: 3, Data: "-w /root/edited.txt", Option: mailbox.OptionGet})
	require.Equal(t, mailbox.Success, resp.Code)
	hostPath := resp.Data
	require.NotEmpty(t, hostPath)

	// A second shell's write checkout on the same file must be refused
	// while the first is still open.
	resp = roundTrip(t, transport, mailbox.Request{PID: 501, ID: 2, Data: "-w /root/edited.txt", Option: mailbox.OptionGet})
	require.Equal(t, mailbox.Locked, resp.Code)

	require.NoError(t, os.WriteFile(hostPath, []byte("edited externally"), 0o600))

	resp = roundTrip(t, transport, mailbox.Request{PID: 500, ID: 5, Option: mailbox.OptionWrite})
	require.Equal(t, mailbox.Success, resp.Code)

	resp = roundTrip(t, transport, mailbox.Request{PID: 500, ID: 6, Data: "cat /root/edited.txt"})
	require.Equal(t, mailbox.Success, resp.Code)
	require.Equal(t, "edited externally", resp.Data)
}

func TestCopyFromHostIntoImage(t *testing.T) {
	transport, cancel := newRunningDispatcher(t)
	defer cancel()

	roundTrip(t, transport, mailbox.Request{PID: 600, ID: 1, Option: mailbox.OptionNew})

	hostFile := filepath.Join(t.TempDir(), "motd")
	require.NoError(t, os.WriteFile(hostFile, []byte("welcome"), 0o644))

	resp := roundTrip(t, transport, mailbox.Request{PID: 600, ID: 2, Data: "copy <host>" + hostFile + " /root/motd"})
	require.Equal(t, mailbox.Success, resp.Code)

	resp = roundTrip(t, transport, mailbox.Request{PID: 600, ID: 3, Data: "cat /root/motd"})
	require.Equal(t, mailbox.Success, resp.Code)
	require.Equal(t, "welcome", resp.Data)
}

func TestCommandWithoutSessionFails(t *testing.T) {
	transport, cancel := newRunningDispatcher(t)
	defer cancel()

	resp := roundTrip(t, transport, mailbox.Request{PID: 200, ID: 1, Data: "info"})
	require.Equal(t, mailbox.Failure, resp.Code)
}

func TestUnknownCommandFails(t *testing.T) {
	transport, cancel := newRunningDispatcher(t)
	defer cancel()

	roundTrip(t, transport, mailbox.Request{PID: 300, ID: 1, Option: mailbox.OptionNew})

	resp := roundTrip(t, transport, mailbox.Request{PID: 300, ID: 2, Data: "bogus"})
	require.Equal(t, mailbox.Failure, resp.Code)
}

func TestMakeDirectoryThenDuplicateReturnsExists(t *testing.T) {
	transport, cancel := newRunningDispatcher(t)
	defer cancel()

	roundTrip(t, transport, mailbox.Request{PID: 400, ID: 1, Option: mailbox.OptionNew})

	resp := roundTrip(t, transport, mailbox.Request{PID: 400, ID: 2, Data: "md /tmp"})
	require.Equal(t, mailbox.Success, resp.Code)

	resp = roundTrip(t, transport, mailbox.Request{PID: 400, ID: 3, Data: "md /tmp"})
	require.Equal(t, mailbox.Exists, resp.Code)
}

func TestRemoveDirectoryTwoPhaseConfirm(t *testing.T) {
	transport, cancel := newRunningDispatcher(t)
	defer cancel()

	roundTrip(t, transport, mailbox.Request{PID: 700, ID: 1, Option: mailbox.OptionNew})
	roundTrip(t, transport, mailbox.Request{PID: 700, ID: 2, Data: "md /a"})
	roundTrip(t, transport, mailbox.Request{PID: 700, ID: 3, Data: "newfile /a/x"})

	resp := roundTrip(t, transport, mailbox.Request{PID: 700, ID: 4, Data: "rd /a"})
	require.Equal(t, mailbox.WaitRequest, resp.Code)

	resp = roundTrip(t, transport, mailbox.Request{PID: 700, ID: 5, Data: "dir /"})
	require.Equal(t, mailbox.Success, resp.Code)
	require.Contains(t, resp.Data, "a")

	resp = roundTrip(t, transport, mailbox.Request{PID: 700, ID: 6, Data: "rd /a", Option: mailbox.OptionResponse})
	require.Equal(t, mailbox.Success, resp.Code)

	resp = roundTrip(t, transport, mailbox.Request{PID: 700, ID: 7, Data: "dir /"})
	require.Equal(t, mailbox.Success, resp.Code)
	require.NotContains(t, strings.Split(resp.Data, "\n"), "a")
}
