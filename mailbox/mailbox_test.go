package mailbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"simdisk/mailbox"
)

func TestSendDeliversToRequestsChannel(t *testing.T) {
	tr := mailbox.NewTransport(1)
	ctx := context.Background()

	req := mailbox.Request{PID: 1, ID: 42, Data: "info", Option: mailbox.OptionGet}
	require.NoError(t, tr.Send(ctx, req))

	got := <-tr.Requests()
	require.Equal(t, req, got)
}

func TestSendRespectsContextCancellation(t *testing.T) {
	tr := mailbox.NewTransport(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tr.Send(ctx, mailbox.Request{ID: 1})
	require.ErrorIs(t, err, context.Canceled)
}

func TestAwaitResponseReceivesDelivery(t *testing.T) {
	tr := mailbox.NewTransport(1)
	ch := tr.AwaitResponse(7)

	tr.Deliver(mailbox.Response{ID: 7, Code: mailbox.Success, Data: "ok"})

	select {
	case resp := <-ch:
		require.Equal(t, mailbox.Success, resp.Code)
		require.Equal(t, "ok", resp.Data)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivered response")
	}
}

func TestDeliverWithNoWaiterIsANoop(t *testing.T) {
	tr := mailbox.NewTransport(1)
	require.NotPanics(t, func() {
		tr.Deliver(mailbox.Response{ID: 99, Code: mailbox.Failure})
	})
}
