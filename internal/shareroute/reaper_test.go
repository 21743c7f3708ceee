package shareroute

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

func TestStartReaperSweeps(t *testing.T) {
	mock := newMock(t)

	// The loop may tick more than once before cancellation.
	for i := 0; i < 20; i++ {
		mock.ExpectExec(`DELETE FROM shared_routes WHERE expires_at`).
			WithArgs(pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
	}

	svc := NewService(mock, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.StartReaper(ctx, 5*time.Millisecond)
		close(done)
	}()

	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("reaper did not stop on cancel")
	}
}

func TestStartReaperDisabled(t *testing.T) {
	svc := NewService(nil, nil)

	done := make(chan struct{})
	go func() {
		svc.StartReaper(context.Background(), 0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("reaper must return immediately when disabled")
	}
}
