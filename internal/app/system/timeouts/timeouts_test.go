package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigure_KeepsUnsetValues(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Short: time.Second, Upload: 2 * time.Minute})
	if Short() != time.Second {
		t.Errorf("Short() = %v, want 1s", Short())
	}
	if Upload() != 2*time.Minute {
		t.Errorf("Upload() = %v, want 2m", Upload())
	}
	if Medium() != Defaults().Medium {
		t.Errorf("Medium() = %v, zero override should keep %v", Medium(), Defaults().Medium)
	}

	Configure(Config{Ping: 3 * time.Second})
	if Short() != time.Second {
		t.Errorf("Short() = %v, earlier override should survive a later Configure", Short())
	}

	Reset()
	if Short() != Defaults().Short {
		t.Errorf("Short() after Reset = %v, want %v", Short(), Defaults().Short)
	}
}

func TestWithTimeout_LogsOnDeadline(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.New(core), "upload media")
	<-ctx.Done()
	cancel()

	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("ctx.Err() = %v, want DeadlineExceeded", ctx.Err())
	}
	if got := logs.FilterField(zap.String("operation", "upload media")).Len(); got != 1 {
		t.Errorf("timeout warnings = %d, want 1", got)
	}
}

func TestWithTimeout_QuietOnCancel(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	_, cancel := WithTimeout(context.Background(), time.Minute, zap.New(core), "save")
	cancel()

	if logs.Len() != 0 {
		t.Errorf("warnings = %d, want none when the call finished in time", logs.Len())
	}
}
