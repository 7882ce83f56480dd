package notification

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityservice/platform-backend/internal/metrics"
)

type fakeChannel struct {
	name    string
	enabled bool
	err     error
	block   bool
	panics  bool
	calls   atomic.Int32
}

func (f *fakeChannel) Name() string { return f.name }
func (f *fakeChannel) IsEnabled() bool { return f.enabled }

func (f *fakeChannel) Send(ctx context.Context, recipient, message string) error {
	f.calls.Add(1)
	if f.panics {
		panic("transport exploded")
	}
	if f.block {
		select {}
	}
	return f.err
}

func newTestDispatcher(timeout time.Duration, channels ...Channel) (*Dispatcher, *metrics.Notification) {
	log, _ := test.NewNullLogger()
	m := metrics.NewNotification(prometheus.NewRegistry())
	return NewDispatcher(timeout, logrus.NewEntry(log), m, channels...), m
}

func TestNotify_SkipsDisabledAndUsesThirdChannel(t *testing.T) {
	first := &fakeChannel{name: "first"}
	second := &fakeChannel{name: "second"}
	third := &fakeChannel{name: "third", enabled: true}
	d, m := newTestDispatcher(time.Second, first, second, third)

	outcome := d.Notify(context.Background(), "+919876543210", "hi")

	assert.True(t, outcome.Delivered)
	assert.Equal(t, "third", outcome.Channel)
	assert.Equal(t, int32(0), first.calls.Load())
	assert.Equal(t, int32(0), second.calls.Load())
	assert.Equal(t, int32(1), third.calls.Load())
	require.Len(t, outcome.Attempts, 3)
	assert.True(t, outcome.Attempts[0].Skipped)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Dispatch.WithLabelValues(metrics.ResultDelivered)))
}

func TestNotify_FallsBackAfterFailure(t *testing.T) {
	primary := &fakeChannel{name: ChannelWhatsApp, enabled: true, err: errors.New("503")}
	secondary := &fakeChannel{name: ChannelSMS, enabled: true}
	d, m := newTestDispatcher(time.Second, primary, secondary)

	outcome := d.Notify(context.Background(), "+1", "hi")

	assert.True(t, outcome.Delivered)
	assert.Equal(t, ChannelSMS, outcome.Channel)
	assert.Equal(t, int32(1), primary.calls.Load())
	assert.Equal(t, int32(1), secondary.calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Attempts.WithLabelValues(ChannelWhatsApp, metrics.ResultFailed)))
}

func TestNotify_StopsAtFirstSuccess(t *testing.T) {
	primary := &fakeChannel{name: ChannelWhatsApp, enabled: true}
	secondary := &fakeChannel{name: ChannelSMS, enabled: true}
	d, _ := newTestDispatcher(time.Second, primary, secondary)

	outcome := d.Notify(context.Background(), "+1", "hi")

	assert.Equal(t, ChannelWhatsApp, outcome.Channel)
	assert.Equal(t, int32(0), secondary.calls.Load())
	assert.Len(t, outcome.Attempts, 1)
}

func TestNotify_AllDisabled(t *testing.T) {
	d, m := newTestDispatcher(time.Second, &fakeChannel{name: "a"}, &fakeChannel{name: "b"})

	outcome := d.Notify(context.Background(), "+1", "hi")

	assert.False(t, outcome.Delivered)
	assert.Empty(t, outcome.Channel)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Dispatch.WithLabelValues(metrics.ResultNotDelivered)))
}

func TestNotify_AllFailing(t *testing.T) {
	a := &fakeChannel{name: "a", enabled: true, err: errors.New("down")}
	b := &fakeChannel{name: "b", enabled: true, panics: true}
	d, _ := newTestDispatcher(time.Second, a, b)

	outcome := d.Notify(context.Background(), "+1", "hi")

	assert.False(t, outcome.Delivered)
	require.Len(t, outcome.Attempts, 2)
	assert.Error(t, outcome.Attempts[0].Err)
	assert.ErrorContains(t, outcome.Attempts[1].Err, "panic")
}

func TestNotify_PerAttemptTimeoutBoundsDispatch(t *testing.T) {
	a := &fakeChannel{name: "a", enabled: true, block: true}
	b := &fakeChannel{name: "b", enabled: true, block: true}
	d, _ := newTestDispatcher(20*time.Millisecond, a, b)

	start := time.Now()
	outcome := d.Notify(context.Background(), "+1", "hi")

	assert.False(t, outcome.Delivered)
	assert.Less(t, time.Since(start), d.MaxDuration()+200*time.Millisecond)
	assert.ErrorIs(t, outcome.Attempts[0].Err, context.DeadlineExceeded)
	assert.Equal(t, 40*time.Millisecond, d.MaxDuration())
}

func TestConfirmRegistration_Text(t *testing.T) {
	var got string
	ch := &recordingChannel{onSend: func(recipient, message string) { got = recipient + "|" + message }}
	d, _ := newTestDispatcher(time.Second, ch)

	outcome := d.ConfirmRegistration(context.Background(), "+919876543210", "Anu")

	assert.True(t, outcome.Delivered)
	assert.Equal(t, "+919876543210|"+RegistrationConfirmation("Anu"), got)
	assert.Contains(t, got, "Hello Anu! Your registration as a worker has been received.")
}

type recordingChannel struct {
	onSend func(recipient, message string)
}

func (r *recordingChannel) Name() string { return "recording" }
func (r *recordingChannel) IsEnabled() bool { return true }
func (r *recordingChannel) Send(ctx context.Context, recipient, message string) error {
	r.onSend(recipient, message)
	return nil
}
