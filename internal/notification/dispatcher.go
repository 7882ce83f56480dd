package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/communityservice/platform-backend/internal/metrics"
	"github.com/communityservice/platform-backend/internal/pkg/apperror"
)

// Attempt описывает обращение к одному каналу.
type Attempt struct {
	Channel  string
	Skipped  bool
	Err      error
	Duration time.Duration
}

// Outcome: итог отправки. Channel заполнен только при успешной доставке.
type Outcome struct {
	Delivered bool
	Channel   string
	Attempts  []Attempt
}

// Dispatcher перебирает каналы в порядке приоритета до первой успешной доставки.
// Ошибки каналов никогда не возвращаются вызывающему коду: они логируются
// и попадают в Outcome.
type Dispatcher struct {
	channels []Channel
	timeout  time.Duration
	log      *logrus.Entry
	metrics  *metrics.Notification
}

// NewDispatcher создаёт диспетчер. Порядок channels задаёт приоритет.
// timeout ограничивает каждую попытку отдельно.
func NewDispatcher(timeout time.Duration, log *logrus.Entry, m *metrics.Notification, channels ...Channel) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		timeout:  timeout,
		log:      log,
		metrics:  m,
	}
}

// MaxDuration: верхняя граница длительности Notify.
func (d *Dispatcher) MaxDuration() time.Duration {
	return time.Duration(len(d.channels)) * d.timeout
}

// Notify отправляет message получателю recipient через первый доступный канал.
func (d *Dispatcher) Notify(ctx context.Context, recipient, message string) Outcome {
	var outcome Outcome

	for _, ch := range d.channels {
		name := ch.Name()
		if !ch.IsEnabled() {
			outcome.Attempts = append(outcome.Attempts, Attempt{Channel: name, Skipped: true})
			d.countAttempt(name, metrics.ResultSkipped)
			continue
		}

		start := time.Now()
		err := d.attempt(ctx, ch, recipient, message)
		elapsed := time.Since(start)
		outcome.Attempts = append(outcome.Attempts, Attempt{Channel: name, Err: err, Duration: elapsed})
		if d.metrics != nil {
			d.metrics.Latency.WithLabelValues(name).Observe(elapsed.Seconds())
		}

		if err != nil {
			d.countAttempt(name, metrics.ResultFailed)
			d.log.WithFields(logrus.Fields{
				"channel": name,
				"error":   apperror.ExternalService(err, "notification channel failed").Error(),
			}).Warn("notification attempt failed")
			continue
		}

		d.countAttempt(name, metrics.ResultDelivered)
		outcome.Delivered = true
		outcome.Channel = name
		d.countDispatch(metrics.ResultDelivered)
		return outcome
	}

	d.countDispatch(metrics.ResultNotDelivered)
	if len(outcome.Attempts) == 0 || allSkipped(outcome.Attempts) {
		d.log.Info("notification channels not configured, skipping notification")
	} else {
		d.log.Warn("notification not delivered by any channel")
	}
	return outcome
}

// ConfirmRegistration отправляет исполнителю подтверждение о получении заявки.
func (d *Dispatcher) ConfirmRegistration(ctx context.Context, phone, name string) Outcome {
	return d.Notify(ctx, phone, RegistrationConfirmation(name))
}

// RegistrationConfirmation формирует текст подтверждения регистрации.
func RegistrationConfirmation(name string) string {
	return fmt.Sprintf("Hello %s! Your registration as a worker has been received. We'll review your application and get back to you soon.", name)
}

// attempt выполняет одну отправку с таймаутом. Канал, игнорирующий контекст,
// не задерживает диспетчер дольше таймаута.
func (d *Dispatcher) attempt(ctx context.Context, ch Channel, recipient, message string) error {
	attemptCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	result := make(chan error, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				result <- fmt.Errorf("%s: panic: %v", ch.Name(), p)
			}
		}()
		result <- ch.Send(attemptCtx, recipient, message)
	}()

	select {
	case err := <-result:
		return err
	case <-attemptCtx.Done():
		return fmt.Errorf("%s: %w", ch.Name(), attemptCtx.Err())
	}
}

func (d *Dispatcher) countAttempt(channel, result string) {
	if d.metrics != nil {
		d.metrics.Attempts.WithLabelValues(channel, result).Inc()
	}
}

func (d *Dispatcher) countDispatch(result string) {
	if d.metrics != nil {
		d.metrics.Dispatch.WithLabelValues(result).Inc()
	}
}

func allSkipped(attempts []Attempt) bool {
	for _, a := range attempts {
		if !a.Skipped {
			return false
		}
	}
	return true
}
