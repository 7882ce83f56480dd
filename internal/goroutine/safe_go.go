package goroutine

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

// Runner запускает фоновые задачи с обработкой panic и позволяет дождаться их завершения.
type Runner struct {
	log *logrus.Entry
	wg  sync.WaitGroup
}

// NewRunner создаёт Runner, который пишет упавшие задачи в переданный лог.
func NewRunner(log *logrus.Entry) *Runner {
	return &Runner{log: log}
}

// Go запускает fn в отдельной горутине.
func (r *Runner) Go(task string, fn func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.handlePanic(task)
		fn()
	}()
}

// Wait ждёт завершения всех запущенных задач или отмены ctx.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) handlePanic(task string) {
	if p := recover(); p != nil {
		r.log.WithFields(logrus.Fields{
			"task":  task,
			"panic": p,
			"stack": string(debug.Stack()),
		}).Error("panic in background task")
	}
}
