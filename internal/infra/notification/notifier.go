// Package notification implements the user-visible toasts shown after writes.
package notification

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/service"
)

// Level is the kind of a toast.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Toast is one shown notification.
type Toast struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier reports toasts through the logger.
func NewLogNotifier(logger *slog.Logger) service.Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Success(ctx context.Context, message string) {
	deliverycontext.GetLoggerOrDefault(ctx, n.logger).Info("[Toast] Success", slog.String("message", message))
}

func (n *logNotifier) Error(ctx context.Context, message string) {
	deliverycontext.GetLoggerOrDefault(ctx, n.logger).Warn("[Toast] Error", slog.String("message", message))
}

type consoleNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleNotifier prints toasts as single lines to w.
func NewConsoleNotifier(w io.Writer) service.Notifier {
	return &consoleNotifier{w: w}
}

func (n *consoleNotifier) Success(_ context.Context, message string) {
	n.print("ok", message)
}

func (n *consoleNotifier) Error(_ context.Context, message string) {
	n.print("error", message)
}

func (n *consoleNotifier) print(prefix, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if message == "" {
		fmt.Fprintf(n.w, "[%s]\n", prefix)

		return
	}
	fmt.Fprintf(n.w, "[%s] %s\n", prefix, message)
}

// Recorder queues toasts in memory for callers that render them later.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

// NewRecorder creates an empty toast queue.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Success(_ context.Context, message string) {
	r.push(Toast{Level: LevelSuccess, Message: message})
}

func (r *Recorder) Error(_ context.Context, message string) {
	r.push(Toast{Level: LevelError, Message: message})
}

// Toasts returns the queued toasts in order.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Toast(nil), r.toasts...)
}

func (r *Recorder) push(toast Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, toast)
}

// Tee fans each toast out to every notifier.
func Tee(notifiers ...service.Notifier) service.Notifier {
	return tee(notifiers)
}

type tee []service.Notifier

func (t tee) Success(ctx context.Context, message string) {
	for _, n := range t {
		n.Success(ctx, message)
	}
}

func (t tee) Error(ctx context.Context, message string) {
	for _, n := range t {
		n.Error(ctx, message)
	}
}
