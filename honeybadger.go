// Package honeybadger reports errors and panics to a Honeybadger collector.
//
// A process calls Setup once, then reports explicitly with Notify or lets
// deferred Monitor calls report panics:
//
//	honeybadger.Configure(func(cfg *honeybadger.Config) {
//		cfg.APIKey = honeybadger.String("abcd1234")
//	})
//	honeybadger.Setup()
//	defer honeybadger.Monitor()
//
// The package also runs as a RoadRunner plugin, see Plugin.
package honeybadger

import (
	"context"
	"sync"
)

var (
	setupOnce       sync.Once
	defaultNotifier *Notifier
	defaultMu       sync.RWMutex
)

// Setup fills unset configuration from the environment and installs the
// process-wide notifier. Only the first call has any effect.
func Setup(opts ...NotifierOption) {
	setupOnce.Do(func() {
		ConfigureFromEnv()
		n := New(opts...)
		defaultMu.Lock()
		defaultNotifier = n
		defaultMu.Unlock()
	})
}

// Default returns the process-wide notifier, installing it if needed
func Default() *Notifier {
	defaultMu.RLock()
	n := defaultNotifier
	defaultMu.RUnlock()
	if n != nil {
		return n
	}
	Setup()
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultNotifier
}

// Notify reports err with the process-wide notifier
func Notify(err error, opts ...NoticeOption) (string, error) {
	return Default().Notify(err, opts...)
}

// NotifyContext reports err with the process-wide notifier
func NotifyContext(ctx context.Context, err error, opts ...NoticeOption) (string, error) {
	return Default().NotifyContext(ctx, err, opts...)
}

// Monitor reports a panic in progress with the process-wide notifier and
// panics again. It has to be deferred directly.
func Monitor() {
	if r := recover(); r != nil {
		Default().notifyPanic(context.Background(), r)
		panic(r)
	}
}
