package honeybadger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestFromContext_Scoped(t *testing.T) {
	info := &RequestInfo{URL: "/scoped"}

	WithRequest(context.Background(), info, func(ctx context.Context) {
		assert.Same(t, info, RequestFromContext(ctx))
	})
	assert.Nil(t, RequestFromContext(context.Background()))
}

func TestRequestFromContext_Default(t *testing.T) {
	defaultInfo := &RequestInfo{URL: "/default"}
	scoped := &RequestInfo{URL: "/scoped"}

	SetRequest(defaultInfo)
	t.Cleanup(UnsetRequest)

	assert.Same(t, defaultInfo, RequestFromContext(context.Background()))
	assert.Same(t, scoped, RequestFromContext(ContextWithRequest(context.Background(), scoped)))

	UnsetRequest()
	assert.Nil(t, RequestFromContext(context.Background()))
}

func TestRequestFromContext_ScopesDoNotLeak(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		info := &RequestInfo{Action: string(rune('a' + i))}
		wg.Add(1)
		go func() {
			defer wg.Done()
			WithRequest(context.Background(), info, func(ctx context.Context) {
				for j := 0; j < 100; j++ {
					assert.Same(t, info, RequestFromContext(ctx))
				}
			})
		}()
	}
	wg.Wait()
}

func TestRequestFromContext_NilContext(t *testing.T) {
	assert.Nil(t, RequestFromContext(nil))
}

func TestSetRequest_SharedAcrossGoroutines(t *testing.T) {
	info := &RequestInfo{URL: "/shared"}
	t.Cleanup(UnsetRequest)

	done := make(chan struct{})
	go func() {
		defer close(done)
		SetRequest(info)
	}()
	<-done

	assert.Same(t, info, RequestFromContext(context.Background()))
}
