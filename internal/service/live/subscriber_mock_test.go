package live

import (
	"context"
	"sync"

	"github.com/deicod/ermblog-console/internal/adapter/gqlclient"
)

var _ subscriber = &subscriberMock{}

type subscriberMock struct {
	RunFunc func(ctx context.Context, subs ...gqlclient.Subscription) error

	calls struct {
		Run []struct {
			Ctx  context.Context
			Subs []gqlclient.Subscription
		}
	}
	lockRun sync.RWMutex
}

func (mock *subscriberMock) Run(ctx context.Context, subs ...gqlclient.Subscription) error {
	if mock.RunFunc == nil {
		panic("subscriberMock.RunFunc: method is nil but subscriber.Run was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Subs []gqlclient.Subscription
	}{Ctx: ctx, Subs: subs}
	mock.lockRun.Lock()
	mock.calls.Run = append(mock.calls.Run, callInfo)
	mock.lockRun.Unlock()
	return mock.RunFunc(ctx, subs...)
}

func (mock *subscriberMock) RunCalls() []struct {
	Ctx  context.Context
	Subs []gqlclient.Subscription
} {
	mock.lockRun.RLock()
	calls := mock.calls.Run
	mock.lockRun.RUnlock()
	return calls
}
