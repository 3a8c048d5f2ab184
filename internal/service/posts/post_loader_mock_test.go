package posts

import (
	"context"
	"sync"
)

var _ postLoader = &postLoaderMock{}

type postLoaderMock struct {
	LoadManyFunc func(ctx context.Context, ids []string) ([]map[string]any, []error)

	calls struct {
		LoadMany []struct {
			Ctx context.Context
			Ids []string
		}
	}
	lockLoadMany sync.RWMutex
}

func (mock *postLoaderMock) LoadMany(ctx context.Context, ids []string) ([]map[string]any, []error) {
	if mock.LoadManyFunc == nil {
		panic("postLoaderMock.LoadManyFunc: method is nil but postLoader.LoadMany was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ids []string
	}{Ctx: ctx, Ids: ids}
	mock.lockLoadMany.Lock()
	mock.calls.LoadMany = append(mock.calls.LoadMany, callInfo)
	mock.lockLoadMany.Unlock()
	return mock.LoadManyFunc(ctx, ids)
}

func (mock *postLoaderMock) LoadManyCalls() []struct {
	Ctx context.Context
	Ids []string
} {
	mock.lockLoadMany.RLock()
	calls := mock.calls.LoadMany
	mock.lockLoadMany.RUnlock()
	return calls
}
