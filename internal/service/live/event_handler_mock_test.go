package live

import (
	"context"
	"sync"
)

var _ eventHandler = &eventHandlerMock{}

type eventHandlerMock struct {
	HandleCreatedFunc func(ctx context.Context, node map[string]any) error
	HandleDeletedFunc func(ctx context.Context, id string) error
	HandleUpdatedFunc func(ctx context.Context, node map[string]any) error

	calls struct {
		HandleCreated []struct {
			Ctx  context.Context
			Node map[string]any
		}
		HandleDeleted []struct {
			Ctx context.Context
			ID  string
		}
		HandleUpdated []struct {
			Ctx  context.Context
			Node map[string]any
		}
	}
	lockHandleCreated sync.RWMutex
	lockHandleDeleted sync.RWMutex
	lockHandleUpdated sync.RWMutex
}

func (mock *eventHandlerMock) HandleCreated(ctx context.Context, node map[string]any) error {
	if mock.HandleCreatedFunc == nil {
		panic("eventHandlerMock.HandleCreatedFunc: method is nil but eventHandler.HandleCreated was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Node map[string]any
	}{Ctx: ctx, Node: node}
	mock.lockHandleCreated.Lock()
	mock.calls.HandleCreated = append(mock.calls.HandleCreated, callInfo)
	mock.lockHandleCreated.Unlock()
	return mock.HandleCreatedFunc(ctx, node)
}

func (mock *eventHandlerMock) HandleCreatedCalls() []struct {
	Ctx  context.Context
	Node map[string]any
} {
	mock.lockHandleCreated.RLock()
	calls := mock.calls.HandleCreated
	mock.lockHandleCreated.RUnlock()
	return calls
}

func (mock *eventHandlerMock) HandleDeleted(ctx context.Context, id string) error {
	if mock.HandleDeletedFunc == nil {
		panic("eventHandlerMock.HandleDeletedFunc: method is nil but eventHandler.HandleDeleted was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  string
	}{Ctx: ctx, ID: id}
	mock.lockHandleDeleted.Lock()
	mock.calls.HandleDeleted = append(mock.calls.HandleDeleted, callInfo)
	mock.lockHandleDeleted.Unlock()
	return mock.HandleDeletedFunc(ctx, id)
}

func (mock *eventHandlerMock) HandleDeletedCalls() []struct {
	Ctx context.Context
	ID  string
} {
	mock.lockHandleDeleted.RLock()
	calls := mock.calls.HandleDeleted
	mock.lockHandleDeleted.RUnlock()
	return calls
}

func (mock *eventHandlerMock) HandleUpdated(ctx context.Context, node map[string]any) error {
	if mock.HandleUpdatedFunc == nil {
		panic("eventHandlerMock.HandleUpdatedFunc: method is nil but eventHandler.HandleUpdated was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Node map[string]any
	}{Ctx: ctx, Node: node}
	mock.lockHandleUpdated.Lock()
	mock.calls.HandleUpdated = append(mock.calls.HandleUpdated, callInfo)
	mock.lockHandleUpdated.Unlock()
	return mock.HandleUpdatedFunc(ctx, node)
}

func (mock *eventHandlerMock) HandleUpdatedCalls() []struct {
	Ctx  context.Context
	Node map[string]any
} {
	mock.lockHandleUpdated.RLock()
	calls := mock.calls.HandleUpdated
	mock.lockHandleUpdated.RUnlock()
	return calls
}
