package live

import (
	"sync"

	"github.com/deicod/ermblog-console/internal/domain"
)

var _ eventRecorder = &eventRecorderMock{}

type eventRecorderMock struct {
	EventAppliedFunc func(entity domain.Entity, kind domain.EventKind)
	EventFailedFunc  func(entity domain.Entity, kind domain.EventKind)

	calls struct {
		EventApplied []struct {
			Entity domain.Entity
			Kind   domain.EventKind
		}
		EventFailed []struct {
			Entity domain.Entity
			Kind   domain.EventKind
		}
	}
	lockEventApplied sync.RWMutex
	lockEventFailed  sync.RWMutex
}

func (mock *eventRecorderMock) EventApplied(entity domain.Entity, kind domain.EventKind) {
	if mock.EventAppliedFunc == nil {
		panic("eventRecorderMock.EventAppliedFunc: method is nil but eventRecorder.EventApplied was just called")
	}
	callInfo := struct {
		Entity domain.Entity
		Kind   domain.EventKind
	}{Entity: entity, Kind: kind}
	mock.lockEventApplied.Lock()
	mock.calls.EventApplied = append(mock.calls.EventApplied, callInfo)
	mock.lockEventApplied.Unlock()
	mock.EventAppliedFunc(entity, kind)
}

func (mock *eventRecorderMock) EventAppliedCalls() []struct {
	Entity domain.Entity
	Kind   domain.EventKind
} {
	mock.lockEventApplied.RLock()
	calls := mock.calls.EventApplied
	mock.lockEventApplied.RUnlock()
	return calls
}

func (mock *eventRecorderMock) EventFailed(entity domain.Entity, kind domain.EventKind) {
	if mock.EventFailedFunc == nil {
		panic("eventRecorderMock.EventFailedFunc: method is nil but eventRecorder.EventFailed was just called")
	}
	callInfo := struct {
		Entity domain.Entity
		Kind   domain.EventKind
	}{Entity: entity, Kind: kind}
	mock.lockEventFailed.Lock()
	mock.calls.EventFailed = append(mock.calls.EventFailed, callInfo)
	mock.lockEventFailed.Unlock()
	mock.EventFailedFunc(entity, kind)
}

func (mock *eventRecorderMock) EventFailedCalls() []struct {
	Entity domain.Entity
	Kind   domain.EventKind
} {
	mock.lockEventFailed.RLock()
	calls := mock.calls.EventFailed
	mock.lockEventFailed.RUnlock()
	return calls
}
