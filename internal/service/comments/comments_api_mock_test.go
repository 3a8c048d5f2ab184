package comments

import (
	"context"
	"sync"

	"github.com/deicod/ermblog-console/internal/adapter/gqlclient"
	"github.com/deicod/ermblog-console/internal/domain"
	"github.com/deicod/ermblog-console/internal/relaystore"
)

var _ commentsAPI = &commentsAPIMock{}

type commentsAPIMock struct {
	FetchCommentsFunc       func(ctx context.Context, req gqlclient.PageRequest) (relaystore.ConnectionPage, error)
	UpdateCommentStatusFunc func(ctx context.Context, id string, status domain.CommentStatus) (map[string]any, error)

	calls struct {
		FetchComments []struct {
			Ctx context.Context
			Req gqlclient.PageRequest
		}
		UpdateCommentStatus []struct {
			Ctx    context.Context
			ID     string
			Status domain.CommentStatus
		}
	}
	lockFetchComments       sync.RWMutex
	lockUpdateCommentStatus sync.RWMutex
}

func (mock *commentsAPIMock) FetchComments(ctx context.Context, req gqlclient.PageRequest) (relaystore.ConnectionPage, error) {
	if mock.FetchCommentsFunc == nil {
		panic("commentsAPIMock.FetchCommentsFunc: method is nil but commentsAPI.FetchComments was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Req gqlclient.PageRequest
	}{Ctx: ctx, Req: req}
	mock.lockFetchComments.Lock()
	mock.calls.FetchComments = append(mock.calls.FetchComments, callInfo)
	mock.lockFetchComments.Unlock()
	return mock.FetchCommentsFunc(ctx, req)
}

func (mock *commentsAPIMock) FetchCommentsCalls() []struct {
	Ctx context.Context
	Req gqlclient.PageRequest
} {
	mock.lockFetchComments.RLock()
	calls := mock.calls.FetchComments
	mock.lockFetchComments.RUnlock()
	return calls
}

func (mock *commentsAPIMock) UpdateCommentStatus(ctx context.Context, id string, status domain.CommentStatus) (map[string]any, error) {
	if mock.UpdateCommentStatusFunc == nil {
		panic("commentsAPIMock.UpdateCommentStatusFunc: method is nil but commentsAPI.UpdateCommentStatus was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ID     string
		Status domain.CommentStatus
	}{Ctx: ctx, ID: id, Status: status}
	mock.lockUpdateCommentStatus.Lock()
	mock.calls.UpdateCommentStatus = append(mock.calls.UpdateCommentStatus, callInfo)
	mock.lockUpdateCommentStatus.Unlock()
	return mock.UpdateCommentStatusFunc(ctx, id, status)
}

func (mock *commentsAPIMock) UpdateCommentStatusCalls() []struct {
	Ctx    context.Context
	ID     string
	Status domain.CommentStatus
} {
	mock.lockUpdateCommentStatus.RLock()
	calls := mock.calls.UpdateCommentStatus
	mock.lockUpdateCommentStatus.RUnlock()
	return calls
}
