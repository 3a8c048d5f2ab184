package posts

import (
	"context"
	"sync"

	"github.com/deicod/ermblog-console/internal/adapter/gqlclient"
	"github.com/deicod/ermblog-console/internal/domain"
	"github.com/deicod/ermblog-console/internal/relaystore"
)

var _ postsAPI = &postsAPIMock{}

type postsAPIMock struct {
	FetchPostsFunc       func(ctx context.Context, req gqlclient.PageRequest) (relaystore.ConnectionPage, error)
	UpdatePostStatusFunc func(ctx context.Context, id string, status domain.PostStatus) (map[string]any, error)

	calls struct {
		FetchPosts []struct {
			Ctx context.Context
			Req gqlclient.PageRequest
		}
		UpdatePostStatus []struct {
			Ctx    context.Context
			ID     string
			Status domain.PostStatus
		}
	}
	lockFetchPosts       sync.RWMutex
	lockUpdatePostStatus sync.RWMutex
}

func (mock *postsAPIMock) FetchPosts(ctx context.Context, req gqlclient.PageRequest) (relaystore.ConnectionPage, error) {
	if mock.FetchPostsFunc == nil {
		panic("postsAPIMock.FetchPostsFunc: method is nil but postsAPI.FetchPosts was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Req gqlclient.PageRequest
	}{Ctx: ctx, Req: req}
	mock.lockFetchPosts.Lock()
	mock.calls.FetchPosts = append(mock.calls.FetchPosts, callInfo)
	mock.lockFetchPosts.Unlock()
	return mock.FetchPostsFunc(ctx, req)
}

func (mock *postsAPIMock) FetchPostsCalls() []struct {
	Ctx context.Context
	Req gqlclient.PageRequest
} {
	mock.lockFetchPosts.RLock()
	calls := mock.calls.FetchPosts
	mock.lockFetchPosts.RUnlock()
	return calls
}

func (mock *postsAPIMock) UpdatePostStatus(ctx context.Context, id string, status domain.PostStatus) (map[string]any, error) {
	if mock.UpdatePostStatusFunc == nil {
		panic("postsAPIMock.UpdatePostStatusFunc: method is nil but postsAPI.UpdatePostStatus was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ID     string
		Status domain.PostStatus
	}{Ctx: ctx, ID: id, Status: status}
	mock.lockUpdatePostStatus.Lock()
	mock.calls.UpdatePostStatus = append(mock.calls.UpdatePostStatus, callInfo)
	mock.lockUpdatePostStatus.Unlock()
	return mock.UpdatePostStatusFunc(ctx, id, status)
}

func (mock *postsAPIMock) UpdatePostStatusCalls() []struct {
	Ctx    context.Context
	ID     string
	Status domain.PostStatus
} {
	mock.lockUpdatePostStatus.RLock()
	calls := mock.calls.UpdatePostStatus
	mock.lockUpdatePostStatus.RUnlock()
	return calls
}
