package gqlclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deicod/ermblog-console/internal/domain"
	"github.com/deicod/ermblog-console/internal/relaystore"
)

// PageRequest selects one page of a status-filtered connection.
type PageRequest struct {
	First  int
	After  string
	Status string
}

func (r PageRequest) variables() map[string]any {
	vars := map[string]any{}
	if r.First > 0 {
		vars["first"] = r.First
	}
	if r.After != "" {
		vars["after"] = r.After
	}
	if r.Status != "" {
		vars["status"] = r.Status
	}
	return vars
}

type connectionPayload struct {
	TotalCount *int `json:"totalCount"`
	Edges      []struct {
		Cursor string         `json:"cursor"`
		Node   map[string]any `json:"node"`
	} `json:"edges"`
	PageInfo struct {
		HasNextPage bool    `json:"hasNextPage"`
		EndCursor   *string `json:"endCursor"`
	} `json:"pageInfo"`
}

// FetchPosts runs the posts table query.
func (c *Client) FetchPosts(ctx context.Context, req PageRequest) (relaystore.ConnectionPage, error) {
	return c.fetchConnection(ctx, PostsTableQuery, req)
}

// FetchComments runs the comments table query.
func (c *Client) FetchComments(ctx context.Context, req PageRequest) (relaystore.ConnectionPage, error) {
	return c.fetchConnection(ctx, CommentsTableQuery, req)
}

func (c *Client) fetchConnection(ctx context.Context, op Operation, req PageRequest) (relaystore.ConnectionPage, error) {
	var data map[string]json.RawMessage
	if err := c.Do(ctx, op, req.variables(), &data); err != nil {
		return relaystore.ConnectionPage{}, err
	}

	spec := op.Connection
	raw, ok := data[spec.Field]
	if !ok {
		return relaystore.ConnectionPage{}, fmt.Errorf("%s: response has no %s", op.Name, spec.Field)
	}
	var payload connectionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return relaystore.ConnectionPage{}, fmt.Errorf("decode %s.%s: %w", op.Name, spec.Field, err)
	}

	page := relaystore.ConnectionPage{
		Typename:     spec.ConnectionType,
		EdgeTypename: spec.EdgeType,
		NodeTypename: spec.NodeType,
		TotalCount:   payload.TotalCount,
		Edges:        make([]relaystore.PageEdge, 0, len(payload.Edges)),
		PageInfo:     relaystore.PageInfo{HasNextPage: payload.PageInfo.HasNextPage},
	}
	if payload.PageInfo.EndCursor != nil {
		page.PageInfo.EndCursor = *payload.PageInfo.EndCursor
	}
	for _, e := range payload.Edges {
		if e.Node == nil {
			continue
		}
		page.Edges = append(page.Edges, relaystore.PageEdge{Cursor: e.Cursor, Node: e.Node})
	}
	return page, nil
}

// UpdatePostStatus runs the post update mutation and returns the post as
// the API stored it.
func (c *Client) UpdatePostStatus(ctx context.Context, id string, status domain.PostStatus) (map[string]any, error) {
	var data struct {
		UpdatePost struct {
			Post map[string]any `json:"post"`
		} `json:"updatePost"`
	}
	vars := map[string]any{"input": map[string]any{"id": id, "status": string(status)}}
	if err := c.Do(ctx, UpdatePostMutation, vars, &data); err != nil {
		return nil, err
	}
	if data.UpdatePost.Post == nil {
		return nil, fmt.Errorf("update post %s: %w", id, domain.ErrNotFound)
	}
	return data.UpdatePost.Post, nil
}

// UpdateCommentStatus runs the comment moderation mutation and returns the
// comment as the API stored it.
func (c *Client) UpdateCommentStatus(ctx context.Context, id string, status domain.CommentStatus) (map[string]any, error) {
	var data struct {
		UpdateComment struct {
			Comment map[string]any `json:"comment"`
		} `json:"updateComment"`
	}
	vars := map[string]any{"input": map[string]any{"id": id, "status": string(status)}}
	if err := c.Do(ctx, UpdateCommentStatusMutation, vars, &data); err != nil {
		return nil, err
	}
	if data.UpdateComment.Comment == nil {
		return nil, fmt.Errorf("update comment %s: %w", id, domain.ErrNotFound)
	}
	return data.UpdateComment.Comment, nil
}

// DecodeNode extracts the object pushed under op's root field.
func DecodeNode(op Operation, data json.RawMessage) (map[string]any, error) {
	var payload map[string]map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode %s: %w", op.Name, err)
	}
	node := payload[op.Field]
	if node == nil {
		return nil, fmt.Errorf("decode %s: no %s object", op.Name, op.Field)
	}
	return node, nil
}

// DecodeID extracts the id pushed under op's root field.
func DecodeID(op Operation, data json.RawMessage) (string, error) {
	var payload map[string]string
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("decode %s: %w", op.Name, err)
	}
	id := payload[op.Field]
	if id == "" {
		return "", fmt.Errorf("decode %s: no %s id", op.Name, op.Field)
	}
	return id, nil
}
