package domain

import "strings"

// PostStatus is the publication state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPending   PostStatus = "pending"
	PostStatusPrivate   PostStatus = "private"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

func (s PostStatus) String() string { return string(s) }

func (s PostStatus) IsValid() bool {
	switch s {
	case PostStatusDraft, PostStatusPending, PostStatusPrivate, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// PostStatuses returns every post status in canonical order.
func PostStatuses() []PostStatus {
	return []PostStatus{
		PostStatusDraft,
		PostStatusPending,
		PostStatusPrivate,
		PostStatusPublished,
		PostStatusArchived,
	}
}

// ParsePostStatus parses user input into a PostStatus.
// The empty string and "all" both mean "no status filter" and return "".
func ParsePostStatus(s string) (PostStatus, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" || v == "all" {
		return "", nil
	}
	status := PostStatus(v)
	if !status.IsValid() {
		return "", NewValidationError("status", "unknown post status "+s)
	}
	return status, nil
}

// CommentStatus is the moderation state of a comment.
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusSpam     CommentStatus = "spam"
	CommentStatusTrash    CommentStatus = "trash"
)

func (s CommentStatus) String() string { return string(s) }

func (s CommentStatus) IsValid() bool {
	switch s {
	case CommentStatusPending, CommentStatusApproved, CommentStatusSpam, CommentStatusTrash:
		return true
	}
	return false
}

// CommentStatuses returns every comment status in canonical order.
func CommentStatuses() []CommentStatus {
	return []CommentStatus{
		CommentStatusPending,
		CommentStatusApproved,
		CommentStatusSpam,
		CommentStatusTrash,
	}
}

// ParseCommentStatus parses user input into a CommentStatus.
// The empty string and "all" both return "".
func ParseCommentStatus(s string) (CommentStatus, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" || v == "all" {
		return "", nil
	}
	status := CommentStatus(v)
	if !status.IsValid() {
		return "", NewValidationError("status", "unknown comment status "+s)
	}
	return status, nil
}

// CommentTransitions lists the moderation actions offered for a comment in
// the given status, mirroring the console's row actions.
func CommentTransitions(from CommentStatus) []CommentStatus {
	switch from {
	case CommentStatusPending:
		return []CommentStatus{CommentStatusApproved, CommentStatusSpam, CommentStatusTrash}
	case CommentStatusApproved:
		return []CommentStatus{CommentStatusSpam, CommentStatusTrash}
	case CommentStatusSpam:
		return []CommentStatus{CommentStatusApproved, CommentStatusTrash}
	case CommentStatusTrash:
		return []CommentStatus{CommentStatusPending}
	}
	return nil
}
