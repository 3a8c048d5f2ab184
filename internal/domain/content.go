package domain

import (
	"strings"
	"time"
)

// Author is the user attributed to a post.
type Author struct {
	ID          string `json:"id"                    yaml:"id"`
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Email       string `json:"email,omitempty"       yaml:"email,omitempty"`
	Username    string `json:"username,omitempty"    yaml:"username,omitempty"`
}

// Post is the console's read model of a post row.
type Post struct {
	ID        string     `json:"id"                  yaml:"id"`
	Title     string     `json:"title,omitempty"     yaml:"title,omitempty"`
	Status    PostStatus `json:"status,omitempty"    yaml:"status,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
	AuthorID  string     `json:"authorID,omitempty"  yaml:"authorID,omitempty"`
	Author    *Author    `json:"author,omitempty"    yaml:"author,omitempty"`
}

// DisplayTitle returns the title, or a placeholder for untitled drafts.
func (p Post) DisplayTitle() string {
	if strings.TrimSpace(p.Title) == "" {
		return "Untitled draft"
	}
	return p.Title
}

// AuthorLabel picks the most readable author identifier available:
// display name, then email, then username, then the raw author ID.
func (p Post) AuthorLabel() string {
	if p.Author != nil {
		for _, candidate := range []string{p.Author.DisplayName, p.Author.Email, p.Author.Username} {
			if v := strings.TrimSpace(candidate); v != "" {
				return v
			}
		}
	}
	if v := strings.TrimSpace(p.AuthorID); v != "" {
		return v
	}
	return "Unknown author"
}

// Comment is the console's read model of a comment row.
type Comment struct {
	ID          string        `json:"id"                    yaml:"id"`
	Content     string        `json:"content,omitempty"     yaml:"content,omitempty"`
	Status      CommentStatus `json:"status,omitempty"      yaml:"status,omitempty"`
	AuthorName  string        `json:"authorName,omitempty"  yaml:"authorName,omitempty"`
	SubmittedAt *time.Time    `json:"submittedAt,omitempty" yaml:"submittedAt,omitempty"`
}
