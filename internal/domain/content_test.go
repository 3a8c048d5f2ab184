package domain

import "testing"

func TestPost_DisplayTitle(t *testing.T) {
	t.Parallel()

	if got := (Post{Title: "  "}).DisplayTitle(); got != "Untitled draft" {
		t.Errorf("blank title = %q", got)
	}
	if got := (Post{Title: "Hello"}).DisplayTitle(); got != "Hello" {
		t.Errorf("title = %q", got)
	}
}

func TestPost_AuthorLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		post Post
		want string
	}{
		{name: "display name", post: Post{Author: &Author{DisplayName: "Ada", Email: "ada@example.com"}}, want: "Ada"},
		{name: "email", post: Post{Author: &Author{Email: "ada@example.com", Username: "ada"}}, want: "ada@example.com"},
		{name: "username", post: Post{Author: &Author{Username: "ada"}}, want: "ada"},
		{name: "author id", post: Post{Author: &Author{ID: "u1"}, AuthorID: "u1"}, want: "u1"},
		{name: "nothing", post: Post{}, want: "Unknown author"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.post.AuthorLabel(); got != tt.want {
				t.Errorf("AuthorLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}
