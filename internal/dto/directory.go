package dto

import (
	"time"

	"github.com/heartbeatpleasure/user-directory-api/internal/models"
)

// UserCardResponse is the serialized account inside a directory item.
type UserCardResponse struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	Name           *string `json:"name,omitempty"`
	Title          *string `json:"title,omitempty"`
	AvatarTemplate string  `json:"avatar_template"`
	TrustLevel     int     `json:"trust_level"`
}

// DirectoryItemResponse is one serialized directory row.
type DirectoryItemResponse struct {
	ID            int64            `json:"id"`
	User          UserCardResponse `json:"user"`
	LikesReceived int              `json:"likes_received"`
	LikesGiven    int              `json:"likes_given"`
	TopicsEntered int              `json:"topics_entered"`
	TopicCount    int              `json:"topic_count"`
	PostCount     int              `json:"post_count"`
	PostsRead     int              `json:"posts_read"`
	DaysVisited   int              `json:"days_visited"`
}

// DirectoryMeta carries the listing metadata, including the continuation
// link for the next page.
type DirectoryMeta struct {
	LastUpdatedAt           *time.Time `json:"last_updated_at"`
	TotalRowsDirectoryItems int        `json:"total_rows_directory_items"`
	LoadMoreDirectoryItems  string     `json:"load_more_directory_items"`
}

// DirectoryResponse is the directory listing payload.
type DirectoryResponse struct {
	DirectoryItems []DirectoryItemResponse `json:"directory_items"`
	Meta           DirectoryMeta           `json:"meta"`
}

// NewDirectoryItemResponse projects a repository entry onto the wire form.
func NewDirectoryItemResponse(e models.DirectoryEntry) DirectoryItemResponse {
	return DirectoryItemResponse{
		ID: e.ID,
		User: UserCardResponse{
			ID:             e.UserID,
			Username:       e.Username,
			Name:           e.Name,
			Title:          e.Title,
			AvatarTemplate: e.AvatarTemplate,
			TrustLevel:     e.TrustLevel,
		},
		LikesReceived: e.LikesReceived,
		LikesGiven:    e.LikesGiven,
		TopicsEntered: e.TopicsEntered,
		TopicCount:    e.TopicCount,
		PostCount:     e.PostCount,
		PostsRead:     e.PostsRead,
		DaysVisited:   e.DaysVisited,
	}
}

// FieldOptionsResponse lists the configured selectable values for each
// filterable attribute.
type FieldOptionsResponse struct {
	Gender  []string `json:"gender"`
	Country []string `json:"country"`
	Listen  []string `json:"listen"`
	Share   []string `json:"share"`
}
