package repository

import (
	"github.com/HYG-0822/myauth/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User     UserRepository
	Token    TokenRepository
	Post     PostRepository
	Comment  CommentRepository
	Like     LikeRepository
	Follow   FollowRepository
	Bookmark BookmarkRepository
	Hashtag  HashtagRepository
	Mention  MentionRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		Token:    NewTokenRepository(db),
		Post:     NewPostRepository(db),
		Comment:  NewCommentRepository(db),
		Like:     NewLikeRepository(db),
		Follow:   NewFollowRepository(db),
		Bookmark: NewBookmarkRepository(db),
		Hashtag:  NewHashtagRepository(db),
		Mention:  NewMentionRepository(db),
	}
}
