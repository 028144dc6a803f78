package comments

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/sujalbistaa/inkpost/internal/core/posts"
	"github.com/sujalbistaa/inkpost/internal/metrics"
	"github.com/sujalbistaa/inkpost/internal/models"
)

// MaxContentLength bounds a comment, in characters.
const MaxContentLength = 1000

type commentService struct {
	repo  Repository
	posts PostLookup
	users posts.UserReader
}

// NewCommentService creates a new comment service
func NewCommentService(repo Repository, postLookup PostLookup, users posts.UserReader) Service {
	return &commentService{
		repo:  repo,
		posts: postLookup,
		users: users,
	}
}

func (s *commentService) CreateComment(ctx context.Context, postID, content, authorID string) (*posts.CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentEmpty
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, ErrContentTooLong
	}

	if _, err := s.loadPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:  content,
		AuthorID: authorID,
		PostID:   postID,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	log.Printf("[COMMENT-CREATE] comment=%s post=%s author=%s", comment.ID, postID, authorID)
	metrics.IncrementCommentsCreated()

	authors, err := s.users.GetByIDs(ctx, []string{authorID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve comment author: %w", err)
	}
	return posts.NewCommentView(comment, authors[authorID]), nil
}

func (s *commentService) DeleteComment(ctx context.Context, commentID, requesterID string) (*models.Comment, error) {
	if !models.IsValidID(commentID) {
		return nil, ErrInvalidID
	}

	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != requesterID {
		post, err := s.posts.GetByID(ctx, comment.PostID)
		if err != nil && !posts.IsNotFound(err) {
			return nil, fmt.Errorf("failed to load parent post: %w", err)
		}
		if post == nil || post.AuthorID != requesterID {
			return nil, ErrNotAuthorized
		}
	}

	if err := s.repo.Delete(ctx, commentID); err != nil {
		return nil, fmt.Errorf("failed to delete comment: %w", err)
	}

	log.Printf("[COMMENT-DELETE] comment=%s post=%s by=%s", commentID, comment.PostID, requesterID)
	return comment, nil
}

func (s *commentService) ListForPost(ctx context.Context, postID string) ([]*posts.CommentView, error) {
	if _, err := s.loadPost(ctx, postID); err != nil {
		return nil, err
	}

	records, err := s.repo.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	ids := make([]string, 0, len(records))
	for _, c := range records {
		ids = append(ids, c.AuthorID)
	}
	authors, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve comment authors: %w", err)
	}

	views := make([]*posts.CommentView, 0, len(records))
	for _, c := range records {
		views = append(views, posts.NewCommentView(c, authors[c.AuthorID]))
	}
	return views, nil
}

func (s *commentService) loadPost(ctx context.Context, postID string) (*models.Post, error) {
	if !models.IsValidID(postID) {
		return nil, ErrPostNotFound
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if posts.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	return post, nil
}
