package posts

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/sujalbistaa/inkpost/internal/metrics"
	"github.com/sujalbistaa/inkpost/internal/models"
)

type postService struct {
	repo   Repository
	joiner *joiner
}

// NewPostService creates a new post service
func NewPostService(repo Repository, comments CommentReader, users UserReader) Service {
	return &postService{
		repo: repo,
		joiner: &joiner{
			users:    users,
			comments: comments,
			likes:    repo,
		},
	}
}

func (s *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*PostView, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Content) == "" {
		return nil, ErrTitleContentRequired
	}
	if err := validatePost(title, req.Content); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    title,
		Content:  req.Content,
		Tags:     ParseTags(req.Tags),
		Image:    normalizeImage(req.Image),
		AuthorID: req.AuthorID,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	log.Printf("[POST-CREATE] post=%s author=%s", post.ID, post.AuthorID)
	metrics.IncrementPostsCreated()
	return s.view(ctx, post)
}

// ListPosts reads in two tiers: a full join first, then a partial join
// without comments if the full one fails. Posts whose author did not resolve
// or whose title/content is empty are left out.
func (s *postService) ListPosts(ctx context.Context) ([]*PostView, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return s.joinList(ctx, records)
}

func (s *postService) ListByAuthor(ctx context.Context, authorID string) ([]*PostView, error) {
	if !models.IsValidID(authorID) {
		return []*PostView{}, nil
	}
	records, err := s.repo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by author: %w", err)
	}
	return s.joinList(ctx, records)
}

func (s *postService) GetPost(ctx context.Context, id string) (*PostView, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, post)
}

func (s *postService) UpdatePost(ctx context.Context, id, requesterID string, fields map[string]interface{}) (*PostView, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != requesterID {
		return nil, ErrForbidden
	}

	if disallowed := disallowedFields(fields); len(disallowed) > 0 {
		return nil, &DisallowedUpdateError{Fields: disallowed}
	}
	if err := applyUpdates(post, fields); err != nil {
		return nil, err
	}
	if err := validatePost(post.Title, post.Content); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return s.view(ctx, post)
}

func (s *postService) DeletePost(ctx context.Context, id, requesterID string) error {
	post, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != requesterID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	log.Printf("[POST-DELETE] post=%s author=%s", id, requesterID)
	return nil
}

func (s *postService) ToggleLike(ctx context.Context, id, requesterID string) (*PostView, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	liked, err := s.repo.ToggleLike(ctx, post.ID, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}
	metrics.ObserveLikeToggle(liked)

	return s.view(ctx, post)
}

func (s *postService) load(ctx context.Context, id string) (*models.Post, error) {
	if !models.IsValidID(id) {
		return nil, ErrInvalidID
	}
	return s.repo.GetByID(ctx, id)
}

func (s *postService) view(ctx context.Context, post *models.Post) (*PostView, error) {
	views, err := s.joiner.join(ctx, []*models.Post{post}, joinFull)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve post %s: %w", post.ID, err)
	}
	return views[0], nil
}

func (s *postService) joinList(ctx context.Context, records []*models.Post) ([]*PostView, error) {
	views, err := s.joiner.join(ctx, records, joinFull)
	if err != nil {
		log.Printf("[POST-LIST] degraded to partial join: %v", err)
		metrics.IncrementListDegradations()

		views, err = s.joiner.join(ctx, records, joinPartial)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve posts: %w", err)
		}
	}

	valid := make([]*PostView, 0, len(views))
	for _, v := range views {
		if v.Author != nil && v.Title != "" && v.Content != "" {
			valid = append(valid, v)
		}
	}
	if len(valid) != len(views) {
		log.Printf("[POST-LIST] filtered %d invalid posts", len(views)-len(valid))
	}
	return valid, nil
}

func disallowedFields(fields map[string]interface{}) []string {
	var disallowed []string
	for key := range fields {
		if !isAllowedUpdate(key) {
			disallowed = append(disallowed, key)
		}
	}
	sort.Strings(disallowed)
	return disallowed
}

func isAllowedUpdate(key string) bool {
	for _, allowed := range AllowedUpdates {
		if key == allowed {
			return true
		}
	}
	return false
}

func applyUpdates(post *models.Post, fields map[string]interface{}) error {
	verr := &ValidationError{}

	for key, value := range fields {
		switch key {
		case "title":
			if str, ok := value.(string); ok {
				post.Title = strings.TrimSpace(str)
			} else {
				verr.Add("title", "Title must be a string")
			}
		case "content":
			if str, ok := value.(string); ok {
				post.Content = str
			} else {
				verr.Add("content", "Content must be a string")
			}
		case "tags":
			tags, ok := toTags(value)
			if !ok {
				verr.Add("tags", "Tags must be a comma separated string or a list of strings")
				continue
			}
			post.Tags = tags
		case "image":
			switch v := value.(type) {
			case nil:
				post.Image = nil
			case string:
				post.Image = normalizeImage(&v)
			default:
				verr.Add("image", "Image must be a URL string")
			}
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func toTags(value interface{}) ([]string, bool) {
	switch v := value.(type) {
	case nil:
		return []string{}, true
	case string:
		return ParseTags(v), true
	case []string:
		return ParseTags(strings.Join(v, ",")), true
	case []interface{}:
		tags := []string{}
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			if str = strings.TrimSpace(str); str != "" {
				tags = append(tags, str)
			}
		}
		return tags, true
	default:
		return nil, false
	}
}

func normalizeImage(image *string) *string {
	if image == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*image)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
