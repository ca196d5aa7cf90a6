package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"realty-marketing-platform/internal/logger"
	"realty-marketing-platform/internal/store"
	"realty-marketing-platform/models"
	"realty-marketing-platform/utils"
)

// TranslationEnqueuer schedules the best-effort post-create translation
// pass. Enqueue failures are the caller's to log, never to surface.
type TranslationEnqueuer interface {
	EnqueueBlogTranslate(ctx context.Context, postID, clientID string) error
}

type BlogService struct {
	posts    store.BlogStore
	sync     *BilingualSyncEngine
	enqueuer TranslationEnqueuer
}

func NewBlogService(posts store.BlogStore, sync *BilingualSyncEngine, enqueuer TranslationEnqueuer) *BlogService {
	return &BlogService{posts: posts, sync: sync, enqueuer: enqueuer}
}

// Create validates the request, synchronizes both language triads, and
// persists the post. Validation happens before any external call.
func (s *BlogService) Create(ctx context.Context, req *models.CreateBlogPostRequest) (*models.BlogPost, error) {
	var missing []string
	if strings.TrimSpace(req.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(req.Content) == "" {
		missing = append(missing, "content")
	}
	if strings.TrimSpace(req.Excerpt) == "" {
		missing = append(missing, "excerpt")
	}
	if strings.TrimSpace(req.ClientID) == "" {
		missing = append(missing, "client_id")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %s", utils.ErrValidation, strings.Join(missing, ", "))
	}

	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid client_id", utils.ErrValidation)
	}

	slug := req.Slug
	if strings.TrimSpace(slug) == "" {
		slug = req.Title
	}
	slug = Slugify(slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: slug cannot be derived from title", utils.ErrValidation)
	}

	synced, err := s.sync.Sync(ctx, BilingualContent{
		Title:     req.Title,
		TitleEs:   req.TitleEs,
		Excerpt:   req.Excerpt,
		ExcerptEs: req.ExcerptEs,
		Content:   req.Content,
		ContentEs: req.ContentEs,
	})
	if err != nil {
		return nil, err
	}

	post := &models.BlogPost{
		ClientID:      clientID,
		Slug:          slug,
		Title:         synced.Title,
		TitleEs:       synced.TitleEs,
		Excerpt:       synced.Excerpt,
		ExcerptEs:     synced.ExcerptEs,
		Content:       synced.Content,
		ContentEs:     synced.ContentEs,
		Category:      req.Category,
		Tags:          NormalizeTags(req.Tags),
		FeaturedImage: req.FeaturedImage,
		Author:        req.Author,
	}

	created, err := s.posts.Insert(ctx, post)
	if err != nil {
		return nil, err
	}

	// Best-effort follow-up pass; the response never waits on it and its
	// failure is only logged
	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueBlogTranslate(ctx, created.ID.Hex(), req.ClientID); err != nil {
			logger.Warn("Failed to enqueue translation pass", "post_id", created.ID.Hex(), "error", err)
		}
	}

	return created, nil
}

// Update merges the patch into the stored post. When a language field
// changes without its counterpart, the counterpart is cleared so the sync
// engine rebuilds it; counterpart values supplied in the same request win.
func (s *BlogService) Update(ctx context.Context, clientID primitive.ObjectID, postID string, req *models.UpdateBlogPostRequest) (*models.BlogPost, error) {
	id, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid post id", utils.ErrValidation)
	}

	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.ClientID != clientID {
		return nil, fmt.Errorf("%w: blog post %s", utils.ErrNotFound, postID)
	}

	applyPatch(post, req)

	if req.HasLanguageChange() {
		content := BilingualContent{
			Title:     post.Title,
			TitleEs:   post.TitleEs,
			Excerpt:   post.Excerpt,
			ExcerptEs: post.ExcerptEs,
			Content:   post.Content,
			ContentEs: post.ContentEs,
		}
		clearStaleCounterparts(&content, req)

		synced, err := s.sync.Sync(ctx, content)
		if err != nil {
			return nil, err
		}
		post.Title = synced.Title
		post.TitleEs = synced.TitleEs
		post.Excerpt = synced.Excerpt
		post.ExcerptEs = synced.ExcerptEs
		post.Content = synced.Content
		post.ContentEs = synced.ContentEs
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func applyPatch(post *models.BlogPost, req *models.UpdateBlogPostRequest) {
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Slug != nil {
		post.Slug = Slugify(*req.Slug)
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Category != nil {
		post.Category = *req.Category
	}
	if req.Tags != nil {
		post.Tags = NormalizeTags(*req.Tags)
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = *req.FeaturedImage
	}
	if req.Author != nil {
		post.Author = *req.Author
	}
	if req.TitleEs != nil {
		post.TitleEs = *req.TitleEs
	}
	if req.ExcerptEs != nil {
		post.ExcerptEs = *req.ExcerptEs
	}
	if req.ContentEs != nil {
		post.ContentEs = *req.ContentEs
	}
}

// clearStaleCounterparts empties the untouched half of a language pair so
// the sync engine re-translates it.
func clearStaleCounterparts(c *BilingualContent, req *models.UpdateBlogPostRequest) {
	if req.Title != nil && req.TitleEs == nil {
		c.TitleEs = ""
	}
	if req.TitleEs != nil && req.Title == nil {
		c.Title = ""
	}
	if req.Excerpt != nil && req.ExcerptEs == nil {
		c.ExcerptEs = ""
	}
	if req.ExcerptEs != nil && req.Excerpt == nil {
		c.Excerpt = ""
	}
	if req.Content != nil && req.ContentEs == nil {
		c.ContentEs = ""
	}
	if req.ContentEs != nil && req.Content == nil {
		c.Content = ""
	}
}

// TranslatePost re-runs the full bilingual sync on a stored post. This is
// the target of the fire-and-forget post-create pass and of the on-demand
// retranslate endpoint.
func (s *BlogService) TranslatePost(ctx context.Context, postID string) (*models.BlogPost, error) {
	id, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid post id", utils.ErrValidation)
	}

	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	synced, err := s.sync.Sync(ctx, BilingualContent{
		Title:     post.Title,
		TitleEs:   post.TitleEs,
		Excerpt:   post.Excerpt,
		ExcerptEs: post.ExcerptEs,
		Content:   post.Content,
		ContentEs: post.ContentEs,
	})
	if err != nil {
		return nil, err
	}

	post.Title = synced.Title
	post.TitleEs = synced.TitleEs
	post.Excerpt = synced.Excerpt
	post.ExcerptEs = synced.ExcerptEs
	post.Content = synced.Content
	post.ContentEs = synced.ContentEs

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *BlogService) GetBySlug(ctx context.Context, clientID primitive.ObjectID, slug string) (*models.BlogPost, error) {
	return s.posts.FindBySlug(ctx, clientID, slug)
}

func (s *BlogService) List(ctx context.Context, clientID primitive.ObjectID, category string, limit int64) ([]models.BlogPost, error) {
	return s.posts.List(ctx, clientID, category, limit)
}

func (s *BlogService) Delete(ctx context.Context, clientID primitive.ObjectID, postID string) error {
	id, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("%w: invalid post id", utils.ErrValidation)
	}
	return s.posts.Delete(ctx, clientID, id)
}
