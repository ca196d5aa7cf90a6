package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"realty-marketing-platform/internal/ai"
	"realty-marketing-platform/models"
	"realty-marketing-platform/utils"
)

type fakeBlogStore struct {
	posts   map[primitive.ObjectID]*models.BlogPost
	inserts int
	updates int
}

func newFakeBlogStore() *fakeBlogStore {
	return &fakeBlogStore{posts: map[primitive.ObjectID]*models.BlogPost{}}
}

func (f *fakeBlogStore) Insert(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	f.inserts++
	post.ID = primitive.NewObjectID()
	stored := *post
	f.posts[post.ID] = &stored
	return post, nil
}

func (f *fakeBlogStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.BlogPost, error) {
	if post, ok := f.posts[id]; ok {
		copied := *post
		return &copied, nil
	}
	return nil, fmt.Errorf("%w: blog post %s", utils.ErrNotFound, id.Hex())
}

func (f *fakeBlogStore) FindBySlug(ctx context.Context, clientID primitive.ObjectID, slug string) (*models.BlogPost, error) {
	for _, post := range f.posts {
		if post.ClientID == clientID && post.Slug == slug {
			copied := *post
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: blog post %q", utils.ErrNotFound, slug)
}

func (f *fakeBlogStore) List(ctx context.Context, clientID primitive.ObjectID, category string, limit int64) ([]models.BlogPost, error) {
	out := []models.BlogPost{}
	for _, post := range f.posts {
		if post.ClientID == clientID && (category == "" || post.Category == category) {
			out = append(out, *post)
		}
	}
	return out, nil
}

func (f *fakeBlogStore) Update(ctx context.Context, post *models.BlogPost) error {
	if _, ok := f.posts[post.ID]; !ok {
		return fmt.Errorf("%w: blog post %s", utils.ErrNotFound, post.ID.Hex())
	}
	f.updates++
	stored := *post
	f.posts[post.ID] = &stored
	return nil
}

func (f *fakeBlogStore) Delete(ctx context.Context, clientID, id primitive.ObjectID) error {
	post, ok := f.posts[id]
	if !ok || post.ClientID != clientID {
		return fmt.Errorf("%w: blog post %s", utils.ErrNotFound, id.Hex())
	}
	delete(f.posts, id)
	return nil
}

type fakeEnqueuer struct {
	calls int
	err   error
}

func (f *fakeEnqueuer) EnqueueBlogTranslate(ctx context.Context, postID, clientID string) error {
	f.calls++
	return f.err
}

func blogFixture() (*BlogService, *fakeBlogStore, *fakeTranslator, *fakeEnqueuer, primitive.ObjectID) {
	translator := &fakeTranslator{detectResult: ai.LangEnglish}
	posts := newFakeBlogStore()
	enqueuer := &fakeEnqueuer{}
	svc := NewBlogService(posts, NewBilingualSyncEngine(translator), enqueuer)
	return svc, posts, translator, enqueuer, primitive.NewObjectID()
}

func TestCreateValidatesBeforeExternalCalls(t *testing.T) {
	svc, posts, translator, _, clientID := blogFixture()

	_, err := svc.Create(context.Background(), &models.CreateBlogPostRequest{
		Title:    "Missing everything else",
		ClientID: clientID.Hex(),
	})
	if !errors.Is(err, utils.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if translator.detectCalls != 0 || translator.calls() != 0 {
		t.Error("gateway called before validation passed")
	}
	if posts.inserts != 0 {
		t.Error("post persisted despite validation failure")
	}
}

func TestCreateDerivesSlugFromTitle(t *testing.T) {
	svc, _, _, _, clientID := blogFixture()

	post, err := svc.Create(context.Background(), &models.CreateBlogPostRequest{
		Title:    "First-Time Homebuyer's Guide!",
		Excerpt:  "A short guide.",
		Content:  "<p>Body.</p>",
		ClientID: clientID.Hex(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if post.Slug != "first-time-homebuyers-guide" {
		t.Errorf("slug = %q", post.Slug)
	}
	if post.TitleEs == "" || post.ExcerptEs == "" || post.ContentEs == "" {
		t.Errorf("Spanish triad not backfilled: %+v", post)
	}
}

func TestCreateEnqueueFailureDoesNotFailRequest(t *testing.T) {
	svc, posts, _, enqueuer, clientID := blogFixture()
	enqueuer.err = errors.New("queue down")

	post, err := svc.Create(context.Background(), &models.CreateBlogPostRequest{
		Title:    "Queue outage post",
		Excerpt:  "Still publishes.",
		Content:  "<p>Body.</p>",
		ClientID: clientID.Hex(),
	})
	if err != nil {
		t.Fatalf("Create failed despite enqueue-only error: %v", err)
	}
	if enqueuer.calls != 1 {
		t.Errorf("enqueue attempts = %d, want 1", enqueuer.calls)
	}
	if posts.inserts != 1 || post.ID.IsZero() {
		t.Error("post not persisted")
	}
}

func TestUpdateClearsStaleCounterpart(t *testing.T) {
	svc, posts, _, _, clientID := blogFixture()

	created, err := svc.Create(context.Background(), &models.CreateBlogPostRequest{
		Title:    "Original title",
		Excerpt:  "Original excerpt.",
		Content:  "<p>Original body.</p>",
		ClientID: clientID.Hex(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	staleEs := created.TitleEs

	newTitle := "Rewritten title"
	updated, err := svc.Update(context.Background(), clientID, created.ID.Hex(), &models.UpdateBlogPostRequest{
		Title: &newTitle,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != newTitle {
		t.Errorf("title = %q", updated.Title)
	}
	if updated.TitleEs == staleEs {
		t.Error("stale Spanish title survived an English-only edit")
	}
	if updated.TitleEs != "[es]"+newTitle {
		t.Errorf("Spanish title not re-derived: %q", updated.TitleEs)
	}
	if posts.updates != 1 {
		t.Errorf("updates = %d, want 1", posts.updates)
	}
}

func TestUpdateSpanishOnlyEditRebuildsEnglishCounterpart(t *testing.T) {
	svc, _, _, _, clientID := blogFixture()

	created, err := svc.Create(context.Background(), &models.CreateBlogPostRequest{
		Title:    "Original title",
		Excerpt:  "Original excerpt.",
		Content:  "<p>Original body.</p>",
		ClientID: clientID.Hex(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newTitleEs := "Título corregido"
	updated, err := svc.Update(context.Background(), clientID, created.ID.Hex(), &models.UpdateBlogPostRequest{
		TitleEs: &newTitleEs,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.TitleEs != newTitleEs {
		t.Errorf("Spanish title = %q", updated.TitleEs)
	}
	if updated.Title == "" {
		t.Fatal("English title wiped by a Spanish-only edit")
	}
	if updated.Title != "[en]"+newTitleEs {
		t.Errorf("English title not re-derived from Spanish: %q", updated.Title)
	}
	if updated.Excerpt != "Original excerpt." || updated.Content != "<p>Original body.</p>" {
		t.Error("untouched pairs changed by a title-only edit")
	}
}

func TestUpdateSuppliedCounterpartWins(t *testing.T) {
	svc, _, translator, _, clientID := blogFixture()

	created, err := svc.Create(context.Background(), &models.CreateBlogPostRequest{
		Title:    "Original title",
		Excerpt:  "Original excerpt.",
		Content:  "<p>Original body.</p>",
		ClientID: clientID.Hex(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	before := translator.calls()

	newTitle := "Rewritten title"
	newTitleEs := "Título reescrito"
	updated, err := svc.Update(context.Background(), clientID, created.ID.Hex(), &models.UpdateBlogPostRequest{
		Title:   &newTitle,
		TitleEs: &newTitleEs,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.TitleEs != newTitleEs {
		t.Errorf("caller-supplied Spanish title overwritten: %q", updated.TitleEs)
	}
	if translator.calls() != before {
		t.Errorf("translation ran for a fully-specified pair: %d extra calls", translator.calls()-before)
	}
}

func TestUpdateRejectsCrossTenantEdit(t *testing.T) {
	svc, _, _, _, clientID := blogFixture()

	created, err := svc.Create(context.Background(), &models.CreateBlogPostRequest{
		Title:    "Tenant A post",
		Excerpt:  "Excerpt.",
		Content:  "<p>Body.</p>",
		ClientID: clientID.Hex(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	otherTenant := primitive.NewObjectID()
	newTitle := "Hijacked"
	_, err = svc.Update(context.Background(), otherTenant, created.ID.Hex(), &models.UpdateBlogPostRequest{
		Title: &newTitle,
	})
	if !errors.Is(err, utils.ErrNotFound) {
		t.Errorf("cross-tenant edit: got %v, want not-found", err)
	}
}

func TestUpdateWithoutLanguageChangeSkipsSync(t *testing.T) {
	svc, _, translator, _, clientID := blogFixture()

	created, err := svc.Create(context.Background(), &models.CreateBlogPostRequest{
		Title:    "Original title",
		Excerpt:  "Original excerpt.",
		Content:  "<p>Original body.</p>",
		ClientID: clientID.Hex(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	before := translator.calls()
	beforeDetect := translator.detectCalls

	category := "market-updates"
	if _, err := svc.Update(context.Background(), clientID, created.ID.Hex(), &models.UpdateBlogPostRequest{
		Category: &category,
	}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if translator.calls() != before || translator.detectCalls != beforeDetect {
		t.Error("metadata-only edit triggered the sync engine")
	}
}

func TestDeleteScopedToTenant(t *testing.T) {
	svc, posts, _, _, clientID := blogFixture()

	created, err := svc.Create(context.Background(), &models.CreateBlogPostRequest{
		Title:    "To be removed",
		Excerpt:  "Excerpt.",
		Content:  "<p>Body.</p>",
		ClientID: clientID.Hex(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), primitive.NewObjectID(), created.ID.Hex()); !errors.Is(err, utils.ErrNotFound) {
		t.Errorf("cross-tenant delete: got %v, want not-found", err)
	}
	if err := svc.Delete(context.Background(), clientID, created.ID.Hex()); err != nil {
		t.Errorf("owner delete failed: %v", err)
	}
	if len(posts.posts) != 0 {
		t.Error("post still present after delete")
	}
}
