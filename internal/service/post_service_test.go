package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mowen-next/internal/authz"
	"github.com/mowen-next/internal/constants"
	"github.com/mowen-next/internal/models"
	"github.com/mowen-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupPostServiceTest(t *testing.T) (*PostService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:posttest?mode=memory&cache=shared"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Post{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewPostService(repository.NewPostRepository(db), nil), db
}

func createTestAdmin(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email: email,
		Name:  "Tester",
		Role:  constants.RoleAdmin,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create admin user failed: %v", err)
	}
	return user
}

func adminSession(user *models.User) authz.Session {
	return authz.Session{UserID: user.ID, Role: user.Role}
}

func TestPostServiceCreate_GeneratesSlugAndPublishedAt(t *testing.T) {
	svc, db := setupPostServiceTest(t)
	admin := createTestAdmin(t, db, "create-slug@test.local")
	ctx := context.Background()

	view, err := svc.Create(ctx, adminSession(admin), CreatePostInput{
		Title:     "Hello, World!",
		Content:   "first post",
		Published: true,
	})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if view.Slug != "hello-world" {
		t.Fatalf("expected slug hello-world, got %q", view.Slug)
	}
	if !view.Published {
		t.Fatalf("expected post to be published")
	}
	if view.PublishedAt == nil {
		t.Fatalf("expected published_at to be set on publish")
	}
	if view.CreatedBy.ID != admin.ID {
		t.Fatalf("expected creator id %d, got %d", admin.ID, view.CreatedBy.ID)
	}
}

func TestPostServiceCreate_DraftHasNoPublishedAt(t *testing.T) {
	svc, db := setupPostServiceTest(t)
	admin := createTestAdmin(t, db, "create-draft@test.local")

	view, err := svc.Create(context.Background(), adminSession(admin), CreatePostInput{
		Title:   "Draft Only Entry",
		Content: "draft body",
	})
	if err != nil {
		t.Fatalf("create draft failed: %v", err)
	}
	if view.Published {
		t.Fatalf("expected draft, got published post")
	}
	if view.PublishedAt != nil {
		t.Fatalf("expected nil published_at for draft, got %v", view.PublishedAt)
	}
}

func TestPostServiceCreate_SlugConflict(t *testing.T) {
	svc, db := setupPostServiceTest(t)
	admin := createTestAdmin(t, db, "create-conflict@test.local")
	ctx := context.Background()
	sess := adminSession(admin)

	if _, err := svc.Create(ctx, sess, CreatePostInput{Title: "Conflict Target", Content: "a"}); err != nil {
		t.Fatalf("create first post failed: %v", err)
	}
	// 不同标题归一化到同一 slug
	_, err := svc.Create(ctx, sess, CreatePostInput{Title: "Conflict   Target!", Content: "b"})
	if !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
}

func TestPostServiceCreate_EmptySlugTreatedAsConflict(t *testing.T) {
	svc, db := setupPostServiceTest(t)
	admin := createTestAdmin(t, db, "create-empty-slug@test.local")

	_, err := svc.Create(context.Background(), adminSession(admin), CreatePostInput{
		Title:   "!!!",
		Content: "symbols only",
	})
	if !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists for unrepresentable title, got %v", err)
	}
}

func TestPostServiceCreate_ValidatesRequiredFields(t *testing.T) {
	svc, db := setupPostServiceTest(t)
	admin := createTestAdmin(t, db, "create-validate@test.local")
	ctx := context.Background()
	sess := adminSession(admin)

	if _, err := svc.Create(ctx, sess, CreatePostInput{Content: "no title"}); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if _, err := svc.Create(ctx, sess, CreatePostInput{Title: "No Body Here"}); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
	// 纯空白与空值同等对待
	if _, err := svc.Create(ctx, sess, CreatePostInput{Title: "   \t", Content: "body"}); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle for blank title, got %v", err)
	}
	if _, err := svc.Create(ctx, sess, CreatePostInput{Title: "Blank Body Entry", Content: "   \t\n"}); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent for blank content, got %v", err)
	}
}

func TestPostServiceUpdate_RejectsBlankFields(t *testing.T) {
	svc, db := setupPostServiceTest(t)
	admin := createTestAdmin(t, db, "update-blank@test.local")
	ctx := context.Background()
	sess := adminSession(admin)

	created, err := svc.Create(ctx, sess, CreatePostInput{Title: "Update Blank Guard", Content: "body"})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}

	blank := "   \t\n"
	if _, err := svc.Update(ctx, sess, created.ID, UpdatePostInput{Title: &blank}); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle for blank title, got %v", err)
	}
	if _, err := svc.Update(ctx, sess, created.ID, UpdatePostInput{Content: &blank}); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent for blank content, got %v", err)
	}

	unchanged, err := svc.GetByIDForAdmin(sess, created.ID)
	if err != nil {
		t.Fatalf("fetch post failed: %v", err)
	}
	if unchanged.Content != "body" {
		t.Fatalf("expected content untouched, got %q", unchanged.Content)
	}
}

func TestPostServiceUpdate_KeepsPublishedAtOnUnpublish(t *testing.T) {
	svc, db := setupPostServiceTest(t)
	admin := createTestAdmin(t, db, "update-unpublish@test.local")
	ctx := context.Background()
	sess := adminSession(admin)

	created, err := svc.Create(ctx, sess, CreatePostInput{
		Title:     "Update Keeps Timestamp",
		Content:   "body",
		Published: true,
	})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if created.PublishedAt == nil {
		t.Fatalf("expected published_at after publish")
	}

	published := false
	updated, err := svc.Update(ctx, sess, created.ID, UpdatePostInput{Published: &published})
	if err != nil {
		t.Fatalf("update post failed: %v", err)
	}
	if updated.Published {
		t.Fatalf("expected post to be unpublished")
	}
	if updated.PublishedAt == nil {
		t.Fatalf("expected update to keep published_at on unpublish")
	}
	if !updated.PublishedAt.Equal(*created.PublishedAt) {
		t.Fatalf("expected published_at unchanged, got %v vs %v", updated.PublishedAt, created.PublishedAt)
	}
}

func TestPostServiceUpdate_RepublishKeepsPublishedAt(t *testing.T) {
	svc, db := setupPostServiceTest(t)
	admin := createTestAdmin(t, db, "update-republish@test.local")
	ctx := context.Background()
	sess := adminSession(admin)

	created, err := svc.Create(ctx, sess, CreatePostInput{
		Title:     "Republish Keeps Timestamp",
		Content:   "body",
		Published: true,
	})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if created.PublishedAt == nil {
		t.Fatalf("expected published_at after publish")
	}

	// 对已发布文章重复提交 published=true 不应改写发布时间
	published := true
	updated, err := svc.Update(ctx, sess, created.ID, UpdatePostInput{Published: &published})
	if err != nil {
		t.Fatalf("update post failed: %v", err)
	}
	if !updated.Published {
		t.Fatalf("expected post to stay published")
	}
	if updated.PublishedAt == nil || !updated.PublishedAt.Equal(*created.PublishedAt) {
		t.Fatalf("expected published_at unchanged on re-publish, got %v vs %v",
			updated.PublishedAt, created.PublishedAt)
	}
}

func TestPostServiceUpdate_TitleChangeRegeneratesSlug(t *testing.T) {
	svc, db := setupPostServiceTest(t)
	admin := createTestAdmin(t, db, "update-slug@test.local")
	ctx := context.Background()
	sess := adminSession(admin)

	created, err := svc.Create(ctx, sess, CreatePostInput{Title: "Original Rename Title", Content: "body"})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}

	newTitle := "Renamed Entry Title"
	updated, err := svc.Update(ctx, sess, created.ID, UpdatePostInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("update title failed: %v", err)
	}
	if updated.Slug != "renamed-entry-title" {
		t.Fatalf("expected regenerated slug, got %q", updated.Slug)
	}
}

func TestPostServiceUpdate_SlugConflictWithOtherPost(t *testing.T) {
	svc, db := setupPostServiceTest(t)
	admin := createTestAdmin(t, db, "update-conflict@test.local")
	ctx := context.Background()
	sess := adminSession(admin)

	if _, err := svc.Create(ctx, sess, CreatePostInput{Title: "Occupied Update Slot", Content: "a"}); err != nil {
		t.Fatalf("create first post failed: %v", err)
	}
	second, err := svc.Create(ctx, sess, CreatePostInput{Title: "Second Update Slot", Content: "b"})
	if err != nil {
		t.Fatalf("create second post failed: %v", err)
	}

	conflictTitle := "Occupied Update Slot"
	if _, err := svc.Update(ctx, sess, second.ID, UpdatePostInput{Title: &conflictTitle}); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
}

func TestPostServiceTogglePublish_ClearsPublishedAt(t *testing.T) {
	svc, db := setupPostServiceTest(t)
	admin := createTestAdmin(t, db, "toggle@test.local")
	ctx := context.Background()
	sess := adminSession(admin)

	created, err := svc.Create(ctx, sess, CreatePostInput{Title: "Toggle Lifecycle Post", Content: "body"})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}

	published, err := svc.TogglePublish(ctx, sess, created.ID)
	if err != nil {
		t.Fatalf("toggle publish failed: %v", err)
	}
	if !published.Published || published.PublishedAt == nil {
		t.Fatalf("expected published post with timestamp, got published=%v at=%v",
			published.Published, published.PublishedAt)
	}

	unpublished, err := svc.TogglePublish(ctx, sess, created.ID)
	if err != nil {
		t.Fatalf("toggle unpublish failed: %v", err)
	}
	if unpublished.Published {
		t.Fatalf("expected post back to draft")
	}
	if unpublished.PublishedAt != nil {
		t.Fatalf("expected toggle to clear published_at, got %v", unpublished.PublishedAt)
	}
}

func TestPostServiceGetPublishedBySlug_HidesDrafts(t *testing.T) {
	svc, db := setupPostServiceTest(t)
	admin := createTestAdmin(t, db, "get-draft@test.local")
	ctx := context.Background()
	sess := adminSession(admin)

	created, err := svc.Create(ctx, sess, CreatePostInput{Title: "Hidden Draft Piece", Content: "body"})
	if err != nil {
		t.Fatalf("create draft failed: %v", err)
	}

	if _, err := svc.GetPublishedBySlug(ctx, created.Slug); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for draft slug, got %v", err)
	}
	if _, err := svc.GetPublishedBySlug(ctx, "no-such-slug"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing slug, got %v", err)
	}

	if _, err := svc.TogglePublish(ctx, sess, created.ID); err != nil {
		t.Fatalf("toggle publish failed: %v", err)
	}
	view, err := svc.GetPublishedBySlug(ctx, created.Slug)
	if err != nil {
		t.Fatalf("get published post failed: %v", err)
	}
	if view.Slug != created.Slug {
		t.Fatalf("expected slug %q, got %q", created.Slug, view.Slug)
	}
}

func TestPostServiceDelete_NotFound(t *testing.T) {
	svc, db := setupPostServiceTest(t)
	admin := createTestAdmin(t, db, "delete-missing@test.local")

	err := svc.Delete(context.Background(), adminSession(admin), 99999999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostServiceListForAdmin_FiltersByPublished(t *testing.T) {
	svc, db := setupPostServiceTest(t)
	admin := createTestAdmin(t, db, "admin-list@test.local")
	ctx := context.Background()
	sess := adminSession(admin)

	if _, err := svc.Create(ctx, sess, CreatePostInput{Title: "Admin List Draft Row", Content: "a"}); err != nil {
		t.Fatalf("create draft failed: %v", err)
	}
	if _, err := svc.Create(ctx, sess, CreatePostInput{Title: "Admin List Live Row", Content: "b", Published: true}); err != nil {
		t.Fatalf("create published failed: %v", err)
	}

	published := false
	drafts, err := svc.ListForAdmin(sess, 1, 50, &published)
	if err != nil {
		t.Fatalf("list drafts failed: %v", err)
	}
	for _, p := range drafts.Posts {
		if p.Published {
			t.Fatalf("expected only drafts, got published post %q", p.Slug)
		}
	}

	all, err := svc.ListForAdmin(sess, 1, 50, nil)
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if all.TotalCount < drafts.TotalCount {
		t.Fatalf("expected all >= drafts, got %d < %d", all.TotalCount, drafts.TotalCount)
	}
}

func TestPostServiceListPublished_Pagination(t *testing.T) {
	svc, db := setupPostServiceTest(t)
	admin := createTestAdmin(t, db, "pagination@test.local")
	ctx := context.Background()
	sess := adminSession(admin)

	titles := []string{
		"Pagination Sample One",
		"Pagination Sample Two",
		"Pagination Sample Three",
	}
	for _, title := range titles {
		if _, err := svc.Create(ctx, sess, CreatePostInput{Title: title, Content: "body", Published: true}); err != nil {
			t.Fatalf("create %q failed: %v", title, err)
		}
	}

	page1, err := svc.ListPublished(1, 2)
	if err != nil {
		t.Fatalf("list page 1 failed: %v", err)
	}
	if len(page1.Posts) != 2 {
		t.Fatalf("expected 2 posts on page 1, got %d", len(page1.Posts))
	}
	if !page1.HasMore || page1.NextPage == nil || *page1.NextPage != 2 {
		t.Fatalf("expected has_more with next_page=2, got has_more=%v next=%v", page1.HasMore, page1.NextPage)
	}

	lastPage := int(page1.TotalCount+1) / 2
	last, err := svc.ListPublished(lastPage, 2)
	if err != nil {
		t.Fatalf("list last page failed: %v", err)
	}
	if last.HasMore {
		t.Fatalf("expected no more pages after page %d", lastPage)
	}
	if last.NextPage != nil {
		t.Fatalf("expected nil next_page on last page, got %d", *last.NextPage)
	}
}

// failingPostRepo 任何访问都视为越权后的数据触达
type failingPostRepo struct {
	t *testing.T
}

func (r *failingPostRepo) fail() {
	r.t.Helper()
	r.t.Fatalf("store accessed before authorization check")
}

func (r *failingPostRepo) List(repository.PostListFilter) ([]models.Post, int64, error) {
	r.fail()
	return nil, 0, nil
}
func (r *failingPostRepo) GetBySlug(string, bool) (*models.Post, error) { r.fail(); return nil, nil }
func (r *failingPostRepo) GetByID(uint) (*models.Post, error)           { r.fail(); return nil, nil }
func (r *failingPostRepo) Create(*models.Post) error                    { r.fail(); return nil }
func (r *failingPostRepo) Update(*models.Post) error                    { r.fail(); return nil }
func (r *failingPostRepo) UpdateFields(uint, map[string]interface{}) error {
	r.fail()
	return nil
}
func (r *failingPostRepo) Delete(uint) error { r.fail(); return nil }
func (r *failingPostRepo) CountBySlug(string, *uint) (int64, error) {
	r.fail()
	return 0, nil
}

func TestPostServiceAdminOps_RejectNonAdminBeforeStoreAccess(t *testing.T) {
	svc := NewPostService(&failingPostRepo{t: t}, nil)
	ctx := context.Background()

	sessions := []authz.Session{
		{},                                     // 未登录
		{UserID: 7, Role: constants.RoleUser},  // 普通用户
		{UserID: 7, Role: "admin"},             // 大小写不一致
		{UserID: 0, Role: constants.RoleAdmin}, // 无主体
	}
	for _, sess := range sessions {
		if _, err := svc.ListForAdmin(sess, 1, 10, nil); !errors.Is(err, authz.ErrForbidden) {
			t.Fatalf("ListForAdmin: expected ErrForbidden for %+v, got %v", sess, err)
		}
		if _, err := svc.GetByIDForAdmin(sess, 1); !errors.Is(err, authz.ErrForbidden) {
			t.Fatalf("GetByIDForAdmin: expected ErrForbidden for %+v, got %v", sess, err)
		}
		if _, err := svc.Create(ctx, sess, CreatePostInput{Title: "x", Content: "y"}); !errors.Is(err, authz.ErrForbidden) {
			t.Fatalf("Create: expected ErrForbidden for %+v, got %v", sess, err)
		}
		if _, err := svc.Update(ctx, sess, 1, UpdatePostInput{}); !errors.Is(err, authz.ErrForbidden) {
			t.Fatalf("Update: expected ErrForbidden for %+v, got %v", sess, err)
		}
		if err := svc.Delete(ctx, sess, 1); !errors.Is(err, authz.ErrForbidden) {
			t.Fatalf("Delete: expected ErrForbidden for %+v, got %v", sess, err)
		}
		if _, err := svc.TogglePublish(ctx, sess, 1); !errors.Is(err, authz.ErrForbidden) {
			t.Fatalf("TogglePublish: expected ErrForbidden for %+v, got %v", sess, err)
		}
	}
}
