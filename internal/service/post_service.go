package service

import (
	"context"
	"log/slog"
	"time"

	"inkwell/internal/featureflags"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	postRepo repository.PostRepository
	flags    *featureflags.Manager
	now      func() time.Time
}

type CreatePostInput struct {
	Title   string
	Content string
}

type EditPostInput struct {
	PostID  uint
	Title   string
	Content string
}

func NewPostService(postRepo repository.PostRepository, flags *featureflags.Manager) *PostService {
	return &PostService{
		postRepo: postRepo,
		flags:    flags,
		now:      time.Now,
	}
}

// ListPosts returns every post in insertion order.
func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.postRepo.List(ctx)
}

func (s *PostService) CreatePost(ctx context.Context, ident *models.Identity, in CreatePostInput) (_ *models.Post, err error) {
	ctx, end := observability.StartSpan(ctx, "post.create")
	defer func() {
		end(err)
		middleware.PostOperations.WithLabelValues("create", outcome(err)).Inc()
	}()

	if ident == nil {
		return nil, models.NewAuthRequiredError()
	}
	if err := validation.ValidatePostInput(in.Title, in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if !s.flags.Enabled(featureflags.RelaxedPostUniqueness, ident.UserID) {
		taken, err := s.postRepo.ExistsByTitle(ctx, in.Title)
		if err != nil {
			return nil, err
		}
		if !taken {
			taken, err = s.postRepo.ExistsByContent(ctx, in.Content)
			if err != nil {
				return nil, err
			}
		}
		if taken {
			return nil, models.NewDuplicatePostError()
		}
	}

	post := &models.Post{
		Title:      in.Title,
		Content:    in.Content,
		DatePosted: s.now().UTC(),
	}
	if s.flags.Enabled(featureflags.RecordPostAuthor, ident.UserID) {
		authorID := ident.UserID
		post.AuthorID = &authorID
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "post created", slog.Uint64("post_id", uint64(post.ID)))
	return post, nil
}

// GetPostForEdit loads a post for the edit form.
func (s *PostService) GetPostForEdit(ctx context.Context, ident *models.Identity, id uint) (*models.Post, error) {
	if ident == nil {
		return nil, models.NewAuthRequiredError()
	}
	return s.postRepo.GetByID(ctx, id)
}

// EditPost overwrites title and content. Any logged-in user may edit any post.
func (s *PostService) EditPost(ctx context.Context, ident *models.Identity, in EditPostInput) (_ *models.Post, err error) {
	ctx, end := observability.StartSpan(ctx, "post.edit", attribute.Int64("post_id", int64(in.PostID)))
	defer func() {
		end(err)
		middleware.PostOperations.WithLabelValues("edit", outcome(err)).Inc()
	}()

	if ident == nil {
		return nil, models.NewAuthRequiredError()
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidatePostInput(in.Title, in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post.Title = in.Title
	post.Content = in.Content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post permanently. Anonymous callers may delete unless
// the guard_post_delete flag is on.
func (s *PostService) DeletePost(ctx context.Context, ident *models.Identity, id uint) (err error) {
	ctx, end := observability.StartSpan(ctx, "post.delete", attribute.Int64("post_id", int64(id)))
	defer func() {
		end(err)
		middleware.PostOperations.WithLabelValues("delete", outcome(err)).Inc()
	}()

	if ident == nil && s.flags.Enabled(featureflags.GuardPostDelete, 0) {
		return models.NewAuthRequiredError()
	}

	if _, err := s.postRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, id)
}
