package db

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yatube/yatube/internal/models"
)

// PostOrder is the listing order for posts: newest first, id breaks ties
const PostOrder = "created_at DESC, id DESC"

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn inside a transaction. The repository passed to fn is
// bound to the transaction; fn returning an error rolls everything back.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// Snapshot runs fn inside a read-only transaction so that every query in fn
// sees the same point-in-time view of the data.
func (r *Repository) Snapshot(ctx context.Context, fn func(tx *Repository) error) error {
	var opts *sql.TxOptions
	if r.db.Dialector.Name() == "postgres" {
		opts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	}, opts)
}

// UserRepository provides user-related database operations
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// SetStaff grants or revokes staff rights. It reports whether the user
// exists.
func (r *UserRepository) SetStaff(ctx context.Context, username string, staff bool) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Update("is_staff", staff)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes a user; posts, comments and follow edges cascade
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

// GroupRepository provides group-related database operations
type GroupRepository struct {
	*Repository
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(repo *Repository) *GroupRepository {
	return &GroupRepository{Repository: repo}
}

// GetByID retrieves a group by ID
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

// GetBySlug retrieves a group by slug
func (r *GroupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

// Create creates a new group
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// Update updates a group
func (r *GroupRepository) Update(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Save(group).Error
}

// HasPosts reports whether any post references the group
func (r *GroupRepository) HasPosts(ctx context.Context, groupID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("group_id = ?", groupID).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetByID retrieves a post by ID with its author and group
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// UpdateContent rewrites the editable columns of a post. created_at and
// author_id are never part of the update.
func (r *PostRepository) UpdateContent(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).
		Model(post).
		Select("text", "group_id", "image").
		Updates(post).Error
}

// CountByAuthor counts the posts written by an author
func (r *PostRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// All returns the unordered query over every post
func (r *PostRepository) All(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Post{})
}

// ByGroup returns the unordered query over a group's posts
func (r *PostRepository) ByGroup(ctx context.Context, groupID int64) *gorm.DB {
	return r.All(ctx).Where("group_id = ?", groupID)
}

// ByAuthor returns the unordered query over an author's posts
func (r *PostRepository) ByAuthor(ctx context.Context, authorID int64) *gorm.DB {
	return r.All(ctx).Where("author_id = ?", authorID)
}

// FollowedBy returns the unordered query over posts whose author is followed
// by userID.
func (r *PostRepository) FollowedBy(ctx context.Context, userID int64) *gorm.DB {
	authors := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Select("author_id").
		Where("user_id = ?", userID)
	return r.All(ctx).Where("author_id IN (?)", authors)
}

// ListScope orders a post listing and loads its relations
func ListScope(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Group").Order(PostOrder)
}

// CommentRepository provides comment-related database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListByPost returns a post's comments, oldest first
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	var comments []*models.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// FollowRepository provides follow-edge database operations
type FollowRepository struct {
	*Repository
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(repo *Repository) *FollowRepository {
	return &FollowRepository{Repository: repo}
}

// Create inserts the (user, author) edge unless it already exists. It reports
// whether a row was inserted.
func (r *FollowRepository) Create(ctx context.Context, userID, authorID int64) (bool, error) {
	follow := &models.Follow{UserID: userID, AuthorID: authorID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
			DoNothing: true,
		}).
		Create(follow)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the (user, author) edge. It reports whether a row existed.
func (r *FollowRepository) Delete(ctx context.Context, userID, authorID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Exists reports whether userID follows authorID
func (r *FollowRepository) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountFollowers counts the users following authorID
func (r *FollowRepository) CountFollowers(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// CountFollowing counts the authors userID follows
func (r *FollowRepository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountAll counts every follow edge
func (r *FollowRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Count(&count).Error
	return count, err
}
