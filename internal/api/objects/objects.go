package objects

import (
	"time"

	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/internal/paginator"
)

// Post renders a post with its author and group
func Post(post *models.Post) map[string]interface{} {
	result := map[string]interface{}{
		"id":         post.ID,
		"text":       post.Text,
		"preview":    post.Preview(),
		"created_at": post.CreatedAt.UTC().Format(time.RFC3339),
		"author":     nil,
		"group":      nil,
		"image":      nil,
	}
	if post.Author != nil {
		result["author"] = Author(post.Author)
	}
	if post.Group != nil {
		result["group"] = map[string]interface{}{
			"slug":  post.Group.Slug,
			"title": post.Group.Title,
		}
	}
	if post.Image != "" {
		result["image"] = post.Image
	}
	return result
}

// Posts renders a page of posts with its pagination metadata
func Posts(page paginator.Page[models.Post]) map[string]interface{} {
	items := make([]map[string]interface{}, len(page.Items))
	for i := range page.Items {
		items[i] = Post(&page.Items[i])
	}
	return map[string]interface{}{
		"items":        items,
		"page":         page.Number,
		"page_size":    page.PageSize,
		"num_pages":    page.NumPages,
		"total":        page.Total,
		"has_previous": page.HasPrevious,
		"has_next":     page.HasNext,
	}
}

// Author renders the public part of a user
func Author(user *models.User) map[string]interface{} {
	return map[string]interface{}{
		"username":  user.Username,
		"full_name": user.FullName(),
	}
}

// Group renders a group
func Group(group *models.Group) map[string]interface{} {
	return map[string]interface{}{
		"title":       group.Title,
		"slug":        group.Slug,
		"description": group.Description,
	}
}

// Comment renders a comment
func Comment(comment *models.Comment) map[string]interface{} {
	result := map[string]interface{}{
		"id":         comment.ID,
		"post_id":    comment.PostID,
		"text":       comment.Text,
		"created_at": comment.CreatedAt.UTC().Format(time.RFC3339),
		"author":     nil,
	}
	if comment.Author != nil {
		result["author"] = Author(comment.Author)
	}
	return result
}

// Comments renders a list of comments, oldest first
func Comments(comments []*models.Comment) []map[string]interface{} {
	result := make([]map[string]interface{}, len(comments))
	for i, c := range comments {
		result[i] = Comment(c)
	}
	return result
}
