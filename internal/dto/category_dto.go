package dto

import (
	"community-board-api/internal/domain"
)

// CreateCategoryRequest represents the request to create a new category
type CreateCategoryRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=50"`
	ParentID *uint  `json:"parentId,omitempty"`
}

// CategoryResponse represents the category response with its children
type CategoryResponse struct {
	CategoryID uint               `json:"categoryId"`
	Name       string             `json:"name"`
	ParentID   *uint              `json:"parentId,omitempty"`
	Children   []CategoryResponse `json:"children,omitempty"`
}

// FromCategory converts a domain category to its response form
func FromCategory(c *domain.Category) CategoryResponse {
	resp := CategoryResponse{
		CategoryID: c.ID,
		Name:       c.Name,
		ParentID:   c.ParentID,
	}
	for i := range c.Children {
		resp.Children = append(resp.Children, FromCategory(&c.Children[i]))
	}
	return resp
}

// BuildCategoryTree assembles the full category forest from a flat list
func BuildCategoryTree(categories []*domain.Category) []CategoryResponse {
	children := make(map[uint][]*domain.Category)
	var roots []*domain.Category
	for _, c := range categories {
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	var build func(c *domain.Category) CategoryResponse
	build = func(c *domain.Category) CategoryResponse {
		resp := CategoryResponse{
			CategoryID: c.ID,
			Name:       c.Name,
			ParentID:   c.ParentID,
		}
		for _, child := range children[c.ID] {
			resp.Children = append(resp.Children, build(child))
		}
		return resp
	}

	out := make([]CategoryResponse, 0, len(roots))
	for _, root := range roots {
		out = append(out, build(root))
	}
	return out
}
