package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/workshoperp/backend/internal/domain/inventory"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// CategoryService manages the item category reference data
type CategoryService struct {
	categoryRepo inventory.ItemCategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo inventory.ItemCategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategoryRequest represents a request to create an item category
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// CategoryResponse represents an item category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCategory creates an item category with a unique name
func (s *CategoryService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	existing, err := s.categoryRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists.WithMessage("A category with this name already exists")
	}

	category, err := inventory.NewItemCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// ListCategories returns categories matching the filter
func (s *CategoryService) ListCategories(ctx context.Context, filter shared.Filter) (*shared.Paginated[CategoryResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	categories, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.categoryRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, *toCategoryResponse(&categories[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateCategory renames a category or changes its description
func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing, err := s.categoryRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.ID != category.ID {
		return nil, shared.ErrAlreadyExists.WithMessage("A category with this name already exists")
	}

	category.Name = req.Name
	category.Description = req.Description
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// DeleteCategory removes a category that no item references
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	itemCount, err := s.categoryRepo.CountItems(ctx, id)
	if err != nil {
		return err
	}
	if itemCount > 0 {
		return shared.ErrConflict.WithMessage("Categories with items cannot be deleted")
	}

	return s.categoryRepo.Delete(ctx, id)
}

// toCategoryResponse maps a domain category to its response shape
func toCategoryResponse(category *inventory.ItemCategory) *CategoryResponse {
	return &CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}
