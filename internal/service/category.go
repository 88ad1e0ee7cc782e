package service

import (
	"context"
	"fmt"

	"github.com/combatessentials/api/internal/dto"
	"github.com/combatessentials/api/internal/repository"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	items := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		items = append(items, dto.CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return items, nil
}
