package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_List(t *testing.T) {
	repo := newMockCategoryRepo()
	seedCategory(repo, "Gloves")
	seedCategory(repo, "Headgear")
	svc := NewCategoryService(repo)

	categories, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Gloves", categories[0].Name)
	assert.Equal(t, "Headgear", categories[1].Name)
}

func TestCategoryService_List_Empty(t *testing.T) {
	svc := NewCategoryService(newMockCategoryRepo())

	categories, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, categories)
}
