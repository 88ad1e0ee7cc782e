package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/combatessentials/api/internal/dto"
	"github.com/combatessentials/api/internal/model"
	"github.com/combatessentials/api/internal/repository"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrProductNotDeleted = errors.New("product is not deleted")
)

// PageSize is the fixed page size for every paginated listing.
const PageSize = 15

const (
	productCacheTTL    = 60 * time.Second
	RandomProductCount = 9
)

// ImageStore persists uploaded product images and yields the relative URL
// stored on the product record.
type ImageStore interface {
	Save(r io.Reader, originalName string) (string, error)
	Delete(url string) error
}

type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	images       ImageStore
	redisClient  *redis.Client
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	images ImageStore,
	redisClient *redis.Client,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		images:       images,
		redisClient:  redisClient,
	}
}

// List is the public catalog view: soft-deleted products are excluded.
func (s *ProductService) List(ctx context.Context, req dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	return s.list(ctx, req, false)
}

// ListForAdmin includes soft-deleted products and exposes their status.
func (s *ProductService) ListForAdmin(ctx context.Context, req dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	return s.list(ctx, req, true)
}

func (s *ProductService) list(ctx context.Context, req dto.ListProductsRequest, includeDeleted bool) (*dto.ProductListResponse, error) {
	offset := (req.Page - 1) * PageSize
	products, total, err := s.productRepo.List(ctx, PageSize, offset, repository.ProductFilter{
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		IncludeDeleted: includeDeleted,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}
	return &dto.ProductListResponse{Products: items, Total: total, Page: req.Page, PageSize: PageSize}, nil
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	cacheKey := "product:" + id.String()

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.ProductResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	product, err := s.productRepo.GetByID(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	resp := toProductResponse(product)

	if s.redisClient != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}
	return &resp, nil
}

// Random returns up to count active products in random order. count is
// capped by the table size through the query's LIMIT.
func (s *ProductService) Random(ctx context.Context, count int) ([]dto.ProductResponse, error) {
	if count < 1 {
		count = RandomProductCount
	}
	products, err := s.productRepo.Random(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("random products: %w", err)
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}
	return items, nil
}

func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest, image io.Reader, imageName string) (*dto.ProductResponse, error) {
	category, err := s.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	imageURL, err := s.images.Save(image, imageName)
	if err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	product := &model.Product{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		CategoryID:   req.CategoryID,
		CategoryName: category.Name,
		ImageURL:     imageURL,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	resp := toProductResponse(product)
	return &resp, nil
}

// Update replaces the product's fields; when a new image is supplied the
// previous file is removed first.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest, image io.Reader, imageName string) (*dto.ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, id, true)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	category, err := s.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.CategoryID = req.CategoryID
	product.CategoryName = category.Name

	if image != nil {
		if product.ImageURL != "" {
			if err := s.images.Delete(product.ImageURL); err != nil {
				return nil, fmt.Errorf("delete old image: %w", err)
			}
		}
		imageURL, err := s.images.Save(image, imageName)
		if err != nil {
			return nil, fmt.Errorf("save image: %w", err)
		}
		product.ImageURL = imageURL
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidateCache(ctx, id)
	resp := toProductResponse(product)
	return &resp, nil
}

// Delete soft-deletes: the row stays for historical orders, reviews and
// cart items, it just disappears from public listings.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id, true)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return ErrProductNotFound
	}

	if err := s.productRepo.SetStatus(ctx, id, model.ProductStatusDeleted); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidateCache(ctx, id)
	return nil
}

func (s *ProductService) Undelete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id, true)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return ErrProductNotFound
	}
	if !product.Deleted() {
		return ErrProductNotDeleted
	}

	if err := s.productRepo.SetStatus(ctx, id, model.ProductStatusActive); err != nil {
		return fmt.Errorf("undelete product: %w", err)
	}
	s.invalidateCache(ctx, id)
	return nil
}

// ListAll returns the whole catalog, deleted rows included, for the admin
// Excel export.
func (s *ProductService) ListAll(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.ListAll(ctx)
}

func (s *ProductService) invalidateCache(ctx context.Context, id uuid.UUID) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, "product:"+id.String())
	}
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		ImageURL:     p.ImageURL,
		Deleted:      p.Deleted(),
	}
}
