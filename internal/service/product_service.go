package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/adventio/giveaway-api/internal/models"
	appErrors "github.com/adventio/giveaway-api/pkg/errors"
)

type productRepository interface {
	ListByCalendar(ctx context.Context, calendarID string) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

// ProductRequest is the payload for creating or updating a prize.
type ProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
	Value       *float64 `json:"value" validate:"omitempty,min=0"`
}

// ProductService manages the prize catalogue of a calendar.
type ProductService struct {
	products  productRepository
	calendars entryCalendarRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProductService creates a new product service instance.
func NewProductService(products productRepository, calendars entryCalendarRepository, validate *validator.Validate, logger *zap.Logger) *ProductService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{products: products, calendars: calendars, validator: validate, logger: logger}
}

// ListByCalendar returns the prizes of a calendar.
func (s *ProductService) ListByCalendar(ctx context.Context, calendarID string) ([]models.Product, error) {
	if _, err := s.calendars.FindByID(ctx, calendarID); err != nil {
		return nil, appErrors.ErrCalendarNotFound
	}
	products, err := s.products.ListByCalendar(ctx, calendarID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list products")
	}
	return products, nil
}

// Get returns a product by ID.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "product not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load product")
	}
	return product, nil
}

// Create adds a prize to a calendar.
func (s *ProductService) Create(ctx context.Context, calendarID string, req ProductRequest) (*models.Product, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid product payload")
	}
	if _, err := s.calendars.FindByID(ctx, calendarID); err != nil {
		return nil, appErrors.ErrCalendarNotFound
	}

	product := &models.Product{
		CalendarID:  calendarID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Value:       req.Value,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create product")
	}
	return product, nil
}

// Update modifies a prize.
func (s *ProductService) Update(ctx context.Context, id string, req ProductRequest) (*models.Product, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid product payload")
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.ImageURL = req.ImageURL
	product.Value = req.Value

	if err := s.products.Update(ctx, product); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update product")
	}
	return product, nil
}

// Delete removes a prize. Door references are cleared by the store.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete product")
	}
	return nil
}
