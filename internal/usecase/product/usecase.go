package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "products-api/internal/domain/product"
	apperrors "products-api/pkg/errors"
	"products-api/pkg/logger"
)

// Repository defines the data access operations for products.
// GetByID, Update and Delete report a missing product as *errors.NotFoundError.
type Repository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]domain.Product, error)
}

// Service implements Usecase.
type Service struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a Service. It panics if the validation rules cannot be registered.
func New(r Repository, log *zap.Logger) *Service {
	v, err := newValidator()
	if err != nil {
		panic(fmt.Sprintf("product validator: %v", err))
	}
	return &Service{repo: r, log: log, validate: v}
}

// newValidator returns a validator that knows the "category" tag.
func newValidator() (*validator.Validate, error) {
	v := validator.New()
	err := v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		c, ok := fl.Field().Interface().(domain.Category)
		return ok && c.Valid()
	})
	if err != nil {
		return nil, fmt.Errorf("register category rule: %w", err)
	}
	return v, nil
}

// formatValidationError converts validator.ValidationErrors into a ValidationError.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field())
		switch e.Tag() {
		case "category":
			messages = append(messages, fmt.Sprintf("%s must be one of Food(0), Convenience(1), Commodities(2), Durables(3), Digital(4)", e.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return apperrors.NewValidationError(strings.Join(fields, ","), strings.Join(messages, "; "))
}

// List returns all products.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		logger.WithContext(ctx, s.log).Error("failed to list products", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to list products", err)
	}
	return products, nil
}

// Create stores a new product. The store assigns its ID.
func (s *Service) Create(ctx context.Context, in CreateProductRequest) (*domain.Product, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("creating product", zap.String("name", in.Name), zap.Stringer("category", in.Category))

	if err := s.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	created, err := s.repo.Create(ctx, &domain.Product{
		Name:     in.Name,
		Price:    in.Price,
		Category: in.Category,
	})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create product", err)
	}
	return created, nil
}

// Update overwrites name, price and category of an existing product.
func (s *Service) Update(ctx context.Context, in UpdateProductRequest) (*domain.Product, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("updating product", zap.String("id", in.ID.String()), zap.String("name", in.Name))

	if err := s.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	existing, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, passNotFound(err, "failed to update product")
	}

	existing.Name = in.Name
	existing.Price = in.Price
	existing.Category = in.Category

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, passNotFound(err, "failed to update product")
	}
	return updated, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	logger.WithContext(ctx, s.log).Info("deleting product", zap.String("id", id.String()))

	if err := s.repo.Delete(ctx, id); err != nil {
		return passNotFound(err, "failed to delete product")
	}
	return nil
}

// passNotFound returns NotFound errors unchanged and wraps anything else as
// an InternalError.
func passNotFound(err error, msg string) error {
	var nf *apperrors.NotFoundError
	if errors.As(err, &nf) {
		return nf
	}
	return apperrors.NewInternalError(msg, err)
}
