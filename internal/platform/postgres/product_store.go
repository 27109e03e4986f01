package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/domain"
	"github.com/mealio/ordering-api/internal/platform/logger"
	"github.com/mealio/ordering-api/internal/store"
)

// ProductStore implements the store.ProductStore interface using a PostgreSQL
// database as the storage backend. Image paths are stored as a JSONB array to
// preserve submission order.
type ProductStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProductStore creates a new PostgreSQL implementation of the ProductStore
// interface.
func NewProductStore(db store.DBTX, logger *slog.Logger) *ProductStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ProductStore{
		db:     db,
		logger: logger.With(slog.String("component", "product_store")),
	}
}

// Ensure ProductStore implements store.ProductStore interface
var _ store.ProductStore = (*ProductStore)(nil)

// Create implements store.ProductStore.Create.
// Returns store.ErrInvalidEntity if the owning user does not exist.
func (s *ProductStore) Create(ctx context.Context, product *domain.Product) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := product.Validate(); err != nil {
		log.Warn("product validation failed during create",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return err
	}

	imagePaths, err := json.Marshal(product.ImagePaths)
	if err != nil {
		return fmt.Errorf("failed to encode image paths: %w", err)
	}

	query := `
		INSERT INTO products (id, user_id, name, description, price, old_price, quantity, image_paths, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.UserID,
		product.Name,
		product.Description,
		product.Price,
		product.OldPrice,
		product.Quantity,
		imagePaths,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during product creation",
				slog.String("product_id", product.ID.String()),
				slog.String("user_id", product.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, product.UserID)
		}

		log.Error("failed to create product",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return MapError(err)
	}

	log.Info("product created successfully",
		slog.String("product_id", product.ID.String()),
		slog.String("user_id", product.UserID.String()))
	return nil
}

const productWithOwnerQuery = `
	SELECT p.id, p.user_id, p.name, p.description, p.price, p.old_price, p.quantity, p.image_paths, p.created_at, p.updated_at,
	       u.id, u.name, u.email, u.google_id, u.profile_picture, u.created_at, u.updated_at
	FROM products p
	JOIN users u ON u.id = p.user_id
`

// scanProductWithOwner reads one joined product+owner row.
func scanProductWithOwner(row interface{ Scan(dest ...any) error }) (*domain.Product, error) {
	var product domain.Product
	var owner domain.User
	var imagePaths []byte
	var googleID, profilePicture sql.NullString

	err := row.Scan(
		&product.ID,
		&product.UserID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.OldPrice,
		&product.Quantity,
		&imagePaths,
		&product.CreatedAt,
		&product.UpdatedAt,
		&owner.ID,
		&owner.Name,
		&owner.Email,
		&googleID,
		&profilePicture,
		&owner.CreatedAt,
		&owner.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(imagePaths, &product.ImagePaths); err != nil {
		return nil, fmt.Errorf("failed to decode image paths: %w", err)
	}

	owner.GoogleID = googleID.String
	owner.ProfilePicture = profilePicture.String
	product.User = &owner
	return &product, nil
}

// GetByID implements store.ProductStore.GetByID.
// Returns store.ErrProductNotFound if the product does not exist.
func (s *ProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := productWithOwnerQuery + ` WHERE p.id = $1`

	product, err := scanProductWithOwner(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("product not found", slog.String("product_id", id.String()))
			return nil, store.ErrProductNotFound
		}
		log.Error("failed to get product by ID",
			slog.String("error", err.Error()),
			slog.String("product_id", id.String()))
		return nil, MapError(err)
	}

	return product, nil
}

// List implements store.ProductStore.List. Products come back in random
// order, matching the storefront's shuffled listing.
func (s *ProductStore) List(ctx context.Context) ([]*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := productWithOwnerQuery + ` ORDER BY random()`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list products",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProductWithOwner(rows)
		if err != nil {
			log.Error("failed to scan product row",
				slog.String("error", err.Error()))
			return nil, err
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed products", slog.Int("count", len(products)))
	return products, nil
}
