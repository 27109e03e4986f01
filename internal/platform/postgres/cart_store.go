package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/domain"
	"github.com/mealio/ordering-api/internal/platform/logger"
	"github.com/mealio/ordering-api/internal/store"
)

// CartStore implements the store.CartStore interface using a PostgreSQL
// database as the storage backend. The cart_items table carries a
// UNIQUE(user_id, product_id) constraint; Upsert leans on it so concurrent
// adds for the same pair can never produce duplicate rows.
type CartStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCartStore creates a new PostgreSQL implementation of the CartStore
// interface.
func NewCartStore(db store.DBTX, logger *slog.Logger) *CartStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CartStore{
		db:     db,
		logger: logger.With(slog.String("component", "cart_store")),
	}
}

// Ensure CartStore implements store.CartStore interface
var _ store.CartStore = (*CartStore)(nil)

// Upsert implements store.CartStore.Upsert.
// A single INSERT ... ON CONFLICT DO UPDATE makes the add-or-increment
// decision atomic in the database.
func (s *CartStore) Upsert(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := domain.NewCartItem(userID, productID, quantity)
	if err != nil {
		log.Warn("cart item validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("product_id", productID.String()))
		return nil, err
	}

	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
		RETURNING id, quantity, created_at, updated_at
	`
	err = s.db.QueryRowContext(
		ctx,
		query,
		item.ID,
		item.UserID,
		item.ProductID,
		item.Quantity,
		item.CreatedAt,
		item.UpdatedAt,
	).Scan(&item.ID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during cart upsert",
				slog.String("user_id", userID.String()),
				slog.String("product_id", productID.String()))
			return nil, fmt.Errorf("%w: product with ID %s not found",
				store.ErrInvalidEntity, productID)
		}

		log.Error("failed to upsert cart item",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("product_id", productID.String()))
		return nil, MapError(err)
	}

	log.Info("cart item upserted",
		slog.String("cart_item_id", item.ID.String()),
		slog.String("product_id", productID.String()),
		slog.Int("quantity", item.Quantity))
	return item, nil
}

const cartWithProductQuery = `
	SELECT c.id, c.user_id, c.product_id, c.quantity, c.created_at, c.updated_at,
	       p.id, p.user_id, p.name, p.description, p.price, p.old_price, p.quantity, p.image_paths, p.created_at, p.updated_at
	FROM cart_items c
	JOIN products p ON p.id = c.product_id
`

// scanCartWithProduct reads one joined cart+product row.
func scanCartWithProduct(row interface{ Scan(dest ...any) error }) (*domain.CartItem, error) {
	var item domain.CartItem
	var product domain.Product
	var imagePaths []byte

	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
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
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(imagePaths, &product.ImagePaths); err != nil {
		return nil, fmt.Errorf("failed to decode image paths: %w", err)
	}

	item.Product = &product
	return &item, nil
}

// ListByUser implements store.CartStore.ListByUser.
// Rows come back most recently created first.
func (s *CartStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := cartWithProductQuery + `
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list cart items",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	items := []*domain.CartItem{}
	for rows.Next() {
		item, err := scanCartWithProduct(rows)
		if err != nil {
			log.Error("failed to scan cart row",
				slog.String("error", err.Error()))
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed cart items",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(items)))
	return items, nil
}

// Delete implements store.CartStore.Delete.
// Only rows owned by the given user can be deleted; a row owned by someone
// else reports ErrCartItemNotFound, same as a missing row.
func (s *CartStore) Delete(ctx context.Context, userID, itemID uuid.UUID) (*domain.CartItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Load first so the response can name the product, then delete with the
	// ownership predicate repeated.
	query := cartWithProductQuery + ` WHERE c.id = $1 AND c.user_id = $2`

	item, err := scanCartWithProduct(s.db.QueryRowContext(ctx, query, itemID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("cart item not found for delete",
				slog.String("cart_item_id", itemID.String()))
			return nil, store.ErrCartItemNotFound
		}
		log.Error("failed to load cart item for delete",
			slog.String("error", err.Error()),
			slog.String("cart_item_id", itemID.String()))
		return nil, MapError(err)
	}

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM cart_items WHERE id = $1 AND user_id = $2`,
		itemID,
		userID,
	)
	if err != nil {
		log.Error("failed to delete cart item",
			slog.String("error", err.Error()),
			slog.String("cart_item_id", itemID.String()))
		return nil, MapError(err)
	}

	if err := CheckRowsAffected(result, "cart item"); err != nil {
		return nil, store.ErrCartItemNotFound
	}

	log.Info("cart item deleted",
		slog.String("cart_item_id", itemID.String()),
		slog.String("user_id", userID.String()))
	return item, nil
}

// DeleteMany implements store.CartStore.DeleteMany.
// IDs that do not exist or belong to another user are skipped; the returned
// count reflects rows actually removed.
func (s *CartStore) DeleteMany(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(itemIDs) == 0 {
		return 0, nil
	}

	// database/sql has no array binding, so build the placeholder list.
	placeholders := make([]string, len(itemIDs))
	args := make([]any, 0, len(itemIDs)+1)
	args = append(args, userID)
	for i, id := range itemIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	query := fmt.Sprintf(
		`DELETE FROM cart_items WHERE user_id = $1 AND id IN (%s)`,
		strings.Join(placeholders, ", "),
	)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete cart items",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("requested", len(itemIDs)))
		return 0, MapError(err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Info("cart items deleted",
		slog.String("user_id", userID.String()),
		slog.Int("requested", len(itemIDs)),
		slog.Int64("deleted", deleted))
	return deleted, nil
}
