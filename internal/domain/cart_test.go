package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealio/ordering-api/internal/domain"
)

func TestNewCartItem(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	productID := uuid.New()

	tests := []struct {
		name      string
		userID    uuid.UUID
		productID uuid.UUID
		quantity  int
		wantErr   error
	}{
		{name: "valid item", userID: userID, productID: productID, quantity: 1},
		{name: "larger quantity", userID: userID, productID: productID, quantity: 12},
		{name: "zero quantity", userID: userID, productID: productID, quantity: 0, wantErr: domain.ErrInvalidQuantity},
		{name: "negative quantity", userID: userID, productID: productID, quantity: -3, wantErr: domain.ErrInvalidQuantity},
		{name: "missing user", userID: uuid.Nil, productID: productID, quantity: 1, wantErr: domain.ErrEmptyCartUser},
		{name: "missing product", userID: userID, productID: uuid.Nil, quantity: 1, wantErr: domain.ErrEmptyCartProduct},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			item, err := domain.NewCartItem(tt.userID, tt.productID, tt.quantity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, item)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.quantity, item.Quantity)
			assert.Equal(t, tt.userID, item.UserID)
			assert.Equal(t, tt.productID, item.ProductID)
		})
	}
}

func TestNewProduct(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	images := []string{"products/abc.png"}

	t.Run("valid product", func(t *testing.T) {
		t.Parallel()

		product, err := domain.NewProduct(ownerID, "Nasi Goreng", "Fried rice", 25000, 30000, 10, images)
		require.NoError(t, err)
		assert.Equal(t, ownerID, product.UserID)
		assert.Equal(t, images, product.ImagePaths)
	})

	t.Run("rejects missing images", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewProduct(ownerID, "Nasi Goreng", "Fried rice", 25000, 30000, 10, nil)
		assert.ErrorIs(t, err, domain.ErrNoProductImages)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewProduct(ownerID, "Nasi Goreng", "Fried rice", -1, 30000, 10, images)
		assert.ErrorIs(t, err, domain.ErrNegativePrice)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewProduct(ownerID, "", "Fried rice", 25000, 30000, 10, images)
		assert.ErrorIs(t, err, domain.ErrEmptyProductName)
	})
}

func TestNewNotification(t *testing.T) {
	t.Parallel()

	recipient := uuid.New()
	payload := domain.OrderNotificationData{
		ProductName: "Nasi Goreng",
		Quantity:    2,
		BuyerName:   "Ada",
	}

	notification, err := domain.NewNotification(recipient, domain.NotificationTypeOrderPlaced, payload)
	require.NoError(t, err)
	assert.Equal(t, recipient, notification.UserID)
	assert.Equal(t, domain.NotificationTypeOrderPlaced, notification.Type)
	assert.Contains(t, string(notification.Data), "Nasi Goreng")
	assert.Nil(t, notification.ReadAt)

	_, err = domain.NewNotification(recipient, "", payload)
	assert.ErrorIs(t, err, domain.ErrEmptyNotificationType)
}
