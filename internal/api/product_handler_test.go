package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealio/ordering-api/internal/domain"
	"github.com/mealio/ordering-api/internal/mocks"
)

// pngBytes is a minimal payload that sniffs as image/png.
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

type productForm struct {
	fields map[string]string
	files  map[string][]byte
}

func defaultProductForm() productForm {
	return productForm{
		fields: map[string]string{
			"name":        "Nasi Goreng",
			"description": "Fried rice with chicken",
			"price":       "25000",
			"old_price":   "30000",
			"quantity":    "10",
		},
		files: map[string][]byte{"nasi.png": pngBytes},
	}
}

func (f productForm) request(t *testing.T, userID uuid.UUID) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range f.fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for name, data := range f.files {
		part, err := writer.CreateFormFile("images[]", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/add-product", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return asUser(req, userID)
}

func TestProductList(t *testing.T) {
	t.Parallel()

	t.Run("an empty catalog reads as a 404", func(t *testing.T) {
		t.Parallel()

		handler := NewProductHandler(mocks.NewMockProductStore(), newMemoryImageStore())
		rec := httptest.NewRecorder()
		handler.List(rec, newRequest(t, http.MethodGet, "/api/products", nil))

		require.Equal(t, http.StatusNotFound, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Status)
		assert.Equal(t, "Product not found", env.Message)
	})

	t.Run("returns the catalog", func(t *testing.T) {
		t.Parallel()

		products := mocks.NewMockProductStore()
		product, err := domain.NewProduct(
			uuid.New(), "Nasi Goreng", "Fried rice", 25000, 30000, 10, []string{"products/a.png"})
		require.NoError(t, err)
		products.Products[product.ID] = product

		handler := NewProductHandler(products, newMemoryImageStore())
		rec := httptest.NewRecorder()
		handler.List(rec, newRequest(t, http.MethodGet, "/api/products", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		require.Len(t, env.Products, 1)
		assert.Equal(t, product.ID, env.Products[0].ID)
	})
}

func TestProductGet(t *testing.T) {
	t.Parallel()

	products := mocks.NewMockProductStore()
	product, err := domain.NewProduct(
		uuid.New(), "Nasi Goreng", "Fried rice", 25000, 30000, 10, []string{"products/a.png"})
	require.NoError(t, err)
	products.Products[product.ID] = product
	handler := NewProductHandler(products, newMemoryImageStore())

	t.Run("returns the product", func(t *testing.T) {
		t.Parallel()

		req := withPathParam(
			newRequest(t, http.MethodGet, "/api/product-detail/"+product.ID.String(), nil),
			"id", product.ID.String())
		rec := httptest.NewRecorder()
		handler.Get(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Product found", env.Message)
		require.NotNil(t, env.Product)
		assert.Equal(t, product.ID, env.Product.ID)
	})

	t.Run("an unknown id reads as a 404", func(t *testing.T) {
		t.Parallel()

		id := uuid.New().String()
		req := withPathParam(newRequest(t, http.MethodGet, "/api/product-detail/"+id, nil), "id", id)
		rec := httptest.NewRecorder()
		handler.Get(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Product not found", env.Message)
	})

	t.Run("a malformed id reads as a 404", func(t *testing.T) {
		t.Parallel()

		req := withPathParam(newRequest(t, http.MethodGet, "/api/product-detail/abc", nil), "id", "abc")
		rec := httptest.NewRecorder()
		handler.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProductCreate(t *testing.T) {
	t.Parallel()

	t.Run("stores the images and the product", func(t *testing.T) {
		t.Parallel()

		products := mocks.NewMockProductStore()
		images := newMemoryImageStore()
		handler := NewProductHandler(products, images)
		ownerID := uuid.New()

		rec := httptest.NewRecorder()
		handler.Create(rec, defaultProductForm().request(t, ownerID))

		require.Equal(t, http.StatusCreated, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Product added successfully", env.Message)
		require.NotNil(t, env.Product)
		assert.Equal(t, ownerID, env.Product.UserID)
		require.Len(t, env.Product.ImagePaths, 1)
		assert.Len(t, images.objects, 1)
		assert.Len(t, products.Products, 1)
	})

	t.Run("missing fields are reported together", func(t *testing.T) {
		t.Parallel()

		handler := NewProductHandler(mocks.NewMockProductStore(), newMemoryImageStore())

		form := defaultProductForm()
		delete(form.fields, "name")
		delete(form.fields, "price")
		rec := httptest.NewRecorder()
		handler.Create(rec, form.request(t, uuid.New()))

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "We have an errors", env.Message)
		assert.Contains(t, env.Errors, "name")
		assert.Equal(t, []string{"The price field is required."}, env.Errors["price"])
	})

	t.Run("a non-numeric price is a field error", func(t *testing.T) {
		t.Parallel()

		handler := NewProductHandler(mocks.NewMockProductStore(), newMemoryImageStore())

		form := defaultProductForm()
		form.fields["price"] = "cheap"
		rec := httptest.NewRecorder()
		handler.Create(rec, form.request(t, uuid.New()))

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, []string{"The price field must be a number."}, env.Errors["price"])
	})

	t.Run("missing images are a field error", func(t *testing.T) {
		t.Parallel()

		handler := NewProductHandler(mocks.NewMockProductStore(), newMemoryImageStore())

		form := defaultProductForm()
		form.files = nil
		rec := httptest.NewRecorder()
		handler.Create(rec, form.request(t, uuid.New()))

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, []string{"The images field is required."}, env.Errors["images"])
	})

	t.Run("a file that is not an image is rejected and nothing is stored", func(t *testing.T) {
		t.Parallel()

		products := mocks.NewMockProductStore()
		images := newMemoryImageStore()
		handler := NewProductHandler(products, images)

		form := defaultProductForm()
		form.files = map[string][]byte{"notes.txt": []byte("plain text, not an image")}
		rec := httptest.NewRecorder()
		handler.Create(rec, form.request(t, uuid.New()))

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Contains(t, env.Errors, "images.0")
		assert.Empty(t, images.objects, "nothing may be stored when validation fails")
		assert.Empty(t, products.Products)
	})

	t.Run("a storage failure cleans up and reports a server error", func(t *testing.T) {
		t.Parallel()

		products := mocks.NewMockProductStore()
		images := newMemoryImageStore()
		images.putErr = assert.AnError
		handler := NewProductHandler(products, images)

		rec := httptest.NewRecorder()
		handler.Create(rec, defaultProductForm().request(t, uuid.New()))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Empty(t, products.Products)
	})

	t.Run("accepts files under the bare images key", func(t *testing.T) {
		t.Parallel()

		products := mocks.NewMockProductStore()
		handler := NewProductHandler(products, newMemoryImageStore())

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		for key, value := range defaultProductForm().fields {
			require.NoError(t, writer.WriteField(key, value))
		}
		part, err := writer.CreateFormFile("images", "nasi.png")
		require.NoError(t, err)
		_, err = part.Write(pngBytes)
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/add-product", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rec := httptest.NewRecorder()
		handler.Create(rec, asUser(req, uuid.New()))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Len(t, products.Products, 1)
	})
}
