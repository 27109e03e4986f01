package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mealio/ordering-api/internal/api/shared"
	"github.com/mealio/ordering-api/internal/domain"
	"github.com/mealio/ordering-api/internal/redact"
	"github.com/mealio/ordering-api/internal/storage"
	"github.com/mealio/ordering-api/internal/store"
)

const (
	// maxImageBytes caps a single uploaded image at 1 MiB.
	maxImageBytes = 1 << 20

	// maxUploadBytes caps the whole multipart request body.
	maxUploadBytes = 32 << 20
)

// allowedImageTypes are the content types an upload may sniff as.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// ProductHandler handles catalog requests.
type ProductHandler struct {
	products  store.ProductStore
	images    storage.ImageStore
	validator *validator.Validate
}

// NewProductHandler creates a new ProductHandler with the given dependencies.
func NewProductHandler(products store.ProductStore, images storage.ImageStore) *ProductHandler {
	return &ProductHandler{
		products:  products,
		images:    images,
		validator: newValidator(),
	}
}

// List handles GET /products. An empty catalog is reported as a 404, which
// the client relies on.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	if len(products) == 0 {
		shared.RespondWithError(w, r, http.StatusNotFound, "Product not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProductListResponse{
		Status:   true,
		Products: products,
	})
}

// Get handles GET /product-detail/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := getPathUUID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, "Product not found")
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Product not found")
			return
		}
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProductResponse{
		Status:  true,
		Message: "Product found",
		Product: product,
	})
}

// addProductForm carries the scalar fields of the add-product upload.
type addProductForm struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price"       validate:"gte=0"`
	OldPrice    float64 `json:"old_price"   validate:"gte=0"`
	Quantity    int     `json:"quantity"    validate:"gte=0"`
}

// uploadedImage is a fully read and validated image, held in memory until
// every part of the request has passed validation.
type uploadedImage struct {
	path        string
	contentType string
	data        []byte
}

// Create handles POST /add-product. The request is multipart form data with
// scalar fields plus one or more image files. Validation is atomic: nothing
// is written to image storage or the catalog until every field and every
// image has passed.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	form, fieldErrs := h.parseForm(r)

	files := r.MultipartForm.File["images[]"]
	if len(files) == 0 {
		files = r.MultipartForm.File["images"]
	}
	if len(files) == 0 {
		fieldErrs = addFieldError(fieldErrs, "images", "The images field is required.")
	}

	uploads, imageErrs := readImages(files)
	for field, msgs := range imageErrs {
		for _, msg := range msgs {
			fieldErrs = addFieldError(fieldErrs, field, msg)
		}
	}

	if len(fieldErrs) > 0 {
		shared.RespondWithValidationErrors(w, r, validationFailedMessage, fieldErrs)
		return
	}

	paths := make([]string, 0, len(uploads))
	stored := make([]string, 0, len(uploads))
	for _, img := range uploads {
		if err := h.images.Put(r.Context(), img.path, img.data, img.contentType); err != nil {
			h.cleanupImages(r, stored)
			respondWithMappedError(w, r, err)
			return
		}
		stored = append(stored, img.path)
		paths = append(paths, img.path)
	}

	product, err := domain.NewProduct(
		userID, form.Name, form.Description, form.Price, form.OldPrice, form.Quantity, paths)
	if err != nil {
		h.cleanupImages(r, stored)
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid product data")
		return
	}

	if err := h.products.Create(r.Context(), product); err != nil {
		h.cleanupImages(r, stored)
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, ProductResponse{
		Status:  true,
		Message: "Product added successfully",
		Product: product,
	})
}

// parseForm extracts and validates the scalar fields, accumulating
// field-level errors instead of failing on the first one.
func (h *ProductHandler) parseForm(r *http.Request) (addProductForm, map[string][]string) {
	var form addProductForm
	var fieldErrs map[string][]string

	form.Name = r.FormValue("name")
	form.Description = r.FormValue("description")

	numbers := []struct {
		field string
		dst   *float64
	}{
		{"price", &form.Price},
		{"old_price", &form.OldPrice},
	}
	for _, n := range numbers {
		raw := r.FormValue(n.field)
		if raw == "" {
			fieldErrs = addFieldError(fieldErrs, n.field, fmt.Sprintf("The %s field is required.", n.field))
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fieldErrs = addFieldError(fieldErrs, n.field, fmt.Sprintf("The %s field must be a number.", n.field))
			continue
		}
		*n.dst = v
	}

	rawQty := r.FormValue("quantity")
	if rawQty == "" {
		fieldErrs = addFieldError(fieldErrs, "quantity", "The quantity field is required.")
	} else if qty, err := strconv.Atoi(rawQty); err != nil {
		fieldErrs = addFieldError(fieldErrs, "quantity", "The quantity field must be a number.")
	} else {
		form.Quantity = qty
	}

	if err := h.validator.Struct(form); err != nil {
		for field, msgs := range fieldErrors(err) {
			for _, msg := range msgs {
				fieldErrs = addFieldError(fieldErrs, field, msg)
			}
		}
	}

	return form, fieldErrs
}

// readImages reads every uploaded file into memory and validates its size
// and sniffed content type. The map keys follow the images.N convention so
// the client can match errors to individual files.
func readImages(files []*multipart.FileHeader) ([]uploadedImage, map[string][]string) {
	uploads := make([]uploadedImage, 0, len(files))
	var fieldErrs map[string][]string

	now := time.Now().UTC()
	for i, fh := range files {
		field := fmt.Sprintf("images.%d", i)

		if fh.Size > maxImageBytes {
			fieldErrs = addFieldError(fieldErrs, field,
				fmt.Sprintf("The %s field must not be greater than 1024 kilobytes.", field))
			continue
		}

		f, err := fh.Open()
		if err != nil {
			fieldErrs = addFieldError(fieldErrs, field,
				fmt.Sprintf("The %s field failed to upload.", field))
			continue
		}
		data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
		_ = f.Close()
		if err != nil || len(data) > maxImageBytes {
			fieldErrs = addFieldError(fieldErrs, field,
				fmt.Sprintf("The %s field must not be greater than 1024 kilobytes.", field))
			continue
		}

		contentType := http.DetectContentType(data)
		if _, allowed := allowedImageTypes[contentType]; !allowed {
			fieldErrs = addFieldError(fieldErrs, field,
				fmt.Sprintf("The %s field must be a file of type: jpeg, png, jpg, gif.", field))
			continue
		}

		uploads = append(uploads, uploadedImage{
			path:        storage.ImagePath(fh.Filename, now),
			contentType: contentType,
			data:        data,
		})
	}

	return uploads, fieldErrs
}

// cleanupImages removes already stored images after a later step failed.
func (h *ProductHandler) cleanupImages(r *http.Request, paths []string) {
	for _, p := range paths {
		if err := h.images.Delete(r.Context(), p); err != nil {
			slog.Warn("failed to clean up stored image", "error", redact.Error(err), "path", p)
		}
	}
}
