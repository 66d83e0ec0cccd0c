package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/validation"
)

func newProductService(m *storeMocks) ProductService {
	return NewProductService(m.store, nil, validation.New())
}

func testProduct(categoryID uuid.UUID) *model.Product {
	return &model.Product{
		Name:          "Wireless Headphones",
		Description:   "Over-ear, 30h battery",
		Price:         decimal.NewFromFloat(89.99),
		CategoryID:    categoryID,
		StockQuantity: 10,
	}
}

func TestCreateProduct_Success(t *testing.T) {
	m := newStoreMocks()
	svc := newProductService(m)

	categoryID := uuid.New()
	product := testProduct(categoryID)
	m.categories.On("FindByID", mock.Anything, categoryID, false).Return(&model.Category{ID: categoryID}, nil)
	m.products.On("Create", mock.Anything, product).Return(nil)

	got, err := svc.CreateProduct(context.Background(), product)

	assert.NoError(t, err)
	assert.Equal(t, "Wireless Headphones", got.Name)
}

func TestCreateProduct_NegativePrice(t *testing.T) {
	m := newStoreMocks()
	svc := newProductService(m)

	product := testProduct(uuid.New())
	product.Price = decimal.NewFromInt(-1)

	_, err := svc.CreateProduct(context.Background(), product)

	assert.True(t, apperrors.IsValidation(err))
	m.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	m := newStoreMocks()
	svc := newProductService(m)

	categoryID := uuid.New()
	product := testProduct(categoryID)
	m.categories.On("FindByID", mock.Anything, categoryID, false).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.CreateProduct(context.Background(), product)

	assert.True(t, apperrors.IsNotFound(err))
	m.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateProduct_MovesCategory(t *testing.T) {
	m := newStoreMocks()
	svc := newProductService(m)

	id := uuid.New()
	newCategory := uuid.New()
	product := testProduct(uuid.New())
	product.ID = id
	m.products.On("FindByID", mock.Anything, id, false).Return(product, nil)
	m.categories.On("FindByID", mock.Anything, newCategory, false).Return(&model.Category{ID: newCategory}, nil)
	m.products.On("Save", mock.Anything, product).Return(nil)

	got, err := svc.UpdateProduct(context.Background(), id, UpdateProductInput{CategoryID: &newCategory})

	assert.NoError(t, err)
	assert.Equal(t, newCategory, got.CategoryID)
}

func TestDeleteProduct_RestrictedWhileOrdered(t *testing.T) {
	m := newStoreMocks()
	svc := newProductService(m)

	id := uuid.New()
	m.products.On("FindByID", mock.Anything, id, false).Return(&model.Product{ID: id}, nil)
	m.orderItems.On("ExistsByProduct", mock.Anything, id).Return(true, nil)

	err := svc.DeleteProduct(context.Background(), id)

	assert.True(t, apperrors.IsReferentialIntegrity(err))
	m.products.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestDeleteProduct_CascadesImages(t *testing.T) {
	m := newStoreMocks()
	svc := newProductService(m)

	id := uuid.New()
	m.products.On("FindByID", mock.Anything, id, false).Return(&model.Product{ID: id}, nil)
	m.orderItems.On("ExistsByProduct", mock.Anything, id).Return(false, nil)
	m.productImages.On("SoftDeleteByProduct", mock.Anything, id).Return(nil)
	m.products.On("SoftDelete", mock.Anything, id).Return(nil)

	err := svc.DeleteProduct(context.Background(), id)

	assert.NoError(t, err)
	m.productImages.AssertExpectations(t)
	m.products.AssertExpectations(t)
}

func TestAddImage_PrimaryClearsSiblings(t *testing.T) {
	m := newStoreMocks()
	svc := newProductService(m)

	productID := uuid.New()
	image := &model.ProductImage{ImageURL: "https://cdn.example.com/a.jpg", IsPrimary: true}
	m.products.On("FindByID", mock.Anything, productID, false).Return(&model.Product{ID: productID}, nil)
	m.productImages.On("ClearPrimary", mock.Anything, productID).Return(nil)
	m.productImages.On("Create", mock.Anything, image).Return(nil)

	got, err := svc.AddImage(context.Background(), productID, image)

	assert.NoError(t, err)
	assert.Equal(t, productID, got.ProductID)
	m.productImages.AssertExpectations(t)
}

func TestAddImage_NonPrimaryKeepsSiblings(t *testing.T) {
	m := newStoreMocks()
	svc := newProductService(m)

	productID := uuid.New()
	image := &model.ProductImage{ImageURL: "https://cdn.example.com/b.jpg"}
	m.products.On("FindByID", mock.Anything, productID, false).Return(&model.Product{ID: productID}, nil)
	m.productImages.On("Create", mock.Anything, image).Return(nil)

	_, err := svc.AddImage(context.Background(), productID, image)

	assert.NoError(t, err)
	m.productImages.AssertNotCalled(t, "ClearPrimary", mock.Anything, mock.Anything)
}

func TestAddImage_BadURL(t *testing.T) {
	m := newStoreMocks()
	svc := newProductService(m)

	image := &model.ProductImage{ImageURL: "not a url"}

	_, err := svc.AddImage(context.Background(), uuid.New(), image)

	assert.True(t, apperrors.IsValidation(err))
	m.productImages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRemoveImage_WrongProduct(t *testing.T) {
	m := newStoreMocks()
	svc := newProductService(m)

	productID := uuid.New()
	imageID := uuid.New()
	image := &model.ProductImage{ID: imageID, ProductID: uuid.New()}
	m.productImages.On("FindByID", mock.Anything, imageID).Return(image, nil)

	err := svc.RemoveImage(context.Background(), productID, imageID)

	assert.True(t, apperrors.IsNotFound(err))
	m.productImages.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestRemoveImage_Success(t *testing.T) {
	m := newStoreMocks()
	svc := newProductService(m)

	productID := uuid.New()
	imageID := uuid.New()
	image := &model.ProductImage{ID: imageID, ProductID: productID}
	m.productImages.On("FindByID", mock.Anything, imageID).Return(image, nil)
	m.productImages.On("SoftDelete", mock.Anything, imageID).Return(nil)

	err := svc.RemoveImage(context.Background(), productID, imageID)

	assert.NoError(t, err)
	m.productImages.AssertExpectations(t)
}

func TestSearchProducts(t *testing.T) {
	m := newStoreMocks()
	svc := newProductService(m)

	m.products.On("Search", mock.Anything, "press").Return([]model.Product{{Name: "French Press"}}, nil)

	products, err := svc.SearchProducts(context.Background(), "press")

	assert.NoError(t, err)
	assert.Len(t, products, 1)
}
