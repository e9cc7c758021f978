package catalog

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/twp-acessorios/garimpo-cli/pkg/shopify"
)

// mockAPI implements shopify.Client with per-method hooks and a call log.
type mockAPI struct {
	calls []string

	listProducts    func() ([]shopify.Product, error)
	getProduct      func(id int64) (*shopify.Product, error)
	updateProduct   func(upd shopify.ProductUpdate) (*shopify.Product, error)
	updateVariant   func(upd shopify.VariantUpdate) (*shopify.Variant, error)
	listImages      func(productID int64) ([]shopify.Image, error)
	deleteImage     func(productID, imageID int64) error
	createImage     func(productID int64, img shopify.ImageUpload) (*shopify.Image, error)
	listCollections func() ([]shopify.SmartCollection, error)
	createColl      func(title, tag string) (*shopify.SmartCollection, error)
}

func (m *mockAPI) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *mockAPI) ListProducts(context.Context, ...shopify.ListOption) ([]shopify.Product, error) {
	m.record("ListProducts")
	if m.listProducts != nil {
		return m.listProducts()
	}
	return nil, nil
}

func (m *mockAPI) GetProduct(_ context.Context, id int64) (*shopify.Product, error) {
	m.record("GetProduct")
	if m.getProduct != nil {
		return m.getProduct(id)
	}
	return nil, eris.New("mock: GetProduct not configured")
}

func (m *mockAPI) UpdateProduct(_ context.Context, upd shopify.ProductUpdate) (*shopify.Product, error) {
	m.record("UpdateProduct")
	if m.updateProduct != nil {
		return m.updateProduct(upd)
	}
	return &shopify.Product{ID: upd.ID}, nil
}

func (m *mockAPI) UpdateVariant(_ context.Context, upd shopify.VariantUpdate) (*shopify.Variant, error) {
	m.record("UpdateVariant")
	if m.updateVariant != nil {
		return m.updateVariant(upd)
	}
	return &shopify.Variant{ID: upd.ID}, nil
}

func (m *mockAPI) ListImages(_ context.Context, productID int64) ([]shopify.Image, error) {
	m.record("ListImages")
	if m.listImages != nil {
		return m.listImages(productID)
	}
	return nil, nil
}

func (m *mockAPI) DeleteImage(_ context.Context, productID, imageID int64) error {
	m.record("DeleteImage")
	if m.deleteImage != nil {
		return m.deleteImage(productID, imageID)
	}
	return nil
}

func (m *mockAPI) CreateImage(_ context.Context, productID int64, img shopify.ImageUpload) (*shopify.Image, error) {
	m.record("CreateImage")
	if m.createImage != nil {
		return m.createImage(productID, img)
	}
	return &shopify.Image{ProductID: productID, Position: img.Position}, nil
}

func (m *mockAPI) ListSmartCollections(context.Context) ([]shopify.SmartCollection, error) {
	m.record("ListSmartCollections")
	if m.listCollections != nil {
		return m.listCollections()
	}
	return nil, nil
}

func (m *mockAPI) CreateSmartCollection(_ context.Context, title, tag string) (*shopify.SmartCollection, error) {
	m.record("CreateSmartCollection")
	if m.createColl != nil {
		return m.createColl(title, tag)
	}
	return &shopify.SmartCollection{Title: title}, nil
}

func (m *mockAPI) CountProducts(context.Context) (int, error) {
	m.record("CountProducts")
	return 0, nil
}

func (m *mockAPI) GetShop(context.Context) (*shopify.Shop, error) {
	m.record("GetShop")
	return &shopify.Shop{Name: "test"}, nil
}
