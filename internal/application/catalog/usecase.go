// Package catalog implementa el catálogo: productos, presentaciones y ubicaciones.
package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/comercio-pro/internal/application/dto"
	"github.com/tu-usuario/comercio-pro/internal/domain"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/domain/repository"
	"github.com/tu-usuario/comercio-pro/pkg/normalize"
)

// CatalogUseCase CRUD del catálogo. No toca stock: los saldos viven en el
// módulo de inventario y se crean perezosamente al primer movimiento.
type CatalogUseCase struct {
	productRepo  repository.ProductRepository
	presRepo     repository.PresentationRepository
	locationRepo repository.LocationRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(
	productRepo repository.ProductRepository,
	presRepo repository.PresentationRepository,
	locationRepo repository.LocationRepository,
) *CatalogUseCase {
	return &CatalogUseCase{
		productRepo:  productRepo,
		presRepo:     presRepo,
		locationRepo: locationRepo,
	}
}

// CreateProduct crea un producto; el SKU debe ser único.
func (uc *CatalogUseCase) CreateProduct(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	baseUnit := in.BaseUnit
	if baseUnit == "" {
		baseUnit = "unidad"
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         strings.TrimSpace(in.SKU),
		Name:        in.Name,
		NameNorm:    normalize.Fold(in.Name),
		Description: in.Description,
		BaseUnit:    baseUnit,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	resp := toProductResponse(product)
	return &resp, nil
}

// UpdateProduct actualiza nombre, descripción, unidad base y estado activo.
// Editar el producto no altera documentos históricos: las líneas congelan sus
// snapshots al momento de la operación.
func (uc *CatalogUseCase) UpdateProduct(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		product.Name = in.Name
		product.NameNorm = normalize.Fold(in.Name)
	}
	if in.Description != "" {
		product.Description = in.Description
	}
	if in.BaseUnit != "" {
		product.BaseUnit = in.BaseUnit
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	resp := toProductResponse(product)
	return &resp, nil
}

// GetProduct devuelve un producto por ID.
func (uc *CatalogUseCase) GetProduct(id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	resp := toProductResponse(product)
	return &resp, nil
}

// ListProducts lista o busca productos. Con query no vacío busca por nombre
// normalizado (insensible a mayúsculas y tildes).
func (uc *CatalogUseCase) ListProducts(query string, limit, offset int) ([]dto.ProductResponse, error) {
	var (
		products []*entity.Product
		err      error
	)
	if strings.TrimSpace(query) != "" {
		products, err = uc.productRepo.Search(normalize.Fold(query), limit, offset)
	} else {
		products, err = uc.productRepo.List(limit, offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// CreatePresentation crea una presentación (SKU de venta) para un producto.
func (uc *CatalogUseCase) CreatePresentation(productID string, in dto.CreatePresentationRequest) (*dto.PresentationResponse, error) {
	if in.Name == "" || in.UnitsPerSaleUnit <= 0 || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	pres := &entity.Presentation{
		ID:               uuid.New().String(),
		ProductID:        productID,
		Name:             in.Name,
		UnitsPerSaleUnit: in.UnitsPerSaleUnit,
		Price:            in.Price,
		Barcode:          in.Barcode,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.presRepo.Create(pres); err != nil {
		return nil, err
	}
	resp := toPresentationResponse(pres)
	return &resp, nil
}

// ListPresentations lista las presentaciones de un producto.
func (uc *CatalogUseCase) ListPresentations(productID string) ([]dto.PresentationResponse, error) {
	presentations, err := uc.presRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PresentationResponse, 0, len(presentations))
	for _, p := range presentations {
		out = append(out, toPresentationResponse(p))
	}
	return out, nil
}

// CreateLocation crea una bodega o sucursal.
func (uc *CatalogUseCase) CreateLocation(in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	loc := &entity.Location{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.locationRepo.Create(loc); err != nil {
		return nil, err
	}
	resp := toLocationResponse(loc)
	return &resp, nil
}

// ListLocations lista ubicaciones con paginación.
func (uc *CatalogUseCase) ListLocations(limit, offset int) ([]dto.LocationResponse, error) {
	locations, err := uc.locationRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(locations))
	for _, l := range locations {
		out = append(out, toLocationResponse(l))
	}
	return out, nil
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		BaseUnit:    p.BaseUnit,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPresentationResponse(p *entity.Presentation) dto.PresentationResponse {
	return dto.PresentationResponse{
		ID:               p.ID,
		ProductID:        p.ProductID,
		Name:             p.Name,
		UnitsPerSaleUnit: p.UnitsPerSaleUnit,
		Price:            p.Price,
		Barcode:          p.Barcode,
		Active:           p.Active,
	}
}

func toLocationResponse(l *entity.Location) dto.LocationResponse {
	return dto.LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Address:   l.Address,
		CreatedAt: l.CreatedAt,
	}
}
