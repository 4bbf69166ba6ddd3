// Package parties implementa la gestión de clientes y proveedores.
package parties

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/comercio-pro/internal/application/dto"
	"github.com/tu-usuario/comercio-pro/internal/domain"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/domain/repository"
)

// PartyUseCase CRUD de clientes y proveedores.
type PartyUseCase struct {
	customerRepo repository.CustomerRepository
	supplierRepo repository.SupplierRepository
}

// NewPartyUseCase construye el caso de uso.
func NewPartyUseCase(customerRepo repository.CustomerRepository, supplierRepo repository.SupplierRepository) *PartyUseCase {
	return &PartyUseCase{customerRepo: customerRepo, supplierRepo: supplierRepo}
}

// CreateCustomer crea un cliente.
func (uc *PartyUseCase) CreateCustomer(in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:         uuid.New().String(),
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Address:    in.Address,
		InvoiceNIT: in.InvoiceNIT,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	resp := toCustomerResponse(customer)
	return &resp, nil
}

// UpdateCustomer actualiza los datos del cliente.
func (uc *PartyUseCase) UpdateCustomer(id string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		customer.Name = in.Name
	}
	if in.Email != "" {
		customer.Email = in.Email
	}
	if in.Phone != "" {
		customer.Phone = in.Phone
	}
	if in.Address != "" {
		customer.Address = in.Address
	}
	if in.InvoiceNIT != "" {
		customer.InvoiceNIT = in.InvoiceNIT
	}
	customer.UpdatedAt = time.Now()
	if err := uc.customerRepo.Update(customer); err != nil {
		return nil, err
	}
	resp := toCustomerResponse(customer)
	return &resp, nil
}

// GetCustomer devuelve un cliente por ID.
func (uc *PartyUseCase) GetCustomer(id string) (*dto.CustomerResponse, error) {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	resp := toCustomerResponse(customer)
	return &resp, nil
}

// ListCustomers lista clientes con paginación.
func (uc *PartyUseCase) ListCustomers(limit, offset int) ([]dto.CustomerResponse, error) {
	customers, err := uc.customerRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

// CreateSupplier crea un proveedor.
func (uc *PartyUseCase) CreateSupplier(in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      in.Name,
		NIT:       in.NIT,
		Phone:     in.Phone,
		Email:     in.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}
	resp := toSupplierResponse(supplier)
	return &resp, nil
}

// GetSupplier devuelve un proveedor por ID.
func (uc *PartyUseCase) GetSupplier(id string) (*dto.SupplierResponse, error) {
	supplier, err := uc.supplierRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	resp := toSupplierResponse(supplier)
	return &resp, nil
}

// ListSuppliers lista proveedores con paginación.
func (uc *PartyUseCase) ListSuppliers(limit, offset int) ([]dto.SupplierResponse, error) {
	suppliers, err := uc.supplierRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

func toCustomerResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		InvoiceNIT: c.InvoiceNIT,
		CreatedAt:  c.CreatedAt,
	}
}

func toSupplierResponse(s *entity.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		NIT:       s.NIT,
		Phone:     s.Phone,
		Email:     s.Email,
		CreatedAt: s.CreatedAt,
	}
}
