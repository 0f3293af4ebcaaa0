package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/ledger"
	"github.com/workshoperp/backend/internal/domain/partner"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// CustomerService provides customer management
type CustomerService struct {
	scope        TransactionScope
	customerRepo partner.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(scope TransactionScope, customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{scope: scope, customerRepo: customerRepo}
}

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Name           string          `json:"name" binding:"required"`
	Phone          *string         `json:"phone"`
	Email          *string         `json:"email" binding:"omitempty,email"`
	Address        *string         `json:"address"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CreatedBy      *uuid.UUID      `json:"-"`
}

// UpdateCustomerRequest represents a request to update a customer.
// Balances are not editable; they move only through ledger entries.
type UpdateCustomerRequest struct {
	Name    string  `json:"name" binding:"required"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Phone          *string         `json:"phone,omitempty"`
	Email          *string         `json:"email,omitempty"`
	Address        *string         `json:"address,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CreateCustomer creates a customer with current balance equal to the
// opening balance
func (s *CustomerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.Name, req.OpeningBalance)
	if err != nil {
		return nil, err
	}
	customer.UpdateContact(req.Phone, req.Email, req.Address)
	customer.CreatedByID = req.CreatedBy

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetCustomer returns a single customer
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// ListCustomers returns customers matching the filter
func (s *CustomerService) ListCustomers(ctx context.Context, filter shared.Filter) (*shared.Paginated[CustomerResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	customers, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.customerRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, *toCustomerResponse(&customers[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateCustomer updates the customer contact fields
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := customer.Rename(req.Name); err != nil {
		return nil, err
	}
	customer.UpdateContact(req.Phone, req.Email, req.Address)

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// DeleteCustomer removes a customer. Customers with ledger history
// cannot be removed.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.CustomerRepo().FindByIDForUpdate(ctx, id); err != nil {
			return err
		}

		entryCount, err := repos.EntryRepo().CountByEntity(ctx, ledger.CustomerRef(id))
		if err != nil {
			return err
		}
		if entryCount > 0 {
			return shared.ErrConflict.WithMessage("Customers with ledger history cannot be deleted")
		}

		return repos.CustomerRepo().Delete(ctx, id)
	})
}

// toCustomerResponse maps a domain customer to its response shape
func toCustomerResponse(customer *partner.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:             customer.ID,
		Name:           customer.Name,
		Phone:          customer.Phone,
		Email:          customer.Email,
		Address:        customer.Address,
		OpeningBalance: customer.OpeningBalance,
		CurrentBalance: customer.CurrentBalance,
		CreatedAt:      customer.CreatedAt,
		UpdatedAt:      customer.UpdatedAt,
	}
}
