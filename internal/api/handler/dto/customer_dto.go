package dto

import (
	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"
	"customer-service/internal/pkg/optional"
)

type CreateCustomerRequest struct {
	Name  string `json:"name" example:"Alex"`
	Email string `json:"email" example:"alex@gmail.com"`
	Age   *int   `json:"age" example:"21"`
}

// ToRegistration rejects a missing age here; the remaining rules are the
// domain's to enforce.
func (r CreateCustomerRequest) ToRegistration() (customer.RegistrationRequest, error) {
	if r.Age == nil {
		return customer.RegistrationRequest{}, apperrors.NewValidationError("age", "is required")
	}
	return customer.RegistrationRequest{Name: r.Name, Email: r.Email, Age: *r.Age}, nil
}

// UpdateCustomerRequest fields are all optional; null or a missing key keeps
// the stored value.
type UpdateCustomerRequest struct {
	Name  optional.Value[string] `json:"name" swaggertype:"string" example:"Alex"`
	Email optional.Value[string] `json:"email" swaggertype:"string" example:"alex@gmail.com"`
	Age   optional.Value[int]    `json:"age" swaggertype:"integer" example:"22"`
}

func (r UpdateCustomerRequest) ToUpdate() customer.UpdateRequest {
	return customer.UpdateRequest{Name: r.Name, Email: r.Email, Age: r.Age}
}

type CustomerResponse struct {
	ID    int64  `json:"id" example:"1"`
	Name  string `json:"name" example:"Alex"`
	Email string `json:"email" example:"alex@gmail.com"`
	Age   int    `json:"age" example:"21"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}
	return CustomerResponse{
		ID:    cust.ID,
		Name:  cust.Name,
		Email: cust.Email,
		Age:   cust.Age,
	}
}

func NewCustomerListResponse(customers []*customer.Customer) []CustomerResponse {
	resp := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, NewCustomerResponse(c))
	}
	return resp
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
