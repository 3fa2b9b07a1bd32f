package customer

type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

// NewCustomer builds a customer that has not been stored yet; storage assigns the ID.
func NewCustomer(name, email string, age int) *Customer {
	return &Customer{
		Name:  name,
		Email: email,
		Age:   age,
	}
}

func (c *Customer) IsPersisted() bool {
	return c.ID != 0
}
