package customer

import "customer-service/internal/pkg/optional"

// ChangeSet holds the dirty fields of an update: values that were supplied
// and differ from what is currently stored.
type ChangeSet struct {
	name  optional.Value[string]
	email optional.Value[string]
	age   optional.Value[int]
}

// PlanUpdate compares req against current field by field. Supplying a value
// equal to the stored one is the same as not supplying it.
func PlanUpdate(current *Customer, req UpdateRequest) ChangeSet {
	var cs ChangeSet
	if req.Name.Differs(current.Name) {
		cs.name = req.Name
	}
	if req.Email.Differs(current.Email) {
		cs.email = req.Email
	}
	if req.Age.Differs(current.Age) {
		cs.age = req.Age
	}
	return cs
}

func (cs ChangeSet) HasChanges() bool {
	return cs.name.IsSet() || cs.email.IsSet() || cs.age.IsSet()
}

// NewEmail returns the staged email, if the email is dirty.
func (cs ChangeSet) NewEmail() (string, bool) {
	return cs.email.Get()
}

// Fields lists the dirty field names.
func (cs ChangeSet) Fields() []string {
	fields := make([]string, 0, 3)
	if cs.name.IsSet() {
		fields = append(fields, "name")
	}
	if cs.email.IsSet() {
		fields = append(fields, "email")
	}
	if cs.age.IsSet() {
		fields = append(fields, "age")
	}
	return fields
}

// Apply returns a copy of c with every staged value written over it. The ID is kept.
func (cs ChangeSet) Apply(c Customer) Customer {
	c.Name = cs.name.OrElse(c.Name)
	c.Email = cs.email.OrElse(c.Email)
	c.Age = cs.age.OrElse(c.Age)
	return c
}
