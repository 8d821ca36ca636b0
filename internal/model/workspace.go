package model

import "time"

type Workspace struct {
	Name string `bson:"name"`
}

type Event struct {
	Name        string     `bson:"name"`
	Description string     `bson:"description"`
	EventDate   *time.Time `bson:"eventDate"`
	Audit       `bson:",inline"`
}

type Audit struct {
	CreatedDate *time.Time `bson:"_createdDate"`
	CreatedBy   string     `bson:"_createdBy"`
	UpdatedDate *time.Time `bson:"_updatedDate"`
	UpdatedBy   string     `bson:"_updatedBy"`
}

type Expense struct {
	Name            string     `bson:"name"`
	Description     string     `bson:"description"`
	Date            *time.Time `bson:"date"`
	Amount          *float64   `bson:"amount"`
	Currency        string     `bson:"currency"`
	Notes           string     `bson:"notes"`
	Category        *Category  `bson:"category"`
	Vendor          *Vendor    `bson:"vendor"`
	OneOffPayment   *Payment   `bson:"oneOffPayment"`
	PaymentSchedule []Payment  `bson:"paymentSchedule"`
	Audit           `bson:",inline"`
}

// Category is embedded into an expense by reference, only the name is exported
type Category struct {
	Name string `bson:"name"`
}

type Vendor struct {
	Name    string `bson:"name"`
	Email   string `bson:"email"`
	Website string `bson:"website"`
	Address string `bson:"address"`
}

// Payment is either the one-off payment of an expense or one installment of its schedule
type Payment struct {
	Name        string     `bson:"name"`
	Description string     `bson:"description"`
	Amount      float64    `bson:"amount"`
	IsPaid      bool       `bson:"isPaid"`
	Date        *time.Time `bson:"date"`
	Method      string     `bson:"method"`
}
