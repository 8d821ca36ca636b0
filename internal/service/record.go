package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chucky-1/budget-jobs/internal/model"
)

// Record is one flattened export row: an expense joined with its event
type Record map[string]string

// Columns is the order of export columns. A column is written only when at least one record has it.
var Columns = []string{
	"event_id",
	"event_name",
	"event_description",
	"event_date",
	"event_created",
	"event_createdBy",
	"event_updated",
	"event_updatedBy",
	"expense_id",
	"expense_date",
	"expense_name",
	"expense_description",
	"expense_amount",
	"expense_currency",
	"expense_notes",
	"expense_category",
	"expense_vendor_name",
	"expense_vendor_email",
	"expense_vendor_website",
	"expense_vendor_address",
	"expense_payment_name",
	"expense_payment_description",
	"expense_payment_amount",
	"expense_payment_isPaid",
	"expense_payment_date",
	"expense_payment_method",
	"expense_created",
	"expense_createdBy",
	"expense_updated",
	"expense_updatedBy",
}

func flatten(eventDoc, expenseDoc *model.Document) (Record, error) {
	var event model.Event
	if err := eventDoc.Decode(&event); err != nil {
		return nil, err
	}
	var expense model.Expense
	if err := expenseDoc.Decode(&expense); err != nil {
		return nil, err
	}

	r := Record{
		"event_id":          eventDoc.ID,
		"event_name":        event.Name,
		"event_description": event.Description,
		"event_date":        formatTime(event.EventDate),
		"event_created":     formatTime(event.CreatedDate),
		"event_createdBy":   event.CreatedBy,
		"event_updated":     formatTime(event.UpdatedDate),
		"event_updatedBy":   event.UpdatedBy,

		"expense_id":          expenseDoc.ID,
		"expense_date":        formatTime(expense.Date),
		"expense_name":        expense.Name,
		"expense_description": expense.Description,
		"expense_amount":      formatAmount(expense.Amount),
		"expense_currency":    expense.Currency,
		"expense_notes":       expense.Notes,
		"expense_category":    "",

		"expense_vendor_name":    "",
		"expense_vendor_email":   "",
		"expense_vendor_website": "",
		"expense_vendor_address": "",

		"expense_created":   formatTime(expense.CreatedDate),
		"expense_createdBy": expense.CreatedBy,
		"expense_updated":   formatTime(expense.UpdatedDate),
		"expense_updatedBy": expense.UpdatedBy,
	}
	if expense.Category != nil {
		r["expense_category"] = expense.Category.Name
	}
	if v := expense.Vendor; v != nil {
		r["expense_vendor_name"] = v.Name
		r["expense_vendor_email"] = v.Email
		r["expense_vendor_website"] = v.Website
		r["expense_vendor_address"] = v.Address
	}
	for k, v := range projectPayment(&expense) {
		r[k] = v
	}
	return r, nil
}

// projectPayment returns the payment columns of an expense, or nil when it has no payment.
// For a schedule the amount is the total of all installments while the other fields come
// from the last installment.
func projectPayment(expense *model.Expense) Record {
	switch {
	case expense.OneOffPayment != nil:
		p := expense.OneOffPayment
		return paymentRecord(p, decimal.NewFromFloat(p.Amount))
	case len(expense.PaymentSchedule) > 0:
		total := decimal.Zero
		for _, p := range expense.PaymentSchedule {
			total = total.Add(decimal.NewFromFloat(p.Amount))
		}
		last := expense.PaymentSchedule[len(expense.PaymentSchedule)-1]
		return paymentRecord(&last, total)
	}
	return nil
}

func paymentRecord(p *model.Payment, amount decimal.Decimal) Record {
	return Record{
		"expense_payment_name":        p.Name,
		"expense_payment_description": p.Description,
		"expense_payment_amount":      amount.String(),
		"expense_payment_isPaid":      strconv.FormatBool(p.IsPaid),
		"expense_payment_date":        formatTime(p.Date),
		"expense_payment_method":      p.Method,
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return decimal.NewFromFloat(*v).String()
}

func recordsOf(node *EventNode) ([]Record, error) {
	expenses := node.Children[model.ExpensesCollection]
	records := make([]Record, 0, len(expenses))
	for _, expense := range expenses {
		r, err := flatten(node.Event, expense)
		if err != nil {
			return nil, fmt.Errorf("exporter couldn't flatten %s: %w", expense.Path, err)
		}
		records = append(records, r)
	}
	return records, nil
}
