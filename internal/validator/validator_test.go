package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type request struct {
	Currency  string `validate:"omitempty,iso4217"`
	Type      string `validate:"omitempty,transaction_type"`
	Frequency string `validate:"omitempty,frequency_kind"`
	Date      string `validate:"omitempty,civil_date"`
}

func newValidate() *validator.Validate {
	v := validator.New()
	RegisterOn(v)
	return v
}

func TestCustomValidators(t *testing.T) {
	v := newValidate()

	tests := []struct {
		name    string
		req     request
		wantErr bool
	}{
		{"empty", request{}, false},
		{"valid_currency", request{Currency: "EUR"}, false},
		{"lowercase_currency", request{Currency: "eur"}, true},
		{"unknown_currency", request{Currency: "ABC"}, true},
		{"long_currency", request{Currency: "EURO"}, true},
		{"income", request{Type: "income"}, false},
		{"expense", request{Type: "expense"}, false},
		{"transfer_rejected", request{Type: "transfer"}, true},
		{"weekly", request{Frequency: "weekly"}, false},
		{"yearly", request{Frequency: "yearly"}, false},
		{"hourly_rejected", request{Frequency: "hourly"}, true},
		{"valid_date", request{Date: "2024-02-29"}, false},
		{"impossible_date", request{Date: "2023-02-29"}, true},
		{"timestamp_rejected", request{Date: "2024-01-01T00:00:00Z"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("Struct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
