package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalanceRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		req    BalanceRequest
		wantOK bool
	}{
		{"credit", BalanceRequest{UserID: "3", Amount: "12.34"}, true},
		{"debit", BalanceRequest{UserID: "3", Amount: "-5"}, true},
		{"largest credit", BalanceRequest{UserID: "3", Amount: "1000000.00"}, true},
		{"largest debit", BalanceRequest{UserID: "3", Amount: "-1000000"}, true},
		{"credit too large", BalanceRequest{UserID: "3", Amount: "1000000.01"}, false},
		{"debit too large", BalanceRequest{UserID: "3", Amount: "-1000000.01"}, false},
		{"near int64 limit", BalanceRequest{UserID: "3", Amount: "92233720368547757.00"}, false},
		{"three decimals", BalanceRequest{UserID: "3", Amount: "1.001"}, false},
		{"missing amount", BalanceRequest{UserID: "3"}, false},
		{"bad id", BalanceRequest{UserID: "x", Amount: "1"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
