package testbackend

import "github.com/gin-gonic/gin"

var UserFixture = gin.H{
	"id":          1,
	"uid":         "usr-1",
	"email":       "ibrahim@example.com",
	"phone":       "+22670000001",
	"first_name":  "Ibrahim",
	"last_name":   "Ouedraogo",
	"is_verified": true,
	"is_partner":  true,
}

var AccountFixture = gin.H{
	"uid":               "acc-1",
	"balance":           "125000.00",
	"formatted_balance": "125 000 FCFA",
	"currency":          "XOF",
	"utilization_rate":  "0.35",
	"is_active":         true,
	"is_frozen":         false,
}

var TransactionFixture = gin.H{
	"uid":             "txn-1",
	"reference":       "TXN-0001",
	"type":            "deposit",
	"amount":          "5000.00",
	"fees":            "50.00",
	"recipient_phone": "+22670000009",
	"network":         "net-orange",
	"network_name":    "Orange Money",
	"status":          "success",
	"created_at":      "2026-01-01T09:00:00Z",
}

var NetworksFixture = []gin.H{
	{
		"uid": "net-orange", "nom": "Orange Money", "code": "ORANGE", "country_code": "BF",
		"is_active": true, "min_amount": "500", "max_amount": "1000000",
		"deposit_enabled": true, "withdrawal_enabled": true,
	},
	{
		"uid": "net-moov", "nom": "Moov Money", "code": "MOOV", "country_code": "BF",
		"is_active": true, "min_amount": nil, "max_amount": nil,
		"deposit_enabled": true, "withdrawal_enabled": false,
	},
}

var RechargeFixture = gin.H{
	"uid":               "rch-1",
	"reference":         "RCH-0001",
	"amount":            "20000.00",
	"status":            "approved",
	"proof_description": "Bank deposit",
	"created_at":        "2026-01-01T08:00:00Z",
}

var PlatformsFixture = []gin.H{
	{
		"uid": "plt-1xbet", "name": "1xBet", "is_active": true, "can_deposit": true, "can_withdraw": true,
		"min_deposit_amount": "200", "max_deposit_amount": "500000",
		"min_withdrawal_amount": "1000", "max_withdrawal_amount": "300000",
	},
}

var LedgerFixture = []gin.H{
	{
		"uid": "led-1", "reference": "L-1", "transaction_type": "transfer_out", "amount": "-1000.00",
		"balance_before": "126000.00", "balance_after": "125000.00", "created_at": "2026-01-01T10:00:00Z",
		"transfer": gin.H{
			"uid": "trf-1", "reference": "TRF-1", "amount": "1000.00", "fees": "0", "status": "completed",
			"sender": gin.H{"uid": "usr-1", "full_name": "Ibrahim Ouedraogo"},
			"receiver": gin.H{"uid": "usr-2", "full_name": "Awa Traore"}, "created_at": "2026-01-01T10:00:00Z",
		},
	},
	{
		"uid": "led-2", "reference": "L-2", "transaction_type": "betting_deposit", "amount": "-500.00",
		"created_at": "2026-01-01T11:00:00Z",
	},
	{
		"uid": "led-3", "reference": "L-3", "transaction_type": "adjustment", "amount": "10.00",
		"created_at": "2026-01-01T12:00:00Z",
	},
}
