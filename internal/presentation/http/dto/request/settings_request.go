package request

import "github.com/shopspring/decimal"

// UpdateSettingsRequest merge-writes settings. Absent fields leave the
// stored values untouched.
type UpdateSettingsRequest struct {
	UPIID           *string `json:"upi_id"`
	MerchantName    *string `json:"merchant_name"`
	TransactionName *string `json:"transaction_name"`

	TaxEnabled *bool            `json:"tax_enabled"`
	TaxName    *string          `json:"tax_name"`
	TaxPercent *decimal.Decimal `json:"tax_percent"`

	ThermalPrint *bool `json:"thermal_print"`

	BusinessName *string `json:"business_name"`
	Address      *string `json:"address"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	GSTNumber    *string `json:"gst_number"`
	FSSAI        *string `json:"fssai"`
}
