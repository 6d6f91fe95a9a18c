package upi

import (
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/billpoint/billpoint-api/pkg/apperror"
)

// Link builds a upi://pay deep link for the given amount. The link only
// encodes payment intent for a UPI app to pick up; it does not confirm that
// any payment happened.
//
// Merchant and transaction names fall back to generic labels so the link
// stays scannable before settings are filled in.
func Link(upiID, merchantName, transactionName string, amount decimal.Decimal) (string, error) {
	if upiID == "" {
		return "", apperror.ErrMissingUPIID
	}
	if merchantName == "" {
		merchantName = "Merchant"
	}
	if transactionName == "" {
		transactionName = "Payment"
	}
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&tn=%s&am=%s",
		upiID,
		url.QueryEscape(merchantName),
		url.QueryEscape(transactionName),
		amount.StringFixed(2),
	), nil
}

// QRPNG encodes a UPI deep link as a PNG image of the given pixel size.
func QRPNG(link string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("upi: failed to encode QR: %w", err)
	}
	return png, nil
}
