package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/Apurer/storefront-orders/internal/domains/orders/application/types"
)

type normalizedConvertCartInput struct {
	CartID  int64  `json:"cartId"`
	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// FingerprintConvertCart hashes the conversion request, excluding the idempotency key.
func FingerprintConvertCart(input types.ConvertCartInput) (string, error) {
	payload, err := json.Marshal(normalizedConvertCartInput{
		CartID:  input.CartID,
		Address: strings.TrimSpace(input.Shipping.Address),
		City:    strings.TrimSpace(input.Shipping.City),
		ZipCode: strings.TrimSpace(input.Shipping.ZipCode),
		Country: strings.TrimSpace(input.Shipping.Country),
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
