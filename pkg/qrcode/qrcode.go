package qrcode

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	qrCode "github.com/skip2/go-qrcode"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
)

const (
	DataURIPrefix = "data:image/png;base64,"
	defaultSize   = 256
)

// DataURI renders content as a PNG QR code wrapped in a data URI.
func DataURI(content string) (string, error) {
	png, err := qrCode.Encode(content, qrCode.Medium, defaultSize)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}
	return DataURIPrefix + base64.StdEncoding.EncodeToString(png), nil
}

// SessionDataURI encodes the session payload blob as a QR data URI.
func SessionDataURI(payload domain.QRPayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal qr payload: %w", err)
	}
	return DataURI(string(raw))
}
