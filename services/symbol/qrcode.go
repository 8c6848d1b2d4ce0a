package symbolsvc

import (
	"context"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"

	"github.com/udriss/correction/core/report"
)

// QRCode renders payloads as PNG QR codes.
type QRCode struct {
	level qrcode.RecoveryLevel
}

var _ report.SymbolRenderer = (*QRCode)(nil)

func NewQRCode() *QRCode {
	return &QRCode{level: qrcode.Medium}
}

func (q *QRCode) Render(ctx context.Context, payload string, size int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(payload, q.level, size)
	if err != nil {
		return nil, errors.Wrap(err, "encoding qr code")
	}
	return png, nil
}
