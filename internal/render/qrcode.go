package render

import (
	"image"
	"image/color"

	"github.com/skip2/go-qrcode"
)

const defaultQRCodeSizePx = 256

// GenerateQRCodeImage returns a QR code for payload with dark modules in fg
// and light modules in bg, ready to be placed on a pad with DrawImage.
// If payload is empty, it returns (nil, nil).
func GenerateQRCodeImage(payload string, sizePx int, fg, bg color.Color) (image.Image, error) {
	if payload == "" {
		return nil, nil
	}
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}

	qrCode, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	if fg != nil {
		qrCode.ForegroundColor = fg
	}
	if bg != nil {
		qrCode.BackgroundColor = bg
	}

	return qrCode.Image(sizePx), nil
}
