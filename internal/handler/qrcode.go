package handler

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// QRCodePNG renders content as a PNG QR code and returns it base64 encoded.
func QRCodePNG(content string) (string, error) {
	qrc, err := qrcode.NewWith(content, qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium))
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}

	var buf bytes.Buffer
	w := standard.NewWithWriter(nopCloser{Writer: &buf},
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
		standard.WithQRWidth(8),
	)
	if err := qrc.Save(w); err != nil {
		return "", fmt.Errorf("failed to render qr code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
