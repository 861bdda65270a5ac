// Package qr renders payment URLs as scannable PNG images.
package qr

import qrcode "github.com/skip2/go-qrcode"

// Size matches the 256px code the bot has always rendered.
const Size = 256

type Encoder struct {
	size int
}

func NewEncoder() *Encoder {
	return &Encoder{size: Size}
}

// Encode returns a PNG image of the content. Content that cannot fit a QR
// code (for example the empty string) fails.
func (e *Encoder) Encode(content string) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, e.size)
}
