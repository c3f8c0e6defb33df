package generator

import (
	"fmt"
	"io"

	"github.com/nogoegst/byteqr"
	"rsc.io/qr"
)

// Preview writes text as a QR code made of ANSI colored blocks to w
func Preview(w io.Writer, text, level string) error {
	l, err := previewLevel(level)
	if err != nil {
		return err
	}
	// nil blocks select byteqr's default black and white cells
	return byteqr.Write(w, text, l, nil, nil)
}

func previewLevel(level string) (qr.Level, error) {
	switch level {
	case "L":
		return qr.L, nil
	case "M":
		return qr.M, nil
	case "Q":
		return qr.Q, nil
	case "H":
		return qr.H, nil
	default:
		return qr.L, fmt.Errorf("unknown error correction level %q", level)
	}
}
