//go:build !gocv
// +build !gocv

package imaging

import "fruit-quality-bot/internal/domain/port"

// DefaultResizer без тега gocv использует ресайзер на чистом Go.
func DefaultResizer() port.Resizer {
	return NewBilinearResizer()
}
