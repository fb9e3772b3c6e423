// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sinkio

// Remaining returns the number of bytes held by bufs.
func Remaining(bufs [][]byte) int64 {
	var n int64
	for _, b := range bufs {
		n += int64(len(b))
	}
	return n
}

func hasRemaining(bufs [][]byte) bool {
	for _, b := range bufs {
		if len(b) > 0 {
			return true
		}
	}
	return false
}

// Consume drops the first n bytes from bufs after a partial gathering
// write. Fully consumed leading buffers are removed. bufs is modified in place.
func Consume(bufs [][]byte, n int64) [][]byte {
	for len(bufs) > 0 && n > 0 {
		if l := int64(len(bufs[0])); l <= n {
			n -= l
			bufs[0] = nil
			bufs = bufs[1:]
			continue
		}
		bufs[0] = bufs[0][n:]
		n = 0
	}
	for len(bufs) > 0 && len(bufs[0]) == 0 {
		bufs = bufs[1:]
	}
	return bufs
}

// gather copies up to limit bytes from bufs into a fresh slice.
func gather(bufs [][]byte, limit int) []byte {
	total := min(Remaining(bufs), int64(limit))
	out := make([]byte, 0, total)
	for _, b := range bufs {
		room := int(total) - len(out)
		if room == 0 {
			break
		}
		out = append(out, b[:min(len(b), room)]...)
	}
	return out
}
