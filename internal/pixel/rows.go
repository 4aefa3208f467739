package pixel

// RowFunc converts one row of n pixels from src into dst. Both slices are
// exactly sized for n pixels in their respective layouts.
type RowFunc func(dst, src []byte, n int)

func expand5(v uint16) byte {
	return byte(v<<3 | v>>2)
}

func expand6(v uint16) byte {
	return byte(v<<2 | v>>4)
}

func unpack565(lo, hi byte) (r, g, b byte) {
	pixel := uint16(lo) | uint16(hi)<<8
	return expand5(pixel >> 11 & 0x1F), expand6(pixel >> 5 & 0x3F), expand5(pixel & 0x1F)
}

func pack565(r, g, b byte) (lo, hi byte) {
	pixel := uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b>>3)
	return byte(pixel), byte(pixel >> 8)
}

func rgb565ToRGBA8888(dst, src []byte, n int) {
	for i := 0; i < n; i++ {
		r, g, b := unpack565(src[2*i], src[2*i+1])
		d := dst[4*i : 4*i+4 : 4*i+4]
		d[0], d[1], d[2], d[3] = r, g, b, 0xFF
	}
}

func rgb565ToRGB888(dst, src []byte, n int) {
	for i := 0; i < n; i++ {
		r, g, b := unpack565(src[2*i], src[2*i+1])
		d := dst[3*i : 3*i+3 : 3*i+3]
		d[0], d[1], d[2] = r, g, b
	}
}

func rgb888ToRGBA8888(dst, src []byte, n int) {
	for i := 0; i < n; i++ {
		d := dst[4*i : 4*i+4 : 4*i+4]
		d[0], d[1], d[2], d[3] = src[3*i], src[3*i+1], src[3*i+2], 0xFF
	}
}

func rgba8888ToRGB888(dst, src []byte, n int) {
	for i := 0; i < n; i++ {
		d := dst[3*i : 3*i+3 : 3*i+3]
		d[0], d[1], d[2] = src[4*i], src[4*i+1], src[4*i+2]
	}
}

func rgb888ToRGB565(dst, src []byte, n int) {
	for i := 0; i < n; i++ {
		dst[2*i], dst[2*i+1] = pack565(src[3*i], src[3*i+1], src[3*i+2])
	}
}

func rgba8888ToRGB565(dst, src []byte, n int) {
	for i := 0; i < n; i++ {
		dst[2*i], dst[2*i+1] = pack565(src[4*i], src[4*i+1], src[4*i+2])
	}
}
