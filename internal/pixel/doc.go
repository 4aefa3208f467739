// Package pixel converts frame buffers between the pixel layouts virtual screens accept.
//
// Layouts are byte oriented: RGB565 is a little-endian 16-bit word (5 red, 6 green,
// 5 blue bits from the top), RGB888 is R,G,B and RGBA8888 is R,G,B,A. Widening a
// channel replicates its most significant bits into the vacated low bits so that
// full intensity maps to 0xFF and the low end is not biased dark.
package pixel
