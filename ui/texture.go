package ui

import (
	"image"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// screenSize is the fixed framebuffer dimension spec.md's screen bank is
// addressed by: row-major 256x256 words.
const screenSize = 256

// rgb565ToRGBA expands an S-bank word (bits 15..11 = R5, 10..5 = G6,
// 4..0 = B5) to 8-bit-per-channel color via the customary left-shift and
// replicate-top-bits trick, opaque alpha.
func rgb565ToRGBA(word uint16) (r, g, b, a uint8) {
	r5 := uint8(word >> 11 & 0x1F)
	g6 := uint8(word >> 5 & 0x3F)
	b5 := uint8(word & 0x1F)
	r = r5<<3 | r5>>2
	g = g6<<2 | g6>>4
	b = b5<<3 | b5>>2
	a = 255
	return
}

// screenToImage converts a full screen bank into an RGBA image ready for
// upload as a GL texture.
func screenToImage(screen []uint16) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, screenSize, screenSize))
	for i := 0; i < screenSize*screenSize; i++ {
		r, g, b, a := rgb565ToRGBA(screen[i])
		img.Pix[4*i], img.Pix[4*i+1], img.Pix[4*i+2], img.Pix[4*i+3] = r, g, b, a
	}
	return img
}

// uploadTexture creates (or recreates) a GL texture from img and draws the
// fixed full-window quad with it. filter is gl.NEAREST or gl.LINEAR.
func uploadTexture(program uint32, img *image.RGBA, filter int32) {
	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(img.Rect.Size().X), int32(img.Rect.Size().Y),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	positionLocation := uint32(gl.GetAttribLocation(program, gl.Str("position\x00")))
	uvLocation := uint32(gl.GetAttribLocation(program, gl.Str("uv\x00")))
	texLocation := gl.GetUniformLocation(program, gl.Str("tex\x00"))
	gl.EnableVertexAttribArray(positionLocation)
	gl.EnableVertexAttribArray(uvLocation)
	gl.Uniform1i(texLocation, 0)
	gl.VertexAttribPointer(positionLocation, 2, gl.FLOAT, false, 0, gl.Ptr(vertexPosition))
	gl.VertexAttribPointer(uvLocation, 2, gl.FLOAT, false, 0, gl.Ptr(vertexUV))
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.DrawArrays(gl.TRIANGLE_FAN, 0, 4)
	gl.DeleteTextures(1, &textureID)
}
