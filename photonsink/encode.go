package photonsink

import (
	"image"
	"image/color"
	"math"
)

const (
	previewWidth  = 0x190
	previewHeight = 0x12c

	screenWidth  = 0xa00
	screenHeight = 0x5a0

	thumbnailWidth  = 0xc8
	thumbnailHeight = 0x7d
)

// encodeLayerImageData run-length encodes one Z layer into the printer's
// set/unset pixel-run format, centering it in the fixed-size resin basin.
func encodeLayerImageData(img *image.RGBA) []byte {
	const flagSetPixels = 0x80
	var output []byte

	origWidth := img.Bounds().Max.X
	origHeight := img.Bounds().Max.Y
	xOffset, yOffset := 0, 0
	if origWidth < screenWidth {
		xOffset = (screenWidth - origWidth) >> 1
	}
	if origHeight < screenHeight {
		yOffset = (screenHeight - origHeight) >> 1
	}

	var unsetCount, setCount uint8

	maxPixelIndex := screenWidth * screenHeight
	for pixelIndex := 0; pixelIndex < maxPixelIndex; pixelIndex++ {
		y := pixelIndex % screenHeight
		x := pixelIndex / screenHeight

		c := img.At(x-xOffset, y-yOffset)
		if r, _, _, _ := c.RGBA(); r == 0 {
			if setCount != 0 {
				output = append(output, setCount|flagSetPixels)
				setCount = 0
			}
			unsetCount++
			if unsetCount >= 0x7f-2 {
				output = append(output, unsetCount)
				unsetCount = 0
			}
		} else {
			if unsetCount != 0 {
				output = append(output, unsetCount)
				unsetCount = 0
			}
			setCount++
			if setCount >= 0x7f-2 {
				output = append(output, setCount|flagSetPixels)
				setCount = 0
			}
		}
	}

	if setCount != 0 {
		output = append(output, setCount|flagSetPixels)
	}
	if unsetCount != 0 {
		output = append(output, unsetCount)
	}

	return output
}

func changeRange(fromMin, fromMax, toMin, toMax, number uint32) uint32 {
	return uint32(math.Round(float64(number-fromMin)*float64(toMax-toMin)/float64(fromMax-fromMin) + float64(toMin)))
}

func combineRGB5515(r, g, b uint8, isFill bool) uint16 {
	rBits := uint16(changeRange(0, 255, 0, 31, uint32(r)))
	gBits := uint16(changeRange(0, 255, 0, 31, uint32(g)))
	bBits := uint16(changeRange(0, 255, 0, 31, uint32(b)))

	fillBit := uint16(0)
	if isFill {
		fillBit = 1
	}

	var x uint16
	x |= (rBits & 0x1F) << 0
	x |= (fillBit & 0x1) << 5
	x |= (gBits & 0x1F) << 6
	x |= (bBits & 0x1F) << 11

	return x
}

// encodePreview downsamples img to imageWidth x imageHeight and run-length
// encodes it in the RGB5515 preview/thumbnail format.
func encodePreview(imageWidth, imageHeight int, img *image.RGBA) []uint8 {
	var output []uint8

	origWidth := img.Bounds().Max.X
	origHeight := img.Bounds().Max.Y
	xScale := float32(origWidth) / float32(imageWidth)
	yScale := float32(origHeight) / float32(imageHeight)

	maxDim := imageWidth
	maxPixelIndex := imageHeight * imageWidth

	pixelAt := func(pi int) color.RGBA {
		x := pi % maxDim
		y := pi / maxDim
		newX := int(float32(x) * xScale)
		newY := int(float32(y) * yScale)
		return img.At(newX, newY).(color.RGBA)
	}

	for pixelIndex := 0; pixelIndex <= maxPixelIndex; pixelIndex++ {
		p := pixelAt(pixelIndex)

		if p != pixelAt(pixelIndex+1) || p != pixelAt(pixelIndex+2) || pixelIndex+2 >= maxPixelIndex {
			v := combineRGB5515(p.R, p.G, p.B, false)
			output = append(output, byte(v&0xFF))
			output = append(output, byte((v>>8)&0xFF))
		} else {
			var skipCount uint16 = 3
			for ; skipCount < 0xFFF && p == pixelAt(pixelIndex+int(skipCount)); skipCount++ {
			}

			v := combineRGB5515(p.R, p.G, p.B, true) | 0x20
			output = append(output, byte(v&0xFF))
			output = append(output, byte((v>>8)&0xFF))

			v = skipCount - 1 | 0x3000
			output = append(output, byte(v&0xFF))
			output = append(output, byte((v>>8)&0xFF))

			pixelIndex += int(skipCount - 1)
		}
	}

	return output
}
