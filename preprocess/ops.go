package preprocess

import (
	"image"
	stddraw "image/draw"
	"math"
	"sort"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// EnsureMinWidth upscales src so its width is at least min pixels, preserving
// aspect ratio. Images already at or above min are returned unchanged; the
// function never downscales.
func EnsureMinWidth(src image.Image, min int) image.Image {
	b := src.Bounds()
	if b.Dx() >= min || b.Dx() == 0 {
		return src
	}
	scale := float64(min) / float64(b.Dx())
	h := int(math.Round(float64(b.Dy()) * scale))
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, min, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// ToGray converts src to a single-channel luminance image.
func ToGray(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	stddraw.Draw(dst, dst.Bounds(), src, b.Min, stddraw.Src)
	return dst
}

// SkewAngle estimates the page skew in degrees from the orientation of the
// foreground (dark) pixels, using central image moments. The result is
// clamped to (-45, 45]; 0 means no measurable skew.
func SkewAngle(g *image.Gray) float64 {
	b := g.Bounds()
	var n, sumX, sumY float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[(y-b.Min.Y)*g.Stride:]
		for x := 0; x < b.Dx(); x++ {
			if row[x] < 128 {
				n++
				sumX += float64(x)
				sumY += float64(y - b.Min.Y)
			}
		}
	}
	if n < 32 {
		return 0
	}
	cx, cy := sumX/n, sumY/n
	var mu11, mu20, mu02 float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[(y-b.Min.Y)*g.Stride:]
		dy := float64(y-b.Min.Y) - cy
		for x := 0; x < b.Dx(); x++ {
			if row[x] < 128 {
				dx := float64(x) - cx
				mu11 += dx * dy
				mu20 += dx * dx
				mu02 += dy * dy
			}
		}
	}
	if mu20 == mu02 && mu11 == 0 {
		return 0
	}
	angle := 0.5 * math.Atan2(2*mu11, mu20-mu02) * 180 / math.Pi
	if angle > 45 {
		angle -= 90
	} else if angle < -45 {
		angle += 90
	}
	return angle
}

// Rotate rotates g by angle degrees around its center. The canvas keeps its
// size; uncovered border pixels are filled white.
func Rotate(g *image.Gray, angle float64) *image.Gray {
	b := g.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for i := range dst.Pix {
		dst.Pix[i] = 0xff
	}
	rad := angle * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	// Source-to-destination affine: rotate about the image center.
	m := f64.Aff3{
		cos, -sin, cx - cos*cx + sin*cy,
		sin, cos, cy - sin*cx - cos*cy,
	}
	draw.BiLinear.Transform(dst, m, g, b, draw.Over, nil)
	return dst
}

// CLAHE applies contrast-limited adaptive histogram equalization over a
// tiles x tiles grid. clipLimit is the multiple of the uniform bin height at
// which tile histograms are clipped before redistribution.
func CLAHE(g *image.Gray, clipLimit float64, tiles int) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || tiles < 1 {
		return g
	}
	tileW := (w + tiles - 1) / tiles
	tileH := (h + tiles - 1) / tiles

	// Per-tile clipped-histogram lookup tables.
	luts := make([][256]uint8, tiles*tiles)
	for ty := 0; ty < tiles; ty++ {
		for tx := 0; tx < tiles; tx++ {
			x0, y0 := tx*tileW, ty*tileH
			x1, y1 := minInt(x0+tileW, w), minInt(y0+tileH, h)
			var hist [256]int
			count := 0
			for y := y0; y < y1; y++ {
				row := g.Pix[y*g.Stride:]
				for x := x0; x < x1; x++ {
					hist[row[x]]++
					count++
				}
			}
			if count == 0 {
				continue
			}
			limit := int(clipLimit * float64(count) / 256)
			if limit < 1 {
				limit = 1
			}
			excess := 0
			for i := range hist {
				if hist[i] > limit {
					excess += hist[i] - limit
					hist[i] = limit
				}
			}
			// Redistribute the clipped mass uniformly.
			share := excess / 256
			rem := excess % 256
			for i := range hist {
				hist[i] += share
				if i < rem {
					hist[i]++
				}
			}
			cdf := 0
			for i := range hist {
				cdf += hist[i]
				luts[ty*tiles+tx][i] = uint8(cdf * 255 / count)
			}
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		srcRow := g.Pix[y*g.Stride:]
		dstRow := out.Pix[y*out.Stride:]
		// Fractional tile coordinates for bilinear blending of tile mappings.
		fy := (float64(y)+0.5)/float64(tileH) - 0.5
		ty0 := clampInt(int(math.Floor(fy)), 0, tiles-1)
		ty1 := clampInt(ty0+1, 0, tiles-1)
		wy := fy - math.Floor(fy)
		if fy < 0 {
			wy = 0
		}
		for x := 0; x < w; x++ {
			fx := (float64(x)+0.5)/float64(tileW) - 0.5
			tx0 := clampInt(int(math.Floor(fx)), 0, tiles-1)
			tx1 := clampInt(tx0+1, 0, tiles-1)
			wx := fx - math.Floor(fx)
			if fx < 0 {
				wx = 0
			}
			v := srcRow[x]
			top := (1-wx)*float64(luts[ty0*tiles+tx0][v]) + wx*float64(luts[ty0*tiles+tx1][v])
			bot := (1-wx)*float64(luts[ty1*tiles+tx0][v]) + wx*float64(luts[ty1*tiles+tx1][v])
			dstRow[x] = uint8(math.Round((1-wy)*top + wy*bot))
		}
	}
	return out
}

// Bilateral applies an edge-preserving bilateral filter with the given pixel
// diameter and range/spatial sigmas.
func Bilateral(g *image.Gray, diameter int, sigmaColor, sigmaSpace float64) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	r := diameter / 2
	if r < 1 {
		return g
	}

	spatial := make([]float64, (2*r+1)*(2*r+1))
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d2 := float64(dx*dx + dy*dy)
			spatial[(dy+r)*(2*r+1)+(dx+r)] = math.Exp(-d2 / (2 * sigmaSpace * sigmaSpace))
		}
	}
	var rangeW [256]float64
	for d := 0; d < 256; d++ {
		rangeW[d] = math.Exp(-float64(d*d) / (2 * sigmaColor * sigmaColor))
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			center := g.Pix[y*g.Stride+x]
			var sum, norm float64
			for dy := -r; dy <= r; dy++ {
				sy := clampInt(y+dy, 0, h-1)
				row := g.Pix[sy*g.Stride:]
				for dx := -r; dx <= r; dx++ {
					sx := clampInt(x+dx, 0, w-1)
					v := row[sx]
					wgt := spatial[(dy+r)*(2*r+1)+(dx+r)] * rangeW[absDiff(v, center)]
					sum += wgt * float64(v)
					norm += wgt
				}
			}
			out.Pix[y*out.Stride+x] = uint8(math.Round(sum / norm))
		}
	}
	return out
}

// Median3 applies a 3x3 median filter, a gentle denoiser that keeps thin
// strokes intact.
func Median3(g *image.Gray) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	var window [9]int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := 0
			for dy := -1; dy <= 1; dy++ {
				sy := clampInt(y+dy, 0, h-1)
				for dx := -1; dx <= 1; dx++ {
					sx := clampInt(x+dx, 0, w-1)
					window[i] = int(g.Pix[sy*g.Stride+sx])
					i++
				}
			}
			s := window[:]
			sort.Ints(s)
			out.Pix[y*out.Stride+x] = uint8(s[4])
		}
	}
	return out
}

// AdaptiveThreshold binarizes g against the mean of the surrounding
// block x block window minus offset. Pixels above the local cutoff become
// white, the rest black.
func AdaptiveThreshold(g *image.Gray, block, offset int) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}

	// Summed-area table with a leading zero row/column.
	integral := make([]int64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride:]
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(row[x])
			integral[(y+1)*(w+1)+(x+1)] = integral[y*(w+1)+(x+1)] + rowSum
		}
	}

	r := block / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := maxInt(x-r, 0), maxInt(y-r, 0)
			x1, y1 := minInt(x+r+1, w), minInt(y+r+1, h)
			area := int64((x1 - x0) * (y1 - y0))
			sum := integral[y1*(w+1)+x1] - integral[y0*(w+1)+x1] - integral[y1*(w+1)+x0] + integral[y0*(w+1)+x0]
			mean := float64(sum) / float64(area)
			if float64(g.Pix[y*g.Stride+x]) > mean-float64(offset) {
				out.Pix[y*out.Stride+x] = 0xff
			}
		}
	}
	return out
}

// OtsuThreshold binarizes g at the global cutoff that maximizes
// between-class variance.
func OtsuThreshold(g *image.Gray) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	var hist [256]int
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride:]
		for x := 0; x < w; x++ {
			hist[row[x]]++
		}
	}
	total := w * h
	var sumAll float64
	for i, c := range hist {
		sumAll += float64(i * c)
	}
	var sumB, wB float64
	var best float64
	threshold := 0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t * hist[t])
		mB := sumB / wB
		mF := (sumAll - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			threshold = t
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		srcRow := g.Pix[y*g.Stride:]
		dstRow := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			if int(srcRow[x]) > threshold {
				dstRow[x] = 0xff
			}
		}
	}
	return out
}

// CorrectPolarity inverts a binary image whose mean level indicates light
// text on a dark background, so text always renders dark-on-light.
func CorrectPolarity(g *image.Gray) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return g
	}
	var sum int64
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride:]
		for x := 0; x < w; x++ {
			sum += int64(row[x])
		}
	}
	if sum/int64(w*h) >= 128 {
		return g
	}
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		srcRow := g.Pix[y*g.Stride:]
		dstRow := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			dstRow[x] = 0xff - srcRow[x]
		}
	}
	return out
}

// Close2x2 performs one morphological closing (dilate then erode) with a 2x2
// structuring element, filling pin holes in strokes. Foreground is white.
func Close2x2(g *image.Gray) *image.Gray {
	return erode2x2(dilate2x2(g))
}

func dilate2x2(g *image.Gray) *image.Gray {
	return morph2x2(g, func(a, b, c, d uint8) uint8 {
		return maxU8(maxU8(a, b), maxU8(c, d))
	})
}

func erode2x2(g *image.Gray) *image.Gray {
	return morph2x2(g, func(a, b, c, d uint8) uint8 {
		return minU8(minU8(a, b), minU8(c, d))
	})
}

func morph2x2(g *image.Gray, combine func(a, b, c, d uint8) uint8) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		y1 := minInt(y+1, h-1)
		for x := 0; x < w; x++ {
			x1 := minInt(x+1, w-1)
			out.Pix[y*out.Stride+x] = combine(
				g.Pix[y*g.Stride+x],
				g.Pix[y*g.Stride+x1],
				g.Pix[y1*g.Stride+x],
				g.Pix[y1*g.Stride+x1],
			)
		}
	}
	return out
}

// Sharpen convolves with a 3x3 high-pass kernel (center 9, neighbors -1).
func Sharpen(g *image.Gray) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 9 * int(g.Pix[y*g.Stride+x])
			for dy := -1; dy <= 1; dy++ {
				sy := clampInt(y+dy, 0, h-1)
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					sx := clampInt(x+dx, 0, w-1)
					sum -= int(g.Pix[sy*g.Stride+sx])
				}
			}
			out.Pix[y*out.Stride+x] = clampU8(sum)
		}
	}
	return out
}

func clampU8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minU8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}

func maxU8(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
