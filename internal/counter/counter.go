package counter

import (
	"errors"
	"image"
	"image/draw"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"

	apperrors "go-darkness-grader/internal/errors"
	"go-darkness-grader/pkg/models"
)

// ErrZeroPixels indicates an image with no samples to count.
var ErrZeroPixels = errors.New("image has zero pixels")

// Images below this pixel count are processed sequentially; the goroutine
// fan-out only pays off above it.
const parallelThreshold = 100000

// PixelCounter counts dark pixels in an image against an intensity threshold
type PixelCounter interface {
	Count(img image.Image, threshold int, originalFile string) (models.PixelCountResult, error)
}

type pixelCounter struct{}

// New creates a pixel counter
func New() PixelCounter {
	return &pixelCounter{}
}

// stripResult aggregates one horizontal strip of the grayscale image.
type stripResult struct {
	black     int
	histogram [256]int64
}

// Count converts the image to grayscale and counts samples strictly below
// the intensity threshold. The threshold is used as-is, even outside 0-255.
func (pc *pixelCounter) Count(img image.Image, threshold int, originalFile string) (models.PixelCountResult, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	total := width * height

	if total == 0 {
		return models.PixelCountResult{}, apperrors.NewDecodeError("cannot count pixels", ErrZeroPixels)
	}

	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)

	var agg stripResult
	if total < parallelThreshold {
		agg = countStrip(gray, bounds.Min.Y, bounds.Max.Y, threshold)
	} else {
		agg = countParallel(gray, threshold)
	}

	percentage := round2(100 * float64(agg.black) / float64(total))
	mean, stddev := histogramStats(agg.histogram, total)

	return models.PixelCountResult{
		Status:          models.StatusSuccess,
		SchemaVersion:   models.SchemaVersion,
		BlackPixelCount: agg.black,
		TotalPixels:     total,
		BlackPercentage: percentage,
		ThresholdUsed:   threshold,
		OriginalFile:    originalFile,
		MeanIntensity:   round2(mean),
		IntensityStddev: round2(stddev),
	}, nil
}

// countParallel processes the image in horizontal strips for better cache
// locality, one goroutine per strip.
func countParallel(gray *image.Gray, threshold int) stripResult {
	bounds := gray.Bounds()
	height := bounds.Dy()

	numWorkers := runtime.NumCPU()
	if height < numWorkers {
		numWorkers = height
	}
	rowsPerWorker := (height + numWorkers - 1) / numWorkers // ceil division

	results := make(chan stripResult, numWorkers)
	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		startY := bounds.Min.Y + i*rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > bounds.Max.Y {
			endY = bounds.Max.Y
		}
		if startY >= endY {
			continue
		}

		wg.Add(1)
		go func(startY, endY int) {
			defer wg.Done()
			results <- countStrip(gray, startY, endY, threshold)
		}(startY, endY)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var agg stripResult
	for r := range results {
		agg.black += r.black
		for i, n := range r.histogram {
			agg.histogram[i] += n
		}
	}
	return agg
}

// countStrip counts one horizontal strip of rows [startY, endY).
func countStrip(gray *image.Gray, startY, endY int, threshold int) stripResult {
	bounds := gray.Bounds()
	var r stripResult

	for y := startY; y < endY; y++ {
		row := gray.Pix[(y-bounds.Min.Y)*gray.Stride : (y-bounds.Min.Y)*gray.Stride+bounds.Dx()]
		for _, v := range row {
			if int(v) < threshold {
				r.black++
			}
			r.histogram[v]++
		}
	}
	return r
}

// histogramStats computes the weighted mean and standard deviation of the
// grayscale samples from their histogram.
func histogramStats(histogram [256]int64, total int) (mean, stddev float64) {
	values := make([]float64, 256)
	weights := make([]float64, 256)
	for i := range values {
		values[i] = float64(i)
		weights[i] = float64(histogram[i])
	}

	mean = stat.Mean(values, weights)
	if total > 1 {
		stddev = stat.StdDev(values, weights)
		if math.IsNaN(stddev) {
			stddev = 0
		}
	}
	return mean, stddev
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
