package counter

import (
	"errors"
	"image"
	"image/color"
	"testing"

	apperrors "go-darkness-grader/internal/errors"
	"go-darkness-grader/pkg/models"
)

// createTestImage creates a uniform test image
func createTestImage(width, height int, fillColor color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fillColor)
		}
	}
	return img
}

// createSplitImage creates an image whose first blackRows rows are black and
// the rest white
func createSplitImage(width, height, blackRows int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		c := color.RGBA{255, 255, 255, 255}
		if y < blackRows {
			c = color.RGBA{0, 0, 0, 255}
		}
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestCount_AllBlackImage(t *testing.T) {
	pc := New()

	img := createTestImage(100, 100, color.RGBA{0, 0, 0, 255})
	result, err := pc.Count(img, 30, "black.png")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}

	if result.Status != models.StatusSuccess {
		t.Errorf("Expected success status, got %q", result.Status)
	}
	if result.BlackPixelCount != 10000 {
		t.Errorf("Expected 10000 black pixels, got %d", result.BlackPixelCount)
	}
	if result.TotalPixels != 10000 {
		t.Errorf("Expected 10000 total pixels, got %d", result.TotalPixels)
	}
	if result.BlackPercentage != 100 {
		t.Errorf("Expected 100%% black, got %f", result.BlackPercentage)
	}
	if result.MeanIntensity != 0 {
		t.Errorf("Expected mean intensity 0, got %f", result.MeanIntensity)
	}
	if result.OriginalFile != "black.png" {
		t.Errorf("Expected original file to be echoed, got %q", result.OriginalFile)
	}
}

func TestCount_AllWhiteImage(t *testing.T) {
	pc := New()

	img := createTestImage(80, 60, color.RGBA{255, 255, 255, 255})
	result, err := pc.Count(img, 30, "white.png")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}

	if result.BlackPixelCount != 0 {
		t.Errorf("Expected 0 black pixels, got %d", result.BlackPixelCount)
	}
	if result.BlackPercentage != 0 {
		t.Errorf("Expected 0%% black, got %f", result.BlackPercentage)
	}
	if result.MeanIntensity != 255 {
		t.Errorf("Expected mean intensity 255, got %f", result.MeanIntensity)
	}
	if result.IntensityStddev != 0 {
		t.Errorf("Expected zero stddev for a uniform image, got %f", result.IntensityStddev)
	}
}

func TestCount_ThresholdIsExclusive(t *testing.T) {
	pc := New()

	// Every sample has intensity exactly 30; strictly-below comparison
	// must not count any of them at threshold 30.
	img := createTestImage(10, 10, color.RGBA{30, 30, 30, 255})

	result, err := pc.Count(img, 30, "gray.png")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if result.BlackPixelCount != 0 {
		t.Errorf("Expected 0 pixels below threshold 30, got %d", result.BlackPixelCount)
	}

	result, err = pc.Count(img, 31, "gray.png")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if result.BlackPixelCount != 100 {
		t.Errorf("Expected all 100 pixels below threshold 31, got %d", result.BlackPixelCount)
	}
}

func TestCount_PercentageRounding(t *testing.T) {
	pc := New()

	// One black row of three: 33.333...% rounds to 33.33.
	img := createSplitImage(10, 3, 1)
	result, err := pc.Count(img, 30, "third.png")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if result.BlackPercentage != 33.33 {
		t.Errorf("Expected 33.33%%, got %f", result.BlackPercentage)
	}
}

func TestCount_OutOfRangeThresholdAcceptedAsIs(t *testing.T) {
	pc := New()
	img := createTestImage(10, 10, color.RGBA{128, 128, 128, 255})

	result, err := pc.Count(img, 300, "any.png")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if result.BlackPixelCount != 100 {
		t.Errorf("Threshold 300 should count every sample, got %d", result.BlackPixelCount)
	}
	if result.ThresholdUsed != 300 {
		t.Errorf("Expected threshold_used 300, got %d", result.ThresholdUsed)
	}

	result, err = pc.Count(img, -5, "any.png")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if result.BlackPixelCount != 0 {
		t.Errorf("Negative threshold should count nothing, got %d", result.BlackPixelCount)
	}
}

func TestCount_ZeroPixelImage(t *testing.T) {
	pc := New()

	img := image.NewRGBA(image.Rect(0, 0, 0, 0))
	_, err := pc.Count(img, 30, "empty.png")
	if err == nil {
		t.Fatal("Expected an error for a zero-pixel image")
	}
	if !errors.Is(err, ErrZeroPixels) {
		t.Errorf("Expected ErrZeroPixels, got %v", err)
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeDecode) {
		t.Errorf("Expected a decode error, got %v", err)
	}
}

func TestCount_ParallelMatchesSequential(t *testing.T) {
	pc := New()

	// Large enough to take the parallel path; the small copy of the same
	// pattern takes the sequential one.
	large := createSplitImage(500, 400, 100)
	small := createSplitImage(50, 40, 10)

	largeResult, err := pc.Count(large, 30, "large.png")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	smallResult, err := pc.Count(small, 30, "small.png")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}

	if largeResult.BlackPercentage != smallResult.BlackPercentage {
		t.Errorf("Parallel and sequential paths disagree: %f vs %f",
			largeResult.BlackPercentage, smallResult.BlackPercentage)
	}
	if largeResult.BlackPercentage != 25 {
		t.Errorf("Expected 25%% black, got %f", largeResult.BlackPercentage)
	}
}

func TestCount_Invariants(t *testing.T) {
	pc := New()

	testCases := []struct {
		name      string
		img       image.Image
		threshold int
	}{
		{"Uniform gray", createTestImage(64, 64, color.RGBA{128, 128, 128, 255}), 30},
		{"Split image", createSplitImage(64, 64, 20), 30},
		{"High threshold", createSplitImage(64, 64, 20), 255},
		{"Large image", createSplitImage(400, 300, 150), 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := pc.Count(tc.img, tc.threshold, "test.png")
			if err != nil {
				t.Fatalf("Count failed: %v", err)
			}
			if result.BlackPixelCount < 0 || result.BlackPixelCount > result.TotalPixels {
				t.Errorf("black_pixel_count %d outside [0, %d]",
					result.BlackPixelCount, result.TotalPixels)
			}
			if result.BlackPercentage < 0 || result.BlackPercentage > 100 {
				t.Errorf("black_percentage %f outside [0, 100]", result.BlackPercentage)
			}
			if result.MeanIntensity < 0 || result.MeanIntensity > 255 {
				t.Errorf("mean_intensity %f outside [0, 255]", result.MeanIntensity)
			}
		})
	}
}
