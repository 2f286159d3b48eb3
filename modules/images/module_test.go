package images

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/task"
	"github.com/specialistvlad/assetgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: 128, A: 255})
		}
	}
	return img
}

func rgba(c color.Color) [4]uint32 {
	r, g, b, a := c.RGBA()
	return [4]uint32{r, g, b, a}
}

func encodePNG(t *testing.T) string {
	t.Helper()
	var b bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.NoCompression}
	require.NoError(t, enc.Encode(&b, gradient()))
	return b.String()
}

func encodeJPEG(t *testing.T) string {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, jpeg.Encode(&b, gradient(), &jpeg.Options{Quality: 100}))
	return b.String()
}

const logo = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
  <!-- company logo -->
  <rect x="0" y="0" width="10" height="10" fill="#ff0000"/>
</svg>
`

func fixtures(t *testing.T) map[string]string {
	return map[string]string{
		"images/photos/a.png": encodePNG(t),
		"images/photos/b.jpg": encodeJPEG(t),
		"images/logo.svg":     logo,
		"images/svg/icon.svg": logo,
		"images/notes.txt":    "ignored",
	}
}

func TestRun_DevelopmentCopiesVerbatim(t *testing.T) {
	// --- Arrange ---
	files := fixtures(t)
	cfg := testutil.Project(t, config.Development, files)

	// --- Act ---
	res := (&Task{compressor: newCompressor()}).Run(context.Background(), cfg)

	// --- Assert ---
	require.Equal(t, task.Succeeded, res.Status, "unexpected error: %v", res.Err)
	assert.Equal(t, map[string]string{
		"images/logo.svg":     files["images/logo.svg"],
		"images/photos/a.png": files["images/photos/a.png"],
		"images/photos/b.jpg": files["images/photos/b.jpg"],
	}, testutil.ReadTree(t, cfg.OutputDir))
}

func TestRun_ProductionCompresses(t *testing.T) {
	// --- Arrange ---
	files := fixtures(t)
	cfg := testutil.Project(t, config.Production, files)

	// --- Act ---
	res := (&Task{compressor: newCompressor()}).Run(context.Background(), cfg)

	// --- Assert ---
	require.Equal(t, task.Succeeded, res.Status, "unexpected error: %v", res.Err)
	assert.ElementsMatch(t, []string{"images/logo.svg", "images/photos/a.png", "images/photos/b.jpg"}, res.Written)

	pngOut := testutil.ReadFile(t, cfg.OutputDir, "images/photos/a.png")
	assert.Less(t, len(pngOut), len(files["images/photos/a.png"]))
	decoded, err := png.Decode(bytes.NewReader([]byte(pngOut)))
	require.NoError(t, err, "recompressed png must stay decodable")
	assert.Equal(t, gradient().Bounds(), decoded.Bounds())
	assert.Equal(t, rgba(gradient().At(10, 20)), rgba(decoded.At(10, 20)), "png recompression is lossless")

	jpgOut := testutil.ReadFile(t, cfg.OutputDir, "images/photos/b.jpg")
	assert.Less(t, len(jpgOut), len(files["images/photos/b.jpg"]))

	svgOut := testutil.ReadFile(t, cfg.OutputDir, "images/logo.svg")
	assert.NotContains(t, svgOut, "company logo")
	assert.Less(t, len(svgOut), len(logo))
}

func TestRun_NeverGrowsOutput(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, png.Encode(&b, image.NewGray(image.Rect(0, 0, 1, 1))))
	cfg := testutil.Project(t, config.Production, map[string]string{"images/dot.png": b.String()})
	cfg.Images.Sources = []string{"images/*.png"}

	res := (&Task{compressor: newCompressor()}).Run(context.Background(), cfg)

	require.Equal(t, task.Succeeded, res.Status)
	assert.LessOrEqual(t, len(testutil.ReadFile(t, cfg.OutputDir, "images/dot.png")), b.Len())
}

func TestRun_UndecodableImageIsTransformError(t *testing.T) {
	cfg := testutil.Project(t, config.Production, map[string]string{"images/broken.png": "not a png"})

	res := (&Task{compressor: newCompressor()}).Run(context.Background(), cfg)

	require.Equal(t, task.Failed, res.Status)
	assert.True(t, task.IsKind(res.Err, task.KindTransform))
	var taskErr *task.Error
	require.ErrorAs(t, res.Err, &taskErr)
	assert.Equal(t, "images/broken.png", taskErr.Path)
}

func TestOutputs(t *testing.T) {
	cfg := testutil.Project(t, config.Development, fixtures(t))

	outs, err := (&Task{}).Outputs(context.Background(), cfg)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"images/photos/a.png", "images/photos/b.jpg", "images/logo.svg"}, outs)
}
