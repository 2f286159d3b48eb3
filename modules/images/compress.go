package images

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"github.com/specialistvlad/assetgrid/internal/task"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
)

const svgType = "image/svg+xml"

type compressor struct {
	minifier *minify.M
	png      png.Encoder
}

func newCompressor() *compressor {
	m := minify.New()
	m.Add(svgType, &svg.Minifier{})
	return &compressor{
		minifier: m,
		png:      png.Encoder{CompressionLevel: png.BestCompression},
	}
}

// compress re-encodes data according to the file extension. PNG stays
// lossless; JPEG is re-encoded at quality. Unknown extensions are returned
// unchanged.
func (c *compressor) compress(rel string, data []byte, quality int) ([]byte, error) {
	var out bytes.Buffer
	switch strings.ToLower(path.Ext(rel)) {
	case ".png":
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, task.Transform(Name, rel, fmt.Errorf("failed to decode png: %w", err))
		}
		if err := c.png.Encode(&out, img); err != nil {
			return nil, task.Transform(Name, rel, fmt.Errorf("failed to encode png: %w", err))
		}
	case ".jpg", ".jpeg":
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, task.Transform(Name, rel, fmt.Errorf("failed to decode jpeg: %w", err))
		}
		if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, task.Transform(Name, rel, fmt.Errorf("failed to encode jpeg: %w", err))
		}
	case ".svg":
		if err := c.minifier.Minify(svgType, &out, bytes.NewReader(data)); err != nil {
			return nil, task.Minify(Name, rel, err)
		}
	default:
		return data, nil
	}
	return out.Bytes(), nil
}
