package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jung-kurt/gofpdf"
)

// CarouselService turns a set of images into a single PDF the platform
// renders as a swipeable carousel. One square page per image.
type CarouselService interface {
	BuildCarousel(ctx context.Context, sources []string) ([]byte, error)
}

type carouselService struct {
	assets AssetService
}

func NewCarouselService(assets AssetService) CarouselService {
	return &carouselService{assets: assets}
}

func (s *carouselService) BuildCarousel(ctx context.Context, sources []string) ([]byte, error) {
	if len(sources) < 2 {
		err := errors.New("carousel requires at least two images")
		slog.Info(err.Error())
		return nil, err
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: normalizedSize, Ht: normalizedSize},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	for i, source := range sources {
		normalized, err := s.assets.NormalizeImage(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("carousel image %d: %w", i, err)
		}

		name := fmt.Sprintf("page-%d", i)
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(normalized))
		pdf.AddPage()
		pdf.ImageOptions(name, 0, 0, normalizedSize, normalizedSize, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	// gofpdf writes to an io.Writer; going through a temp file keeps the
	// peak memory at one copy of the document.
	tmp, err := os.CreateTemp("", "carousel-*.pdf")
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := pdf.Output(tmp); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to render carousel pdf: %w", err)
	}

	doc, err := os.ReadFile(tmp.Name())
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return doc, nil
}
