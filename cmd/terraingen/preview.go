package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"infinite-terrain/internal/logger"
	"infinite-terrain/internal/mapgen"
	"infinite-terrain/internal/texture"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func previewCommand() *cli.Command {
	return &cli.Command{
		Name:  "preview",
		Usage: "write the height and color maps of one chunk as PNG",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "x", Usage: "chunk x coordinate"},
			&cli.IntFlag{Name: "y", Usage: "chunk y coordinate"},
			&cli.PathFlag{Name: "out", Usage: "output directory", Value: "."},
			&cli.IntFlag{Name: "upscale", Usage: "nearest-neighbour upscale factor", Value: 1},
		},
		Action: commandPreview,
	}
}

func commandPreview(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	gen := mapgen.NewGenerator(cfg.GeneratorSettings())
	chunkSize := float32(gen.Resolution() - 1)
	cx, cy := ctx.Int("x"), ctx.Int("y")
	data := gen.Generate(mgl32.Vec2{float32(cx) * chunkSize, float32(cy) * chunkSize})

	factor := ctx.Int("upscale")
	heightImg := texture.Scale(texture.FromHeightField(data.Height), factor)
	colorImg := texture.Scale(texture.FromColorField(data.Colors.Colors(), data.Colors.Width(), data.Colors.Height()), factor)

	dir := ctx.Path("out")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	base := fmt.Sprintf("chunk_%d_%d", cx, cy)
	for suffix, img := range map[string]image.Image{"height": heightImg, "color": colorImg} {
		path := filepath.Join(dir, base+"_"+suffix+".png")
		if err := writePNG(path, img); err != nil {
			return err
		}
		logger.Info("preview written", zap.String("path", path), zap.Int("size", img.Bounds().Dx()))
	}
	lo, hi := data.Height.Range()
	logger.Info("chunk heights", zap.Int("x", cx), zap.Int("y", cy), zap.Float64("min", lo), zap.Float64("max", hi))
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
