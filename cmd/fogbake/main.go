// Command fogbake resolves a fog configuration without a GPU. It prints the
// selected variant and the shader parameters, and writes the bound colour
// lookup textures as PNG strips.
//
// Usage:
//
//	fogbake [-config fog.yaml] [-out dir] [-distance-fog gradient] [-height-fog off]
package main

import (
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/Faultbox/stylistic-fog/internal/config"
	"github.com/Faultbox/stylistic-fog/internal/engine/debug"
	"github.com/Faultbox/stylistic-fog/internal/engine/fog"
	"github.com/Faultbox/stylistic-fog/internal/engine/texture"
	"github.com/Faultbox/stylistic-fog/internal/logger"
)

var outDir = flag.String("out", "", "Directory for baked lookup textures (skip writing when empty)")

func main() {
	config.ParseFlags()

	if err := run(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "fogbake: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return err
	}
	defer logger.Sync()

	if err := texture.ResolveRamps(&cfg.Fog, cfg.ResolvePath); err != nil {
		logger.Warn("loading fog ramp", zap.Error(err))
	}

	pass := fog.NewPass("StylisticFog", logger.Named("fog"))
	pass.SetSettings(cfg.Fog)
	defer pass.Close()

	v, params := pass.Preview(nil)
	if err := report(w, v, params); err != nil {
		return err
	}

	if *outDir == "" {
		return nil
	}
	return writeTextures(w, debug.NewScreenshotCapture(*outDir, "lut"), params)
}

// report prints the variant and the parameter table.
func report(w io.Writer, v fog.Variant, params fog.ParamSet) error {
	fmt.Fprintf(w, "variant: %s (pass %d)\n", v, v.PassIndex())
	if params.Len() == 0 {
		_, err := fmt.Fprintln(w, "no parameters, frame is passed through")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	params.Each(func(p fog.Param, val fog.Value) {
		fmt.Fprintf(tw, "%s\t%s\n", p.Name(), formatValue(val))
	})
	return tw.Flush()
}

func formatValue(v fog.Value) string {
	switch v.Kind {
	case fog.KindMatrix:
		return fmt.Sprintf("mat4 %v", v.Matrix)
	case fog.KindInt:
		return fmt.Sprintf("int %d", v.Int)
	case fog.KindFloat:
		return fmt.Sprintf("float %g", v.Float)
	case fog.KindTexture:
		b := v.Texture.Bounds()
		return fmt.Sprintf("texture %dx%d", b.Dx(), b.Dy())
	}
	return "-"
}

// writeTextures saves the textures bound to the colour slots.
func writeTextures(w io.Writer, out *debug.ScreenshotCapture, params fog.ParamSet) error {
	for _, slot := range []fog.Param{fog.ParamFogColorTexture0, fog.ParamFogColorTexture1} {
		v, ok := params.Get(slot)
		if !ok || v.Kind != fog.KindTexture {
			continue
		}
		var img image.Image = v.Texture
		if lut, isLUT := v.Texture.(*fog.LookupTexture); isLUT {
			img = lut.NRGBA
		}
		path, err := out.Save(slot.Name()+".png", img)
		if err != nil {
			return fmt.Errorf("writing %s: %w", slot.Name(), err)
		}
		fmt.Fprintf(w, "wrote %s\n", path)
	}
	return nil
}
