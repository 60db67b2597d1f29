// Command facet is the development tool for the toolkit: it renders a
// widget gallery to an image for backend comparison and golden-file
// work, and checks stylesheets for diagnostics without rendering.
package main

import (
	"context"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/agiangrant/facet"
	"github.com/agiangrant/facet/backend/software"
	"github.com/agiangrant/facet/css"
	"github.com/agiangrant/facet/theme"
)

const version = "0.1.0"

func main() {
	app := &cli.Command{
		Name:            "facet",
		Usage:           "development tool for the facet UI toolkit",
		Version:         version,
		HideHelpCommand: true,
		Commands: []*cli.Command{
			{
				Name:   "render",
				Usage:  "Render the widget gallery to an image file",
				Action: runRender,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "css", Usage: "stylesheet `FILE` applied to the gallery"},
					&cli.StringFlag{Name: "tokens", Usage: "theme token overrides `FILE` (TOML)"},
					&cli.StringFlag{Name: "theme", Value: "light", Usage: "theme `MODE`: light, dark or auto"},
					&cli.IntFlag{Name: "width", Value: 800, Usage: "viewport width in pixels"},
					&cli.IntFlag{Name: "height", Value: 600, Usage: "viewport height in pixels"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "facet.png", Usage: "output image `FILE`"},
				},
			},
			{
				Name:      "check",
				Usage:     "Parse a stylesheet and report diagnostics",
				Action:    runCheck,
				ArgsUsage: "FILE",
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runRender(_ context.Context, cmd *cli.Command) error {
	mode, err := theme.ParseMode(cmd.String("theme"))
	if err != nil {
		return err
	}

	opts := []facet.Option{
		facet.WithTheme(mode),
		facet.WithSize(cmd.Int("width"), cmd.Int("height")),
		facet.WithBackends(software.New),
		facet.WithLogger(zap.NewNop()),
	}
	if path := cmd.String("tokens"); path != "" {
		opts = append(opts, facet.WithTokenFile(path))
	}
	if path := cmd.String("css"); path != "" {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read stylesheet: %w", err)
		}
		opts = append(opts, facet.WithStyleSheet(string(src)))
	}

	app, err := facet.New(gallery, opts...)
	if err != nil {
		return err
	}
	defer app.Close()

	surface, err := app.Frame()
	if err != nil {
		return fmt.Errorf("render frame: %w", err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, surface.W, surface.H))
	copy(img.Pix, surface.Pix)
	if err := imaging.Save(img, cmd.String("out")); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	fmt.Printf("rendered %dx%d to %s\n", surface.W, surface.H, cmd.String("out"))
	return nil
}

func runCheck(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("check expects exactly one stylesheet file")
	}
	path := cmd.Args().First()
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read stylesheet: %w", err)
	}

	sheet, perr := css.NewParser(zap.NewNop()).Parse(src)
	for _, e := range multierr.Errors(perr) {
		fmt.Printf("%s: %v\n", path, e)
	}
	fmt.Printf("%s: %d rules", path, len(sheet.Rules))
	if n := len(multierr.Errors(perr)); n > 0 {
		fmt.Printf(", %d diagnostics", n)
	}
	fmt.Println()
	return nil
}

// gallery is the fixed tree the render command draws: stacks, buttons
// and text exercising the default widget styling.
func gallery() *facet.Widget {
	return facet.VStack(
		facet.Panel(
			facet.Text("facet widget gallery").WithKey("title").WithClasses("title"),
			facet.HStack(
				facet.Button("Primary", nil).WithKey("b1"),
				facet.Button("Disabled", nil).WithKey("b2").WithDisabled(true),
				facet.Spacer().WithKey("sp"),
				facet.Text("right aligned").WithKey("note").WithClasses("muted"),
			).WithKey("row"),
		).WithKey("card"),
	).WithKey("root").WithClasses("gallery")
}
