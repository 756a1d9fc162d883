package main

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/opd-ai/go-devpick/internal/colorfmt"
	"github.com/opd-ai/go-devpick/internal/colors"
	"github.com/opd-ai/go-devpick/internal/config"
	"github.com/opd-ai/go-devpick/internal/gradient"
	"github.com/opd-ai/go-devpick/internal/palette"
)

const (
	rampStops = 10
	hueStep   = 30.0
)

func newColorCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "color",
		Short: "Convert colors and print swatches",
	}

	var format string
	var all bool
	show := &cobra.Command{
		Use:   "show COLOR...",
		Short: "Print colors in the display format",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runColorShow(cmd, root, args, format, all)
		},
	}
	show.Flags().StringVarP(&format, "format", "f", "", "output format (default from settings)")
	show.Flags().BoolVar(&all, "all", false, "print every available format")

	ramp := &cobra.Command{
		Use:   "ramp COLOR",
		Short: "Print shades, tints and hues of a color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runColorRamp(cmd, args[0])
		},
	}

	var out string
	var width, height int
	grad := &cobra.Command{
		Use:   "gradient COLOR...",
		Short: "Write a smooth gradient through the colors as PNG",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runColorGradient(cmd, args, out, width, height)
		},
	}
	grad.Flags().StringVarP(&out, "out", "o", "", "PNG file to write")
	grad.Flags().IntVar(&width, "width", 512, "image width")
	grad.Flags().IntVar(&height, "height", 64, "image height")
	_ = grad.MarkFlagRequired("out")

	cmd.AddCommand(show, ramp, grad)
	return cmd
}

func parseColors(args []string) ([]color.RGBA, error) {
	out := make([]color.RGBA, 0, len(args))
	for _, a := range args {
		c, err := colors.Parse(a)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// swatchStyle paints a block in c. Colors are dropped when w is not a
// terminal.
func swatchStyle(w io.Writer, c color.RGBA) lipgloss.Style {
	c.A = 255
	r := lipgloss.NewRenderer(w)
	return r.NewStyle().
		Background(lipgloss.Color(colors.ToHex(c))).
		Foreground(lipgloss.Color(colors.ToHex(colors.ContrastText(c))))
}

func swatch(w io.Writer, c color.RGBA) string {
	return swatchStyle(w, c).Render("    ")
}

func runColorShow(cmd *cobra.Command, root *rootOptions, args []string, format string, all bool) error {
	cs, err := parseColors(args)
	if err != nil {
		return err
	}
	settings, _, err := root.loadSettings()
	if err != nil {
		return err
	}
	f, err := colorfmt.NewFormatter(settings.CustomFormats, false)
	if err != nil {
		return err
	}
	defer f.Close()

	formats := []colorfmt.Format{settings.ColorDisplayFormat}
	switch {
	case all:
		formats = f.Formats()
	case format != "":
		ff, err := colorfmt.ParseFormat(format)
		if err != nil {
			return err
		}
		formats = []colorfmt.Format{ff}
	}

	out := cmd.OutOrStdout()
	for _, c := range cs {
		values := make([]string, 0, len(formats))
		for _, ff := range formats {
			v, err := f.Format(ff, c)
			if err != nil {
				return fmt.Errorf("%s: %w", ff.Label(), err)
			}
			values = append(values, v)
		}
		fmt.Fprintf(out, "%s %s\n", swatch(out, c), strings.Join(values, "  "))
	}
	return nil
}

func runColorRamp(cmd *cobra.Command, arg string) error {
	c, err := colors.Parse(arg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	rows := []struct {
		name string
		g    gradient.Gradient
	}{
		{"Shades", gradient.Shades(c, rampStops)},
		{"Tints", gradient.Tints(c, rampStops)},
		{"Hues", gradient.Hues(c, rampStops, hueStep)},
	}
	for _, row := range rows {
		fmt.Fprintf(out, "%-7s", row.name)
		for _, stop := range row.g.Stops() {
			fmt.Fprint(out, swatchStyle(out, stop).Render(" "+colors.ToHex(stop)+" "))
		}
		fmt.Fprintln(out)
	}
	return nil
}

func runColorGradient(cmd *cobra.Command, args []string, path string, width, height int) error {
	cs, err := parseColors(args)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := palette.WritePNG(&buf, gradient.New(cs...), width, height); err != nil {
		return err
	}
	if err := config.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %dx%d gradient to %s\n", width, height, path)
	return nil
}
