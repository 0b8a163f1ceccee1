package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jewbetcha/opentrace"
)

// jobFile is the on-disk YAML shape of a render job: the point track,
// the geometry, and an optional style block. Missing style fields fall
// back to the stock look field by field.
type jobFile struct {
	Points []struct {
		Frame int     `yaml:"frame"`
		X     float64 `yaml:"x"`
		Y     float64 `yaml:"y"`
	} `yaml:"points"`
	Geometry struct {
		Width     int     `yaml:"width"`
		Height    int     `yaml:"height"`
		SourceFPS float64 `yaml:"source_fps"`
		OutputFPS float64 `yaml:"output_fps"`
		Duration  float64 `yaml:"duration"`
	} `yaml:"geometry"`
	Style *struct {
		StartColor    string   `yaml:"start_color"`
		EndColor      string   `yaml:"end_color"`
		LineWidth     *float64 `yaml:"line_width"`
		GlowIntensity *float64 `yaml:"glow_intensity"`
		Glow          string   `yaml:"glow"`
	} `yaml:"style"`
}

// loadJob reads a YAML job file and maps it onto a render job. The
// source video itself is supplied separately on the command line.
func loadJob(path string) (opentrace.Job, error) {
	var job opentrace.Job

	data, err := os.ReadFile(path)
	if err != nil {
		return job, fmt.Errorf("reading job file: %w", err)
	}
	var jf jobFile
	if err := yaml.Unmarshal(data, &jf); err != nil {
		return job, fmt.Errorf("parsing job file: %w", err)
	}

	job.Points = make([]opentrace.TracerPoint, 0, len(jf.Points))
	for _, p := range jf.Points {
		job.Points = append(job.Points, opentrace.TracerPoint{
			SourceFrame: p.Frame,
			X:           p.X,
			Y:           p.Y,
		})
	}
	job.Geometry = opentrace.Geometry{
		Width:     jf.Geometry.Width,
		Height:    jf.Geometry.Height,
		SourceFPS: jf.Geometry.SourceFPS,
		OutputFPS: jf.Geometry.OutputFPS,
		Duration:  jf.Geometry.Duration,
	}

	job.Style, err = mapStyle(jf)
	if err != nil {
		return job, err
	}
	return job, nil
}

func mapStyle(jf jobFile) (opentrace.Style, error) {
	style := opentrace.DefaultStyle()
	if jf.Style == nil {
		return style, nil
	}
	var err error
	if jf.Style.StartColor != "" {
		if style.StartColor, err = opentrace.ParseHexColor(jf.Style.StartColor); err != nil {
			return style, fmt.Errorf("style start_color: %w", err)
		}
	}
	if jf.Style.EndColor != "" {
		if style.EndColor, err = opentrace.ParseHexColor(jf.Style.EndColor); err != nil {
			return style, fmt.Errorf("style end_color: %w", err)
		}
	}
	if jf.Style.LineWidth != nil {
		style.LineWidth = *jf.Style.LineWidth
	}
	if jf.Style.GlowIntensity != nil {
		style.GlowIntensity = *jf.Style.GlowIntensity
	}
	switch jf.Style.Glow {
	case "", "layered":
		style.Glow = opentrace.GlowLayered
	case "gaussian":
		style.Glow = opentrace.GlowGaussian
	default:
		return style, fmt.Errorf("style glow: unknown value %q (want layered or gaussian)", jf.Style.Glow)
	}
	return style, nil
}
