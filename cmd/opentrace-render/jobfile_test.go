package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jewbetcha/opentrace"
)

func writeJobFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing job file: %v", err)
	}
	return path
}

// TestLoadJob validates a complete job file maps onto points, geometry
// and style.
func TestLoadJob(t *testing.T) {
	path := writeJobFile(t, `
points:
  - {frame: 0, x: 10, y: 10}
  - {frame: 5, x: 50.5, y: 10}
  - {frame: 10, x: 90, y: 10}
geometry:
  width: 1280
  height: 720
  source_fps: 30
  output_fps: 60
  duration: 4.2
style:
  start_color: "#00FF00"
  end_color: "#0000FF"
  line_width: 6
  glow_intensity: 2
  glow: gaussian
`)

	job, err := loadJob(path)
	if err != nil {
		t.Fatalf("loadJob failed: %v", err)
	}

	if len(job.Points) != 3 {
		t.Fatalf("loaded %d points, want 3", len(job.Points))
	}
	if job.Points[1] != (opentrace.TracerPoint{SourceFrame: 5, X: 50.5, Y: 10}) {
		t.Errorf("point 1 = %+v", job.Points[1])
	}
	want := opentrace.Geometry{Width: 1280, Height: 720, SourceFPS: 30, OutputFPS: 60, Duration: 4.2}
	if job.Geometry != want {
		t.Errorf("geometry = %+v, want %+v", job.Geometry, want)
	}
	if job.Style.StartColor.Hex() != "#00FF00" || job.Style.EndColor.Hex() != "#0000FF" {
		t.Errorf("style colors = %s -> %s", job.Style.StartColor.Hex(), job.Style.EndColor.Hex())
	}
	if job.Style.LineWidth != 6 || job.Style.GlowIntensity != 2 || job.Style.Glow != opentrace.GlowGaussian {
		t.Errorf("style = %+v", job.Style)
	}
}

// TestLoadJobDefaultStyle validates that a missing style block, or
// missing style fields, fall back to the stock look field by field.
func TestLoadJobDefaultStyle(t *testing.T) {
	path := writeJobFile(t, `
points:
  - {frame: 0, x: 1, y: 1}
geometry: {width: 100, height: 100, source_fps: 30, output_fps: 30, duration: 1}
`)
	job, err := loadJob(path)
	if err != nil {
		t.Fatalf("loadJob failed: %v", err)
	}
	if job.Style != opentrace.DefaultStyle() {
		t.Errorf("style = %+v, want defaults", job.Style)
	}

	path = writeJobFile(t, `
points:
  - {frame: 0, x: 1, y: 1}
geometry: {width: 100, height: 100, source_fps: 30, output_fps: 30, duration: 1}
style:
  line_width: 8
`)
	job, err = loadJob(path)
	if err != nil {
		t.Fatalf("loadJob failed: %v", err)
	}
	if job.Style.LineWidth != 8 {
		t.Errorf("line width = %v, want 8", job.Style.LineWidth)
	}
	if job.Style.StartColor != opentrace.DefaultStyle().StartColor {
		t.Error("unset start color should keep the default")
	}
	if job.Style.GlowIntensity != opentrace.DefaultStyle().GlowIntensity {
		t.Error("unset glow intensity should keep the default")
	}
}

// TestLoadJobRejectsBadInput validates error paths: missing file, bad
// YAML, malformed colors, unknown glow style.
func TestLoadJobRejectsBadInput(t *testing.T) {
	if _, err := loadJob(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}

	if _, err := loadJob(writeJobFile(t, "points: {not: a list")); err == nil {
		t.Error("malformed YAML should fail")
	}

	if _, err := loadJob(writeJobFile(t, `
geometry: {width: 1, height: 1, source_fps: 1, output_fps: 1, duration: 1}
style: {start_color: "#XYZ"}
`)); err == nil {
		t.Error("malformed color should fail")
	}

	if _, err := loadJob(writeJobFile(t, `
geometry: {width: 1, height: 1, source_fps: 1, output_fps: 1, duration: 1}
style: {glow: plasma}
`)); err == nil {
		t.Error("unknown glow style should fail")
	}
}
