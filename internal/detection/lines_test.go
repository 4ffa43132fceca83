package detection

import (
	"errors"
	"math"
	"testing"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

func TestHoughLines_Horizontal(t *testing.T) {
	b := binaryCanvas(20, 20)
	for x := 0; x < 20; x++ {
		setWhite(b, x, 10)
	}
	img := newBinary(t, b)

	result, err := HoughLines(img, 1, math.Pi/180, 15, nil)
	if err != nil {
		t.Fatalf("HoughLines failed: %v", err)
	}
	if len(result.Lines) != 1 {
		t.Fatalf("Expected 1 line, got %d: %+v", len(result.Lines), result.Lines)
	}
	l := result.Lines[0]
	if math.Abs(l.Theta-math.Pi/2) > 2*math.Pi/180 {
		t.Errorf("Theta = %.4f, expected about π/2", l.Theta)
	}
	if math.Abs(l.Rho-10) > 1 {
		t.Errorf("Rho = %.1f, expected about 10", l.Rho)
	}
	if l.Votes != 20 {
		t.Errorf("Votes = %d, expected 20", l.Votes)
	}

	if result.Image.Kind() != imaging.KindColor {
		t.Errorf("Overlay kind = %s, expected color", result.Image.Kind())
	}
	px, _ := result.Image.At(2, 10)
	if px[2] != 255 || px[1] != 0 {
		t.Errorf("Overlay pixel on the line = %v, expected red", px)
	}
}

func TestHoughLines_EmptyImage(t *testing.T) {
	result, err := HoughLines(newBinary(t, binaryCanvas(10, 10)), 1, math.Pi/180, 5, nil)
	if err != nil {
		t.Fatalf("HoughLines failed: %v", err)
	}
	if result.Lines == nil || len(result.Lines) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", result.Lines)
	}
}

func TestHoughLines_RequiresBinary(t *testing.T) {
	gray, err := imaging.New(imaging.NewBuffer(4, 4, 1), imaging.KindGray, "gray")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := HoughLines(gray, 1, math.Pi/180, 1, nil); !errors.Is(err, imaging.ErrPrecondition) {
		t.Errorf("Expected ErrPrecondition, got %v", err)
	}
	bin := newBinary(t, binaryCanvas(4, 4))
	if _, err := HoughLines(bin, 0, math.Pi/180, 1, nil); !errors.Is(err, imaging.ErrInvalidArgument) {
		t.Errorf("rho=0: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := HoughLines(bin, 1, math.Pi/180, 0, nil); !errors.Is(err, imaging.ErrInvalidArgument) {
		t.Errorf("threshold=0: expected ErrInvalidArgument, got %v", err)
	}
}

func TestHoughLines_MaxLines(t *testing.T) {
	b := binaryCanvas(200, 200)
	for y := 0; y < 200; y += 3 {
		for x := 0; x < 200; x++ {
			setWhite(b, x, y)
		}
	}
	result, err := HoughLines(newBinary(t, b), 1, math.Pi/180, 20, nil)
	if err != nil {
		t.Fatalf("HoughLines failed: %v", err)
	}
	if len(result.Lines) > MaxLines {
		t.Errorf("Expected at most %d lines, got %d", MaxLines, len(result.Lines))
	}
}

func TestHoughSegments(t *testing.T) {
	b := binaryCanvas(40, 20)
	for x := 5; x <= 24; x++ {
		setWhite(b, x, 10)
	}
	result, err := HoughSegments(newBinary(t, b), 1, math.Pi/180, 10, 10, 2, nil)
	if err != nil {
		t.Fatalf("HoughSegments failed: %v", err)
	}
	if len(result.Segments) != 1 {
		t.Fatalf("Expected 1 segment, got %+v", result.Segments)
	}
	s := result.Segments[0]
	if s.Start != (imaging.Point{X: 5, Y: 10}) || s.End != (imaging.Point{X: 24, Y: 10}) {
		t.Errorf("Segment = %+v, expected (5,10)-(24,10)", s)
	}
	if s.Length != 19 {
		t.Errorf("Length = %.1f, expected 19", s.Length)
	}
}

func TestHoughSegments_GapSplits(t *testing.T) {
	b := binaryCanvas(40, 20)
	for x := 5; x <= 14; x++ {
		setWhite(b, x, 10)
	}
	for x := 20; x <= 29; x++ {
		setWhite(b, x, 10)
	}
	img := newBinary(t, b)

	split, err := HoughSegments(img, 1, math.Pi/180, 10, 5, 2, nil)
	if err != nil {
		t.Fatalf("HoughSegments failed: %v", err)
	}
	if len(split.Segments) != 2 {
		t.Fatalf("maxGap=2: expected 2 segments, got %+v", split.Segments)
	}

	joined, err := HoughSegments(img, 1, math.Pi/180, 10, 5, 10, nil)
	if err != nil {
		t.Fatalf("HoughSegments failed: %v", err)
	}
	if len(joined.Segments) != 1 || joined.Segments[0].Length != 24 {
		t.Errorf("maxGap=10: expected one 24px segment, got %+v", joined.Segments)
	}
}

func TestHoughSegments_GrayUsesCanny(t *testing.T) {
	img := createDiscImage(t, 30, 30, 15, 15, 6)
	result, err := HoughSegments(img, 1, math.Pi/180, 200, 10, 1, nil)
	if err != nil {
		t.Fatalf("HoughSegments failed: %v", err)
	}
	if result.Segments == nil {
		t.Error("Segments should be non-nil")
	}
	if result.Image.Kind() != imaging.KindColor {
		t.Errorf("Overlay kind = %s, expected color", result.Image.Kind())
	}
}
