package utils

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // GIF 디코더 등록
	_ "image/jpeg" // JPEG 디코더 등록
	"image/png"
	"log"

	_ "github.com/kolesa-team/go-webp/decoder" // WebP 디코더 등록
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
)

// ErrDecode - 입력 바이너리가 디코딩 가능한 이미지가 아님
var ErrDecode = errors.New("image decode failed")

// ErrGeometry - placement width/height가 0 이하
var ErrGeometry = errors.New("invalid placement geometry")

// DecodeImage - 이미지 바이너리 디코딩 (JPEG/PNG/GIF/WebP 자동 감지)
func DecodeImage(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, format, nil
}

// CompositeImages - overlay를 (width x height)로 강제 리사이즈 후
// base의 (left, top) 위치에 alpha-over 합성, PNG 바이너리 반환
func CompositeImages(baseData, overlayData []byte, left, top, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrGeometry, width, height)
	}

	baseImg, baseFormat, err := DecodeImage(baseData)
	if err != nil {
		return nil, fmt.Errorf("base image: %w", err)
	}

	overlayImg, overlayFormat, err := DecodeImage(overlayData)
	if err != nil {
		return nil, fmt.Errorf("overlay image: %w", err)
	}

	log.Printf("🔍 Compositing: base=%s overlay=%s box=%dx%d at (%d,%d)",
		baseFormat, overlayFormat, width, height, left, top)

	// 고정 박스 placement 모델 - 비율 유지하지 않고 박스에 맞춰 늘림
	resized := ResizeStretch(overlayImg, width, height)

	baseBounds := baseImg.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, baseBounds.Dx(), baseBounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), baseImg, baseBounds.Min, draw.Src)
	draw.Draw(canvas,
		image.Rect(left, top, left+width, top+height),
		resized, image.Point{0, 0}, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode composited image: %w", err)
	}

	return buf.Bytes(), nil
}

// ResizeStretch - 이미지를 지정된 크기로 resize (비율 무시, Nearest Neighbor)
func ResizeStretch(src image.Image, targetWidth, targetHeight int) image.Image {
	srcBounds := src.Bounds()
	srcWidth := srcBounds.Dx()
	srcHeight := srcBounds.Dy()

	scaleX := float64(srcWidth) / float64(targetWidth)
	scaleY := float64(srcHeight) / float64(targetHeight)

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	for y := 0; y < targetHeight; y++ {
		for x := 0; x < targetWidth; x++ {
			srcX := srcBounds.Min.X + int(float64(x)*scaleX)
			srcY := srcBounds.Min.Y + int(float64(y)*scaleY)
			dst.Set(x, y, src.At(srcX, srcY))
		}
	}

	return dst
}

// ConvertPNGToWebP - PNG 바이너리를 WebP로 변환
func ConvertPNGToWebP(pngData []byte, quality float32) ([]byte, error) {
	pngReader := bytes.NewReader(pngData)
	img, err := png.Decode(pngReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return encodeWebP(img, quality)
}

// NormalizeToWebP - 허용 포맷(JPEG/PNG/GIF)을 WebP로 정규화
// 업로드 저장 포맷은 WebP 하나로 통일
func NormalizeToWebP(data []byte, quality float32) ([]byte, error) {
	img, format, err := DecodeImage(data)
	if err != nil {
		return nil, err
	}

	webpData, err := encodeWebP(img, quality)
	if err != nil {
		return nil, err
	}

	log.Printf("🔄 Normalized %s to WebP: %d bytes → %d bytes", format, len(data), len(webpData))
	return webpData, nil
}

// encodeWebP - lossy WebP 인코딩
func encodeWebP(img image.Image, quality float32) ([]byte, error) {
	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebP encoder options: %w", err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, options); err != nil {
		return nil, fmt.Errorf("failed to encode WebP: %w", err)
	}
	return buf.Bytes(), nil
}
