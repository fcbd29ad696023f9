package compositor

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"
	"sync"

	"github.com/shouni/go-social-kit/pkg/domain"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// 出力キャンバスの基準幅。高さは元画像のアスペクト比から決まるのだ。
const (
	canvasWidth = 1080

	overlayAlpha = 0.4
	jpegQuality  = 90

	shadowOffset = 2.0
	shadowAlpha  = 0.6
)

// ImageCompositor は背景画像へのテキスト合成を抽象化するインターフェースです。
type ImageCompositor interface {
	Compose(backgroundDataURL, text string) (string, error)
}

// CanvasCompositor は gg を描画バックエンドに使う ImageCompositor の実体なのだ。
// フォントは実行環境に依存しないよう、Go Bold を埋め込みで使うのだ。
type CanvasCompositor struct {
	fontOnce  sync.Once
	boldFont  *opentype.Font
	fontError error
}

// NewCanvasCompositor は CanvasCompositor を生成して返すのだ。
func NewCanvasCompositor() *CanvasCompositor {
	return &CanvasCompositor{}
}

// Compose は Data URL形式の背景画像にテキストを重ね、JPEGのData URLを返すのだ。
// 失敗は domain.CompositingError に包まれるので、呼び出し側は元画像を残せるのだ。
func (c *CanvasCompositor) Compose(backgroundDataURL, text string) (string, error) {
	img, err := decodeDataURL(backgroundDataURL)
	if err != nil {
		return "", &domain.CompositingError{Err: err}
	}

	// 幅1080に正規化し、高さは元画像のアスペクト比に合わせるのだ
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return "", &domain.CompositingError{Err: errors.New("背景画像のサイズが不正です")}
	}
	aspect := float64(bounds.Dx()) / float64(bounds.Dy())
	canvasHeight := int(float64(canvasWidth) / aspect)

	scaled := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)

	dc := gg.NewContextForImage(scaled)
	w := float64(canvasWidth)
	h := float64(canvasHeight)

	// 可読性のための暗めのオーバーレイなのだ
	dc.SetRGBA(0, 0, 0, overlayAlpha)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	if strings.TrimSpace(text) != "" {
		if err := c.drawCenteredText(dc, text, w, h); err != nil {
			return "", &domain.CompositingError{Err: err}
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", &domain.CompositingError{Err: fmt.Errorf("JPEGエンコードに失敗しました: %w", err)}
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// drawCenteredText はフォントサイズの調整、折り返し、縦センタリングを行って描画するのだ。
func (c *CanvasCompositor) drawCenteredText(dc *gg.Context, text string, w, h float64) error {
	boldFont, err := c.loadFont()
	if err != nil {
		return err
	}

	faceCache := map[float64]font.Face{}
	faceFor := func(size float64) (font.Face, error) {
		if f, ok := faceCache[size]; ok {
			return f, nil
		}
		f, err := opentype.NewFace(boldFont, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("フォントフェイスの生成に失敗しました: %w", err)
		}
		faceCache[size] = f
		return f, nil
	}

	var faceErr error
	measure := func(s string, size float64) float64 {
		face, err := faceFor(size)
		if err != nil {
			faceErr = err
			return 0
		}
		dc.SetFontFace(face)
		width, _ := dc.MeasureString(s)
		return width
	}

	fontSize := FitFontSize(text, w, measure)
	if faceErr != nil {
		return faceErr
	}

	face, err := faceFor(fontSize)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)

	maxWidth := w * textWidthRatio
	lines := WrapText(text, maxWidth, func(s string) float64 {
		width, _ := dc.MeasureString(s)
		return width
	})

	lineHeight := LineHeight(fontSize)
	totalHeight := float64(len(lines)) * lineHeight
	y := (h-totalHeight)/2 + lineHeight/2

	for i, line := range lines {
		lineY := y + float64(i)*lineHeight

		// 影を先に落としてから白文字を重ねるのだ
		dc.SetRGBA(0, 0, 0, shadowAlpha)
		dc.DrawStringAnchored(line, w/2+shadowOffset, lineY+shadowOffset, 0.5, 0.5)

		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(line, w/2, lineY, 0.5, 0.5)
	}
	return nil
}

// loadFont は埋め込みの Go Bold を一度だけパースするのだ。
func (c *CanvasCompositor) loadFont() (*opentype.Font, error) {
	c.fontOnce.Do(func() {
		c.boldFont, c.fontError = opentype.Parse(gobold.TTF)
	})
	if c.fontError != nil {
		return nil, fmt.Errorf("埋め込みフォントのパースに失敗しました: %w", c.fontError)
	}
	return c.boldFont, nil
}

// decodeDataURL は "data:image/...;base64," 形式の文字列を画像にデコードするのだ。
func decodeDataURL(dataURL string) (image.Image, error) {
	const marker = ";base64,"
	idx := strings.Index(dataURL, marker)
	if !strings.HasPrefix(dataURL, "data:") || idx < 0 {
		return nil, errors.New("Data URL形式ではありません")
	}

	raw, err := base64.StdEncoding.DecodeString(dataURL[idx+len(marker):])
	if err != nil {
		return nil, fmt.Errorf("base64のデコードに失敗しました: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}
	return img, nil
}
