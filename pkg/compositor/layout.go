// Package compositor は、生成された背景画像の上にスライドのテキストを描画するのだ。
// 文字サイズの決定と折り返しは純粋なロジックとして切り出し、描画バックエンドから独立させているのだ。
package compositor

import "strings"

// フォントサイズ調整の定数。大きめから始めて、収まるまで少しずつ下げるのだ。
const (
	maxFontSize  = 80.0
	minFontSize  = 30.0
	fontSizeStep = 5.0

	// テキストが使えるのはキャンバス幅の8割までなのだ
	textWidthRatio = 0.8

	lineHeightRatio = 1.2
)

// MeasureFunc は指定フォントサイズでのテキストの描画幅を返す関数です。
type MeasureFunc func(text string, fontSize float64) float64

// FitFontSize はテキスト全体が最大幅に収まるフォントサイズを探すのだ。
// 下限まで下げても収まらない場合は折り返しに任せるのだ。
func FitFontSize(text string, canvasWidth float64, measure MeasureFunc) float64 {
	maxWidth := canvasWidth * textWidthRatio
	fontSize := maxFontSize
	for measure(text, fontSize) > maxWidth && fontSize > minFontSize {
		fontSize -= fontSizeStep
	}
	return fontSize
}

// WrapText はテキストを最大幅に収まるよう貪欲法で折り返すのだ。
// 1単語で幅を超えるものは、その単語だけの行としてそのまま置くのだ。
// 戻り値は必ず1行以上で、空白のみの入力でも空文字1行を返すのだ。
func WrapText(text string, maxWidth float64, measure func(text string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		candidate := line + " " + word
		if measure(candidate) > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	lines = append(lines, line)
	return lines
}

// LineHeight はフォントサイズに対する行送りの高さを返します。
func LineHeight(fontSize float64) float64 {
	return fontSize * lineHeightRatio
}
