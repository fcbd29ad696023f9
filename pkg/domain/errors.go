package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ユーザーに提示する定型メッセージの定義です。
const (
	MsgIdeasFailed      = "Failed to generate ideas. Please try again."
	MsgGenerationFailed = "Failed to generate content. Please check your API key and try again."
	MsgQuotaExceeded    = "Image generation quota exceeded. Please check your plan and billing details."
	MsgImageRefused     = "Failed to generate image. The model may have refused the request."
	MsgNoImages         = "Image generation returned no images."
	MsgRefineFailed     = "Failed to refine content."
	MsgRegenerateFailed = "Failed to regenerate content."
	MsgCompositeFailed  = "Failed to render text onto the image."
	MsgCarouselRegen    = "Carousel regeneration is not yet supported. Please start a new generation."
)

// 前提条件違反を表すセンチネルエラーなのだ。ネットワークに出る前に返すのだ。
var (
	ErrMissingContext       = errors.New("対象の投稿がセッション内に見つかりません")
	ErrUnsupportedOperation = errors.New(MsgCarouselRegen)
)

// GenerationError はテキスト生成フェーズの致命的な失敗を表します。
// Message はそのままユーザーに提示できる英文、Err は原因です。
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error { return e.Err }

// NewGenerationError は GenerationError を生成するヘルパーなのだ。
func NewGenerationError(message string, err error) *GenerationError {
	return &GenerationError{Message: message, Err: err}
}

// ImageGenerationError は個別の画像生成の失敗を表します。
// セッション全体は失敗させず、該当アイテムにのみ記録されるのだ。
type ImageGenerationError struct {
	Message string
	Quota   bool // APIクォータ枯渇による失敗かどうか
	Err     error
}

func (e *ImageGenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ImageGenerationError) Unwrap() error { return e.Err }

// NewImageError は原因エラーを分類して ImageGenerationError を組み立てるのだ。
// クォータ系のエラーはメッセージの部分一致でしか判別できないのが現実なのだ。
func NewImageError(err error) *ImageGenerationError {
	if err != nil && IsQuotaError(err) {
		return &ImageGenerationError{Message: MsgQuotaExceeded, Quota: true, Err: err}
	}
	return &ImageGenerationError{Message: MsgImageRefused, Err: err}
}

// IsQuotaError は原因メッセージからクォータ枯渇を判定します。
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(strings.ToLower(msg), "quota")
}

// CompositingError はテキスト合成フェーズの失敗を表します。
// 呼び出し側は生成済みの背景画像をそのまま残すことが期待されるのだ。
type CompositingError struct {
	Err error
}

func (e *CompositingError) Error() string {
	return fmt.Sprintf("テキスト合成に失敗しました: %v", e.Err)
}

func (e *CompositingError) Unwrap() error { return e.Err }
