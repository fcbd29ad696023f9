package domain

import (
	"errors"
	"strings"
)

// Tone はテキスト生成時の文体指定なのだ。自由入力も許容するのだ。
type Tone string

const (
	ToneProfessional  Tone = "Professional"
	ToneCasual        Tone = "Casual"
	ToneHumorous      Tone = "Humorous"
	ToneInspirational Tone = "Inspirational"
)

// GenerationRequest は1回の生成セッションへの入力をまとめた構造体なのだ。
type GenerationRequest struct {
	Topic     string     // 投稿のテーマ。必須なのだ
	Tone      Tone       // 文体の指定
	Platforms []Platform // 生成対象のプラットフォーム。1つ以上必須なのだ

	// CustomInstructions はテキスト生成への自由記述の追加指示です。空なら無指定です。
	CustomInstructions string

	// GenerateCarousel が真の場合、対応プラットフォームはカルーセル形式で生成するのだ。
	GenerateCarousel bool

	// CustomImageStyle は画像プロンプトに追記する画風の指定です。空なら無指定です。
	CustomImageStyle string

	// ReferenceImageURL は画像生成の参考として添付する画像のURLです。省略可能です。
	ReferenceImageURL string
}

// Validate はリクエストの必須項目と整合性を検査するのだ。
// プラットフォームの重複はエラーにはせず、ここで取り除くのだ。
func (r *GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return errors.New("トピックが指定されていません")
	}
	if len(r.Platforms) == 0 {
		return errors.New("プラットフォームが1つも指定されていません")
	}

	// 呼び出し側のスライスを書き換えないよう、新しい配列に積み直すのだ
	seen := make(map[Platform]bool, len(r.Platforms))
	deduped := make([]Platform, 0, len(r.Platforms))
	for _, p := range r.Platforms {
		if !p.Valid() {
			return errors.New("未対応のプラットフォームが含まれています: " + string(p))
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		deduped = append(deduped, p)
	}
	r.Platforms = deduped
	return nil
}

// CarouselPlatforms はカルーセル生成の対象となるプラットフォームを返すのだ。
// カルーセルモードでない場合は常に空なのだ。
func (r *GenerationRequest) CarouselPlatforms() []Platform {
	if !r.GenerateCarousel {
		return nil
	}
	var out []Platform
	for _, p := range r.Platforms {
		if p.SupportsCarousel() {
			out = append(out, p)
		}
	}
	return out
}

// SinglePlatforms は単発投稿として生成するプラットフォームを返すのだ。
func (r *GenerationRequest) SinglePlatforms() []Platform {
	var out []Platform
	for _, p := range r.Platforms {
		if r.GenerateCarousel && p.SupportsCarousel() {
			continue
		}
		out = append(out, p)
	}
	return out
}
