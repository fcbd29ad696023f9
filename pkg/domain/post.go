package domain

// CarouselSlide はカルーセル投稿の1枚分のスライドを表す構造体なのだ。
type CarouselSlide struct {
	SlideText   string `json:"slideText"`   // スライド上に合成する短いテキスト
	ImagePrompt string `json:"imagePrompt"` // 背景画像を生成するためのプロンプト
	ImageURL    string `json:"imageUrl,omitempty"`
	ImageError  string `json:"imageError,omitempty"` // このスライドの画像生成・合成に失敗した場合のメッセージ

	// IsRegenerating は画像の再生成が進行中であることを示すUI向けフラグです。
	IsRegenerating bool `json:"isRegenerating,omitempty"`
}

// Post は1プラットフォーム分の生成結果を表す構造体なのだ。
// カルーセル投稿の場合は Slides が埋まり、ImagePrompt/ImageURL は空になるのだ。
type Post struct {
	Platform    Platform `json:"platform"`
	Content     string   `json:"content"`
	ImagePrompt string   `json:"imagePrompt,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	ImageError  string   `json:"imageError,omitempty"`

	IsRegenerating bool `json:"isRegenerating,omitempty"`

	Slides []CarouselSlide `json:"slides,omitempty"`
}

// IsCarousel はこの投稿がカルーセル形式かどうかを返します。
func (p *Post) IsCarousel() bool {
	return len(p.Slides) > 0
}

// Idea はトピック候補の1件分です。
type Idea struct {
	Text string `json:"text"`
}
