// Package pipeline は、テキスト生成・画像生成・テキスト合成を束ねる
// コンテンツ生成のオーケストレーターなのだ。
package pipeline

import (
	"context"
	"time"

	"github.com/shouni/go-social-kit/pkg/session"

	"golang.org/x/sync/singleflight"
	"google.golang.org/genai"
)

// TextClient はテキスト生成クライアントを抽象化するインターフェースです。
type TextClient interface {
	GenerateJSON(ctx context.Context, model, prompt string, schema *genai.Schema, out any) error
	GenerateText(ctx context.Context, model, prompt string) (string, error)
}

// ImageClient は画像生成クライアントを抽象化するインターフェースです。
type ImageClient interface {
	Generate(ctx context.Context, model, prompt, aspectRatio string, refParts ...*genai.Part) (string, error)
}

// Compositor は背景画像へのテキスト合成を抽象化するインターフェースです。
type Compositor interface {
	Compose(backgroundDataURL, text string) (string, error)
}

// ReferenceResolver は参考画像URLをインラインパーツへ解決するインターフェースです。
type ReferenceResolver interface {
	FetchPart(ctx context.Context, rawURL string) *genai.Part
}

// Config はパイプラインが使うモデル名と実行パラメータなのだ。
type Config struct {
	ProModel   string // 初回のテキスト生成に使う高品質モデル
	FlashModel string // 改善・再生成に使う軽量モデル
	ImageModel string // 画像生成モデル

	// ImageInterval は同一系列内での画像リクエストの最小間隔なのだ。
	ImageInterval time.Duration
}

// Pipeline は生成セッション全体を駆動する本体なのだ。
// 依存はすべてインターフェースで注入されるので、テストではモックに差し替えられるのだ。
type Pipeline struct {
	text  TextClient
	image ImageClient
	comp  Compositor
	refs  ReferenceResolver // nil なら参考画像なしで動くのだ
	store *session.Store
	cfg   Config

	// 同一対象への再生成リクエストを1回にまとめるのだ
	regenGroup singleflight.Group
}

// New は Pipeline を生成して返すのだ。
func New(text TextClient, image ImageClient, comp Compositor, refs ReferenceResolver, store *session.Store, cfg Config) *Pipeline {
	return &Pipeline{
		text:  text,
		image: image,
		comp:  comp,
		refs:  refs,
		store: store,
		cfg:   cfg,
	}
}

// Store はこのパイプラインが結果を書き込むセッションストアを返します。
func (p *Pipeline) Store() *session.Store {
	return p.store
}

// referencePart は参考画像の解決を試みるのだ。リゾルバ未設定やURLなしなら nil なのだ。
func (p *Pipeline) referencePart(ctx context.Context, rawURL string) *genai.Part {
	if p.refs == nil || rawURL == "" {
		return nil
	}
	return p.refs.FetchPart(ctx, rawURL)
}
