package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/shouni/go-social-kit/internal/config"
	"github.com/shouni/go-social-kit/pkg/assets"
	"github.com/shouni/go-social-kit/pkg/compositor"
	"github.com/shouni/go-social-kit/pkg/generator"
	"github.com/shouni/go-social-kit/pkg/pipeline"
	"github.com/shouni/go-social-kit/pkg/publisher"
	"github.com/shouni/go-social-kit/pkg/session"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
)

// App は、アプリケーション実行に必要な共通コンポーネント一式を保持する。
// これを各コマンドに渡すことで、依存関係の注入を簡素化します。
type App struct {
	Config    *config.Config           // 環境変数から読み込まれたグローバルな設定なのだ
	Pipeline  *pipeline.Pipeline       // 生成セッション全体を駆動するオーケストレーター
	Store     *session.Store           // セッション状態の置き場
	Publisher *publisher.PostPublisher // 成果物の保存を担うパブリッシャー
}

// NewApp は設定を基に全コンポーネントを初期化して束ねるのだ。
// 画像用のAPIキーが別に設定されていれば、画像クライアントは別キーで作るのだ。
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	textClient, err := generator.NewGenerativeClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("テキスト用AIクライアントの初期化に失敗しました: %w", err)
	}

	imageClient := textClient
	if cfg.ImageGeminiAPIKey != cfg.GeminiAPIKey {
		imageClient, err = generator.NewGenerativeClient(ctx, cfg.ImageGeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("画像用AIクライアントの初期化に失敗しました: %w", err)
		}
	}

	timeout := cfg.Options.HTTPTimeout
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}
	httpClient := httpkit.New(timeout)

	imageCache := gocache.New(config.DefaultCacheTTL, time.Hour)
	fetcher := assets.NewFetcher(httpClient, imageCache, config.DefaultCacheTTL)

	interval := cfg.Options.ImageInterval
	if interval <= 0 {
		interval = config.DefaultImageInterval
	}

	store := session.NewStore()
	pipe := pipeline.New(
		generator.NewTextGenerator(textClient),
		generator.NewImageGenerator(imageClient),
		compositor.NewCanvasCompositor(),
		fetcher,
		store,
		pipeline.Config{
			ProModel:      cfg.GeminiModel,
			FlashModel:    cfg.GeminiFlashModel,
			ImageModel:    cfg.GeminiImageModel,
			ImageInterval: interval,
		},
	)

	pub, err := buildPublisher(ctx)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:    cfg,
		Pipeline:  pipe,
		Store:     store,
		Publisher: pub,
	}, nil
}

// buildPublisher はローカル・GCS両対応のライターでパブリッシャーを組み立てるのだ。
func buildPublisher(ctx context.Context) (*publisher.PostPublisher, error) {
	gcsFactory, err := gcsfactory.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	writer, err := gcsFactory.OutputWriter()
	if err != nil {
		return nil, fmt.Errorf("OutputWriterの取得に失敗しました: %w", err)
	}

	return publisher.NewPostPublisher(writer), nil
}
