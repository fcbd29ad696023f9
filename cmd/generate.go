package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-social-kit/internal/builder"
	"github.com/shouni/go-social-kit/internal/config"
	"github.com/shouni/go-social-kit/pkg/domain"
	"github.com/shouni/go-social-kit/pkg/publisher"

	"github.com/spf13/cobra"
)

var saveResults bool

// generateCmd は、AIによるSNS投稿文と画像の生成を実行するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "AIにSNS投稿と画像を生成させますなのだ。",
	Long: `トピックを解析し、プラットフォームごとの投稿文・画像プロンプト・画像を生成するのだ。
--carousel を付けると、LinkedIn と Instagram はスライド形式になるのだよ。`,
	RunE: generateCommand,
}

func init() {
	generateCmd.Flags().StringVarP(&opts.Topic, "topic", "t", "", "投稿のテーマなのだ（必須）。")
	generateCmd.Flags().StringVar(&opts.Tone, "tone", string(domain.ToneCasual), "文体の指定なのだ（Professional, Casual, Humorous, Inspirational）。")
	generateCmd.Flags().StringSliceVarP(&opts.Platforms, "platforms", "p", []string{"twitter"}, "生成対象のプラットフォームなのだ（twitter, linkedin, instagram）。")
	generateCmd.Flags().BoolVar(&opts.Carousel, "carousel", false, "対応プラットフォームをカルーセル形式で生成するのだ。")
	generateCmd.Flags().StringVar(&opts.CustomStyle, "image-style", "", "画像プロンプトに追記する画風の指定なのだ。")
	generateCmd.Flags().StringVar(&opts.Instructions, "instructions", "", "テキスト生成への追加指示なのだ。")
	generateCmd.Flags().StringVar(&opts.ReferenceImageURL, "reference-image", "", "画像生成の参考にする画像URLなのだ。")
	generateCmd.Flags().BoolVar(&saveResults, "save", false, "生成結果をJSONと画像ファイルとして保存するのだ。")
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 必須チェック
	if opts.Topic == "" {
		return fmt.Errorf("テーマ（--topic）を指定してほしいのだ")
	}

	platforms := make([]domain.Platform, 0, len(opts.Platforms))
	for _, raw := range opts.Platforms {
		p, err := domain.ParsePlatform(raw)
		if err != nil {
			return err
		}
		platforms = append(platforms, p)
	}

	// 2. 環境変数等から基本設定をロードするのだ
	cfg := config.LoadConfig()
	cfg.GeminiModel = opts.AIModel
	cfg.GeminiFlashModel = opts.FlashModel
	cfg.GeminiImageModel = opts.ImageModel
	cfg.Options = opts

	slog.Info("投稿生成パイプラインを起動するのだ！",
		"topic", opts.Topic,
		"platforms", opts.Platforms,
		"carousel", opts.Carousel,
		"text_model", cfg.GeminiModel,
		"image_model", cfg.GeminiImageModel)

	app, err := builder.NewApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("アプリケーションの初期化に失敗したのだ: %w", err)
	}

	posts, err := app.Pipeline.GeneratePosts(ctx, domain.GenerationRequest{
		Topic:              opts.Topic,
		Tone:               domain.Tone(opts.Tone),
		Platforms:          platforms,
		CustomInstructions: opts.Instructions,
		GenerateCarousel:   opts.Carousel,
		CustomImageStyle:   opts.CustomStyle,
		ReferenceImageURL:  opts.ReferenceImageURL,
	})
	if err != nil {
		return fmt.Errorf("生成中にエラーが発生したのだ: %w", err)
	}

	for _, post := range posts {
		status := "画像あり"
		if post.IsCarousel() {
			status = fmt.Sprintf("スライド%d枚", len(post.Slides))
		} else if post.ImageError != "" {
			status = "画像エラー: " + post.ImageError
		}
		slog.Info("投稿が生成されたのだ", "platform", post.Platform, "status", status)
	}

	if saveResults {
		result, err := app.Publisher.Publish(ctx, posts, publisher.Options{OutputDir: opts.OutputDir})
		if err != nil {
			return fmt.Errorf("保存中にエラーが発生したのだ: %w", err)
		}
		slog.Info("結果を保存したのだ", "json", result.JSONPath, "images", len(result.ImagePaths))
	}

	slog.Info("すべての生成工程が完了したのだ！")
	return nil
}
