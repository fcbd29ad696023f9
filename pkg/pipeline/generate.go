package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shouni/go-social-kit/pkg/domain"
	"github.com/shouni/go-social-kit/pkg/prompts"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// postPayload はテキスト生成レスポンスの投稿1件分なのだ。
type postPayload struct {
	Platform    domain.Platform `json:"platform"`
	Content     string          `json:"content"`
	ImagePrompt string          `json:"imagePrompt"`
}

// carouselPayload はカルーセル企画レスポンスなのだ。
type carouselPayload struct {
	MainCaption string `json:"mainCaption"`
	Slides      []struct {
		SlideText   string `json:"slideText"`
		ImagePrompt string `json:"imagePrompt"`
	} `json:"slides"`
}

// GenerateIdeas はトピックからバズ企画のアイデアを5〜7件生成するのだ。
// 成功時は結果をセッションにも保存するのだ。
func (p *Pipeline) GenerateIdeas(ctx context.Context, topic string) ([]string, error) {
	slog.InfoContext(ctx, "アイデア生成を開始するのだ", "topic", topic)

	var ideas []string
	err := p.text.GenerateJSON(ctx, p.cfg.ProModel, prompts.BuildIdeasPrompt(topic), prompts.IdeasSchema, &ideas)
	if err != nil {
		slog.ErrorContext(ctx, "アイデア生成に失敗したのだ", "error", err)
		return nil, domain.NewGenerationError(domain.MsgIdeasFailed, err)
	}

	p.store.SetIdeas(ideas)
	slog.InfoContext(ctx, "アイデア生成に成功したのだ", "count", len(ideas))
	return ideas, nil
}

// GeneratePosts は1回の生成セッションを実行するのだ。
// テキスト生成の失敗は致命的、個別の画像生成の失敗は該当アイテムへの記録で済ませるのだ。
func (p *Pipeline) GeneratePosts(ctx context.Context, req domain.GenerationRequest) ([]domain.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	epoch := p.store.Begin(req)
	slog.InfoContext(ctx, "投稿生成セッションを開始するのだ",
		"topic", req.Topic, "platforms", len(req.Platforms), "carousel", req.GenerateCarousel, "epoch", epoch)

	refPart := p.referencePart(ctx, req.ReferenceImageURL)

	singles := req.SinglePlatforms()
	carousels := req.CarouselPlatforms()

	var singleResults []domain.Post
	carouselResults := make([]domain.Post, len(carousels))

	// 単発投稿の系列と、カルーセル1件ごとの系列を並行に走らせるのだ。
	// 各系列の内部では、レートリミッターが画像リクエストを直列化するのだ。
	eg, egCtx := errgroup.WithContext(ctx)

	if len(singles) > 0 {
		eg.Go(func() error {
			posts, err := p.generateSingles(egCtx, req, singles, refPart)
			if err != nil {
				return err
			}
			singleResults = posts
			return nil
		})
	}

	for i, platform := range carousels {
		i, platform := i, platform
		eg.Go(func() error {
			post, err := p.generateCarousel(egCtx, req, platform, refPart)
			if err != nil {
				return err
			}
			carouselResults[i] = post
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		p.store.Fail(epoch, err)
		return nil, err
	}

	// 単発投稿 → カルーセルの順で結合するのだ
	merged := append(singleResults, carouselResults...)
	if !p.store.Commit(epoch, merged) {
		slog.WarnContext(ctx, "新しい世代が始まっていたため、この結果は破棄されたのだ", "epoch", epoch)
	}

	slog.InfoContext(ctx, "投稿生成セッションが完了したのだ", "posts", len(merged))
	return merged, nil
}

// generateSingles は単発投稿の一括テキスト生成と、順次の画像生成を行うのだ。
func (p *Pipeline) generateSingles(ctx context.Context, req domain.GenerationRequest, platforms []domain.Platform, refPart *genai.Part) ([]domain.Post, error) {
	var payloads []postPayload
	prompt := prompts.BuildPostsPrompt(req, platforms)
	if err := p.text.GenerateJSON(ctx, p.cfg.ProModel, prompt, prompts.PostsSchema, &payloads); err != nil {
		return nil, domain.NewGenerationError(domain.MsgGenerationFailed, err)
	}

	limiter := rate.NewLimiter(rate.Every(p.cfg.ImageInterval), 1)
	posts := make([]domain.Post, 0, len(payloads))

	for _, payload := range payloads {
		post := domain.Post{
			Platform:    payload.Platform,
			Content:     payload.Content,
			ImagePrompt: payload.ImagePrompt,
		}

		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		fullPrompt := prompts.CombineImagePrompt(payload.ImagePrompt, req.CustomImageStyle)
		imageURL, err := p.image.Generate(ctx, p.cfg.ImageModel, fullPrompt, post.Platform.AspectRatio(), refPart)
		if err != nil {
			slog.WarnContext(ctx, "投稿画像の生成に失敗したのだ", "platform", post.Platform, "error", err)
			post.ImageError = imageErrorMessage(err)
		} else {
			post.ImageURL = imageURL
		}

		posts = append(posts, post)
	}
	return posts, nil
}

// generateCarousel は1プラットフォーム分のカルーセルを生成するのだ。
// スライドごとに背景生成とテキスト合成を行い、失敗はスライド単位に閉じ込めるのだ。
func (p *Pipeline) generateCarousel(ctx context.Context, req domain.GenerationRequest, platform domain.Platform, refPart *genai.Part) (domain.Post, error) {
	var payload carouselPayload
	prompt := prompts.BuildCarouselPrompt(req, platform)
	if err := p.text.GenerateJSON(ctx, p.cfg.ProModel, prompt, prompts.CarouselSchema, &payload); err != nil {
		return domain.Post{}, domain.NewGenerationError(domain.MsgGenerationFailed, err)
	}

	slog.InfoContext(ctx, "カルーセルのスライド生成を開始するのだ", "platform", platform, "slides", len(payload.Slides))

	limiter := rate.NewLimiter(rate.Every(p.cfg.ImageInterval), 1)
	slides := make([]domain.CarouselSlide, 0, len(payload.Slides))

	for i, s := range payload.Slides {
		slide := domain.CarouselSlide{
			SlideText:   s.SlideText,
			ImagePrompt: s.ImagePrompt,
		}

		if err := limiter.Wait(ctx); err != nil {
			return domain.Post{}, err
		}

		fullPrompt := prompts.CombineImagePrompt(s.ImagePrompt, req.CustomImageStyle)
		background, err := p.image.Generate(ctx, p.cfg.ImageModel, fullPrompt, platform.AspectRatio(), refPart)
		if err != nil {
			slog.WarnContext(ctx, "スライド背景の生成に失敗したのだ",
				"platform", platform, "slide", i+1, "error", err)
			slide.ImageError = imageErrorMessage(err)
			slides = append(slides, slide)
			continue
		}

		composed, err := p.comp.Compose(background, s.SlideText)
		if err != nil {
			// 合成に失敗しても背景は無事なので、生の画像を残すのだ
			slog.WarnContext(ctx, "スライドのテキスト合成に失敗したのだ",
				"platform", platform, "slide", i+1, "error", err)
			slide.ImageURL = background
			slide.ImageError = domain.MsgCompositeFailed
			slides = append(slides, slide)
			continue
		}

		slide.ImageURL = composed
		slides = append(slides, slide)
	}

	return domain.Post{
		Platform: platform,
		Content:  payload.MainCaption,
		Slides:   slides,
	}, nil
}

// imageErrorMessage は画像系エラーからユーザー向けメッセージを取り出すのだ。
func imageErrorMessage(err error) string {
	var imgErr *domain.ImageGenerationError
	if errors.As(err, &imgErr) {
		return imgErr.Message
	}
	return err.Error()
}
