package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-social-kit/pkg/domain"
	"github.com/shouni/go-social-kit/pkg/prompts"
)

// regeneratePayload は投稿作り直しレスポンスなのだ。
type regeneratePayload struct {
	Content     string `json:"content"`
	ImagePrompt string `json:"imagePrompt"`
}

// RegenerateText は単発投稿を本文・画像ごと丸ごと作り直すのだ。
// カルーセル投稿は対象外で、ネットワークに出る前に拒否するのだ。
func (p *Pipeline) RegenerateText(ctx context.Context, platform domain.Platform) (domain.Post, error) {
	post, ok := p.store.Post(platform)
	if !ok {
		return domain.Post{}, domain.ErrMissingContext
	}
	if post.IsCarousel() {
		return domain.Post{}, domain.ErrUnsupportedOperation
	}

	req, ok := p.store.Request()
	if !ok {
		return domain.Post{}, domain.ErrMissingContext
	}

	slog.InfoContext(ctx, "投稿の作り直しを開始するのだ", "platform", platform)

	var payload regeneratePayload
	prompt := prompts.BuildRegeneratePrompt(platform, req, post.Content)
	if err := p.text.GenerateJSON(ctx, p.cfg.FlashModel, prompt, prompts.RegenerateSchema, &payload); err != nil {
		return domain.Post{}, domain.NewGenerationError(domain.MsgRegenerateFailed, err)
	}

	imageURL, err := p.image.Generate(ctx, p.cfg.ImageModel, payload.ImagePrompt, platform.AspectRatio())
	if err != nil {
		return domain.Post{}, domain.NewGenerationError(domain.MsgRegenerateFailed, err)
	}

	var updated domain.Post
	if err := p.store.UpdatePost(platform, func(post *domain.Post) error {
		post.Content = payload.Content
		post.ImagePrompt = payload.ImagePrompt
		post.ImageURL = imageURL
		post.ImageError = ""
		updated = *post
		return nil
	}); err != nil {
		return domain.Post{}, err
	}

	slog.InfoContext(ctx, "投稿の作り直しに成功したのだ", "platform", platform)
	return updated, nil
}

// RegenerateImage は単発投稿の画像だけを作り直すのだ。
// 同じ投稿への同時リクエストは singleflight で1回にまとめられるのだ。
func (p *Pipeline) RegenerateImage(ctx context.Context, platform domain.Platform, customStyle string) error {
	key := "image:" + string(platform)
	_, err, _ := p.regenGroup.Do(key, func() (interface{}, error) {
		return nil, p.regenerateImage(ctx, platform, customStyle)
	})
	return err
}

func (p *Pipeline) regenerateImage(ctx context.Context, platform domain.Platform, customStyle string) error {
	var imagePrompt string
	if err := p.store.UpdatePost(platform, func(post *domain.Post) error {
		if post.IsCarousel() {
			return domain.ErrUnsupportedOperation
		}
		post.IsRegenerating = true
		imagePrompt = post.ImagePrompt
		return nil
	}); err != nil {
		return err
	}

	slog.InfoContext(ctx, "投稿画像の再生成を開始するのだ", "platform", platform, "style", customStyle)

	fullPrompt := prompts.CombineImagePrompt(imagePrompt, customStyle)
	imageURL, genErr := p.image.Generate(ctx, p.cfg.ImageModel, fullPrompt, platform.AspectRatio())

	return p.store.UpdatePost(platform, func(post *domain.Post) error {
		post.IsRegenerating = false
		if genErr != nil {
			post.ImageError = imageErrorMessage(genErr)
			return genErr
		}
		post.ImageURL = imageURL
		post.ImageError = ""
		return nil
	})
}

// RegenerateSlideImage はカルーセルの1スライドの画像を作り直すのだ。
// 背景生成後はスライドテキストを再合成するのだ。
func (p *Pipeline) RegenerateSlideImage(ctx context.Context, platform domain.Platform, index int, customStyle string) error {
	key := fmt.Sprintf("slide:%s:%d", platform, index)
	_, err, _ := p.regenGroup.Do(key, func() (interface{}, error) {
		return nil, p.regenerateSlideImage(ctx, platform, index, customStyle)
	})
	return err
}

func (p *Pipeline) regenerateSlideImage(ctx context.Context, platform domain.Platform, index int, customStyle string) error {
	var imagePrompt, slideText string
	if err := p.store.UpdateSlide(platform, index, func(slide *domain.CarouselSlide) error {
		slide.IsRegenerating = true
		imagePrompt = slide.ImagePrompt
		slideText = slide.SlideText
		return nil
	}); err != nil {
		return err
	}

	slog.InfoContext(ctx, "スライド画像の再生成を開始するのだ", "platform", platform, "slide", index+1)

	fullPrompt := prompts.CombineImagePrompt(imagePrompt, customStyle)
	background, genErr := p.image.Generate(ctx, p.cfg.ImageModel, fullPrompt, platform.AspectRatio())

	var composed string
	var compErr error
	if genErr == nil {
		composed, compErr = p.comp.Compose(background, slideText)
	}

	return p.store.UpdateSlide(platform, index, func(slide *domain.CarouselSlide) error {
		slide.IsRegenerating = false
		if genErr != nil {
			slide.ImageError = imageErrorMessage(genErr)
			return genErr
		}
		if compErr != nil {
			// 背景までは成功しているので、生の画像を残すのだ
			slide.ImageURL = background
			slide.ImageError = domain.MsgCompositeFailed
			return compErr
		}
		slide.ImageURL = composed
		slide.ImageError = ""
		return nil
	})
}
