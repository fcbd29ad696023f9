package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/shouni/go-social-kit/pkg/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_GenerateIdeas(t *testing.T) {
	ctx := context.Background()

	t.Run("アイデアを生成してセッションに保存するのだ", func(t *testing.T) {
		text := &mockText{jsonResponses: map[string]string{
			"viral marketing expert": `["idea one", "idea two", "idea three", "idea four", "idea five"]`,
		}}
		p := newTestPipeline(text, &mockImage{}, &mockComp{})

		ideas, err := p.GenerateIdeas(ctx, "remote work")
		require.NoError(t, err)
		assert.Len(t, ideas, 5)
		assert.Equal(t, ideas, p.Store().Ideas())
		assert.Equal(t, "pro-model", text.models[0])
	})

	t.Run("失敗は定型メッセージのGenerationErrorなのだ", func(t *testing.T) {
		text := &mockText{jsonErr: errors.New("api down")}
		p := newTestPipeline(text, &mockImage{}, &mockComp{})

		_, err := p.GenerateIdeas(ctx, "x")
		var genErr *domain.GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, domain.MsgIdeasFailed, genErr.Message)
	})
}

func TestPipeline_GeneratePosts_Singles(t *testing.T) {
	ctx := context.Background()
	singlesJSON := `[
		{"platform": "Twitter", "content": "tweet text", "imagePrompt": "a minimalist rocket"},
		{"platform": "LinkedIn", "content": "linkedin text", "imagePrompt": "a clean office scene"}
	]`

	t.Run("全プラットフォーム分の投稿と画像が揃うのだ", func(t *testing.T) {
		text := &mockText{jsonResponses: map[string]string{
			"Generate social media posts": singlesJSON,
		}}
		image := &mockImage{}
		p := newTestPipeline(text, image, &mockComp{})

		posts, err := p.GeneratePosts(ctx, domain.GenerationRequest{
			Topic:     "space tech",
			Tone:      domain.ToneProfessional,
			Platforms: []domain.Platform{domain.PlatformTwitter, domain.PlatformLinkedIn},
		})
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, domain.PlatformTwitter, posts[0].Platform)
		assert.NotEmpty(t, posts[0].ImageURL)
		assert.Empty(t, posts[0].ImageError)
		assert.Equal(t, 2, image.callCount())

		// セッションにもコミットされているのだ
		assert.Len(t, p.Store().Posts(), 2)
	})

	t.Run("画風指定は画像プロンプトに連結されるのだ", func(t *testing.T) {
		text := &mockText{jsonResponses: map[string]string{
			"Generate social media posts": singlesJSON,
		}}
		image := &mockImage{}
		p := newTestPipeline(text, image, &mockComp{})

		_, err := p.GeneratePosts(ctx, domain.GenerationRequest{
			Topic:            "space tech",
			Platforms:        []domain.Platform{domain.PlatformTwitter, domain.PlatformLinkedIn},
			CustomImageStyle: "watercolor",
		})
		require.NoError(t, err)
		assert.Contains(t, image.prompts[0], ", watercolor")
	})

	t.Run("個別の画像失敗は該当投稿に閉じ込めるのだ", func(t *testing.T) {
		text := &mockText{jsonResponses: map[string]string{
			"Generate social media posts": singlesJSON,
		}}
		image := &mockImage{
			failOn:  "rocket",
			failErr: domain.NewImageError(errors.New("RESOURCE_EXHAUSTED")),
		}
		p := newTestPipeline(text, image, &mockComp{})

		posts, err := p.GeneratePosts(ctx, domain.GenerationRequest{
			Topic:     "space tech",
			Platforms: []domain.Platform{domain.PlatformTwitter, domain.PlatformLinkedIn},
		})
		require.NoError(t, err, "画像の失敗でセッション全体は失敗しないのだ")
		require.Len(t, posts, 2)

		assert.Empty(t, posts[0].ImageURL)
		assert.Equal(t, domain.MsgQuotaExceeded, posts[0].ImageError)

		assert.NotEmpty(t, posts[1].ImageURL, "残りの投稿は処理が続くのだ")
		assert.Empty(t, posts[1].ImageError)
	})

	t.Run("テキスト生成の失敗は致命的なのだ", func(t *testing.T) {
		text := &mockText{jsonErr: errors.New("bad key")}
		p := newTestPipeline(text, &mockImage{}, &mockComp{})

		_, err := p.GeneratePosts(ctx, domain.GenerationRequest{
			Topic:     "x",
			Platforms: []domain.Platform{domain.PlatformTwitter},
		})
		var genErr *domain.GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, domain.MsgGenerationFailed, genErr.Message)
		assert.Error(t, p.Store().Err(), "失敗はセッションにも記録されるのだ")
	})

	t.Run("不正なリクエストはAPIを呼ばずに弾くのだ", func(t *testing.T) {
		text := &mockText{}
		p := newTestPipeline(text, &mockImage{}, &mockComp{})

		_, err := p.GeneratePosts(ctx, domain.GenerationRequest{Topic: "   "})
		require.Error(t, err)
		assert.Empty(t, text.jsonCalls)
	})
}

func TestPipeline_GeneratePosts_Carousel(t *testing.T) {
	ctx := context.Background()
	carouselJSON := `{
		"mainCaption": "The main caption",
		"slides": [
			{"slideText": "Title Slide", "imagePrompt": "gradient background one"},
			{"slideText": "Point One", "imagePrompt": "gradient background two"}
		]
	}`
	singlesJSON := `[{"platform": "Twitter", "content": "tw", "imagePrompt": "a dark scene"}]`

	t.Run("単発投稿が先、カルーセルが後に並ぶのだ", func(t *testing.T) {
		text := &mockText{jsonResponses: map[string]string{
			"Generate social media posts": singlesJSON,
			"viral carousels":             carouselJSON,
		}}
		image := &mockImage{}
		p := newTestPipeline(text, image, &mockComp{})

		posts, err := p.GeneratePosts(ctx, domain.GenerationRequest{
			Topic:            "habits",
			Platforms:        []domain.Platform{domain.PlatformTwitter, domain.PlatformInstagram},
			GenerateCarousel: true,
		})
		require.NoError(t, err)
		require.Len(t, posts, 2)

		assert.Equal(t, domain.PlatformTwitter, posts[0].Platform)
		assert.False(t, posts[0].IsCarousel())

		assert.Equal(t, domain.PlatformInstagram, posts[1].Platform)
		require.True(t, posts[1].IsCarousel())
		assert.Equal(t, "The main caption", posts[1].Content)
		require.Len(t, posts[1].Slides, 2)
	})

	t.Run("スライドはテキスト合成済みになるのだ", func(t *testing.T) {
		text := &mockText{jsonResponses: map[string]string{
			"viral carousels": carouselJSON,
		}}
		p := newTestPipeline(text, &mockImage{}, &mockComp{})

		posts, err := p.GeneratePosts(ctx, domain.GenerationRequest{
			Topic:            "habits",
			Platforms:        []domain.Platform{domain.PlatformInstagram},
			GenerateCarousel: true,
		})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "composed:Title Slide", posts[0].Slides[0].ImageURL)
	})

	t.Run("合成に失敗しても背景画像は残るのだ", func(t *testing.T) {
		text := &mockText{jsonResponses: map[string]string{
			"viral carousels": carouselJSON,
		}}
		comp := &mockComp{err: &domain.CompositingError{Err: errors.New("decode fail")}}
		p := newTestPipeline(text, &mockImage{result: "data:image/jpeg;base64,YmFja2dyb3VuZA=="}, comp)

		posts, err := p.GeneratePosts(ctx, domain.GenerationRequest{
			Topic:            "habits",
			Platforms:        []domain.Platform{domain.PlatformLinkedIn},
			GenerateCarousel: true,
		})
		require.NoError(t, err)
		slide := posts[0].Slides[0]
		assert.Equal(t, "data:image/jpeg;base64,YmFja2dyb3VuZA==", slide.ImageURL)
		assert.Equal(t, domain.MsgCompositeFailed, slide.ImageError, "ユーザー向けは定型の英文なのだ")
	})

	t.Run("スライドの画像失敗もスライド単位で隔離されるのだ", func(t *testing.T) {
		text := &mockText{jsonResponses: map[string]string{
			"viral carousels": carouselJSON,
		}}
		image := &mockImage{
			failOn:  "background one",
			failErr: domain.NewImageError(errors.New("safety")),
		}
		p := newTestPipeline(text, image, &mockComp{})

		posts, err := p.GeneratePosts(ctx, domain.GenerationRequest{
			Topic:            "habits",
			Platforms:        []domain.Platform{domain.PlatformInstagram},
			GenerateCarousel: true,
		})
		require.NoError(t, err)
		slides := posts[0].Slides
		assert.Equal(t, domain.MsgImageRefused, slides[0].ImageError)
		assert.Empty(t, slides[0].ImageURL)
		assert.NotEmpty(t, slides[1].ImageURL)
	})
}
