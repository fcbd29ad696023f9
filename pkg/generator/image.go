package generator

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/shouni/go-social-kit/pkg/domain"

	"google.golang.org/genai"
)

// ImageGenerator は画像モデルを呼び出し、Data URL形式の画像を返すクライアントなのだ。
type ImageGenerator struct {
	client GenerativeClient
}

// NewImageGenerator は ImageGenerator を生成して返すのだ。
func NewImageGenerator(client GenerativeClient) *ImageGenerator {
	return &ImageGenerator{client: client}
}

// Generate はプロンプトから画像を1枚生成し、"data:<mime>;base64," 形式で返すのだ。
// 失敗はすべて domain.ImageGenerationError に分類されるのだ。
// refParts には参考画像などの追加パーツを渡せるのだ（省略可）。
func (g *ImageGenerator) Generate(ctx context.Context, model, prompt, aspectRatio string, refParts ...*genai.Part) (string, error) {
	parts := []*genai.Part{{Text: prompt}}
	for _, p := range refParts {
		if p != nil {
			parts = append(parts, p)
		}
	}
	contents := []*genai.Content{{Parts: parts, Role: genai.RoleUser}}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	}
	if aspectRatio != "" {
		config.ImageConfig = &genai.ImageConfig{AspectRatio: aspectRatio}
	}

	resp, err := g.client.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", domain.NewImageError(err)
	}

	dataURL, err := extractInlineImage(resp)
	if err != nil {
		return "", domain.NewImageError(err)
	}
	return dataURL, nil
}

// extractInlineImage はレスポンスの候補からインライン画像を探し出すのだ。
// 最初の候補のみを利用するのだ。
func extractInlineImage(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New(domain.MsgNoImages)
	}

	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = "image/jpeg"
				}
				encoded := base64.StdEncoding.EncodeToString(part.InlineData.Data)
				return fmt.Sprintf("data:%s;base64,%s", mime, encoded), nil
			}
		}
	}

	// 安全フィルター等によるブロックの確認
	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return "", fmt.Errorf("画像生成が異常終了しました (FinishReason: %s)", candidate.FinishReason)
	}

	return "", errors.New(domain.MsgNoImages)
}
