package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// TextGenerator は構造化JSONレスポンスを期待するテキスト生成クライアントなのだ。
type TextGenerator struct {
	client      GenerativeClient
	temperature *float32
}

// NewTextGenerator は TextGenerator を生成して返すのだ。
func NewTextGenerator(client GenerativeClient) *TextGenerator {
	const defaultTemperature = float32(0.7)
	return &TextGenerator{
		client:      client,
		temperature: genai.Ptr(defaultTemperature),
	}
}

// GenerateJSON はスキーマ制約付きでJSONを生成させ、out にデコードするのだ。
// out には構造体またはスライスへのポインタを渡すのだ。
func (g *TextGenerator) GenerateJSON(ctx context.Context, model, prompt string, schema *genai.Schema, out any) error {
	resp, err := g.client.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
		Temperature:      g.temperature,
	})
	if err != nil {
		return fmt.Errorf("テキスト生成のAPI呼び出しに失敗しました: %w", err)
	}

	raw := resp.Text()
	if strings.TrimSpace(raw) == "" {
		return errors.New("テキスト生成の応答が空でした")
	}

	return parseJSONResponse(raw, out)
}

// GenerateText はスキーマなしで生のテキストを1本生成させるのだ。
// キャプションの改善のようにプレーンな文字列が欲しい場合に使うのだ。
func (g *TextGenerator) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: g.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("テキスト生成のAPI呼び出しに失敗しました: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("テキスト生成の応答が空でした")
	}
	return text, nil
}

// parseJSONResponse は、AIが返したテキストからMarkdownのコードブロック等を除去してJSONとしてパースするのだ。
// 配列を期待しているのに単一オブジェクトが返ることがあるので、その場合は配列に包み直すのだ。
func parseJSONResponse(raw string, out any) error {
	rawJSON := strings.TrimSpace(raw)
	rawJSON = strings.TrimPrefix(rawJSON, "```json")
	rawJSON = strings.TrimSuffix(rawJSON, "```")
	rawJSON = strings.TrimSpace(rawJSON)

	err := json.Unmarshal([]byte(rawJSON), out)
	if err == nil {
		return nil
	}

	// 対象プラットフォームが1つだけのとき、配列ではなく
	// オブジェクトが素のまま返ってくるケースへの防御なのだ。
	if strings.HasPrefix(rawJSON, "{") {
		wrapped := "[" + rawJSON + "]"
		if retryErr := json.Unmarshal([]byte(wrapped), out); retryErr == nil {
			return nil
		}
	}

	return fmt.Errorf("JSONのパースに失敗しました: %w", err)
}
