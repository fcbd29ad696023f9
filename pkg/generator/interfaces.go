// Package generator は、Gemini APIとの通信を担う薄いクライアント層なのだ。
// テキスト生成（構造化JSON）と画像生成（インライン画像）の2系統を提供するのだ。
package generator

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GenerativeClient は Gemini API 呼び出しを抽象化するインターフェースです。
// テスト時にはモックに差し替えられるのだ。
type GenerativeClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// genaiClient は本物の genai.Client を GenerativeClient に適合させるアダプターなのだ。
type genaiClient struct {
	client *genai.Client
}

func (c *genaiClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return c.client.Models.GenerateContent(ctx, model, contents, config)
}

// NewGenerativeClient は APIキーから Gemini クライアントを初期化するのだ。
func NewGenerativeClient(ctx context.Context, apiKey string) (GenerativeClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w", err)
	}
	return &genaiClient{client: client}, nil
}
