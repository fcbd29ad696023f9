package generator

import (
	"context"

	"google.golang.org/genai"
)

// mockClient は GenerativeClient のテスト用実装なのだ。
type mockClient struct {
	generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

	// 呼び出しの記録なのだ
	lastModel  string
	lastConfig *genai.GenerateContentConfig
	calls      int
}

func (m *mockClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls++
	m.lastModel = model
	m.lastConfig = config
	return m.generateFunc(ctx, model, contents, config)
}

// textResponse はテキスト1本だけのレスポンスを組み立てるヘルパーなのだ。
func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{{Text: text}},
			},
		}},
	}
}

// imageResponse はインライン画像1枚のレスポンスを組み立てるヘルパーなのだ。
func imageResponse(mime string, data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{{
					InlineData: &genai.Blob{MIMEType: mime, Data: data},
				}},
			},
		}},
	}
}
