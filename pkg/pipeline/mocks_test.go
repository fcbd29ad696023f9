package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/shouni/go-social-kit/pkg/session"

	"google.golang.org/genai"
)

// mockText は TextClient のテスト用実装なのだ。
// jsonResponses はプロンプトに含まれる部分文字列をキーに、返すJSONを選ぶのだ。
type mockText struct {
	jsonResponses map[string]string
	jsonErr       error
	textResponse  string
	textErr       error

	mu        sync.Mutex
	jsonCalls []string
	models    []string
}

func (m *mockText) GenerateJSON(ctx context.Context, model, prompt string, schema *genai.Schema, out any) error {
	m.mu.Lock()
	m.jsonCalls = append(m.jsonCalls, prompt)
	m.models = append(m.models, model)
	m.mu.Unlock()

	if m.jsonErr != nil {
		return m.jsonErr
	}
	for key, payload := range m.jsonResponses {
		if containsSubstr(prompt, key) {
			return json.Unmarshal([]byte(payload), out)
		}
	}
	return fmt.Errorf("モックに該当レスポンスが定義されていないのだ: %.80s", prompt)
}

func (m *mockText) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	m.mu.Lock()
	m.models = append(m.models, model)
	m.mu.Unlock()

	if m.textErr != nil {
		return "", m.textErr
	}
	return m.textResponse, nil
}

// mockImage は ImageClient のテスト用実装なのだ。
type mockImage struct {
	mu      sync.Mutex
	prompts []string

	// failOn に含まれる部分文字列がプロンプトにあれば失敗させるのだ
	failOn  string
	failErr error

	result string
}

func (m *mockImage) Generate(ctx context.Context, model, prompt, aspectRatio string, refParts ...*genai.Part) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.failOn != "" && containsSubstr(prompt, m.failOn) {
		return "", m.failErr
	}
	if m.result != "" {
		return m.result, nil
	}
	return "data:image/jpeg;base64,aW1n", nil
}

func (m *mockImage) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// mockComp は Compositor のテスト用実装なのだ。
type mockComp struct {
	err error
}

func (m *mockComp) Compose(backgroundDataURL, text string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "composed:" + text, nil
}

func containsSubstr(s, sub string) bool {
	return sub != "" && strings.Contains(s, sub)
}

// newTestPipeline はモック一式でパイプラインを組み立てるヘルパーなのだ。
// レート間隔ゼロで、テストが待たされないようにするのだ。
func newTestPipeline(text *mockText, image *mockImage, comp *mockComp) *Pipeline {
	return New(text, image, comp, nil, session.NewStore(), Config{
		ProModel:      "pro-model",
		FlashModel:    "flash-model",
		ImageModel:    "image-model",
		ImageInterval: 0,
	})
}
