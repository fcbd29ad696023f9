package publisher

import (
	"context"
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"github.com/shouni/go-social-kit/pkg/domain"
)

// mockWriter は書き込み内容をメモリに記録する OutputWriter なのだ。
type mockWriter struct {
	files map[string][]byte
	mimes map[string]string
}

func newMockWriter() *mockWriter {
	return &mockWriter{files: map[string][]byte{}, mimes: map[string]string{}}
}

func (m *mockWriter) Write(ctx context.Context, path string, reader io.Reader, mimeType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.files[path] = data
	m.mimes[path] = mimeType
	return nil
}

func dataURL(mime string, payload []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(payload)
}

func TestPostPublisher_Publish(t *testing.T) {
	ctx := context.Background()

	posts := []domain.Post{
		{
			Platform: domain.PlatformTwitter,
			Content:  "tweet",
			ImageURL: dataURL("image/jpeg", []byte("jpeg-bytes")),
		},
		{
			Platform: domain.PlatformInstagram,
			Content:  "caption",
			Slides: []domain.CarouselSlide{
				{SlideText: "one", ImageURL: dataURL("image/jpeg", []byte("slide-1"))},
				{SlideText: "two"}, // 画像なしはスキップされるのだ
				{SlideText: "three", ImageURL: dataURL("image/jpeg", []byte("slide-3"))},
			},
		},
	}

	t.Run("JSONと全画像が書き出されるのだ", func(t *testing.T) {
		w := newMockWriter()
		pub := NewPostPublisher(w)

		result, err := pub.Publish(ctx, posts, Options{OutputDir: "output"})
		if err != nil {
			t.Fatalf("保存に失敗したのだ: %v", err)
		}

		if !strings.HasSuffix(result.JSONPath, "posts.json") {
			t.Errorf("JSONパスが違うのだ: %s", result.JSONPath)
		}
		if !strings.Contains(string(w.files[result.JSONPath]), `"tweet"`) {
			t.Error("JSONに投稿本文が含まれるべきなのだ")
		}

		// 単発1枚 + スライド2枚
		if len(result.ImagePaths) != 3 {
			t.Fatalf("画像は3枚のはずなのだ: %v", result.ImagePaths)
		}
		if string(w.files[result.ImagePaths[0]]) != "jpeg-bytes" {
			t.Error("単発投稿の画像データが一致しないのだ")
		}
	})

	t.Run("スライドは連番ファイル名になるのだ", func(t *testing.T) {
		w := newMockWriter()
		pub := NewPostPublisher(w)

		result, err := pub.Publish(ctx, posts, Options{OutputDir: "out"})
		if err != nil {
			t.Fatalf("保存に失敗したのだ: %v", err)
		}

		var slidePaths []string
		for _, p := range result.ImagePaths {
			if strings.Contains(p, "instagram_slide") {
				slidePaths = append(slidePaths, p)
			}
		}
		if len(slidePaths) != 2 {
			t.Fatalf("スライド画像は2枚のはずなのだ: %v", slidePaths)
		}
		if !strings.HasSuffix(slidePaths[0], "instagram_slide_1.jpg") {
			t.Errorf("1枚目の連番が違うのだ: %s", slidePaths[0])
		}
		if !strings.HasSuffix(slidePaths[1], "instagram_slide_3.jpg") {
			t.Errorf("スライド番号は元の位置を維持するのだ: %s", slidePaths[1])
		}
	})

	t.Run("壊れたData URLはスキップして続行するのだ", func(t *testing.T) {
		w := newMockWriter()
		pub := NewPostPublisher(w)

		broken := []domain.Post{
			{Platform: domain.PlatformTwitter, ImageURL: "data:image/jpeg;base64,%%%"},
			{Platform: domain.PlatformLinkedIn, ImageURL: dataURL("image/png", []byte("ok"))},
		}
		result, err := pub.Publish(ctx, broken, Options{OutputDir: "out"})
		if err != nil {
			t.Fatalf("スキップで済むはずなのだ: %v", err)
		}
		if len(result.ImagePaths) != 1 || !strings.HasSuffix(result.ImagePaths[0], "linkedin.png") {
			t.Errorf("無事な画像だけが保存されるのだ: %v", result.ImagePaths)
		}
	})
}

func TestParseDataURL(t *testing.T) {
	t.Run("MIMEとデータを取り出せるのだ", func(t *testing.T) {
		mime, data, err := parseDataURL(dataURL("image/png", []byte("abc")))
		if err != nil {
			t.Fatalf("パースに失敗したのだ: %v", err)
		}
		if mime != "image/png" || string(data) != "abc" {
			t.Errorf("結果が違うのだ: %s %q", mime, data)
		}
	})

	t.Run("通常のURLはエラーなのだ", func(t *testing.T) {
		if _, _, err := parseDataURL("https://example.com/a.png"); err == nil {
			t.Error("エラーが返るべきなのだ")
		}
	})
}
