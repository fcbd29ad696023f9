// Package publisher は、生成セッションの成果物をローカルまたは GCS へ書き出すのだ。
package publisher

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shouni/go-social-kit/pkg/domain"

	"github.com/shouni/go-utils/urlpath"
)

const (
	defaultPostsFileName = "posts.json"

	slideBaseSuffix = "_slide.jpg"
)

// OutputWriter は成果物の書き込み先を抽象化するインターフェースです。
// go-remote-io の OutputWriter がこれを満たし、gs:// への保存も透過的に扱えるのだ。
type OutputWriter interface {
	Write(ctx context.Context, path string, reader io.Reader, mimeType string) error
}

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	OutputDir string
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	JSONPath   string   // 投稿データ一式を書き出した posts.json のパス
	ImagePaths []string // 保存された全画像のパスリスト
}

// PostPublisher は投稿一式の永続化を担います。
type PostPublisher struct {
	writer OutputWriter
}

// NewPostPublisher は PostPublisher の新しいインスタンスを生成して返します。
func NewPostPublisher(writer OutputWriter) *PostPublisher {
	return &PostPublisher{writer: writer}
}

// Publish は投稿JSONの書き出しと、全画像のファイル保存を一括して実行するのだ！
func (p *PostPublisher) Publish(ctx context.Context, posts []domain.Post, opts Options) (PublishResult, error) {
	result := PublishResult{}

	jsonPath, err := urlpath.ResolvePath(opts.OutputDir, defaultPostsFileName)
	if err != nil {
		return result, fmt.Errorf("出力パスの解決に失敗しました: %w", err)
	}

	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return result, fmt.Errorf("投稿データのJSON化に失敗しました: %w", err)
	}
	if err := p.writer.Write(ctx, jsonPath, bytes.NewReader(data), "application/json; charset=utf-8"); err != nil {
		return result, fmt.Errorf("posts.jsonの書き込みに失敗しました: %w", err)
	}
	result.JSONPath = jsonPath

	imagePaths, err := p.saveImages(ctx, posts, opts.OutputDir)
	if err != nil {
		return result, err
	}
	result.ImagePaths = imagePaths

	slog.InfoContext(ctx, "成果物の保存が完了したのだ", "json", jsonPath, "images", len(imagePaths))
	return result, nil
}

// saveImages は各投稿・各スライドの画像をデコードして書き出すのだ。
// 画像を持たないアイテムは黙ってスキップするのだ。
func (p *PostPublisher) saveImages(ctx context.Context, posts []domain.Post, baseDir string) ([]string, error) {
	var paths []string

	for _, post := range posts {
		name := strings.ToLower(string(post.Platform))

		if post.ImageURL != "" {
			mime, data, err := parseDataURL(post.ImageURL)
			if err != nil {
				slog.WarnContext(ctx, "投稿画像のデコードに失敗したためスキップするのだ", "platform", post.Platform, "error", err)
				continue
			}
			fullPath, err := urlpath.ResolvePath(baseDir, name+extForMime(mime))
			if err != nil {
				return nil, fmt.Errorf("出力パスの解決に失敗しました: %w", err)
			}
			if err := p.writer.Write(ctx, fullPath, bytes.NewReader(data), mime); err != nil {
				return nil, fmt.Errorf("画像の書き込みに失敗しました %s: %w", fullPath, err)
			}
			paths = append(paths, fullPath)
		}

		for i, slide := range post.Slides {
			if slide.ImageURL == "" {
				continue
			}
			mime, data, err := parseDataURL(slide.ImageURL)
			if err != nil {
				slog.WarnContext(ctx, "スライド画像のデコードに失敗したためスキップするのだ",
					"platform", post.Platform, "slide", i+1, "error", err)
				continue
			}

			basePath, err := urlpath.ResolvePath(baseDir, name+slideBaseSuffix)
			if err != nil {
				return nil, fmt.Errorf("出力パスの解決に失敗しました: %w", err)
			}
			fullPath, err := urlpath.GenerateIndexedPath(basePath, i+1)
			if err != nil {
				return nil, fmt.Errorf("連番パスの生成に失敗しました: %w", err)
			}
			if err := p.writer.Write(ctx, fullPath, bytes.NewReader(data), mime); err != nil {
				return nil, fmt.Errorf("画像の書き込みに失敗しました %s: %w", fullPath, err)
			}
			paths = append(paths, fullPath)
		}
	}
	return paths, nil
}

// parseDataURL は "data:<mime>;base64,<payload>" を分解するのだ。
func parseDataURL(dataURL string) (string, []byte, error) {
	const marker = ";base64,"
	if !strings.HasPrefix(dataURL, "data:") {
		return "", nil, fmt.Errorf("Data URL形式ではありません: %.30s", dataURL)
	}
	idx := strings.Index(dataURL, marker)
	if idx < 0 {
		return "", nil, fmt.Errorf("base64マーカーが見つかりません: %.30s", dataURL)
	}

	mime := dataURL[len("data:"):idx]
	data, err := base64.StdEncoding.DecodeString(dataURL[idx+len(marker):])
	if err != nil {
		return "", nil, fmt.Errorf("base64のデコードに失敗しました: %w", err)
	}
	return mime, data, nil
}

// extForMime は MIME タイプから保存用の拡張子を決めるのだ。
func extForMime(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
