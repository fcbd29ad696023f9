// Package assets は、参考画像URLをGeminiに渡せるインラインパーツへ解決するのだ。
// ダウンロード結果はキャッシュされ、危険なURLはSSRF対策でブロックされるのだ。
package assets

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shouni/go-http-kit/httpkit"
	"google.golang.org/genai"
)

// ImageCacher は画像データのキャッシュ操作を抽象化するインターフェースです。
type ImageCacher interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, d time.Duration)
}

// Fetcher は参考画像の取得とパーツ変換を担うコンポーネントです。
type Fetcher struct {
	httpClient httpkit.Requester
	imageCache ImageCacher
	cacheTTL   time.Duration
}

// NewFetcher は依存関係を注入して Fetcher のインスタンスを生成します。
func NewFetcher(httpClient httpkit.Requester, imageCache ImageCacher, cacheTTL time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		imageCache: imageCache,
		cacheTTL:   cacheTTL,
	}
}

// FetchPart は URL から画像を取得して genai.Part に変換するのだ。
// 取得できない場合は nil を返し、テキストのみで生成を続行させるのだ。
func (f *Fetcher) FetchPart(ctx context.Context, rawURL string) *genai.Part {
	if strings.TrimSpace(rawURL) == "" {
		return nil
	}

	// キャッシュの確認
	if cached, found := f.imageCache.Get(rawURL); found {
		if data, ok := cached.([]byte); ok {
			return toPart(data)
		}
		slog.WarnContext(ctx, "キャッシュデータが不正な型です", "url", rawURL, "type", fmt.Sprintf("%T", cached))
	}

	// SSRF対策のバリデーション
	if safe, err := isSafeURL(rawURL); !safe || err != nil {
		slog.WarnContext(ctx, "SSRFの可能性がある、または不正なURLをブロックしました",
			"url", rawURL, "error", err)
		return nil
	}

	imgBytes, err := f.httpClient.FetchBytes(ctx, rawURL)
	if err != nil {
		slog.WarnContext(ctx, "参考画像のダウンロードに失敗しました。テキストのみで続行します", "url", rawURL, "error", err)
		return nil
	}

	f.imageCache.Set(rawURL, imgBytes, f.cacheTTL)
	return toPart(imgBytes)
}

// toPart はバイト列を genai.Part (InlineData) に変換します。
func toPart(data []byte) *genai.Part {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		slog.Warn("MIMEタイプが画像ではないためPartに変換できませんでした", "detected_mime_type", mimeType)
		return nil
	}
	return &genai.Part{
		InlineData: &genai.Blob{
			MIMEType: mimeType,
			Data:     data,
		},
	}
}

// isSafeURL は SSRF 対策として URL を検証します。
// 名前解決されたすべての IP アドレスに対してプライベート IP チェックを行います。
func isSafeURL(rawURL string) (bool, error) {
	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false, fmt.Errorf("URLパース失敗: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return false, fmt.Errorf("不許可スキーム: %s", parsedURL.Scheme)
	}

	host := parsedURL.Hostname()
	var ips []net.IP

	if ip := net.ParseIP(host); ip != nil {
		ips = []net.IP{ip}
	} else {
		resolvedIPs, err := net.LookupIP(host)
		if err != nil {
			return false, fmt.Errorf("名前解決失敗: %w", err)
		}
		ips = resolvedIPs
	}

	if len(ips) == 0 {
		return false, fmt.Errorf("IPが見つかりません")
	}

	for _, ip := range ips {
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
			return false, fmt.Errorf("制限されたネットワークへのアクセスを検知: %s", ip.String())
		}
	}

	return true, nil
}
