package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultModel         = "gemini-2.5-pro"
	DefaultFlashModel    = "gemini-2.5-flash"
	DefaultImageModel    = "gemini-2.5-flash-image"
	DefaultHTTPTimeout   = 30 * time.Second
	DefaultImageInterval = 1 * time.Second // 同一系列内の画像リクエスト間隔なのだ
	DefaultCacheTTL      = 30 * time.Minute
	DefaultOutputDir     = "output/posts" // パブリッシャーで使用するデフォルト保存先なのだ
)

// Config はアプリケーション全体の環境設定（APIキーやモデル設定）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey      string
	ImageGeminiAPIKey string // 画像用の専用キー。未設定ならテキスト用のキーを使うのだ
	GeminiModel       string
	GeminiFlashModel  string
	GeminiImageModel  string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
// 画像用のキーを分けると、テキストと画像のクォータを別々に管理できるのだ。
func LoadConfig() *Config {
	primaryKey := envutil.GetEnv("GEMINI_API_KEY", "")
	cfg := &Config{
		GeminiAPIKey:      primaryKey,
		ImageGeminiAPIKey: envutil.GetEnv("IMAGE_GEMINI_API_KEY", primaryKey),
		GeminiModel:       envutil.GetEnv("GEMINI_MODEL", DefaultModel),
		GeminiFlashModel:  envutil.GetEnv("GEMINI_FLASH_MODEL", DefaultFlashModel),
		GeminiImageModel:  envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
	}
	return cfg
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 生成リクエスト関連
	Topic             string // --topic
	Tone              string // --tone
	Platforms         []string
	Carousel          bool   // --carousel
	CustomStyle       string // --image-style
	Instructions      string // --instructions
	ReferenceImageURL string // --reference-image

	// 生成結果の出力設定
	OutputDir string // --output-dir

	// AI挙動設定
	AIModel    string // --model: テキスト生成用のGeminiモデル
	FlashModel string // --flash-model: 改善・再生成用の軽量モデル
	ImageModel string // --image-model: 画像生成用のGeminiモデル

	// 実行制御
	HTTPTimeout   time.Duration // --http-timeout
	ImageInterval time.Duration // --image-interval
}
