package pipeline

import (
	"context"
	"log/slog"

	"github.com/shouni/go-social-kit/pkg/domain"
	"github.com/shouni/go-social-kit/pkg/prompts"
)

// RefiningPlaceholder は改善処理中に一時的に表示される本文なのだ。
const RefiningPlaceholder = "Refining..."

// RefinePost は既存投稿のキャプションを指示に従って改善するのだ。
// 処理中はプレースホルダーを表示し、失敗時は元の本文に巻き戻すのだ。
func (p *Pipeline) RefinePost(ctx context.Context, platform domain.Platform, instruction string) (domain.Post, error) {
	original, ok := p.store.Post(platform)
	if !ok {
		return domain.Post{}, domain.ErrMissingContext
	}

	// 楽観的プレースホルダー。失敗したらロールバックするのだ
	if err := p.store.UpdatePost(platform, func(post *domain.Post) error {
		post.Content = RefiningPlaceholder
		return nil
	}); err != nil {
		return domain.Post{}, err
	}

	slog.InfoContext(ctx, "キャプションの改善を開始するのだ", "platform", platform)

	prompt := prompts.BuildRefinePrompt(platform, original.Content, instruction)
	refined, err := p.text.GenerateText(ctx, p.cfg.FlashModel, prompt)
	if err != nil {
		slog.ErrorContext(ctx, "キャプションの改善に失敗したのだ。元に戻すのだ", "platform", platform, "error", err)
		rollbackErr := p.store.UpdatePost(platform, func(post *domain.Post) error {
			post.Content = original.Content
			return nil
		})
		if rollbackErr != nil {
			slog.WarnContext(ctx, "ロールバックに失敗したのだ", "platform", platform, "error", rollbackErr)
		}
		return domain.Post{}, domain.NewGenerationError(domain.MsgRefineFailed, err)
	}

	var updated domain.Post
	if err := p.store.UpdatePost(platform, func(post *domain.Post) error {
		post.Content = refined
		updated = *post
		return nil
	}); err != nil {
		return domain.Post{}, err
	}

	slog.InfoContext(ctx, "キャプションの改善に成功したのだ", "platform", platform)
	return updated, nil
}
