package cmd

import (
	"fmt"

	"github.com/shouni/go-social-kit/internal/builder"
	"github.com/shouni/go-social-kit/internal/config"

	"github.com/spf13/cobra"
)

// ideasCmd は、トピックからバズ狙いの投稿アイデアを列挙するのだ。
var ideasCmd = &cobra.Command{
	Use:   "ideas <topic>",
	Short: "トピックから投稿アイデアを5〜7件生成しますなのだ。",
	Args:  cobra.ExactArgs(1),
	RunE:  ideasCommand,
}

func ideasCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	topic := args[0]

	cfg := config.LoadConfig()
	cfg.GeminiModel = opts.AIModel
	cfg.Options = opts

	app, err := builder.NewApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("アプリケーションの初期化に失敗したのだ: %w", err)
	}

	ideas, err := app.Pipeline.GenerateIdeas(ctx, topic)
	if err != nil {
		return err
	}

	for i, idea := range ideas {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, idea)
	}
	return nil
}
