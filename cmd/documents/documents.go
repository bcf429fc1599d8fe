package documents

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/simorq_mobile/config"
	"github.com/Alijeyrad/simorq_mobile/internal/app"
	"github.com/Alijeyrad/simorq_mobile/internal/service/document"
	"github.com/Alijeyrad/simorq_mobile/pkg/logs"
)

func NewDocumentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "Document upload pipeline commands",
	}

	cmd.AddCommand(newUploadCommand())

	return cmd
}

func newUploadCommand() *cobra.Command {
	var (
		ownerID  string
		mimeType string
	)

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file and queue it for analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return err
			}
			slog.SetDefault(logs.New(cfg))

			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			if mimeType == "" {
				mimeType = mime.TypeByExtension(filepath.Ext(path))
			}

			return app.Run(cfg, func(pipe document.Pipeline) error {
				res, err := pipe.Upload(cmd.Context(), document.Input{
					OwnerID:  ownerID,
					FileName: filepath.Base(path),
					MimeType: mimeType,
					Data:     data,
				})
				var stepErr *document.StepError
				if errors.As(err, &stepErr) {
					return fmt.Errorf("upload failed at the %s step: %w", stepErr.Step, stepErr.Err)
				}
				if err != nil {
					return err
				}
				fmt.Printf("document %s uploaded and queued for analysis\n", res.DocumentID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "", "owning patient ID")
	cmd.Flags().StringVar(&mimeType, "mime", "", "MIME type (detected from extension when omitted)")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}
