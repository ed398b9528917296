package telegram

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/go-telegram/bot"
)

var downloader = resty.New().SetTimeout(2 * time.Minute)

// OpenFile streams a Telegram file by id and returns its body and server-side path.
// The caller closes the body.
func OpenFile(ctx context.Context, b *bot.Bot, fileID string) (io.ReadCloser, string, error) {
	file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, "", fmt.Errorf("get file: %w", err)
	}

	resp, err := downloader.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(b.FileDownloadLink(file))
	if err != nil {
		return nil, "", fmt.Errorf("download file: %w", err)
	}
	if resp.IsError() {
		resp.RawBody().Close()
		return nil, "", fmt.Errorf("download file: status %d", resp.StatusCode())
	}
	return resp.RawBody(), file.FilePath, nil
}
