package render

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "render")

// PNG screenshots an HTML snapshot through headless chrome. The page is
// loaded from a data URI so no temp file is needed.
func PNG(ctx context.Context, html string) ([]byte, error) {
	dataURI := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Headless)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	var buf []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate(dataURI),
		chromedp.WaitVisible(`#stage`, chromedp.ByID),
		chromedp.Screenshot(`#stage`, &buf, chromedp.ByID),
	}
	log.Debug("running chromedp screenshot")
	if err := chromedp.Run(tabCtx, tasks); err != nil {
		return nil, fmt.Errorf("chromedp screenshot: %w", err)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("chromedp screenshot: empty buffer")
	}
	return buf, nil
}
