package moodle

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// BrowserRenderer loads pages in headless Chrome so JS-built content such as the
// dashboard course list is present in the returned HTML.
type BrowserRenderer struct {
	session string
	waitFor string
	timeout time.Duration

	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewBrowserRenderer starts a Chrome allocator. Render waits until waitFor is visible;
// an empty waitFor waits for the dashboard course links.
func NewBrowserRenderer(session, waitFor string) *BrowserRenderer {
	if waitFor == "" {
		waitFor = courseLinkSelector
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &BrowserRenderer{
		session:  session,
		waitFor:  waitFor,
		timeout:  45 * time.Second,
		allocCtx: allocCtx,
		cancel:   cancel,
	}
}

// Close shuts the browser down
func (b *BrowserRenderer) Close() {
	if b.cancel != nil {
		b.cancel()
	}
}

// Render implements Renderer
func (b *BrowserRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	target, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", pageURL, err)
	}

	browserCtx, cancel := chromedp.NewContext(b.allocCtx)
	defer cancel()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, b.timeout)
	defer cancelTimeout()

	// the browser context is rooted at the allocator, follow the caller's cancellation too
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	var actions []chromedp.Action
	if b.session != "" {
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			return network.SetCookie(sessionCookie, b.session).
				WithDomain(target.Hostname()).
				WithPath("/").
				WithHTTPOnly(true).
				WithSecure(target.Scheme == "https").
				Do(ctx)
		}))
	}

	var htmlContent string
	actions = append(actions,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible(b.waitFor, chromedp.ByQuery),
		chromedp.WaitNotPresent(placeholderClass, chromedp.ByQuery),
		chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery),
	)

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("chromedp error: %w", err)
	}

	if htmlContent == "" {
		return "", fmt.Errorf("empty HTML content returned for %s", pageURL)
	}
	return htmlContent, nil
}
