// Package browser extracts Google authentication cookies from locally
// installed web browsers so users can log in without manual exports.
package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/chrome"
	_ "github.com/browserutils/kooky/browser/chromium"
	_ "github.com/browserutils/kooky/browser/edge"
	_ "github.com/browserutils/kooky/browser/firefox"
	_ "github.com/browserutils/kooky/browser/opera"

	"github.com/diogo/companion/internal/config"
)

// Browser identifies a browser whose cookie store we know how to read.
type Browser string

const (
	BrowserAuto     Browser = "auto"
	BrowserChrome   Browser = "chrome"
	BrowserChromium Browser = "chromium"
	BrowserFirefox  Browser = "firefox"
	BrowserEdge     Browser = "edge"
	BrowserOpera    Browser = "opera"
)

// SupportedBrowsers returns every browser that can be named explicitly.
func SupportedBrowsers() []Browser {
	return []Browser{
		BrowserChrome,
		BrowserChromium,
		BrowserFirefox,
		BrowserEdge,
		BrowserOpera,
	}
}

func (b Browser) String() string {
	return string(b)
}

// ParseBrowser maps a user-supplied name (including common aliases) to a
// Browser. An empty string means auto-detect.
func ParseBrowser(s string) (Browser, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return BrowserAuto, nil
	case "chrome", "google-chrome":
		return BrowserChrome, nil
	case "chromium":
		return BrowserChromium, nil
	case "firefox", "mozilla", "mozilla-firefox":
		return BrowserFirefox, nil
	case "edge", "microsoft-edge", "msedge":
		return BrowserEdge, nil
	case "opera":
		return BrowserOpera, nil
	default:
		return "", fmt.Errorf("unsupported browser: %s. Supported: chrome, chromium, firefox, edge, opera", s)
	}
}

// ExtractResult describes where the extracted cookies came from.
type ExtractResult struct {
	Cookies     *config.Cookies
	BrowserName string
}

// ExtractCookies pulls the Gemini authentication cookies out of the given
// browser's cookie store. With BrowserAuto, browsers are tried in order of
// popularity until one yields a valid __Secure-1PSID.
func ExtractCookies(ctx context.Context, browser Browser) (*ExtractResult, error) {
	if browser == BrowserAuto {
		order := []Browser{
			BrowserChrome,
			BrowserFirefox,
			BrowserEdge,
			BrowserChromium,
			BrowserOpera,
		}
		var lastErr error
		for _, b := range order {
			result, err := extractFrom(ctx, b)
			if err == nil {
				return result, nil
			}
			lastErr = err
		}
		if lastErr != nil {
			return nil, fmt.Errorf("could not find Gemini cookies in any browser: %w", lastErr)
		}
		return nil, fmt.Errorf("could not find Gemini cookies in any supported browser")
	}
	return extractFrom(ctx, browser)
}

// extractFrom walks every cookie store (profile) belonging to one browser
// until the cookies turn up.
func extractFrom(ctx context.Context, browser Browser) (*ExtractResult, error) {
	stores := kooky.FindAllCookieStores(ctx)

	var matching []kooky.CookieStore
	var browserName string
	for _, store := range stores {
		name := store.Browser()
		if storeMatches(name, browser) {
			matching = append(matching, store)
			if browserName == "" {
				browserName = name
			}
		} else {
			store.Close()
		}
	}
	defer func() {
		for _, s := range matching {
			s.Close()
		}
	}()

	if len(matching) == 0 {
		return nil, fmt.Errorf("browser %s not found or no cookie store available", browser)
	}

	var lastErr error
	for _, store := range matching {
		result, err := readStore(ctx, store, browserName, store.Profile())
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// storeMatches reports whether a kooky store name belongs to the target
// browser. Chrome must be distinguished from Chromium by exclusion.
func storeMatches(storeName string, target Browser) bool {
	name := strings.ToLower(storeName)
	switch target {
	case BrowserChrome:
		return strings.Contains(name, "chrome") && !strings.Contains(name, "chromium")
	case BrowserChromium:
		return strings.Contains(name, "chromium")
	case BrowserFirefox:
		return strings.Contains(name, "firefox")
	case BrowserEdge:
		return strings.Contains(name, "edge")
	case BrowserOpera:
		return strings.Contains(name, "opera")
	default:
		return false
	}
}

func readStore(ctx context.Context, store kooky.CookieStore, browserName, profile string) (*ExtractResult, error) {
	// Regional domains (.google.com.br etc.) also carry the cookies, so
	// match by substring and prefer the canonical .google.com entries.
	cookies := store.TraverseCookies(
		kooky.Valid,
		kooky.DomainContains("google.com"),
	).OnlyCookies()

	var psid, psidts string
	for cookie := range cookies {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		switch cookie.Name {
		case "__Secure-1PSID":
			if psid == "" || cookie.Domain == ".google.com" {
				psid = cookie.Value
			}
		case "__Secure-1PSIDTS":
			if psidts == "" || cookie.Domain == ".google.com" {
				psidts = cookie.Value
			}
		}
	}

	displayName := browserName
	if profile != "" {
		displayName = fmt.Sprintf("%s (profile: %s)", browserName, profile)
	}

	if psid == "" {
		return nil, fmt.Errorf("cookie __Secure-1PSID not found in %s. Please ensure you are logged into gemini.google.com", displayName)
	}

	return &ExtractResult{
		Cookies: &config.Cookies{
			Secure1PSID:   psid,
			Secure1PSIDTS: psidts,
		},
		BrowserName: displayName,
	}, nil
}

// ListAvailableBrowsers reports which browsers have a readable cookie store
// on this machine, for error messages and --from-browser help.
func ListAvailableBrowsers() []string {
	stores := kooky.FindAllCookieStores(context.Background())

	var browsers []string
	seen := make(map[string]bool)
	for _, store := range stores {
		name := store.Browser()
		if !seen[name] {
			browsers = append(browsers, name)
			seen[name] = true
		}
		store.Close()
	}
	return browsers
}
