package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	defaultNavTimeout = 30 * time.Second
	headlessEnv       = "XACTIONS_HEADLESS"
)

// Element is one matched DOM node. Implementations must tolerate the node
// detaching between calls; a detached node yields an error, never a panic.
type Element interface {
	Click(ctx context.Context) error
	// Text returns the node's visible text (innerText, falling back to
	// textContent for nodes playwright refuses to read).
	Text(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, error)
	TypeText(ctx context.Context, text string) error
	UploadFile(ctx context.Context, path string) error
	QueryAll(ctx context.Context, selector string) ([]Element, error)
}

// Page exposes the driver surface the engine consumes: navigation,
// CSS queries, raw keyboard events and script evaluation.
type Page interface {
	Navigate(ctx context.Context, url string) error
	URL() string
	// Query returns (nil, nil) when no node matches the selector.
	Query(ctx context.Context, selector string) (Element, error)
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	Evaluate(ctx context.Context, expression string) (any, error)
	BodyText(ctx context.Context) (string, error)
	KeyDown(ctx context.Context, key string) error
	KeyUp(ctx context.Context, key string) error
	Press(ctx context.Context, key string) error
	TypeText(ctx context.Context, text string) error
}

// Launcher owns the playwright lifecycle.
type Launcher struct {
	pw       *playwright.Playwright
	browser  playwright.Browser
	headless bool
}

func NewLauncher(ctx context.Context, headless bool) (*Launcher, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	if v, ok := lookupBoolEnv(headlessEnv); ok {
		headless = v
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args: []string{
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	return &Launcher{pw: pw, browser: browser, headless: headless}, nil
}

func (l *Launcher) Headless() bool {
	return l.headless
}

// NewDriver opens a fresh browser context with a single page.
func (l *Launcher) NewDriver(ctx context.Context) (*Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bctx, err := l.browser.NewContext(playwright.BrowserNewContextOptions{
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("new context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}
	page.SetDefaultTimeout(float64(defaultNavTimeout.Milliseconds()))
	return &Driver{bctx: bctx, page: page}, nil
}

// Close tears the browser process down. Safe to call after a partial
// setup failure.
func (l *Launcher) Close() error {
	if l.browser != nil {
		_ = l.browser.Close()
	}
	if l.pw != nil {
		return l.pw.Stop()
	}
	return nil
}

// Driver is the playwright-backed Page implementation owning one browser
// context and one page.
type Driver struct {
	bctx playwright.BrowserContext
	page playwright.Page
}

var _ Page = (*Driver)(nil)

func (d *Driver) Close(ctx context.Context) error {
	_ = ctx
	if d.page != nil {
		_ = d.page.Close()
	}
	if d.bctx != nil {
		return d.bctx.Close()
	}
	return nil
}

// SetSessionCookie injects an authentication cookie on the apex domain with
// the secure and http-only flags set.
func (d *Driver) SetSessionCookie(ctx context.Context, name, value, domain string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := d.bctx.AddCookies([]playwright.OptionalCookie{{
		Name:     name,
		Value:    value,
		Domain:   playwright.String(domain),
		Path:     playwright.String("/"),
		Secure:   playwright.Bool(true),
		HttpOnly: playwright.Bool(true),
	}})
	return wrap(err)
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(float64(defaultNavTimeout.Milliseconds())),
	})
	return wrap(err)
}

func (d *Driver) URL() string {
	return d.page.URL()
}

func (d *Driver) Query(ctx context.Context, selector string) (Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handle, err := d.page.QuerySelector(selector)
	if err != nil {
		return nil, wrap(err)
	}
	if handle == nil {
		return nil, nil
	}
	return &element{handle: handle}, nil
}

func (d *Driver) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handles, err := d.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, wrap(err)
	}
	return wrapHandles(handles), nil
}

func (d *Driver) Evaluate(ctx context.Context, expression string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	val, err := d.page.Evaluate(expression)
	return val, wrap(err)
}

func (d *Driver) BodyText(ctx context.Context) (string, error) {
	val, err := d.Evaluate(ctx, "document.body.innerText")
	if err != nil {
		return "", err
	}
	text, _ := val.(string)
	return text, nil
}

func (d *Driver) KeyDown(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return wrap(d.page.Keyboard().Down(key))
}

func (d *Driver) KeyUp(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return wrap(d.page.Keyboard().Up(key))
}

func (d *Driver) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return wrap(d.page.Keyboard().Press(key))
}

func (d *Driver) TypeText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return wrap(d.page.Keyboard().Type(text))
}

type element struct {
	handle playwright.ElementHandle
}

var _ Element = (*element)(nil)

func (e *element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return wrap(e.handle.Click())
}

func (e *element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if text, err := e.handle.InnerText(); err == nil {
		return text, nil
	}
	text, err := e.handle.TextContent()
	return text, wrap(err)
}

func (e *element) Attribute(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	val, err := e.handle.GetAttribute(name)
	return val, wrap(err)
}

func (e *element) TypeText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return wrap(e.handle.Type(text))
}

func (e *element) UploadFile(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read upload file: %w", err)
	}
	return wrap(e.handle.SetInputFiles([]playwright.InputFile{{
		Name:     filepath.Base(path),
		MimeType: mimeForPath(path),
		Buffer:   data,
	}}))
}

func (e *element) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handles, err := e.handle.QuerySelectorAll(selector)
	if err != nil {
		return nil, wrap(err)
	}
	return wrapHandles(handles), nil
}

func wrapHandles(handles []playwright.ElementHandle) []Element {
	elems := make([]Element, 0, len(handles))
	for _, h := range handles {
		if h == nil {
			continue
		}
		elems = append(elems, &element{handle: h})
	}
	return elems
}

func mimeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("playwright: %w", err)
}

func lookupBoolEnv(name string) (bool, bool) {
	val := strings.TrimSpace(os.Getenv(name))
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}
