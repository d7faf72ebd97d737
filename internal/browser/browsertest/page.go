// Package browsertest provides scriptable in-memory implementations of the
// browser interfaces so engine components can be tested without a real
// browser process.
package browsertest

import (
	"context"
	"fmt"
	"sync"

	"github.com/hamhuhhg/XActions/internal/browser"
)

// Element is a scriptable DOM node.
type Element struct {
	mu sync.Mutex

	TextValue string
	TextErr   error
	ClickErr  error
	TypeErr   error
	UploadErr error
	Attrs     map[string]string
	Children  map[string][]browser.Element

	Clicks   int
	Typed    []string
	Uploads  []string
	recorder *Page
	label    string
}

var _ browser.Element = (*Element)(nil)

func (e *Element) Click(ctx context.Context) error {
	e.mu.Lock()
	e.Clicks++
	e.mu.Unlock()
	e.record("click")
	return e.ClickErr
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.TextValue, e.TextErr
}

func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	return e.Attrs[name], nil
}

func (e *Element) TypeText(ctx context.Context, text string) error {
	if e.TypeErr != nil {
		return e.TypeErr
	}
	e.mu.Lock()
	e.Typed = append(e.Typed, text)
	e.mu.Unlock()
	e.record(fmt.Sprintf("type:%s", text))
	return nil
}

func (e *Element) UploadFile(ctx context.Context, path string) error {
	if e.UploadErr != nil {
		return e.UploadErr
	}
	e.mu.Lock()
	e.Uploads = append(e.Uploads, path)
	e.mu.Unlock()
	e.record(fmt.Sprintf("upload:%s", path))
	return nil
}

func (e *Element) QueryAll(ctx context.Context, selector string) ([]browser.Element, error) {
	return e.Children[selector], nil
}

func (e *Element) record(event string) {
	if e.recorder != nil {
		e.recorder.addEvent(e.label + ":" + event)
	}
}

// Page is a scriptable browser.Page. Selector lookups come from Elements
// unless OnQuery is set; every input event is appended to Events in order.
type Page struct {
	mu sync.Mutex

	URLValue string
	Body     string
	BodyErr  error
	// BodyByURL overrides Body when the current URL has an entry.
	BodyByURL map[string]string

	Elements  map[string]browser.Element
	QueryErrs map[string]error
	// OnQuery, when set, decides lookups; count is 1-based per selector.
	OnQuery func(selector string, count int) (browser.Element, error)

	NavErr      error
	NavigatedTo []string
	Events      []string

	queryCounts map[string]int
}

var _ browser.Page = (*Page)(nil)

func New() *Page {
	return &Page{
		Elements:    map[string]browser.Element{},
		QueryErrs:   map[string]error{},
		queryCounts: map[string]int{},
	}
}

// Add installs an element for a selector and wires its event recording
// into the page's Events stream under the given label.
func (p *Page) Add(selector, label string, el *Element) *Element {
	el.recorder = p
	el.label = label
	p.Elements[selector] = el
	return el
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.NavErr != nil {
		return p.NavErr
	}
	p.NavigatedTo = append(p.NavigatedTo, url)
	p.URLValue = url
	p.Events = append(p.Events, "navigate:"+url)
	return nil
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.URLValue
}

func (p *Page) Query(ctx context.Context, selector string) (browser.Element, error) {
	p.mu.Lock()
	p.queryCounts[selector]++
	count := p.queryCounts[selector]
	p.mu.Unlock()
	if p.OnQuery != nil {
		return p.OnQuery(selector, count)
	}
	if err, ok := p.QueryErrs[selector]; ok {
		return nil, err
	}
	el, ok := p.Elements[selector]
	if !ok {
		return nil, nil
	}
	return el, nil
}

func (p *Page) QueryAll(ctx context.Context, selector string) ([]browser.Element, error) {
	el, err := p.Query(ctx, selector)
	if err != nil || el == nil {
		return nil, err
	}
	return []browser.Element{el}, nil
}

// QueryCount reports how many times a selector has been looked up.
func (p *Page) QueryCount(selector string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queryCounts[selector]
}

func (p *Page) Evaluate(ctx context.Context, expression string) (any, error) {
	if expression == "document.body.innerText" {
		body, err := p.currentBody()
		return body, err
	}
	return nil, nil
}

func (p *Page) BodyText(ctx context.Context) (string, error) {
	return p.currentBody()
}

func (p *Page) currentBody() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.BodyErr != nil {
		return "", p.BodyErr
	}
	if body, ok := p.BodyByURL[p.URLValue]; ok {
		return body, nil
	}
	return p.Body, nil
}

func (p *Page) KeyDown(ctx context.Context, key string) error {
	p.addEvent("keydown:" + key)
	return nil
}

func (p *Page) KeyUp(ctx context.Context, key string) error {
	p.addEvent("keyup:" + key)
	return nil
}

func (p *Page) Press(ctx context.Context, key string) error {
	p.addEvent("press:" + key)
	return nil
}

func (p *Page) TypeText(ctx context.Context, text string) error {
	p.addEvent("type:" + text)
	return nil
}

func (p *Page) addEvent(event string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
}

// EventLog returns a copy of the recorded event stream.
func (p *Page) EventLog() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.Events...)
}
