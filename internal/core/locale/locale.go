// Package locale carries the current UI language. There is no global instance:
// build one Context per application root and pass it down.
package locale

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrUnsupportedLanguage is an error thrown when a language has no catalog
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Supported lists the languages with translated messages
var Supported = []language.Tag{language.English, language.French, language.Spanish}

// Context holds the current language and notifies subscribers on change
type Context struct {
	matcher   language.Matcher
	supported []language.Tag

	mu          sync.RWMutex
	current     language.Tag
	nextID      int
	subscribers map[int]func(language.Tag)
}

// NewContext creates a Context starting at initial. With no supported list, Supported is used.
func NewContext(initial language.Tag, supported ...language.Tag) (*Context, error) {
	if len(supported) == 0 {
		supported = Supported
	}
	c := &Context{
		matcher:     language.NewMatcher(supported),
		supported:   supported,
		subscribers: make(map[int]func(language.Tag)),
	}
	tag, err := c.match(initial)
	if err != nil {
		return nil, err
	}
	c.current = tag
	return c, nil
}

// Parse builds a Context from a BCP 47 string such as "fr" or "es-MX"
func Parse(lang string, supported ...language.Tag) (*Context, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
	return NewContext(tag, supported...)
}

// Get returns the current language
func (c *Context) Get() language.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Set changes the current language and notifies subscribers when it actually changed
func (c *Context) Set(tag language.Tag) error {
	matched, err := c.match(tag)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if matched == c.current {
		c.mu.Unlock()
		return nil
	}
	c.current = matched
	subs := make([]func(language.Tag), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(matched)
	}
	return nil
}

// Subscribe registers fn for language changes until the returned function is called
func (c *Context) Subscribe(fn func(language.Tag)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// Printer returns a message printer for the current language
func (c *Context) Printer() *message.Printer {
	return message.NewPrinter(c.Get(), message.Catalog(messages))
}

func (c *Context) match(tag language.Tag) (language.Tag, error) {
	_, idx, confidence := c.matcher.Match(tag)
	if confidence == language.No {
		return language.Und, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, tag)
	}
	return c.supported[idx], nil
}
