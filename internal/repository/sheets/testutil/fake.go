// Package testutil provides an in-memory stand-in for the Google Sheets
// values API so repo tests run without network or credentials.
package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// FakeValues stores rows per sheet name. It ignores the row/column bounds of
// a range and treats every range as "the data region below the header",
// which matches how the repo uses ranges.
type FakeValues struct {
	mu     sync.Mutex
	sheets map[string][][]any

	// FailNext makes the next call return an error, for mirror-failure tests.
	FailNext error

	Gets    int
	Clears  int
	Appends int
}

func NewFakeValues() *FakeValues {
	return &FakeValues{sheets: make(map[string][][]any)}
}

func sheetOf(rng string) string {
	if i := strings.Index(rng, "!"); i >= 0 {
		return rng[:i]
	}
	return rng
}

func (f *FakeValues) take() error {
	err := f.FailNext
	f.FailNext = nil
	return err
}

func (f *FakeValues) Get(_ context.Context, rng string) ([][]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Gets++
	if err := f.take(); err != nil {
		return nil, err
	}
	rows := f.sheets[sheetOf(rng)]
	out := make([][]any, len(rows))
	copy(out, rows)
	return out, nil
}

func (f *FakeValues) Clear(_ context.Context, rng string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Clears++
	if err := f.take(); err != nil {
		return err
	}
	f.sheets[sheetOf(rng)] = nil
	return nil
}

func (f *FakeValues) Append(_ context.Context, rng string, rows [][]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Appends++
	if err := f.take(); err != nil {
		return err
	}
	name := sheetOf(rng)
	f.sheets[name] = append(f.sheets[name], rows...)
	return nil
}

// Rows returns a copy of a sheet's stored rows.
func (f *FakeValues) Rows(sheet string) [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.sheets[sheet]
	out := make([][]any, len(rows))
	copy(out, rows)
	return out
}

// Seed replaces a sheet's rows directly.
func (f *FakeValues) Seed(sheet string, rows [][]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sheets[sheet] = rows
}

// ErrUnavailable is a convenient transport error for failure injection.
var ErrUnavailable = errors.New("sheets backend unavailable")
