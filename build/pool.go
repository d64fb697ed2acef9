// maple-font - a builder and optimizer for the Maple Mono font family
// Copyright (C) 2024  The maple-font authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package build

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Failure records one style whose pipeline failed.
type Failure struct {
	Style string
	Err   error
}

// BatchError is the summary of a batch with failed styles.
type BatchError struct {
	Failures []Failure
}

func (e *BatchError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d style(s) failed:", len(e.Failures))
	for _, f := range e.Failures {
		fmt.Fprintf(&sb, "\n  %s: %v", f.Style, f.Err)
	}
	return sb.String()
}

// RunPool runs one task per file over n workers.  Styles share no
// state, so no synchronization beyond dispatch and join is needed.  A
// failing task never stops tasks already dispatched; all failures are
// collected and returned after the pool drains, sorted by style token.
func RunPool(n int, files []string, task func(string) error) error {
	if n < 1 {
		n = 1
	}
	if n > len(files) {
		n = len(files)
	}
	if len(files) == 0 {
		return nil
	}

	jobs := make(chan string)
	results := make(chan Failure, len(files))

	// a panicking task fails its own style, not the whole batch
	run := func(fname string) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return task(fname)
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for fname := range jobs {
				if err := run(fname); err != nil {
					results <- Failure{Style: StyleToken(fname), Err: err}
				}
			}
		}()
	}

	for _, fname := range files {
		jobs <- fname
	}
	close(jobs)
	wg.Wait()
	close(results)

	var failures []Failure
	for f := range results {
		failures = append(failures, f)
	}
	if len(failures) == 0 {
		return nil
	}
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].Style < failures[j].Style
	})
	return &BatchError{Failures: failures}
}
