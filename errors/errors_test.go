// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicError(t *testing.T) {
	cause := errors.New("boom")
	err := NewPanicError(cause)
	assert.EqualError(t, err, "panic: boom")
	assert.ErrorIs(t, err, cause)
}

func TestRecovered(t *testing.T) {
	t.Run("With an error value", func(t *testing.T) {
		cause := errors.New("boom")
		err := recoverFrom(func() { panic(cause) })
		var pe *PanicError
		require.ErrorAs(t, err, &pe)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "errors_test.go")
	})
	t.Run("With a PanicError value", func(t *testing.T) {
		original := NewPanicError(errors.New("boom"))
		err := recoverFrom(func() { panic(original) })
		assert.Same(t, original, err)
	})
	t.Run("With a wrapped PanicError", func(t *testing.T) {
		original := NewPanicError(errors.New("boom"))
		err := recoverFrom(func() { panic(fmt.Errorf("wrapped: %w", original)) })
		assert.Same(t, original, err)
	})
	t.Run("With a non error value", func(t *testing.T) {
		err := recoverFrom(func() { panic("oops") })
		var pe *PanicError
		require.ErrorAs(t, err, &pe)
		assert.Contains(t, err.Error(), `"oops"`)
	})
}

func recoverFrom(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Recovered(r)
		}
	}()
	fn()
	return nil
}
