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

package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain(t *testing.T) {
	t.Run("With no violation", func(t *testing.T) {
		err := New().
			AddValidator(NewEmptyStringValidator("name", "sys")).
			AddAssertion(true, "never").
			Validate()
		assert.NoError(t, err)
	})
	t.Run("With every violation reported", func(t *testing.T) {
		err := New(AllErrors()).
			AddValidator(NewEmptyStringValidator("name", " ")).
			AddAssertion(false, "batch size must be positive").
			Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "the [name] is required")
		assert.Contains(t, err.Error(), "batch size must be positive")
	})
	t.Run("With fail fast", func(t *testing.T) {
		err := New(FailFast()).
			AddValidator(NewEmptyStringValidator("name", "")).
			AddAssertion(false, "not reached").
			Validate()
		assert.EqualError(t, err, "the [name] is required")
	})
	t.Run("With the chain validated twice", func(t *testing.T) {
		chain := New().AddAssertion(false, "once")
		require.EqualError(t, chain.Validate(), "once")
		assert.EqualError(t, chain.Validate(), "once")
	})
}

func TestPatternValidator(t *testing.T) {
	custom := errors.New("bad name")
	assert.NoError(t, NewPatternValidator(`^[a-z]+$`, "abc", custom).Validate())
	assert.ErrorIs(t, NewPatternValidator(`^[a-z]+$`, "ABC", custom).Validate(), custom)
	assert.Error(t, NewPatternValidator(`^[a-z]+$`, "ABC", nil).Validate())
}

func TestTCPAddressValidator(t *testing.T) {
	assert.NoError(t, NewTCPAddressValidator("127.0.0.1:3222").Validate())
	assert.NoError(t, NewTCPAddressValidator("127.0.0.1:0").Validate())
	assert.Error(t, NewTCPAddressValidator("127.0.0.1:-1").Validate())
	assert.Error(t, NewTCPAddressValidator("127.0.0.1:655387").Validate())
	assert.Error(t, NewTCPAddressValidator(":3222").Validate())
	assert.Error(t, NewTCPAddressValidator("localhost").Validate())
}
