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
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
)

type booleanValidator struct {
	ok      bool
	message string
}

// NewBooleanValidator fails with message when ok is false
func NewBooleanValidator(ok bool, message string) Validator {
	return booleanValidator{ok: ok, message: message}
}

func (v booleanValidator) Validate() error {
	if !v.ok {
		return errors.New(v.message)
	}
	return nil
}

type emptyStringValidator struct {
	field string
	value string
}

// NewEmptyStringValidator fails when value is blank
func NewEmptyStringValidator(field, value string) Validator {
	return emptyStringValidator{field: field, value: value}
}

func (v emptyStringValidator) Validate() error {
	if strings.TrimSpace(v.value) == "" {
		return fmt.Errorf("the [%s] is required", v.field)
	}
	return nil
}

type patternValidator struct {
	pattern string
	value   string
	err     error
}

// NewPatternValidator fails with err when value does not match pattern.
// A nil err reports a generic violation.
func NewPatternValidator(pattern, value string, err error) Validator {
	return patternValidator{pattern: pattern, value: value, err: err}
}

func (v patternValidator) Validate() error {
	if match, _ := regexp.MatchString(v.pattern, v.value); match {
		return nil
	}
	if v.err != nil {
		return v.err
	}
	return fmt.Errorf("%q does not match %s", v.value, v.pattern)
}

type tcpAddressValidator struct {
	address string
}

// NewTCPAddressValidator fails when address is not host:port with a port
// in the 0 to 65535 range
func NewTCPAddressValidator(address string) Validator {
	return tcpAddressValidator{address: address}
}

func (v tcpAddressValidator) Validate() error {
	host, port, err := net.SplitHostPort(strings.TrimSpace(v.address))
	if err != nil {
		return fmt.Errorf("invalid address=(%s): %w", v.address, err)
	}

	number, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid address=(%s): %w", v.address, err)
	}

	if host == "" || number < 0 || number > 65535 {
		return fmt.Errorf("invalid address=(%s)", v.address)
	}
	return nil
}
