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

// Package actor implements local actors: addressing, the process registry,
// the actor context with its lifecycle, and supervision.
package actor

// Actor processes the messages delivered to it, one at a time.
//
// Example:
//
//	type greeter struct{}
//
//	func (g *greeter) Receive(ctx actor.Context) {
//	    switch msg := ctx.Message().(type) {
//	    case *actor.Started:
//	        ctx.Logger().Info("greeter started")
//	    case *Hello:
//	        ctx.Respond(&Greeting{Text: "hello " + msg.Name})
//	    }
//	}
type Actor interface {
	Receive(ctx Context)
}

// ReceiveFunc adapts a function to the Actor interface. It is also the type
// of the behaviors installed with Context.Become.
type ReceiveFunc func(ctx Context)

// Receive calls f(ctx)
func (f ReceiveFunc) Receive(ctx Context) {
	f(ctx)
}

// Producer creates a fresh actor instance, on spawn and on every restart
type Producer func() Actor
