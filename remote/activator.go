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

package remote

import (
	"errors"
	"fmt"

	"github.com/tochemey/protoakt/actor"
	gerrors "github.com/tochemey/protoakt/errors"
)

const activatorName = "activator"

// ActivatorError lets a kind refuse an activation with a specific status
// code. Panic with it from the producer of the kind. The activator escalates
// it unless DoNotThrow is set.
type ActivatorError struct {
	Code       ResponseStatusCode
	DoNotThrow bool
}

var _ error = (*ActivatorError)(nil)

func (e *ActivatorError) Error() string {
	return "activation failed: " + e.Code.String()
}

// activator spawns actors of the known kinds on behalf of remote systems
type activator struct {
	remote *Remote
}

var _ actor.Actor = (*activator)(nil)

func newActivator(remote *Remote) *activator {
	return &activator{remote: remote}
}

func (a *activator) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		ctx.Logger().Debugf("activator started on %s", ctx.Self())
	case *ActorPidRequest:
		pid, err := a.activate(ctx, msg)
		response, escalate := activationResponse(pid, err)
		ctx.Respond(response)
		if escalate != nil {
			panic(escalate)
		}
	}
}

func (a *activator) activate(ctx actor.Context, request *ActorPidRequest) (pid *actor.PID, err error) {
	props, ok := a.remote.kind(request.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", gerrors.ErrUnknownKind, request.Kind)
	}

	name := request.Name
	if name == "" {
		name = ctx.ActorSystem().ProcessRegistry().NextID()
	}

	defer func() {
		if r := recover(); r != nil {
			pid = nil
			if activatorErr, ok := r.(*ActivatorError); ok {
				err = activatorErr
				return
			}
			err = gerrors.Recovered(r)
		}
	}()

	return ctx.ActorSystem().Root().SpawnNamed(props, name)
}

// activationResponse maps the outcome of an activation to the response and
// to the error the activator escalates, if any
func activationResponse(pid *actor.PID, err error) (*ActorPidResponse, error) {
	if err == nil {
		return &ActorPidResponse{Pid: pid, StatusCode: ResponseStatusCodeOK}, nil
	}

	var nameExists *actor.NameExistsError
	if errors.As(err, &nameExists) {
		return &ActorPidResponse{Pid: nameExists.PID, StatusCode: ResponseStatusCodeProcessNameAlreadyExist}, nil
	}

	var activatorErr *ActivatorError
	if errors.As(err, &activatorErr) {
		response := &ActorPidResponse{StatusCode: activatorErr.Code}
		if activatorErr.DoNotThrow {
			return response, nil
		}
		return response, activatorErr
	}

	return &ActorPidResponse{StatusCode: ResponseStatusCodeError}, err
}
