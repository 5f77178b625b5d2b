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
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/tochemey/protoakt/internal/compression"
)

const (
	remotingServiceName = "protoakt.remote.Remoting"

	connectProcedure = "/" + remotingServiceName + "/Connect"
	receiveProcedure = "/" + remotingServiceName + "/Receive"
)

// remotingHandler is the server side of the Remoting service
type remotingHandler interface {
	Connect(ctx context.Context, request *connect.Request[ConnectRequest]) (*connect.Response[ConnectResponse], error)
	Receive(ctx context.Context, stream *connect.BidiStream[MessageBatch, Unit]) error
}

// newRemotingServiceHandler mounts handler on a mux
func newRemotingServiceHandler(handler remotingHandler, opts ...connect.HandlerOption) *http.ServeMux {
	opts = append(opts, connect.WithCodec(newCBORCodec()))
	opts = append(opts, compression.HandlerOptions()...)

	mux := http.NewServeMux()
	mux.Handle(connectProcedure, connect.NewUnaryHandler(connectProcedure, handler.Connect, opts...))
	mux.Handle(receiveProcedure, connect.NewBidiStreamHandler(receiveProcedure, handler.Receive, opts...))
	return mux
}

// remotingClient is the client side of the Remoting service
type remotingClient struct {
	connect *connect.Client[ConnectRequest, ConnectResponse]
	receive *connect.Client[MessageBatch, Unit]
}

func newRemotingClient(httpClient connect.HTTPClient, baseURL string, kind compression.Kind, opts ...connect.ClientOption) *remotingClient {
	opts = append(opts, connect.WithCodec(newCBORCodec()))
	opts = append(opts, compression.ClientOptions(kind)...)

	return &remotingClient{
		connect: connect.NewClient[ConnectRequest, ConnectResponse](httpClient, baseURL+connectProcedure, opts...),
		receive: connect.NewClient[MessageBatch, Unit](httpClient, baseURL+receiveProcedure, opts...),
	}
}

// Connect opens a session
func (c *remotingClient) Connect(ctx context.Context) (*ConnectResponse, error) {
	response, err := c.connect.CallUnary(ctx, connect.NewRequest(&ConnectRequest{}))
	if err != nil {
		return nil, err
	}
	return response.Msg, nil
}

// Receive opens the batch stream
func (c *remotingClient) Receive(ctx context.Context) *connect.BidiStreamForClient[MessageBatch, Unit] {
	return c.receive.CallBidiStream(ctx)
}
