package control

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mux      sync.Mutex
	requests []Request
}

func (r *recorder) Dispatch(_ context.Context, request *Request) Code {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.requests = append(r.requests, *request)
	switch request.Kind {
	case KindList:
		return CodeOK
	case KindKill, KindRaisePriority, KindLowerPriority:
		if request.TaskID == 1 {
			return CodeOK
		}
		return CodeNotFound
	case KindSpawn:
		if request.Path == "" {
			return CodeInvalid
		}
		return CodeOK
	}
	return CodeNotImplemented
}

func newPipes(t *testing.T, dispatcher Dispatcher) (*Client, <-chan error, func()) {
	t.Helper()
	requestReader, requestWriter := io.Pipe()
	responseReader, responseWriter := io.Pipe()
	server := NewServer(dispatcher, WithServerLogger(log.New(io.Discard, "", 0)))
	done := make(chan error, 1)
	go func() {
		done <- server.Serve(context.Background(), requestReader, responseWriter)
		_ = responseWriter.Close()
	}()
	closer := func() { _ = requestWriter.Close() }
	return NewClient(requestWriter, responseReader), done, closer
}

func TestServer_Serve(t *testing.T) {
	dispatcher := &recorder{}
	client, done, closeClient := newPipes(t, dispatcher)

	var testCases = []struct {
		description string
		request     *Request
		expect      Code
	}{
		{description: "list", request: List(), expect: CodeOK},
		{description: "kill known", request: Kill(1), expect: CodeOK},
		{description: "kill unknown", request: Kill(42), expect: CodeNotFound},
		{description: "spawn", request: Spawn("sleep"), expect: CodeOK},
		{description: "spawn empty", request: Spawn(""), expect: CodeInvalid},
		{description: "raise unknown", request: Raise(5), expect: CodeNotFound},
		{description: "lower", request: Lower(1), expect: CodeOK},
		{description: "unknown kind", request: &Request{Kind: 99}, expect: CodeNotImplemented},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			code, err := client.Do(testCase.request)
			require.NoError(t, err)
			assert.Equal(t, testCase.expect, code)
		})
	}

	closeClient()
	assert.NoError(t, <-done)
	assert.Len(t, dispatcher.requests, len(testCases))
}

func TestServer_InvalidRecord(t *testing.T) {
	dispatcher := &recorder{}
	record, err := Spawn("x").MarshalBinary()
	require.NoError(t, err)
	record[8], record[9] = 0xff, 0xff

	in := bytes.NewReader(record)
	out := &bytes.Buffer{}
	server := NewServer(dispatcher, WithServerLogger(log.New(io.Discard, "", 0)))
	require.NoError(t, server.Serve(context.Background(), in, out))
	code, err := decodeCode(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, CodeInvalid, code)
	assert.Empty(t, dispatcher.requests)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestServer_IOErrors(t *testing.T) {
	record, err := List().MarshalBinary()
	require.NoError(t, err)
	server := NewServer(&recorder{}, WithServerLogger(log.New(io.Discard, "", 0)))

	err = server.Serve(context.Background(), bytes.NewReader(record[:10]), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrShortRecord)

	err = server.Serve(context.Background(), bytes.NewReader(record), failingWriter{})
	assert.ErrorContains(t, err, "broken pipe")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = server.Serve(ctx, bytes.NewReader(record), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_ServerGone(t *testing.T) {
	client := NewClient(&bytes.Buffer{}, bytes.NewReader([]byte{0, 0}))
	_, err := client.Do(List())
	assert.ErrorIs(t, err, ErrShortRecord)

	_, err = client.Do(Spawn(string(make([]byte, MaxPathLen+1))))
	assert.ErrorIs(t, err, ErrPathTooLong)
}
