package shell

import (
	"bytes"
	"context"
	"io"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/rotor/service/control"
)

func TestShell_Run(t *testing.T) {
	var mux sync.Mutex
	var received []string
	dispatcher := control.DispatcherFunc(func(_ context.Context, request *control.Request) control.Code {
		mux.Lock()
		defer mux.Unlock()
		received = append(received, request.String())
		if request.Kind == control.KindKill && request.TaskID != 1 {
			return control.CodeNotFound
		}
		return control.CodeOK
	})

	requestReader, requestWriter := io.Pipe()
	responseReader, responseWriter := io.Pipe()
	server := control.NewServer(dispatcher, control.WithServerLogger(log.New(io.Discard, "", 0)))
	done := make(chan error, 1)
	go func() { done <- server.Serve(context.Background(), requestReader, responseWriter) }()

	input := strings.NewReader("p\nk 1\nk 9\nbogus\n\ne sleep\nq\np\n")
	out := &bytes.Buffer{}
	sh := New(control.NewClient(requestWriter, responseReader), input, out, WithPrompt(""))
	require.NoError(t, sh.Run(context.Background()))
	require.NoError(t, requestWriter.Close())
	require.NoError(t, <-done)

	assert.Equal(t, []string{"LIST", "KILL 1", "KILL 9", `SPAWN "sleep"`}, received)
	assert.Contains(t, out.String(), "KILL 9: not found")
}

func TestShell_ControlGone(t *testing.T) {
	requestReader, requestWriter := io.Pipe()
	_ = requestReader.Close()
	sh := New(control.NewClient(requestWriter, strings.NewReader("")), strings.NewReader("p\n"), io.Discard)
	assert.Error(t, sh.Run(context.Background()))
}
