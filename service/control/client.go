package control

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// Client issues requests over the controller side of the channel pair
type Client struct {
	out io.Writer
	in  io.Reader
	mux sync.Mutex
}

// NewClient creates a client writing requests to out and reading codes from in
func NewClient(out io.Writer, in io.Reader) *Client {
	return &Client{out: out, in: in}
}

// Do sends request and waits for its response code
func (c *Client) Do(request *Request) (Code, error) {
	data, err := request.MarshalBinary()
	if err != nil {
		return 0, err
	}
	c.mux.Lock()
	defer c.mux.Unlock()
	if _, err = c.out.Write(data); err != nil {
		return 0, fmt.Errorf("failed to send %v: %w", request, err)
	}
	response := make([]byte, ResponseSize)
	if _, err = io.ReadFull(c.in, response); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = ErrShortRecord
		}
		return 0, fmt.Errorf("failed to receive response to %v: %w", request, err)
	}
	return decodeCode(response)
}
