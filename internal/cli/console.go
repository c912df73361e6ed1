package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/pavelc4/clipgrab-bot/internal/handler"
)

var (
	headColor   = color.New(color.FgCyan, color.Bold)
	buttonColor = color.New(color.FgGreen)
	dataColor   = color.New(color.FgHiBlack)
)

// console is a handler.Messenger that prints to a terminal instead of a chat.
type console struct {
	mu   sync.Mutex
	out  io.Writer
	next int
}

var _ handler.Messenger = (*console)(nil)

func newConsole(out io.Writer) *console {
	return &console{out: out}
}

func (c *console) print(head, text string, buttons []handler.Button) {
	fmt.Fprintln(c.out, headColor.Sprint(head))
	fmt.Fprintln(c.out, text)
	for _, b := range buttons {
		fmt.Fprintf(c.out, "  %s  %s\n", buttonColor.Sprint(b.Label), dataColor.Sprint(b.Data))
	}
	fmt.Fprintln(c.out)
}

func (c *console) Send(ctx context.Context, chat handler.Chat, replyTo int, text string, buttons []handler.Button) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	c.print(fmt.Sprintf("[message %d]", c.next), text, buttons)
	return c.next, nil
}

func (c *console) Edit(ctx context.Context, chat handler.Chat, msgID int, text string, buttons []handler.Button) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.print(fmt.Sprintf("[message %d edited]", msgID), text, buttons)
	return nil
}

func (c *console) Delete(ctx context.Context, chat handler.Chat, msgID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, headColor.Sprintf("[message %d deleted]", msgID))
	return nil
}

func (c *console) Answer(ctx context.Context, queryID, text string) error {
	return nil
}

func (c *console) SendVideo(ctx context.Context, chat handler.Chat, replyTo int, v handler.Video) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.print("[video]", fmt.Sprintf("%s\n%s", v.Name, v.Caption), nil)
	return nil
}
