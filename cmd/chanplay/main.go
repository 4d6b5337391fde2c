// Command chanplay is an interactive terminal demo of a chanlib
// channel's blocking behavior. It puts the terminal in raw mode so
// single keystrokes drive channel operations without waiting for
// Enter, and restores the terminal on exit.
//
// Keys:
//
//	s   send the next counter value (blocks if the channel is full)
//	r   receive a value (blocks if the channel is empty)
//	t   try-receive: non-blocking, reports whether anything was ready
//	c   close the channel
//	q   quit
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/csp-chan/chanlib"
	"golang.org/x/term"
)

var logger = log.New(os.Stderr, "chanplay: ", log.Lshortfile)

func main() {
	capacity := 4
	if len(os.Args) > 1 {
		fmt.Sscanf(os.Args[1], "%d", &capacity)
	}

	c, err := chanlib.New[int](capacity)
	if err != nil {
		logger.Fatal(err)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.Fatal("stdin is not a terminal: ", err)
	}
	defer term.Restore(fd, oldState)

	lockToOSThreadWithPriority()
	defer unlockOSThread()

	fmt.Fprintf(os.Stdout, "chanplay: capacity=%d cap()=%d (s/r/t/c/q)\r\n", capacity, c.Cap())

	next := 0
	buf := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			return
		}
		switch buf[0] {
		case 's':
			fmt.Fprintf(os.Stdout, "send(%d)... ", next)
			err := c.Send(next)
			report(err)
			next++
		case 'r':
			v, err := c.Receive()
			if err != nil {
				report(err)
				continue
			}
			fmt.Fprintf(os.Stdout, "received %d\r\n", v)
		case 't':
			v, ok, err := chanlib.TryReceive(c)
			switch {
			case err != nil:
				report(err)
			case !ok:
				fmt.Fprintf(os.Stdout, "try-receive: nothing ready\r\n")
			default:
				fmt.Fprintf(os.Stdout, "try-receive: got %d\r\n", v)
			}
		case 'c':
			report(c.Close())
		case 'q':
			return
		}
		runtime.Gosched()
	}
}

func report(err error) {
	if err == nil {
		fmt.Fprintf(os.Stdout, "ok\r\n")
		return
	}
	fmt.Fprintf(os.Stdout, "error: %v\r\n", err)
}
