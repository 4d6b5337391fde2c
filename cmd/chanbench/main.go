// Command chanbench drives load against a chanlib.Channel and reports
// throughput and, optionally, lock-contention hot spots. It exists to
// give the library's concurrency properties something to demonstrate
// under real goroutine fan-out.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/csp-chan/chanlib"
	"github.com/csp-chan/chanlib/internal/contention"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var logger = log.New(os.Stderr, "chanbench: ", log.Lshortfile)

func main() {
	var (
		capacity  = flag.Int("capacity", 16, "channel capacity (0 = unbuffered)")
		senders   = flag.Int("senders", 4, "number of concurrent sender goroutines")
		receivers = flag.Int("receivers", 4, "number of concurrent receiver goroutines")
		messages  = flag.Int("messages", 100000, "total messages sent across all senders")
		withBlame = flag.Bool("contention", false, "capture and report a block profile of the run")
	)
	flag.Parse()

	if err := run(*capacity, *senders, *receivers, *messages, *withBlame); err != nil {
		logger.Fatal(err)
	}
}

func run(capacity, senders, receivers, messages int, withContention bool) error {
	c, err := chanlib.New[int](capacity)
	if err != nil {
		return fmt.Errorf("new channel: %w", err)
	}

	if withContention {
		runtime.SetBlockProfileRate(1)
		defer runtime.SetBlockProfileRate(0)
	}

	start := time.Now()

	var sendGroup errgroup.Group
	perSender := messages / senders
	for s := 0; s < senders; s++ {
		n := perSender
		if s == senders-1 {
			n = messages - perSender*(senders-1) // last sender absorbs the remainder
		}
		sendGroup.Go(func() error { return sendN(c, n) })
	}

	var receiveGroup errgroup.Group
	counts := make([]int64, receivers)
	for r := 0; r < receivers; r++ {
		r := r
		receiveGroup.Go(func() error {
			n, err := receiveUntilClosed(c)
			counts[r] = n
			return err
		})
	}

	if err := sendGroup.Wait(); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	if err := c.Close(); err != nil && !chanlib.IsAlreadyClosed(err) {
		return fmt.Errorf("close: %w", err)
	}
	if err := receiveGroup.Wait(); err != nil {
		return fmt.Errorf("receive: %w", err)
	}
	elapsed := time.Since(start)

	var total int64
	for _, n := range counts {
		total += n
	}

	p := message.NewPrinter(language.English)
	p.Printf("received %d messages in %s (%.0f msgs/sec)\n",
		total, elapsed, float64(total)/elapsed.Seconds())

	if withContention {
		return reportContention()
	}
	return nil
}

func sendN(c *chanlib.Channel[int], n int) error {
	lockToOSThreadWithPriority()
	defer unlockOSThread()

	for i := 0; i < n; i++ {
		if err := c.Send(i); err != nil {
			if chanlib.IsBrokenPipe(err) {
				return nil
			}
			return err
		}
	}
	return nil
}

func receiveUntilClosed(c *chanlib.Channel[int]) (int64, error) {
	lockToOSThreadWithPriority()
	defer unlockOSThread()

	var n int64
	for {
		_, err := c.Receive()
		if err != nil {
			if chanlib.IsBrokenPipe(err) {
				return n, nil
			}
			return n, err
		}
		n++
	}
}

func reportContention() error {
	f, err := os.CreateTemp("", "chanbench-block-*.pprof")
	if err != nil {
		return fmt.Errorf("contention: %w", err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if err := pprof.Lookup("block").WriteTo(f, 0); err != nil {
		return fmt.Errorf("contention: write profile: %w", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return fmt.Errorf("contention: %w", err)
	}

	report, err := contention.Analyze(f)
	if err != nil {
		return fmt.Errorf("contention: %w", err)
	}

	p := message.NewPrinter(language.English)
	p.Printf("top contended call sites:\n")
	for _, e := range report.TopN(10) {
		p.Printf("  %-50s contentions=%-8d delay=%s\n", e.Site, e.Contentions, time.Duration(e.DelayNanos))
	}
	return nil
}
