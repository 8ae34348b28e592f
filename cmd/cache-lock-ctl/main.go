// cmd/cache-lock-ctl/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/avivl/cache-lock/client/go/cachelockclient"
)

const usage = `usage: cache-lock-ctl [-addr host:port] [-timeout d] <acquire|release|status|wait>`

func main() {
	addr := flag.String("addr", "localhost:5050", "Address of the cache lock service")
	timeout := flag.Duration("timeout", 5*time.Minute, "Deadline for the whole command")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	code, err := run(ctx, *addr, flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "cache-lock-ctl: %v\n", err)
	}
	os.Exit(code)
}

// run executes one command and returns the process exit code.
// status exits 0 when unlocked and 1 when locked; wait exits 1 when the lock never freed.
func run(ctx context.Context, addr, command string) (int, error) {
	client, err := cachelockclient.NewCacheLockClient(addr)
	if err != nil {
		return 2, err
	}
	defer client.Close()

	switch command {
	case "acquire":
		return report(client.AcquireCacheLock(ctx))
	case "release":
		return report(client.ReleaseCacheLock(ctx))
	case "status":
		locked, err := client.GetIsCacheLocked(ctx)
		if err != nil {
			return 2, err
		}
		if locked {
			fmt.Println("locked")
			return 1, nil
		}
		fmt.Println("unlocked")
		return 0, nil
	case "wait":
		err := client.WaitUntilUnlocked(ctx)
		if errors.Is(err, cachelockclient.ErrStillLocked) {
			fmt.Println("locked")
			return 1, nil
		}
		if err != nil {
			return 2, err
		}
		fmt.Println("unlocked")
		return 0, nil
	default:
		return 2, fmt.Errorf("unknown command %q", command)
	}
}

func report(ok bool, err error) (int, error) {
	if err != nil {
		return 2, err
	}
	if !ok {
		fmt.Println("failed")
		return 1, nil
	}
	fmt.Println("ok")
	return 0, nil
}
