// client/go/cachelockclient/example/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avivl/cache-lock/client/go/cachelockclient"
)

// rebuildCache stands in for the work the flag protects.
func rebuildCache(ctx context.Context) {
	fmt.Println("⚙️  Rebuilding cache...")
	select {
	case <-ctx.Done():
	case <-time.After(3 * time.Second):
	}
	fmt.Println("✅ Cache rebuilt")
}

func main() {
	serverAddr := "localhost:5050"
	if len(os.Args) > 1 {
		serverAddr = os.Args[1]
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		fmt.Println("\n📣 Received shutdown signal. Cleaning up...")
		cancel()
	}()

	client, err := cachelockclient.NewCacheLockClient(serverAddr)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	fmt.Printf("🔄 Connecting to %s as %s\n", serverAddr, client.ID())

	// The flag is advisory: two clients that both see it free may both set it.
	if err := client.WaitUntilUnlocked(ctx); err != nil {
		log.Fatalf("Cache is still being rebuilt elsewhere: %v", err)
	}

	ok, err := client.AcquireCacheLock(ctx)
	if err != nil || !ok {
		log.Fatalf("Failed to acquire cache lock: ok=%v err=%v", ok, err)
	}
	fmt.Println("🔒 Cache lock set")

	rebuildCache(ctx)

	if _, err := client.ReleaseCacheLock(context.Background()); err != nil {
		log.Printf("Failed to release cache lock: %v", err)
		return
	}
	fmt.Println("🔓 Cache lock cleared")
}
