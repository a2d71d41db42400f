// loadgen fires a burst of concurrent claims at a running server and
// checks that stock is depleted exactly, never over-sold.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "server base URL")
	itemID := flag.String("item", "tee-classic", "item to claim")
	requests := flag.Int("n", 50, "number of concurrent claims")
	expectStock := flag.Int("stock", 10, "item's stock before the run")
	flag.Parse()

	client := &http.Client{Timeout: 30 * time.Second}

	var successCount atomic.Int32
	var outOfStockCount atomic.Int32
	var otherCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			resp, err := client.Post(
				*baseURL+"/api/items/"+*itemID+"/claim", "application/json", nil)
			if err != nil {
				log.Printf("claim request failed: %v", err)
				otherCount.Add(1)
				return
			}
			defer resp.Body.Close()

			var body struct {
				Message string `json:"message"`
			}
			_ = json.NewDecoder(resp.Body).Decode(&body)

			switch resp.StatusCode {
			case http.StatusOK:
				successCount.Add(1)
			case http.StatusGone:
				outOfStockCount.Add(1)
			default:
				log.Printf("unexpected status %d: %s", resp.StatusCode, body.Message)
				otherCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	outOfStock := outOfStockCount.Load()
	other := otherCount.Load()

	fmt.Println("========== LOADGEN RESULTS ==========")
	fmt.Printf("Item:           %s\n", *itemID)
	fmt.Printf("Total Requests: %d\n", *requests)
	fmt.Printf("Successful:     %d\n", success)
	fmt.Printf("Out of Stock:   %d\n", outOfStock)
	fmt.Printf("Other:          %d\n", other)
	fmt.Printf("Duration:       %v\n", elapsed)
	fmt.Println("=====================================")

	want := int32(*expectStock)
	if int32(*requests) < want {
		want = int32(*requests)
	}
	if success == want && other == 0 {
		fmt.Printf("PASS: exactly %d claims succeeded\n", want)
	} else {
		fmt.Printf("FAIL: expected %d successes, got %d (%d errors)\n", want, success, other)
	}
}
