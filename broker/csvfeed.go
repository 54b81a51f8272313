package broker

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
)

// CSVFeed replays prices from a CSV file with a "product_id,price" header.
// Each CurrentPrice call advances to the product's next row, holding the last
// price once the file is exhausted. Meant for dry runs and replay sessions;
// a live deployment injects a real market-data client instead.
type CSVFeed struct {
	mu     sync.Mutex
	prices map[string][]float64
	next   map[string]int
}

func NewCSVFeed(path string) (*CSVFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open price file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		return nil, fmt.Errorf("read price header: %w", err)
	}

	feed := &CSVFeed{
		prices: make(map[string][]float64),
		next:   make(map[string]int),
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read price row: %w", err)
		}
		if len(rec) < 2 {
			continue
		}
		price, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parse price %q: %w", rec[1], err)
		}
		feed.prices[rec[0]] = append(feed.prices[rec[0]], price)
	}

	return feed, nil
}

func (f *CSVFeed) CurrentPrice(ctx context.Context, productID string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	series, ok := f.prices[productID]
	if !ok || len(series) == 0 {
		return 0, fmt.Errorf("no price for %q", productID)
	}

	i := f.next[productID]
	if i >= len(series) {
		i = len(series) - 1
	} else {
		f.next[productID]++
	}
	return series[i], nil
}
