package collect

import (
	"context"
	"encoding/json"

	"github.com/sells-group/viability-cli/pkg/anthropic"
	"github.com/sells-group/viability-cli/pkg/apify"
	"github.com/sells-group/viability-cli/pkg/serper"
)

type fakeApify struct {
	items []apify.ListingItem
	err   error
	calls int
}

func (f *fakeApify) SearchListings(_ context.Context, _ apify.SearchRequest) ([]apify.ListingItem, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type fakeSerper struct {
	searchResp    *serper.SearchResponse
	searchErr     error
	shoppingResp  *serper.ShoppingResponse
	shoppingErr   error
	searchCalls   int
	shoppingCalls int
	lastShopping  serper.ShoppingRequest
	lastSearch    serper.SearchRequest
}

func (f *fakeSerper) Search(_ context.Context, req serper.SearchRequest) (*serper.SearchResponse, error) {
	f.searchCalls++
	f.lastSearch = req
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResp, nil
}

func (f *fakeSerper) Shopping(_ context.Context, req serper.ShoppingRequest) (*serper.ShoppingResponse, error) {
	f.shoppingCalls++
	f.lastShopping = req
	if f.shoppingErr != nil {
		return nil, f.shoppingErr
	}
	return f.shoppingResp, nil
}

type fakeLLM struct {
	text string
	err  error
}

func (f *fakeLLM) CreateMessage(_ context.Context, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{Text: f.text}, nil
}

// listings decodes a JSON array into actor dataset items, the same way the
// client does, so tests can exercise both price shapes.
func listings(t interface{ Fatalf(string, ...any) }, raw string) []apify.ListingItem {
	var items []apify.ListingItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		t.Fatalf("decode listings: %v", err)
	}
	return items
}
