package service

import (
	"context"
	"errors"
	"testing"

	"qc-dashboard/internal/features/bulkorders/domain"
	"qc-dashboard/internal/features/bulkorders/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPageFetcher_SearchMode(t *testing.T) {
	searcher := new(MockOrderSearcher)
	page := &domain.Page{Success: true, Orders: []domain.Order{{OrderNo: "A"}}, AfterTag: "T1"}
	searcher.On("SearchOrders", mock.Anything, domain.SearchQuery{Range: may1, AfterTag: "T0"}).Return(page, nil).Once()

	got, err := NewPageFetcher(searcher, nil, 500).FetchPage(context.Background(), ports.PageRequest{Range: may1, Mode: domain.FetchModeSearch, AfterTag: "T0"})
	require.NoError(t, err)

	assert.Equal(t, page, got)
	searcher.AssertExpectations(t)
	searcher.AssertNotCalled(t, "GetCompletionDetails", mock.Anything, mock.Anything)
}

func TestPageFetcher_CompletionModeBatchesAndAttaches(t *testing.T) {
	searcher := new(MockOrderSearcher)
	page := &domain.Page{Success: true, Orders: []domain.Order{{OrderNo: "A"}, {OrderNo: "B"}, {OrderNo: "C"}, {OrderNo: "A"}}}
	searcher.On("SearchOrders", mock.Anything, mock.Anything).Return(page, nil).Once()
	searcher.On("GetCompletionDetails", mock.Anything, []string{"A", "B"}).Return(&domain.CompletionBatch{
		Success: true,
		Details: map[string]domain.CompletionDetails{"A": *finished("success"), "B": *finished("on_route")},
	}, nil).Once()
	searcher.On("GetCompletionDetails", mock.Anything, []string{"C"}).Return(&domain.CompletionBatch{
		Success: true,
		Details: map[string]domain.CompletionDetails{"C": *finished("failed")},
	}, nil).Once()

	cache := &memoryCompletionCache{}
	got, err := NewPageFetcher(searcher, cache, 2).FetchPage(context.Background(), ports.PageRequest{Range: may1, Mode: domain.FetchModeCompletion})
	require.NoError(t, err)

	require.Len(t, got.Orders, 4)
	for _, o := range got.Orders {
		assert.NotNil(t, o.Completion, o.OrderNo)
	}
	assert.Equal(t, "on_route", got.Orders[1].Completion.Data.Status)
	searcher.AssertExpectations(t)

	assert.Len(t, cache.entries, 2)
	assert.Contains(t, cache.entries, "A")
	assert.Contains(t, cache.entries, "C")
}

func TestPageFetcher_CachedDetailsAreNotRequested(t *testing.T) {
	searcher := new(MockOrderSearcher)
	searcher.On("SearchOrders", mock.Anything, mock.Anything).Return(&domain.Page{Success: true, Orders: []domain.Order{{OrderNo: "A"}, {OrderNo: "B"}}}, nil).Once()
	searcher.On("GetCompletionDetails", mock.Anything, []string{"B"}).Return(&domain.CompletionBatch{
		Success: true,
		Details: map[string]domain.CompletionDetails{"B": *finished("success")},
	}, nil).Once()

	cache := &memoryCompletionCache{entries: map[string]domain.CompletionDetails{"A": *finished("failed")}}
	got, err := NewPageFetcher(searcher, cache, 500).FetchPage(context.Background(), ports.PageRequest{Range: may1, Mode: domain.FetchModeCompletion})
	require.NoError(t, err)

	assert.Equal(t, "failed", got.Orders[0].Completion.Data.Status)
	assert.Equal(t, "success", got.Orders[1].Completion.Data.Status)
	searcher.AssertExpectations(t)
}

func TestPageFetcher_AllCachedSkipsUpstream(t *testing.T) {
	searcher := new(MockOrderSearcher)
	cache := &memoryCompletionCache{entries: map[string]domain.CompletionDetails{"A": *finished("success")}}

	batch, err := NewPageFetcher(searcher, cache, 500).CompletionDetails(context.Background(), []string{"A"})
	require.NoError(t, err)

	assert.True(t, batch.Success)
	assert.Len(t, batch.Details, 1)
	searcher.AssertNotCalled(t, "GetCompletionDetails", mock.Anything, mock.Anything)
}

func TestPageFetcher_BatchSoftFailureFailsPage(t *testing.T) {
	searcher := new(MockOrderSearcher)
	searcher.On("SearchOrders", mock.Anything, mock.Anything).Return(&domain.Page{Success: true, AfterTag: "T1", Orders: []domain.Order{{OrderNo: "A"}}}, nil).Once()
	searcher.On("GetCompletionDetails", mock.Anything, mock.Anything).Return(&domain.CompletionBatch{Success: false, Code: "ERR_AUTH", Message: "Invalid key"}, nil).Once()

	got, err := NewPageFetcher(searcher, nil, 500).FetchPage(context.Background(), ports.PageRequest{Range: may1, Mode: domain.FetchModeCompletion})
	require.NoError(t, err)

	assert.False(t, got.Success)
	assert.Equal(t, "ERR_AUTH", got.Code)
	assert.Empty(t, got.AfterTag)
}

func TestPageFetcher_CompletionTransportError(t *testing.T) {
	boom := errors.New("timeout")
	searcher := new(MockOrderSearcher)
	searcher.On("SearchOrders", mock.Anything, mock.Anything).Return(&domain.Page{Success: true, Orders: []domain.Order{{OrderNo: "A"}}}, nil).Once()
	searcher.On("GetCompletionDetails", mock.Anything, mock.Anything).Return(nil, boom).Once()

	_, err := NewPageFetcher(searcher, nil, 500).FetchPage(context.Background(), ports.PageRequest{Range: may1, Mode: domain.FetchModeCompletion})
	assert.ErrorIs(t, err, boom)
}

func TestPageFetcher_SearchSoftFailurePassesThrough(t *testing.T) {
	searcher := new(MockOrderSearcher)
	searcher.On("SearchOrders", mock.Anything, mock.Anything).Return(domain.SoftFailure("ERR_DATE", "bad"), nil).Once()

	got, err := NewPageFetcher(searcher, nil, 500).FetchPage(context.Background(), ports.PageRequest{Range: may1, Mode: domain.FetchModeCompletion})
	require.NoError(t, err)
	assert.False(t, got.Success)
	searcher.AssertNotCalled(t, "GetCompletionDetails", mock.Anything, mock.Anything)
}

func TestChunks(t *testing.T) {
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, chunks([]string{"a", "b", "c"}, 2))
	assert.Nil(t, chunks(nil, 2))
}
